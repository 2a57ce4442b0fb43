package asaas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vya-logistics/vya-backend/internal/gateway"
)

// APIError carries the HTTP status and raw body of a failed gateway call.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("asaas: status %d: %s", e.Status, e.Body)
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ gateway.PaymentGateway = (*Client)(nil)

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Configured() bool { return c.apiKey != "" }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access_token", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Body: string(raw)}
	}
	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

type customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	CpfCnpj string `json:"cpfCnpj"`
}

type customerList struct {
	Data []customer `json:"data"`
}

func (c *Client) FindOrCreateCustomer(ctx context.Context, name, cpfCnpj string) (string, error) {
	var list customerList
	err := c.do(ctx, http.MethodGet, "/customers?cpfCnpj="+url.QueryEscape(cpfCnpj), nil, &list)
	if err == nil && len(list.Data) > 0 {
		return list.Data[0].ID, nil
	}
	// Not found (or lookup failed): try to create.
	var created customer
	if err := c.do(ctx, http.MethodPost, "/customers", customer{Name: name, CpfCnpj: cpfCnpj}, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

type chargeBody struct {
	Customer          string `json:"customer,omitempty"`
	BillingType       string `json:"billingType"`
	Value             string `json:"value"`
	Description       string `json:"description,omitempty"`
	ExternalReference string `json:"externalReference,omitempty"`
	DueDate           string `json:"dueDate"`
}

type chargeResp struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (c *Client) CreatePixCharge(ctx context.Context, req gateway.ChargeRequest) (gateway.Charge, error) {
	body := chargeBody{
		Customer:          req.CustomerID,
		BillingType:       "PIX",
		Value:             req.Amount.StringFixed(2),
		Description:       req.Description,
		ExternalReference: req.ExternalReference,
		DueDate:           req.DueDate.Format("2006-01-02"),
	}
	var out chargeResp
	if err := c.do(ctx, http.MethodPost, "/payments", body, &out); err != nil {
		return gateway.Charge{}, err
	}
	return gateway.Charge{ID: out.ID, Status: out.Status}, nil
}

type qrResp struct {
	EncodedImage string `json:"encodedImage"`
	Payload      string `json:"payload"`
}

func (c *Client) GetPixQRCode(ctx context.Context, chargeID string) (gateway.PixQRCode, error) {
	var out qrResp
	if err := c.do(ctx, http.MethodGet, "/payments/"+chargeID+"/pixQrCode", nil, &out); err != nil {
		return gateway.PixQRCode{}, err
	}
	return gateway.PixQRCode{EncodedImage: out.EncodedImage, Payload: out.Payload}, nil
}

type transferBody struct {
	Value             string `json:"value"`
	PixAddressKey     string `json:"pixAddressKey"`
	PixAddressKeyType string `json:"pixAddressKeyType"`
	Description       string `json:"description,omitempty"`
	OperationType     string `json:"operationType"`
}

type transferResp struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (c *Client) CreateTransfer(ctx context.Context, req gateway.TransferRequest) (gateway.Transfer, error) {
	body := transferBody{
		Value:             req.Amount.StringFixed(2),
		PixAddressKey:     req.PixKey,
		PixAddressKeyType: req.PixKeyType,
		Description:       req.Description,
		OperationType:     "PIX",
	}
	var out transferResp
	if err := c.do(ctx, http.MethodPost, "/transfers", body, &out); err != nil {
		return gateway.Transfer{}, err
	}
	return gateway.Transfer{ID: out.ID, Status: out.Status}, nil
}
