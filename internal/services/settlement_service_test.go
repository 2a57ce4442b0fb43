package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vya-logistics/vya-backend/internal/cache"
	"github.com/vya-logistics/vya-backend/internal/gateway"
	"github.com/vya-logistics/vya-backend/internal/models"
	"github.com/vya-logistics/vya-backend/internal/notify"
	repo "github.com/vya-logistics/vya-backend/internal/repository"
	"github.com/vya-logistics/vya-backend/internal/worker"
)

type settlementFixture struct {
	svc      *SettlementService
	packages *mockPackages
	trips    *mockTrips
	users    *mockUsers
	wallets  *mockWallets
	configs  *mockConfigs
	notifs   *mockNotifications
	gw       *mockGateway
	pool     *worker.Pool
}

func newSettlementFixture(webhookToken string) *settlementFixture {
	f := &settlementFixture{
		packages: &mockPackages{},
		trips:    &mockTrips{},
		users:    &mockUsers{},
		wallets:  &mockWallets{},
		configs:  &mockConfigs{},
		notifs:   &mockNotifications{},
		gw:       &mockGateway{},
	}
	f.pool = worker.NewPool(1, nil)
	emitter := notify.NewEmitter(f.notifs, f.pool)
	f.svc = NewSettlementService(f.packages, f.trips, f.users, f.wallets, f.configs, f.gw, cache.New(time.Minute), emitter, webhookToken)
	return f
}

// drain waits for queued notification inserts to finish.
func (f *settlementFixture) drain() { f.pool.Stop() }

func searchingPackage(id string, price string) models.Package {
	return models.Package{
		ID:          id,
		SenderID:    "sender-1",
		SizeClass:   "small",
		Origin:      "Sao Paulo",
		Destination: "Rio de Janeiro",
		Price:       decimal.RequireFromString(price),
		Status:      models.PkgSearching,
	}
}

func TestInitiateChargeFallsBackToMockCharge(t *testing.T) {
	f := newSettlementFixture("")
	pkg := searchingPackage("pkg-1", "50.00")

	f.packages.On("GetByID", mock.Anything, "pkg-1").Return(pkg, nil)
	f.trips.On("NextForTraveler", mock.Anything, "traveler-1").Return(models.Trip{}, pgx.ErrNoRows)
	f.gw.On("Configured").Return(false)
	f.packages.On("ClaimForPayment", mock.Anything, "pkg-1", mock.MatchedBy(func(d repo.ChargeDetails) bool {
		return d.PaymentID == "MOCK_pkg-1" &&
			d.PixCopyPaste != "" &&
			strings.Contains(d.PixCopyPaste, "pkg-1") &&
			d.TripID == nil
	})).Return(true, nil)

	res, err := f.svc.InitiateCharge(context.Background(), "traveler-1", "pkg-1", "")
	require.NoError(t, err)
	assert.NotEmpty(t, res.CopyPasteCode)
	assert.True(t, res.Amount.Equal(decimal.RequireFromString("50.00")))
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, 5*time.Second)
	f.packages.AssertExpectations(t)
}

func TestInitiateChargeUsesGatewayWhenConfigured(t *testing.T) {
	f := newSettlementFixture("")
	pkg := searchingPackage("pkg-2", "80.00")

	f.packages.On("GetByID", mock.Anything, "pkg-2").Return(pkg, nil)
	f.trips.On("NextForTraveler", mock.Anything, "traveler-1").Return(models.Trip{ID: "trip-9"}, nil)
	f.gw.On("Configured").Return(true)
	f.users.On("GetByID", mock.Anything, "sender-1").Return(models.User{ID: "sender-1", Name: "Ana", CPF: "12345678900"}, nil)
	f.gw.On("FindOrCreateCustomer", mock.Anything, "Ana", "12345678900").Return("cus_1", nil).Once()
	f.gw.On("CreatePixCharge", mock.Anything, mock.MatchedBy(func(req gateway.ChargeRequest) bool {
		return req.CustomerID == "cus_1" && req.ExternalReference == "pkg-2" && req.Amount.Equal(pkg.Price)
	})).Return(gateway.Charge{ID: "pay_123", Status: "PENDING"}, nil)
	f.gw.On("GetPixQRCode", mock.Anything, "pay_123").Return(gateway.PixQRCode{EncodedImage: "img", Payload: "br-code"}, nil)
	f.packages.On("ClaimForPayment", mock.Anything, "pkg-2", mock.MatchedBy(func(d repo.ChargeDetails) bool {
		return d.PaymentID == "pay_123" && d.PixCopyPaste == "br-code" && d.TripID != nil && *d.TripID == "trip-9"
	})).Return(true, nil)

	res, err := f.svc.InitiateCharge(context.Background(), "traveler-1", "pkg-2", "")
	require.NoError(t, err)
	assert.Equal(t, "br-code", res.CopyPasteCode)
	assert.Equal(t, "img", res.QRImage)
	f.gw.AssertExpectations(t)
}

func TestInitiateChargeCachesGatewayCustomer(t *testing.T) {
	f := newSettlementFixture("")
	for _, id := range []string{"pkg-a", "pkg-b"} {
		pkg := searchingPackage(id, "10.00")
		f.packages.On("GetByID", mock.Anything, id).Return(pkg, nil)
		f.packages.On("ClaimForPayment", mock.Anything, id, mock.Anything).Return(true, nil)
	}
	f.trips.On("NextForTraveler", mock.Anything, mock.Anything).Return(models.Trip{}, pgx.ErrNoRows)
	f.gw.On("Configured").Return(true)
	f.users.On("GetByID", mock.Anything, "sender-1").Return(models.User{ID: "sender-1", Name: "Ana", CPF: "123.456.789-00"}, nil)
	f.gw.On("FindOrCreateCustomer", mock.Anything, "Ana", "12345678900").Return("cus_1", nil).Once()
	f.gw.On("CreatePixCharge", mock.Anything, mock.Anything).Return(gateway.Charge{ID: "pay_1"}, nil)
	f.gw.On("GetPixQRCode", mock.Anything, "pay_1").Return(gateway.PixQRCode{Payload: "p"}, nil)

	_, err := f.svc.InitiateCharge(context.Background(), "t", "pkg-a", "")
	require.NoError(t, err)
	_, err = f.svc.InitiateCharge(context.Background(), "t", "pkg-b", "")
	require.NoError(t, err)

	// Second charge reuses the memoized customer id.
	f.gw.AssertNumberOfCalls(t, "FindOrCreateCustomer", 1)
}

func TestInitiateChargeConflictWhenNotSearching(t *testing.T) {
	f := newSettlementFixture("")
	pkg := searchingPackage("pkg-3", "50.00")
	pkg.Status = models.PkgWaitingPickup

	f.packages.On("GetByID", mock.Anything, "pkg-3").Return(pkg, nil)

	_, err := f.svc.InitiateCharge(context.Background(), "traveler-1", "pkg-3", "")
	var cErr *ConflictError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, models.PkgWaitingPickup, cErr.CurrentStatus)
}

func TestInitiateChargeConflictOnClaimRace(t *testing.T) {
	f := newSettlementFixture("")
	pkg := searchingPackage("pkg-4", "50.00")

	claimed := pkg
	claimed.Status = models.PkgWaitingPayment
	f.packages.On("GetByID", mock.Anything, "pkg-4").Return(pkg, nil).Once()
	f.trips.On("NextForTraveler", mock.Anything, mock.Anything).Return(models.Trip{}, pgx.ErrNoRows)
	f.gw.On("Configured").Return(false)
	f.packages.On("ClaimForPayment", mock.Anything, "pkg-4", mock.Anything).Return(false, nil)
	f.packages.On("GetByID", mock.Anything, "pkg-4").Return(claimed, nil)

	_, err := f.svc.InitiateCharge(context.Background(), "traveler-1", "pkg-4", "")
	var cErr *ConflictError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, models.PkgWaitingPayment, cErr.CurrentStatus)
}

func paymentEvent(kind, paymentID string) WebhookEvent {
	var ev WebhookEvent
	ev.Event = kind
	ev.Payment.ID = paymentID
	return ev
}

func TestWebhookSettlesAndCreditsTraveler(t *testing.T) {
	f := newSettlementFixture("")
	tripID := "trip-1"
	pkg := searchingPackage("pkg-1", "50.00")
	pkg.Status = models.PkgWaitingPayment
	pkg.TripID = &tripID

	f.packages.On("GetByPaymentID", mock.Anything, "pay_1").Return(pkg, nil)
	f.packages.On("MarkPaid", mock.Anything, "pkg-1").Return(true, nil)
	f.trips.On("GetByID", mock.Anything, "trip-1").Return(models.Trip{ID: "trip-1", TravelerID: "traveler-7"}, nil)
	f.configs.On("Get", mock.Anything, "platform_fee_percent").Return("20", nil)
	f.wallets.On("CreditFromPackage", mock.Anything, "traveler-7",
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.RequireFromString("40.00")) }),
		"pkg-1").Return(nil)
	f.notifs.On("Create", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.UserID == "sender-1" && n.Kind == notify.KindPaymentReceived
	})).Return(nil)

	ack, err := f.svc.HandleGatewayEvent(context.Background(), "", paymentEvent("PAYMENT_RECEIVED", "pay_1"))
	require.NoError(t, err)
	assert.True(t, ack.Received)
	assert.False(t, ack.AlreadyProcessed)

	f.drain()
	f.wallets.AssertExpectations(t)
	f.notifs.AssertExpectations(t)
}

func TestWebhookDuplicateDeliveryIsNoOp(t *testing.T) {
	f := newSettlementFixture("")
	pkg := searchingPackage("pkg-1", "50.00")
	pkg.Status = models.PkgWaitingPickup

	f.packages.On("GetByPaymentID", mock.Anything, "pay_1").Return(pkg, nil)

	ack, err := f.svc.HandleGatewayEvent(context.Background(), "", paymentEvent("PAYMENT_RECEIVED", "pay_1"))
	require.NoError(t, err)
	assert.True(t, ack.Received)
	assert.True(t, ack.AlreadyProcessed)
	f.packages.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
	f.wallets.AssertNotCalled(t, "CreditFromPackage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookUnknownPaymentAcknowledged(t *testing.T) {
	f := newSettlementFixture("")
	f.packages.On("GetByPaymentID", mock.Anything, "pay_x").Return(models.Package{}, pgx.ErrNoRows)

	ack, err := f.svc.HandleGatewayEvent(context.Background(), "", paymentEvent("PAYMENT_CONFIRMED", "pay_x"))
	require.NoError(t, err)
	assert.True(t, ack.Received)
}

func TestWebhookIgnoresIrrelevantEvents(t *testing.T) {
	f := newSettlementFixture("")

	ack, err := f.svc.HandleGatewayEvent(context.Background(), "", paymentEvent("PAYMENT_OVERDUE", "pay_1"))
	require.NoError(t, err)
	assert.True(t, ack.Ignored)
	f.packages.AssertNotCalled(t, "GetByPaymentID", mock.Anything, mock.Anything)
}

func TestWebhookRejectsBadToken(t *testing.T) {
	f := newSettlementFixture("secret")

	_, err := f.svc.HandleGatewayEvent(context.Background(), "wrong", paymentEvent("PAYMENT_RECEIVED", "pay_1"))
	assert.ErrorIs(t, err, ErrInvalidWebhookToken)
}

func TestWebhookAcceptsWithoutConfiguredToken(t *testing.T) {
	f := newSettlementFixture("")
	f.packages.On("GetByPaymentID", mock.Anything, "pay_1").Return(models.Package{}, pgx.ErrNoRows)

	// Development-mode bypass: no secret configured, any token accepted.
	ack, err := f.svc.HandleGatewayEvent(context.Background(), "whatever", paymentEvent("PAYMENT_RECEIVED", "pay_1"))
	require.NoError(t, err)
	assert.True(t, ack.Received)
}

func TestWebhookCreditFailureDoesNotFailAck(t *testing.T) {
	f := newSettlementFixture("")
	tripID := "trip-1"
	pkg := searchingPackage("pkg-1", "50.00")
	pkg.Status = models.PkgWaitingPayment
	pkg.TripID = &tripID

	f.packages.On("GetByPaymentID", mock.Anything, "pay_1").Return(pkg, nil)
	f.packages.On("MarkPaid", mock.Anything, "pkg-1").Return(true, nil)
	f.trips.On("GetByID", mock.Anything, "trip-1").Return(models.Trip{ID: "trip-1", TravelerID: "traveler-7"}, nil)
	f.configs.On("Get", mock.Anything, "platform_fee_percent").Return("", errors.New("config down"))
	f.wallets.On("CreditFromPackage", mock.Anything, "traveler-7", mock.Anything, "pkg-1").Return(errors.New("db down"))
	f.notifs.On("Create", mock.Anything, mock.Anything).Return(nil)

	ack, err := f.svc.HandleGatewayEvent(context.Background(), "", paymentEvent("PAYMENT_RECEIVED", "pay_1"))
	require.NoError(t, err)
	assert.True(t, ack.Received)

	// Sender is still notified even though crediting failed.
	f.drain()
	f.notifs.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.UserID == "sender-1"
	}))
}

func TestTravelerAmount(t *testing.T) {
	cases := []struct {
		price, fee, want string
	}{
		{"100.00", "20", "80.00"},
		{"100.00", "0", "100.00"},
		{"50.00", "20", "40.00"},
		{"99.99", "33", "66.99"},
		{"0.01", "20", "0.01"},
	}
	for _, c := range cases {
		got := TravelerAmount(decimal.RequireFromString(c.price), decimal.RequireFromString(c.fee))
		assert.True(t, got.Equal(decimal.RequireFromString(c.want)),
			"price %s fee %s: got %s want %s", c.price, c.fee, got, c.want)
	}
}

func TestInitiateChargeRejectsForeignTrip(t *testing.T) {
	f := newSettlementFixture("")
	f.packages.On("GetByID", mock.Anything, "pkg-1").Return(searchingPackage("pkg-1", "50.00"), nil)
	f.trips.On("GetByID", mock.Anything, "trip-9").Return(models.Trip{ID: "trip-9", TravelerID: "someone-else"}, nil)

	_, err := f.svc.InitiateCharge(context.Background(), "traveler-1", "pkg-1", "trip-9")
	require.ErrorIs(t, err, ErrForbidden)
	f.packages.AssertNotCalled(t, "ClaimForPayment", mock.Anything, mock.Anything, mock.Anything)
}

func TestInitiateChargeRejectsUnknownTrip(t *testing.T) {
	f := newSettlementFixture("")
	f.packages.On("GetByID", mock.Anything, "pkg-1").Return(searchingPackage("pkg-1", "50.00"), nil)
	f.trips.On("GetByID", mock.Anything, "trip-404").Return(models.Trip{}, pgx.ErrNoRows)

	_, err := f.svc.InitiateCharge(context.Background(), "traveler-1", "pkg-1", "trip-404")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "trip_id", vErr.Field)
}

func TestInitiateChargeAcceptsOwnTrip(t *testing.T) {
	f := newSettlementFixture("")
	f.packages.On("GetByID", mock.Anything, "pkg-1").Return(searchingPackage("pkg-1", "50.00"), nil)
	f.trips.On("GetByID", mock.Anything, "trip-1").Return(models.Trip{ID: "trip-1", TravelerID: "traveler-1"}, nil)
	f.gw.On("Configured").Return(false)
	f.packages.On("ClaimForPayment", mock.Anything, "pkg-1", mock.MatchedBy(func(d repo.ChargeDetails) bool {
		return d.TripID != nil && *d.TripID == "trip-1"
	})).Return(true, nil)

	_, err := f.svc.InitiateCharge(context.Background(), "traveler-1", "pkg-1", "trip-1")
	require.NoError(t, err)
	f.packages.AssertExpectations(t)
}
