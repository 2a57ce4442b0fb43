package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/vya-logistics/vya-backend/internal/gateway"
	"github.com/vya-logistics/vya-backend/internal/models"
	repo "github.com/vya-logistics/vya-backend/internal/repository"
)

type mockPackages struct{ mock.Mock }

func (m *mockPackages) Create(ctx context.Context, p models.Package) (models.Package, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(models.Package), args.Error(1)
}

func (m *mockPackages) GetByID(ctx context.Context, id string) (models.Package, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Package), args.Error(1)
}

func (m *mockPackages) GetByPaymentID(ctx context.Context, paymentID string) (models.Package, error) {
	args := m.Called(ctx, paymentID)
	return args.Get(0).(models.Package), args.Error(1)
}

func (m *mockPackages) ListBySender(ctx context.Context, senderID string, limit, offset int) ([]models.Package, error) {
	args := m.Called(ctx, senderID, limit, offset)
	return args.Get(0).([]models.Package), args.Error(1)
}

func (m *mockPackages) ListSearching(ctx context.Context, limit, offset int) ([]models.Package, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.Package), args.Error(1)
}

func (m *mockPackages) ClaimForPayment(ctx context.Context, id string, d repo.ChargeDetails) (bool, error) {
	args := m.Called(ctx, id, d)
	return args.Bool(0), args.Error(1)
}

func (m *mockPackages) MarkPaid(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockPackages) UpdateStatus(ctx context.Context, id string, from, to models.PackageStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

type mockTrips struct{ mock.Mock }

func (m *mockTrips) Create(ctx context.Context, t models.Trip) (models.Trip, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(models.Trip), args.Error(1)
}

func (m *mockTrips) GetByID(ctx context.Context, id string) (models.Trip, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Trip), args.Error(1)
}

func (m *mockTrips) NextForTraveler(ctx context.Context, travelerID string) (models.Trip, error) {
	args := m.Called(ctx, travelerID)
	return args.Get(0).(models.Trip), args.Error(1)
}

func (m *mockTrips) ListByTraveler(ctx context.Context, travelerID string) ([]models.Trip, error) {
	args := m.Called(ctx, travelerID)
	return args.Get(0).([]models.Trip), args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) Create(ctx context.Context, name, email, phone, cpf, passwordHash, role string) (models.User, error) {
	args := m.Called(ctx, name, email, phone, cpf, passwordHash, role)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUsers) GetByID(ctx context.Context, id string) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUsers) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

type mockWallets struct{ mock.Mock }

func (m *mockWallets) Get(ctx context.Context, userID string) (models.Wallet, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.Wallet), args.Error(1)
}

func (m *mockWallets) CompareAndSwapAvailable(ctx context.Context, userID string, expected, to decimal.Decimal) (bool, error) {
	args := m.Called(ctx, userID, expected, to)
	return args.Bool(0), args.Error(1)
}

func (m *mockWallets) RestoreAvailable(ctx context.Context, userID string, amount decimal.Decimal) error {
	return m.Called(ctx, userID, amount).Error(0)
}

func (m *mockWallets) CreditFromPackage(ctx context.Context, userID string, amount decimal.Decimal, packageID string) error {
	return m.Called(ctx, userID, amount, packageID).Error(0)
}

type mockWalletTxns struct{ mock.Mock }

func (m *mockWalletTxns) Create(ctx context.Context, t models.WalletTransaction) (models.WalletTransaction, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(models.WalletTransaction), args.Error(1)
}

func (m *mockWalletTxns) UpdateStatus(ctx context.Context, id string, status models.WalletTxnStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockWalletTxns) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.WalletTransaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.WalletTransaction), args.Error(1)
}

type mockConfigs struct{ mock.Mock }

func (m *mockConfigs) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockConfigs) Set(ctx context.Context, key, value string) error {
	return m.Called(ctx, key, value).Error(0)
}

type mockNotifications struct{ mock.Mock }

func (m *mockNotifications) Create(ctx context.Context, n models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockNotifications) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *mockNotifications) MarkRead(ctx context.Context, id, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

type mockGateway struct{ mock.Mock }

func (m *mockGateway) Configured() bool {
	return m.Called().Bool(0)
}

func (m *mockGateway) FindOrCreateCustomer(ctx context.Context, name, cpfCnpj string) (string, error) {
	args := m.Called(ctx, name, cpfCnpj)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) CreatePixCharge(ctx context.Context, req gateway.ChargeRequest) (gateway.Charge, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(gateway.Charge), args.Error(1)
}

func (m *mockGateway) GetPixQRCode(ctx context.Context, chargeID string) (gateway.PixQRCode, error) {
	args := m.Called(ctx, chargeID)
	return args.Get(0).(gateway.PixQRCode), args.Error(1)
}

func (m *mockGateway) CreateTransfer(ctx context.Context, req gateway.TransferRequest) (gateway.Transfer, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(gateway.Transfer), args.Error(1)
}
