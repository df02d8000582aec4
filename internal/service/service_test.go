package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pharmacy-backend/internal/client"
	apperr "pharmacy-backend/internal/errors"
	"pharmacy-backend/internal/model"
	"pharmacy-backend/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.CartItem{},
		&model.PaymentOrder{},
	))

	return db
}

// fakePaypal scripts the gateway responses and records call counts.
type fakePaypal struct {
	createResp *client.CreateOrderResponse
	createErr  error
	captureResp *client.CaptureOrderResponse
	captureErr  error

	createCalls  int
	captureCalls int
}

func (f *fakePaypal) CreateOrder(ctx context.Context, total decimal.Decimal, itemCount int) (*client.CreateOrderResponse, error) {
	f.createCalls++
	return f.createResp, f.createErr
}

func (f *fakePaypal) CaptureOrder(ctx context.Context, orderID string) (*client.CaptureOrderResponse, error) {
	f.captureCalls++
	return f.captureResp, f.captureErr
}

type fakeBraintree struct {
	txID string
	err  error
}

func (f *fakeBraintree) ChargeOneTime(ctx context.Context, paymentToken string, amount decimal.Decimal) (string, error) {
	return f.txID, f.err
}

type paymentFixture struct {
	db          *gorm.DB
	paypal      *fakePaypal
	braintree   *fakeBraintree
	paymentRepo repository.PaymentRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	svc         PaymentService
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	db := newTestDB(t)
	paypal := &fakePaypal{}
	braintree := &fakeBraintree{}
	paymentRepo := repository.NewPaymentRepository(db)
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)

	return &paymentFixture{
		db:          db,
		paypal:      paypal,
		braintree:   braintree,
		paymentRepo: paymentRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		svc: NewPaymentService(
			db, paypal, braintree,
			paymentRepo, cartRepo, productRepo,
			zerolog.Nop(),
		),
	}
}

func requireValidation(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, apperr.ErrValidation)
}
