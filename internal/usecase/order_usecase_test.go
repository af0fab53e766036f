package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
	"github.com/iho/creditledger/internal/usecase/mocks"
)

func TestOrderUseCase_CreateOrder(t *testing.T) {
	tests := []struct {
		name        string
		planID      string
		wantAmount  int64
		wantCredits int64
	}{
		{"basic", "Basic", 100, 100},
		{"advanced", "Advanced", 500, 500},
		{"business", "Business", 1000, 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			gateway := mocks.NewMockPaymentGateway(ctrl)
			ledger := mocks.NewMockLedgerRepository()
			outbox := mocks.NewMockOutboxRepository()

			gateway.EXPECT().
				CreateOrder(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, req domain.CreateOrderRequest) (*domain.GatewayOrder, error) {
					assert.Equal(t, tt.wantAmount, req.Amount)
					assert.Equal(t, "INR", req.Currency)
					assert.Equal(t, "mock-id-1", req.Receipt)

					entry, err := ledger.GetByID(context.Background(), req.Receipt)
					require.NoError(t, err, "entry must be committed before the gateway call")
					assert.False(t, entry.Settled)

					return &domain.GatewayOrder{
						ID:       "order_1",
						Amount:   req.Amount,
						Currency: req.Currency,
						Receipt:  req.Receipt,
						Status:   domain.OrderStatusCreated,
					}, nil
				})

			uc := usecase.NewOrderUseCase(mocks.NewMockTransactionManager(), ledger, outbox, gateway, mocks.NewMockIDGenerator(), "inr", nil)

			res, err := uc.CreateOrder(context.Background(), usecase.CreateOrderInput{AccountID: "acc-1", PlanID: tt.planID})
			require.NoError(t, err)

			assert.Equal(t, "order_1", res.Order.ID)
			assert.Equal(t, tt.wantCredits, res.Entry.Credits)
			assert.Equal(t, "acc-1", res.Entry.AccountID)
			assert.Len(t, outbox.Events(domain.EventTypeOrderCreated), 1)
		})
	}
}

func TestOrderUseCase_CreateOrder_AdvancedEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockPaymentGateway(ctrl)
	gateway.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(&domain.GatewayOrder{ID: "order_adv"}, nil)

	ledger := mocks.NewMockLedgerRepository()
	uc := usecase.NewOrderUseCase(mocks.NewMockTransactionManager(), ledger, mocks.NewMockOutboxRepository(), gateway, mocks.NewMockIDGenerator(), "INR", nil)

	res, err := uc.CreateOrder(context.Background(), usecase.CreateOrderInput{AccountID: "acc-1", PlanID: "Advanced"})
	require.NoError(t, err)

	stored, err := ledger.GetByID(context.Background(), res.Entry.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, int64(500), stored.Credits)
	assert.Equal(t, domain.PlanAdvanced, stored.Plan)
	assert.False(t, stored.Settled)
}

func TestOrderUseCase_CreateOrder_RejectsBeforeWriting(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.CreateOrderInput
		wantErr error
	}{
		{"unknown plan", usecase.CreateOrderInput{AccountID: "acc-1", PlanID: "Gold"}, domain.ErrUnknownPlan},
		{"lowercase plan", usecase.CreateOrderInput{AccountID: "acc-1", PlanID: "basic"}, domain.ErrUnknownPlan},
		{"missing plan", usecase.CreateOrderInput{AccountID: "acc-1"}, domain.ErrMissingDetails},
		{"missing account", usecase.CreateOrderInput{PlanID: "Basic"}, domain.ErrMissingDetails},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			gateway := mocks.NewMockPaymentGateway(ctrl)
			ledger := mocks.NewMockLedgerRepository()
			outbox := mocks.NewMockOutboxRepository()

			txManager := mocks.NewMockTransactionManager()
			txManager.BeginFunc = func(context.Context) (usecase.Transaction, error) {
				t.Fatal("no transaction expected")
				return nil, nil
			}

			uc := usecase.NewOrderUseCase(txManager, ledger, outbox, gateway, mocks.NewMockIDGenerator(), "INR", nil)

			_, err := uc.CreateOrder(context.Background(), tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, 0, ledger.Count())
			assert.Empty(t, outbox.Events(""))
		})
	}
}

func TestOrderUseCase_CreateOrder_GatewayFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockPaymentGateway(ctrl)
	gateway.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(nil, errors.New("gateway down"))

	metrics := mocks.NewMockMetrics()
	ledger := mocks.NewMockLedgerRepository()
	uc := usecase.NewOrderUseCase(mocks.NewMockTransactionManager(), ledger, mocks.NewMockOutboxRepository(), gateway, mocks.NewMockIDGenerator(), "INR", metrics)

	_, err := uc.CreateOrder(context.Background(), usecase.CreateOrderInput{AccountID: "acc-1", PlanID: "Basic"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway down")

	// The unsettled entry stays behind; it is never credited without a paid order.
	assert.Equal(t, 1, ledger.Count())
	assert.Equal(t, 1, metrics.Count("gateway:create_order:error"))
	assert.Equal(t, 0, metrics.Count("order:basic"))
}

func TestOrderUseCase_ListEntries(t *testing.T) {
	ledger := mocks.NewMockLedgerRepository()
	var gotLimit int
	ledger.ListByAccountFunc = func(_ context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
		gotLimit = limit
		return []*domain.LedgerEntry{{ID: "e1", AccountID: accountID}}, nil
	}

	uc := usecase.NewOrderUseCase(mocks.NewMockTransactionManager(), ledger, mocks.NewMockOutboxRepository(), nil, mocks.NewMockIDGenerator(), "INR", nil)

	entries, err := uc.ListEntries(context.Background(), usecase.ListEntriesInput{AccountID: "acc-1", Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 100, gotLimit)

	_, err = uc.ListEntries(context.Background(), usecase.ListEntriesInput{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
