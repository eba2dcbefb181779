package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shopfront/internal/model"
)

// MockCartRepository is a mock implementation of repository.CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetOrCreateCart(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockCartRepository) ListItems(ctx context.Context, cartID uuid.UUID) ([]model.LineItem, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LineItem), args.Error(1)
}

func (m *MockCartRepository) UpsertItem(ctx context.Context, cartID uuid.UUID, productID string, quantity int) error {
	args := m.Called(ctx, cartID, productID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteItem(ctx context.Context, cartID uuid.UUID, productID string) error {
	args := m.Called(ctx, cartID, productID)
	return args.Error(0)
}

func (m *MockCartRepository) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

func product(id, price string) model.Product {
	return model.Product{
		ID:    id,
		Name:  "Product " + id,
		Price: decimal.RequireFromString(price),
		Stock: 10,
	}
}

func newTestSession(t *testing.T) (*Session, *MockCartRepository, uuid.UUID, uuid.UUID) {
	t.Helper()
	sessionID := uuid.New()
	cartID := uuid.New()
	repo := new(MockCartRepository)
	sess := NewSession(sessionID, repo, zerolog.Nop())
	return sess, repo, sessionID, cartID
}

func TestSession_AddItem_EmptyCart(t *testing.T) {
	sess, repo, sessionID, cartID := newTestSession(t)
	ctx := context.Background()

	repo.On("GetOrCreateCart", mock.Anything, sessionID).Return(cartID, nil).Once()
	repo.On("UpsertItem", mock.Anything, cartID, "p1", 1).Return(nil).Once()

	state := sess.AddItem(ctx, product("p1", "10.00"))

	require.Len(t, state.Items, 1)
	assert.Equal(t, "p1", state.Items[0].ID)
	assert.Equal(t, 1, state.Items[0].Quantity)
	assert.Equal(t, 1, state.ItemCount)
	assert.True(t, state.Total.Equal(decimal.RequireFromString("10.00")))

	repo.AssertExpectations(t)
}

// Adding the same product twice increments the single line instead of
// duplicating it.
func TestSession_AddItem_Twice(t *testing.T) {
	sess, repo, sessionID, cartID := newTestSession(t)
	ctx := context.Background()

	// The cart id is resolved once and cached for the session lifetime.
	repo.On("GetOrCreateCart", mock.Anything, sessionID).Return(cartID, nil).Once()
	repo.On("UpsertItem", mock.Anything, cartID, "p1", 1).Return(nil).Once()
	repo.On("UpsertItem", mock.Anything, cartID, "p1", 2).Return(nil).Once()

	sess.AddItem(ctx, product("p1", "10.00"))
	state := sess.AddItem(ctx, product("p1", "10.00"))

	require.Len(t, state.Items, 1)
	assert.Equal(t, 2, state.Items[0].Quantity)
	assert.Equal(t, 2, state.ItemCount)
	assert.True(t, state.Total.Equal(decimal.RequireFromString("20.00")))

	repo.AssertExpectations(t)
}

func TestSession_RemoveItem(t *testing.T) {
	sess, repo, sessionID, cartID := newTestSession(t)
	ctx := context.Background()

	serverItems := []model.LineItem{
		{Product: product("p1", "10.00"), Quantity: 2},
		{Product: product("p2", "5.00"), Quantity: 1},
	}

	repo.On("GetOrCreateCart", mock.Anything, sessionID).Return(cartID, nil).Once()
	repo.On("ListItems", mock.Anything, cartID).Return(serverItems, nil).Once()
	repo.On("DeleteItem", mock.Anything, cartID, "p1").Return(nil).Once()

	sess.Refresh(ctx)
	state := sess.RemoveItem(ctx, "p1")

	require.Len(t, state.Items, 1)
	assert.Equal(t, "p2", state.Items[0].ID)
	assert.Equal(t, 1, state.ItemCount)
	assert.True(t, state.Total.Equal(decimal.RequireFromString("5.00")))

	repo.AssertExpectations(t)
}

func TestSession_SetQuantity(t *testing.T) {
	sess, repo, sessionID, cartID := newTestSession(t)
	ctx := context.Background()

	serverItems := []model.LineItem{
		{Product: product("p1", "10.00"), Quantity: 1},
	}

	repo.On("GetOrCreateCart", mock.Anything, sessionID).Return(cartID, nil).Once()
	repo.On("ListItems", mock.Anything, cartID).Return(serverItems, nil).Once()
	repo.On("UpsertItem", mock.Anything, cartID, "p1", 5).Return(nil).Once()

	sess.Refresh(ctx)
	state := sess.SetQuantity(ctx, "p1", 5)

	require.Len(t, state.Items, 1)
	assert.Equal(t, 5, state.Items[0].Quantity)
	assert.True(t, state.Total.Equal(decimal.RequireFromString("50.00")))

	repo.AssertExpectations(t)
}

// Setting quantity to zero removes the line entirely.
func TestSession_SetQuantity_Zero(t *testing.T) {
	sess, repo, sessionID, cartID := newTestSession(t)
	ctx := context.Background()

	serverItems := []model.LineItem{
		{Product: product("p1", "10.00"), Quantity: 2},
	}

	repo.On("GetOrCreateCart", mock.Anything, sessionID).Return(cartID, nil).Once()
	repo.On("ListItems", mock.Anything, cartID).Return(serverItems, nil).Once()
	repo.On("DeleteItem", mock.Anything, cartID, "p1").Return(nil).Once()

	sess.Refresh(ctx)
	state := sess.SetQuantity(ctx, "p1", 0)

	assert.Empty(t, state.Items)
	assert.Equal(t, 0, state.ItemCount)
	assert.True(t, state.Total.IsZero())

	repo.AssertExpectations(t)
}

// A negative quantity is rejected before any state change or store call.
func TestSession_SetQuantity_Negative(t *testing.T) {
	sess, repo, sessionID, cartID := newTestSession(t)
	ctx := context.Background()

	serverItems := []model.LineItem{
		{Product: product("p1", "10.00"), Quantity: 2},
	}

	repo.On("GetOrCreateCart", mock.Anything, sessionID).Return(cartID, nil).Once()
	repo.On("ListItems", mock.Anything, cartID).Return(serverItems, nil).Once()

	before := sess.Refresh(ctx)
	after := sess.SetQuantity(ctx, "p1", -1)

	assert.Equal(t, before.ItemCount, after.ItemCount)
	assert.True(t, before.Total.Equal(after.Total))
	require.Len(t, after.Items, 1)
	assert.Equal(t, 2, after.Items[0].Quantity)

	repo.AssertNotCalled(t, "UpsertItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "DeleteItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestSession_Clear(t *testing.T) {
	sess, repo, sessionID, cartID := newTestSession(t)
	ctx := context.Background()

	serverItems := []model.LineItem{
		{Product: product("p1", "10.00"), Quantity: 2},
		{Product: product("p2", "5.00"), Quantity: 3},
	}

	repo.On("GetOrCreateCart", mock.Anything, sessionID).Return(cartID, nil).Once()
	repo.On("ListItems", mock.Anything, cartID).Return(serverItems, nil).Once()
	repo.On("ClearCart", mock.Anything, cartID).Return(nil).Once()

	sess.Refresh(ctx)
	state := sess.Clear(ctx)

	assert.Empty(t, state.Items)
	assert.Equal(t, 0, state.ItemCount)
	assert.True(t, state.Total.IsZero())

	repo.AssertExpectations(t)
}

// A failed write discards the optimistic change: the follow-up refresh
// restores the last authoritative server snapshot.
func TestSession_AddItem_WriteFails_RevertsToServerState(t *testing.T) {
	sess, repo, sessionID, cartID := newTestSession(t)
	ctx := context.Background()

	serverItems := []model.LineItem{
		{Product: product("p1", "10.00"), Quantity: 1},
	}

	repo.On("GetOrCreateCart", mock.Anything, sessionID).Return(cartID, nil).Once()
	repo.On("ListItems", mock.Anything, cartID).Return(serverItems, nil)
	repo.On("UpsertItem", mock.Anything, cartID, "p1", 2).Return(model.ErrStoreUnavailable).Once()

	sess.Refresh(ctx)
	state := sess.AddItem(ctx, product("p1", "10.00"))

	// The optimistic quantity bump was rolled back by the refetch.
	require.Len(t, state.Items, 1)
	assert.Equal(t, 1, state.Items[0].Quantity)
	assert.Equal(t, 1, state.ItemCount)
	assert.True(t, state.Total.Equal(decimal.RequireFromString("10.00")))

	repo.AssertExpectations(t)
}

func TestSession_Refresh_Idempotent(t *testing.T) {
	sess, repo, sessionID, cartID := newTestSession(t)
	ctx := context.Background()

	serverItems := []model.LineItem{
		{Product: product("p1", "10.00"), Quantity: 2},
	}

	repo.On("GetOrCreateCart", mock.Anything, sessionID).Return(cartID, nil).Once()
	repo.On("ListItems", mock.Anything, cartID).Return(serverItems, nil).Twice()

	first := sess.Refresh(ctx)
	second := sess.Refresh(ctx)

	assert.Equal(t, first.ItemCount, second.ItemCount)
	assert.True(t, first.Total.Equal(second.Total))
	assert.Equal(t, first.Items, second.Items)

	repo.AssertExpectations(t)
}

// A store outage during refresh keeps the last known state instead of
// wiping the cart.
func TestSession_Refresh_FailureKeepsLastState(t *testing.T) {
	sess, repo, sessionID, cartID := newTestSession(t)
	ctx := context.Background()

	serverItems := []model.LineItem{
		{Product: product("p1", "10.00"), Quantity: 2},
	}

	repo.On("GetOrCreateCart", mock.Anything, sessionID).Return(cartID, nil).Once()
	repo.On("ListItems", mock.Anything, cartID).Return(serverItems, nil).Once()
	repo.On("ListItems", mock.Anything, cartID).Return(nil, model.ErrStoreUnavailable).Once()

	before := sess.Refresh(ctx)
	after := sess.Refresh(ctx)

	assert.Equal(t, before.ItemCount, after.ItemCount)
	assert.True(t, before.Total.Equal(after.Total))
	assert.Equal(t, StatusReady, sess.Status())

	repo.AssertExpectations(t)
}

func TestSession_StatusTransitions(t *testing.T) {
	sess, repo, sessionID, cartID := newTestSession(t)
	ctx := context.Background()

	assert.Equal(t, StatusUninitialized, sess.Status())

	repo.On("GetOrCreateCart", mock.Anything, sessionID).Return(cartID, nil).Once()
	repo.On("ListItems", mock.Anything, cartID).Return([]model.LineItem{}, nil).Once()

	sess.Refresh(ctx)
	assert.Equal(t, StatusReady, sess.Status())
}

// If the cart id cannot be resolved, the mutation falls back to a
// refresh which also fails; the session stays on its local view and
// does not panic or error out.
func TestSession_AddItem_CartResolutionFails(t *testing.T) {
	sess, repo, sessionID, _ := newTestSession(t)
	ctx := context.Background()

	repo.On("GetOrCreateCart", mock.Anything, sessionID).Return(uuid.Nil, model.ErrStoreUnavailable)

	state := sess.AddItem(ctx, product("p1", "10.00"))

	// The optimistic item survives locally; nothing was persisted.
	require.Len(t, state.Items, 1)
	assert.Equal(t, StatusReady, sess.Status())
	repo.AssertNotCalled(t, "UpsertItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
