package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shopfront/internal/model"
	"shopfront/internal/repository"
)

// Status describes the lifecycle of a cart session's local state.
type Status int

const (
	// StatusUninitialized means no state has been loaded or mutated yet.
	StatusUninitialized Status = iota
	// StatusLoading means a refresh against the store is in flight.
	StatusLoading
	// StatusReady means the local state is current (possibly optimistic).
	StatusReady
)

// String returns the status name for logging.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Session holds the in-memory cart state for one anonymous session and
// keeps it synchronized with the store gateway. Mutations apply
// optimistically to local state first, then issue the corresponding
// write; any write failure is resolved by a full refresh from the
// store, never by patching local state incrementally.
type Session struct {
	sessionID uuid.UUID
	repo      repository.CartRepository
	logger    zerolog.Logger

	// opMu serializes mutations including their remote phase, so a
	// second mutation can never observe a stale cart id or interleave
	// with another mutation's optimistic update.
	opMu sync.Mutex

	// mu guards the snapshot below for concurrent readers.
	mu      sync.RWMutex
	cartID  uuid.UUID
	hasCart bool
	state   model.CartState
	status  Status
}

// NewSession creates a cart session for the given session identity.
// The cart row itself is resolved lazily on first use.
func NewSession(sessionID uuid.UUID, repo repository.CartRepository, logger zerolog.Logger) *Session {
	return &Session{
		sessionID: sessionID,
		repo:      repo,
		logger: logger.With().
			Str("component", "cart-session").
			Str("session_id", sessionID.String()).
			Logger(),
		state:  model.EmptyCartState(),
		status: StatusUninitialized,
	}
}

// SessionID returns the owning session identity.
func (s *Session) SessionID() uuid.UUID {
	return s.sessionID
}

// State returns a copy of the current derived cart state.
func (s *Session) State() model.CartState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state)
}

// Status returns the current lifecycle status.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// AddItem increments the product's line by one, inserting a new line
// at quantity 1 if the product is not in the cart yet.
func (s *Session) AddItem(ctx context.Context, product model.Product) model.CartState {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	items := s.snapshotItems()
	quantity := 1
	found := false
	for i := range items {
		if items[i].ID == product.ID {
			items[i].Quantity++
			quantity = items[i].Quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, model.LineItem{Product: product, Quantity: 1})
	}
	s.applyOptimistic(items)

	cartID, err := s.resolveCartID(ctx)
	if err == nil {
		err = s.repo.UpsertItem(ctx, cartID, product.ID, quantity)
	}
	if err != nil {
		return s.recover(ctx, "add item", product.ID, err)
	}

	return s.State()
}

// RemoveItem removes the product's line entirely.
func (s *Session) RemoveItem(ctx context.Context, productID string) model.CartState {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	items := s.snapshotItems()
	kept := items[:0]
	for _, item := range items {
		if item.ID != productID {
			kept = append(kept, item)
		}
	}
	s.applyOptimistic(kept)

	cartID, err := s.resolveCartID(ctx)
	if err == nil {
		err = s.repo.DeleteItem(ctx, cartID, productID)
	}
	if err != nil {
		return s.recover(ctx, "remove item", productID, err)
	}

	return s.State()
}

// SetQuantity sets the product's line to the given quantity. A
// negative quantity is rejected as a no-op; zero removes the line.
func (s *Session) SetQuantity(ctx context.Context, productID string, quantity int) model.CartState {
	if quantity < 0 {
		return s.State()
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	items := s.snapshotItems()
	kept := items[:0]
	for _, item := range items {
		if item.ID == productID {
			item.Quantity = quantity
		}
		if item.Quantity > 0 {
			kept = append(kept, item)
		}
	}
	s.applyOptimistic(kept)

	cartID, err := s.resolveCartID(ctx)
	if err == nil {
		if quantity == 0 {
			err = s.repo.DeleteItem(ctx, cartID, productID)
		} else {
			err = s.repo.UpsertItem(ctx, cartID, productID, quantity)
		}
	}
	if err != nil {
		return s.recover(ctx, "set quantity", productID, err)
	}

	return s.State()
}

// Clear empties the cart.
func (s *Session) Clear(ctx context.Context) model.CartState {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.applyOptimistic(nil)

	cartID, err := s.resolveCartID(ctx)
	if err == nil {
		err = s.repo.ClearCart(ctx, cartID)
	}
	if err != nil {
		return s.recover(ctx, "clear cart", "", err)
	}

	return s.State()
}

// Refresh replaces the local state wholesale with the authoritative
// server state. This is the single resync path and the error-recovery
// mechanism for every mutation.
func (s *Session) Refresh(ctx context.Context) model.CartState {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.refresh(ctx)
}

// refresh must be called with opMu held.
func (s *Session) refresh(ctx context.Context) model.CartState {
	s.setStatus(StatusLoading)

	cartID, err := s.resolveCartID(ctx)
	if err == nil {
		var items []model.LineItem
		items, err = s.repo.ListItems(ctx, cartID)
		if err == nil {
			s.mu.Lock()
			s.state = Aggregate(items)
			s.status = StatusReady
			s.mu.Unlock()
			return s.State()
		}
	}

	// A store outage degrades to the last known state; the next
	// successful refresh reconciles.
	s.logger.Warn().Err(err).Msg("cart refresh failed, keeping last known state")
	s.setStatus(StatusReady)
	return s.State()
}

// recover logs a failed mutation and falls back to a full refresh,
// discarding whatever optimistic change was just applied. Must be
// called with opMu held.
func (s *Session) recover(ctx context.Context, op, productID string, err error) model.CartState {
	s.logger.Warn().
		Err(err).
		Str("operation", op).
		Str("product_id", productID).
		Msg("cart mutation failed, refetching authoritative state")
	return s.refresh(ctx)
}

// resolveCartID returns the cart id for this session, resolving it
// against the store once and caching it for the session lifetime.
func (s *Session) resolveCartID(ctx context.Context) (uuid.UUID, error) {
	s.mu.RLock()
	if s.hasCart {
		id := s.cartID
		s.mu.RUnlock()
		return id, nil
	}
	s.mu.RUnlock()

	cartID, err := s.repo.GetOrCreateCart(ctx, s.sessionID)
	if err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	s.cartID = cartID
	s.hasCart = true
	s.mu.Unlock()

	return cartID, nil
}

// snapshotItems returns a mutable copy of the current line items.
func (s *Session) snapshotItems() []model.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]model.LineItem, len(s.state.Items))
	copy(items, s.state.Items)
	return items
}

// applyOptimistic recomputes and installs the derived state from the
// given items before the remote write is confirmed.
func (s *Session) applyOptimistic(items []model.LineItem) {
	state := Aggregate(items)
	s.mu.Lock()
	s.state = state
	s.status = StatusReady
	s.mu.Unlock()
}

func (s *Session) setStatus(status Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

func cloneState(state model.CartState) model.CartState {
	items := make([]model.LineItem, len(state.Items))
	copy(items, state.Items)
	state.Items = items
	return state
}
