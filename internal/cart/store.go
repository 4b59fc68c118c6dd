package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/billy-le/love-edith/internal/domain"
)

// Storage is the durable persistence adapter injected into the Store. The
// adapter is already scoped to one cart, so implementations own the key.
type Storage interface {
	// Load reads the persisted line list. A missing entry returns an empty
	// list and no error; a corrupted entry returns an error.
	Load(ctx context.Context) ([]domain.LineItem, error)

	// Save overwrites the persisted line list, including an empty one.
	Save(ctx context.Context, items []domain.LineItem) error

	// Clear removes the persisted entry.
	Clear(ctx context.Context) error
}

// Store owns the cart state. All mutation goes through Dispatch, which
// serializes through one mutex so rapid repeated actions never interleave
// partial updates. Every action that changes the line list is written to
// storage before Dispatch returns; storage failures are logged and swallowed
// so a full or unavailable backend never breaks the cart.
type Store struct {
	mu      sync.Mutex
	state   State
	storage Storage
	logger  *slog.Logger
}

// NewStore creates a store with an empty cart.
func NewStore(storage Storage, logger *slog.Logger) *Store {
	return &Store{
		state:   State{Items: []domain.LineItem{}},
		storage: storage,
		logger:  logger,
	}
}

// Hydrate loads the persisted line list into the store. On read failure the
// store falls back to an empty cart and clears the corrupted entry; the
// error never propagates.
func (s *Store) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.storage.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "cart hydration failed, starting empty",
			slog.String("error", err.Error()),
		)
		if clearErr := s.storage.Clear(ctx); clearErr != nil {
			s.logger.WarnContext(ctx, "failed to clear corrupted cart entry",
				slog.String("error", clearErr.Error()),
			)
		}
		s.state.Items = []domain.LineItem{}
		return
	}
	if items == nil {
		items = []domain.LineItem{}
	}
	s.state.Items = items
}

// Dispatch applies an action and returns the resulting state snapshot. When
// the action changed the line list, the new list is persisted before
// Dispatch returns.
func (s *Store) Dispatch(ctx context.Context, action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := Reduce(s.state, action)
	s.state = next

	if changed {
		if err := s.storage.Save(ctx, next.Items); err != nil {
			s.logger.ErrorContext(ctx, "failed to persist cart",
				slog.String("error", err.Error()),
				slog.Int("items", len(next.Items)),
			)
		}
	}

	return s.state.clone()
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}
