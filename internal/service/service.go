// Package service implements the finance operations on top of a storage.Store.
// Reads go through the cache; writes invalidate it and publish events.
package service

import (
	"context"
	"errors"
	"time"

	"finance-tracker-backend/internal/cache"
	"finance-tracker-backend/internal/core"
	"finance-tracker-backend/internal/events"
	"finance-tracker-backend/internal/log"
	"finance-tracker-backend/internal/storage"
)

const (
	defaultSessionTTL        = 24 * time.Hour
	defaultBudgetConcurrency = 8
	analyticsWindowDays      = 30
)

type Options struct {
	SessionTTL time.Duration
	// BudgetConcurrency caps the concurrent spend lookups of one budget listing.
	BudgetConcurrency int
	Now               func() time.Time
}

type Service struct {
	store     storage.Store
	cache     *cache.Cache
	publisher events.Publisher
	logger    *log.Logger

	sessionTTL        time.Duration
	budgetConcurrency int
	now               func() time.Time
}

func New(store storage.Store, c *cache.Cache, publisher events.Publisher, logger *log.Logger, opts Options) *Service {
	if c == nil {
		c = cache.New(nil, logger)
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.BudgetConcurrency <= 0 {
		opts.BudgetConcurrency = defaultBudgetConcurrency
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		store:             store,
		cache:             c,
		publisher:         publisher,
		logger:            logger.WithComponent(log.ComponentService),
		sessionTTL:        opts.SessionTTL,
		budgetConcurrency: opts.BudgetConcurrency,
		now:               opts.Now,
	}
}

// Health reports whether the store is reachable.
func (s *Service) Health(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// publish sends e and logs failures; event delivery never fails the caller.
func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "Event publish failed",
			log.FieldEventType, e.Type, log.FieldUserID, e.UserID, log.FieldError, err)
	}
}

// invalidateUser drops every cached view of the user's data.
func (s *Service) invalidateUser(ctx context.Context, userID string) {
	s.cache.Invalidate(ctx, cache.UserKeys(userID)...)
}

// dataAccess keeps typed errors from the store and turns anything else into a data-access
// error carrying msg.
func dataAccess(msg string, err error) error {
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		if errors.Is(err, core.ErrDataAccess) {
			return core.DataAccess(msg, err)
		}
		return err
	}
	return core.DataAccess(msg, err)
}
