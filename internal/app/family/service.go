// Package family is the application service behind the API and the CLI.
// It loads child documents, runs the pure habit, ticket and gacha rules
// against them, and writes the result back with compare-and-swap.
package family

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/royal-guard/royalguard/internal/app/engagement"
	"github.com/royal-guard/royalguard/internal/app/gacha"
	"github.com/royal-guard/royalguard/internal/app/ticket"
	"github.com/royal-guard/royalguard/internal/domain"
	"github.com/royal-guard/royalguard/internal/infra/metrics"
)

// DefaultMaxRetries is how many times a write that lost a version race is
// re-read and re-applied before the conflict is returned.
const DefaultMaxRetries = 3

// Options tunes a Service. Zero values select production defaults.
type Options struct {
	Location     *time.Location
	MaxRetries   int
	Random       gacha.RandomSource
	Publisher    domain.ChangePublisher
	Logger       *zap.Logger
	Now          func() time.Time
	NewID        func() string
	PasswordCost int
}

// Service coordinates child, parent and catalog operations.
type Service struct {
	store      domain.Store
	habits     *engagement.Ledger
	rewards    *ticket.Ledger
	gacha      *gacha.Resolver
	events     domain.ChangePublisher
	log        *zap.Logger
	now        func() time.Time
	newID      func() string
	loc        *time.Location
	maxRetries int
	cost       int
}

// NewService creates the family service on top of store.
func NewService(store domain.Store, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.Publisher == nil {
		opts.Publisher = nopPublisher{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.PasswordCost == 0 {
		opts.PasswordCost = bcrypt.DefaultCost
	}

	rewards := ticket.NewLedger(opts.NewID)
	return &Service{
		store:      store,
		habits:     engagement.NewLedger(opts.Location, opts.NewID),
		rewards:    rewards,
		gacha:      gacha.NewResolver(opts.Random, rewards),
		events:     opts.Publisher,
		log:        opts.Logger.With(zap.String("component", "family")),
		now:        opts.Now,
		newID:      opts.NewID,
		loc:        opts.Location,
		maxRetries: opts.MaxRetries,
		cost:       opts.PasswordCost,
	}
}

// Today returns the current calendar day in the service location.
func (s *Service) Today() string {
	return s.now().In(s.loc).Format(domain.DayLayout)
}

// mutate loads the child, applies fn and saves with compare-and-swap. On a
// version conflict fn runs again against a fresh snapshot, so fn must be
// free of side effects outside the returned snapshot.
func (s *Service) mutate(ctx context.Context, childID, event string,
	fn func(domain.ChildData) (domain.ChildData, error)) (domain.ChildData, error) {

	for attempt := 0; ; attempt++ {
		cur, err := s.store.GetChild(ctx, childID)
		if err != nil {
			return domain.ChildData{}, err
		}
		next, err := fn(cur)
		if err != nil {
			return domain.ChildData{}, err
		}
		next.UpdatedAt = s.now()

		saved, err := s.store.SaveChild(ctx, next)
		if err == nil {
			s.publish(ctx, event, saved)
			return saved, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return domain.ChildData{}, fmt.Errorf("save child: %w", err)
		}

		metrics.VersionConflicts.Inc()
		if attempt >= s.maxRetries {
			return domain.ChildData{}, err
		}
		s.log.Debug("retrying after version conflict",
			zap.String("child_id", childID), zap.String("event", event), zap.Int("attempt", attempt+1))
	}
}

func (s *Service) publish(ctx context.Context, event string, child domain.ChildData) {
	ev := domain.ChangeEvent{
		Type:    event,
		ChildID: child.Profile.ID,
		Version: child.Version,
		At:      child.UpdatedAt.Unix(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		metrics.EventPublishFailures.Inc()
		s.log.Warn("publish change event failed",
			zap.String("child_id", ev.ChildID), zap.String("type", ev.Type), zap.Error(err))
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, domain.ChangeEvent) error { return nil }
