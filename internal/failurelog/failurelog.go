package failurelog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mailcast/pkg/logger"
	"github.com/dmitrymomot/mailcast/pkg/repository"
)

// Namespace is the repository namespace entries are stored under.
const Namespace = "failures"

// ErrNotFound is returned for an unknown entry id.
var ErrNotFound = errors.New("failurelog: entry not found")

// Entry is one rejected delivery.
type Entry struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
	Campaign  string    `json:"campaign,omitempty"`
}

// Service manages the failure log on top of a repository.
type Service struct {
	repo   repository.Repository[Entry]
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a failure log backed by repo.
func NewService(repo repository.Repository[Entry], opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: logger.NewNope(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append records a failed delivery. campaign may be empty.
func (s *Service) Append(ctx context.Context, address, errMsg, campaign string) (Entry, error) {
	e := Entry{
		ID:        s.newID(),
		Email:     strings.TrimSpace(address),
		Error:     errMsg,
		Timestamp: s.now().UTC(),
		Campaign:  campaign,
	}
	if err := s.repo.Put(ctx, e.ID, e); err != nil {
		return Entry{}, fmt.Errorf("append failure: %w", err)
	}
	return e, nil
}

// Remove deletes one entry.
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrEmptyID) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// RemoveMany deletes the given entries, skipping unknown ids.
// It returns the number of entries removed.
func (s *Service) RemoveMany(ctx context.Context, ids []string) (int, error) {
	removed := 0
	for _, id := range ids {
		err := s.Remove(ctx, id)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, ErrNotFound):
		default:
			return removed, err
		}
	}
	return removed, nil
}

// Clear removes every entry.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear failures: %w", err)
	}
	s.logger.InfoContext(ctx, "failure log cleared")
	return nil
}

// List returns all entries, newest first.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list failures: %w", err)
	}
	slices.Reverse(entries)
	return entries, nil
}

// FailedAddresses returns every logged address once, most recent failure first.
func (s *Service) FailedAddresses(ctx context.Context) ([]string, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Email]; dup {
			continue
		}
		seen[e.Email] = struct{}{}
		out = append(out, e.Email)
	}
	return out, nil
}

// Prune removes entries older than olderThan and returns how many were removed.
func (s *Service) Prune(ctx context.Context, olderThan time.Duration) (int, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("prune failures: %w", err)
	}

	cutoff := s.now().UTC().Add(-olderThan)
	removed := 0
	for _, e := range entries {
		if !e.Timestamp.Before(cutoff) {
			continue
		}
		if err := s.repo.Delete(ctx, e.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return removed, fmt.Errorf("prune failures: %w", err)
		}
		removed++
	}

	if removed > 0 {
		s.logger.InfoContext(ctx, "failure log pruned",
			slog.Int("removed", removed),
			slog.Time("cutoff", cutoff),
		)
	}
	return removed, nil
}

// Without returns recipients minus every address in failed, keeping order.
func Without(recipients, failed []string) []string {
	skip := make(map[string]struct{}, len(failed))
	for _, f := range failed {
		skip[f] = struct{}{}
	}
	out := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if _, ok := skip[strings.TrimSpace(r)]; ok {
			continue
		}
		out = append(out, r)
	}
	return out
}
