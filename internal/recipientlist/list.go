package recipientlist

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
	"github.com/dmitrymomot/mailcast/pkg/validator"
)

// Namespace is the repository namespace lists are stored under.
const Namespace = "lists"

const (
	maxNameLength        = 120
	maxDescriptionLength = 500
)

// ErrNotFound is returned for an unknown list id.
var ErrNotFound = errors.New("recipientlist: list not found")

// List is a named, ordered set of recipient addresses.
type List struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Emails      []string  `json:"emails"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Service manages lists on top of a repository.
type Service struct {
	repo   repository.Repository[List]
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

// WithIDGenerator overrides list id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewService creates a list service backed by repo.
func NewService(repo repository.Repository[List], opts ...Option) *Service {
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

// Save creates a new list.
func (s *Service) Save(ctx context.Context, name string, emails []string, description string) (List, error) {
	name, description = strings.TrimSpace(name), strings.TrimSpace(description)
	if err := validate(name, description); err != nil {
		return List{}, err
	}

	now := s.now().UTC()
	l := List{
		ID:          s.newID(),
		Name:        name,
		Emails:      Normalize(emails),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, l.ID, l); err != nil {
		return List{}, fmt.Errorf("save list: %w", err)
	}

	s.logger.InfoContext(ctx, "list saved",
		slog.String("list_id", l.ID),
		slog.Int("emails", len(l.Emails)),
	)
	return l, nil
}

// Update replaces name, addresses and description of an existing list.
// The list keeps its id, creation time and position.
func (s *Service) Update(ctx context.Context, id, name string, emails []string, description string) (List, error) {
	name, description = strings.TrimSpace(name), strings.TrimSpace(description)
	if err := validate(name, description); err != nil {
		return List{}, err
	}

	l, err := s.Get(ctx, id)
	if err != nil {
		return List{}, err
	}

	l.Name = name
	l.Emails = Normalize(emails)
	l.Description = description
	l.UpdatedAt = s.now().UTC()

	if err := s.repo.Put(ctx, l.ID, l); err != nil {
		return List{}, fmt.Errorf("update list: %w", err)
	}

	s.logger.InfoContext(ctx, "list updated",
		slog.String("list_id", l.ID),
		slog.Int("emails", len(l.Emails)),
	)
	return l, nil
}

// Get returns the list with the given id.
func (s *Service) Get(ctx context.Context, id string) (List, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return List{}, mapErr(err)
	}
	return l, nil
}

// Delete removes a list.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapErr(err)
	}
	s.logger.InfoContext(ctx, "list deleted", slog.String("list_id", id))
	return nil
}

// List returns all lists, newest first.
func (s *Service) List(ctx context.Context) ([]List, error) {
	lists, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	slices.Reverse(lists)
	return lists, nil
}

// Normalize trims every address, drops empty ones and removes duplicates,
// keeping the first occurrence. The result is never nil.
func Normalize(emails []string) []string {
	out := make([]string, 0, len(emails))
	seen := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

func validate(name, description string) error {
	return validator.Apply(
		validator.RequiredString("name", name),
		validator.MaxLenString("name", name, maxNameLength),
		validator.MaxLenString("description", description, maxDescriptionLength),
	)
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrEmptyID):
		return ErrNotFound
	default:
		return err
	}
}
