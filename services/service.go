// Package services holds the planner's business rules: accounts, follow
// relations, task lists and their sharing, tasks, notifications and
// reminders. Controllers and the CLI call into a single Service.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kalender/dto"
	"kalender/store"
)

type Service struct {
	store  store.Store
	tokens *TokenIssuer
	log    *zap.Logger
	now    func() time.Time
	loc    *time.Location
	newID  func() string

	// mu serialises read-modify-write sequences that span several records.
	mu sync.Mutex
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the time zone in which days start and end.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func New(st store.Store, tokens *TokenIssuer, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:  st,
		tokens: tokens,
		log:    log,
		now:    time.Now,
		loc:    time.UTC,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tokens returns the issuer used to sign and verify JWTs.
func (s *Service) Tokens() *TokenIssuer {
	return s.tokens
}

// Ping checks the underlying store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) today() time.Time {
	return s.now().In(s.loc)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// calendarDate keeps the wall-clock date of t as midnight UTC.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validate(req any) error {
	if err := dto.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", ErrBadArguments, err)
	}
	return nil
}
