package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"citizenreg/internal/register"
	"citizenreg/internal/register/metrics"
	"citizenreg/internal/register/models"
	dErrors "citizenreg/pkg/domain-errors"
	"citizenreg/pkg/platform/sentinel"
)

// Store persists whole register snapshots.
type Store interface {
	Load(ctx context.Context) (*register.Register, error)
	Save(ctx context.Context, reg *register.Register) error
}

// Service is the boundary the front end talks to: it owns one register and
// writes a snapshot after every successful add.
type Service struct {
	register *register.Register
	store    Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type serviceConfig struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures optional service dependencies.
type Option func(*serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) { c.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *serviceConfig) { c.metrics = m }
}

// New loads the initial register from store. A nil store gives a purely
// in-memory service that starts empty.
func New(ctx context.Context, store Store, opts ...Option) (*Service, error) {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	reg := register.New()
	if store != nil {
		loaded, err := store.Load(ctx)
		if err != nil {
			if errors.Is(err, sentinel.ErrUnavailable) {
				return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "register is in use by another process")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load register")
		}
		reg = loaded
	}

	return &Service{
		register: reg,
		store:    store,
		logger:   logger,
		metrics:  cfg.metrics,
	}, nil
}

// AddPerson adds record to the register. It returns false, without writing,
// when an equal record already exists. If the snapshot write fails the record
// stays in memory and the error is returned.
func (s *Service) AddPerson(ctx context.Context, record models.Record) (bool, error) {
	if !s.register.Add(record) {
		s.metrics.IncrementDuplicatesRejected()
		s.logger.InfoContext(ctx, "duplicate person rejected",
			"first_name", record.FirstName(),
			"birth_year", record.BirthYear(),
		)
		return false, nil
	}
	s.metrics.IncrementPeopleAdded()

	if s.store != nil {
		if err := s.store.Save(ctx, s.register); err != nil {
			s.logger.ErrorContext(ctx, "failed to save register",
				"count", s.register.Count(),
				"error", err,
			)
			if errors.Is(err, sentinel.ErrUnavailable) {
				return true, dErrors.Wrap(err, dErrors.CodeUnavailable, "register is in use by another process")
			}
			return true, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save register")
		}
	}

	s.logger.InfoContext(ctx, "person added",
		"first_name", record.FirstName(),
		"birth_year", record.BirthYear(),
		"count", s.register.Count(),
	)
	return true, nil
}

// ListPeople returns a copy of all records in insertion order.
func (s *Service) ListPeople(_ context.Context) []models.Record {
	return s.register.List()
}

func (s *Service) Count(_ context.Context) int {
	return s.register.Count()
}
