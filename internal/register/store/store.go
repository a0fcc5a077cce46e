// Package store persists register snapshots. Every backend writes the whole
// register at once and reads it back leniently: malformed content degrades to
// fewer records, never to an error.
package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"citizenreg/internal/register"
	"citizenreg/internal/register/metrics"
	"citizenreg/pkg/platform/sentinel"
)

const (
	BackendJSON = "json"
	BackendBolt = "bolt"
)

// Snapshot is implemented by every backend.
type Snapshot interface {
	Load(ctx context.Context) (*register.Register, error)
	Save(ctx context.Context, reg *register.Register) error
	Path() string
}

// Open returns the backend named by backend, reading and writing path.
func Open(backend, path string, logger *slog.Logger, metrics *metrics.Metrics) (Snapshot, error) {
	switch backend {
	case BackendJSON:
		return NewJSONFile(path, logger, metrics), nil
	case BackendBolt:
		return NewBolt(path, logger, metrics), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", sentinel.ErrInvalidState, backend)
	}
}

func logLoad(ctx context.Context, logger *slog.Logger, backend, path string, reg *register.Register, report loadReport) {
	if report.discarded != "" {
		logger.WarnContext(ctx, "register snapshot unreadable, starting empty",
			"backend", backend,
			"path", path,
			"reason", report.discarded,
		)
		return
	}
	if report.skipped() > 0 {
		logger.DebugContext(ctx, "register snapshot entries skipped",
			"backend", backend,
			"path", path,
			"malformed", report.malformed,
			"duplicates", report.duplicates,
		)
	}
	logger.DebugContext(ctx, "register loaded",
		"backend", backend,
		"path", path,
		"count", reg.Count(),
	)
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}
