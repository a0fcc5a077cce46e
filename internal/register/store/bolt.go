package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"

	"citizenreg/internal/register"
	"citizenreg/internal/register/metrics"
	"citizenreg/pkg/platform/sentinel"
)

const (
	bucketPeople       = "people"
	defaultBoltTimeout = time.Second
)

// Bolt is the BoltDB snapshot backend. Each record is stored as a JSON object
// with the same keys as the JSON file format, under a big-endian sequence key
// so that bucket iteration returns records in insertion order.
type Bolt struct {
	path    string
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewBolt constructs a BoltDB store. logger and metrics may be nil.
func NewBolt(path string, logger *slog.Logger, metrics *metrics.Metrics) *Bolt {
	return &Bolt{
		path:    path,
		timeout: defaultBoltTimeout,
		logger:  orDiscard(logger),
		metrics: metrics,
	}
}

func (s *Bolt) Path() string {
	return s.path
}

// Load reads the snapshot. A missing or empty file, a file that is not a bolt
// database, or a database without the people bucket give an empty register;
// malformed values are skipped. A database locked by another process yields
// sentinel.ErrUnavailable.
func (s *Bolt) Load(ctx context.Context) (*register.Register, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return register.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat register db: %w", err)
	}
	if info.Size() == 0 {
		return register.New(), nil
	}

	db, err := bolt.Open(s.path, 0o600, &bolt.Options{Timeout: s.timeout, ReadOnly: true})
	if err != nil {
		if isCorruptDB(err) {
			reg := register.New()
			logLoad(ctx, s.logger, BackendBolt, s.path, reg, loadReport{discarded: err.Error()})
			s.metrics.RecordLoad(BackendBolt, 0, 0)
			return reg, nil
		}
		return nil, openError(err)
	}
	defer func() { _ = db.Close() }()

	reg := register.New()
	var report loadReport
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketPeople))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			record, err := decodeEntry(v)
			if err != nil {
				// Skip malformed entries instead of failing the whole load
				report.malformed++
				return nil
			}
			report.add(reg, record)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("read register db: %w", err)
	}

	logLoad(ctx, s.logger, BackendBolt, s.path, reg, report)
	s.metrics.RecordLoad(BackendBolt, reg.Count(), report.skipped())
	return reg, nil
}

// Save replaces the stored snapshot with reg in a single transaction.
func (s *Bolt) Save(ctx context.Context, reg *register.Register) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if reg == nil {
		return errors.New("register is required")
	}
	start := time.Now()

	db, err := bolt.Open(s.path, 0o600, &bolt.Options{Timeout: s.timeout})
	if err != nil {
		return openError(err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close register db: %w", cerr)
		}
	}()

	err = db.Update(func(tx *bolt.Tx) error {
		// Recreate the bucket so it mirrors the snapshot exactly.
		if tx.Bucket([]byte(bucketPeople)) != nil {
			if err := tx.DeleteBucket([]byte(bucketPeople)); err != nil {
				return err
			}
		}
		b, err := tx.CreateBucket([]byte(bucketPeople))
		if err != nil {
			return err
		}
		for _, doc := range toDocuments(reg) {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			value, err := json.Marshal(doc)
			if err != nil {
				return err
			}
			if err := b.Put(sequenceKey(seq), value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write register db: %w", err)
	}

	s.metrics.ObserveSave(BackendBolt, start)
	s.logger.DebugContext(ctx, "register saved",
		"backend", BackendBolt,
		"path", s.path,
		"count", reg.Count(),
	)
	return nil
}

func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

func isCorruptDB(err error) bool {
	return errors.Is(err, bolt.ErrInvalid) ||
		errors.Is(err, bolt.ErrVersionMismatch) ||
		errors.Is(err, bolt.ErrChecksum)
}

func openError(err error) error {
	if errors.Is(err, bolt.ErrTimeout) {
		return fmt.Errorf("open register db: %w", sentinel.ErrUnavailable)
	}
	return fmt.Errorf("open register db: %w", err)
}
