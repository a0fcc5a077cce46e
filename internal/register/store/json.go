package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"citizenreg/internal/register"
	"citizenreg/internal/register/metrics"
)

// SaveJSON writes every record of reg, in order, to path as a JSON array,
// replacing whatever the file held before. Any I/O failure is returned.
func SaveJSON(reg *register.Register, path string) error {
	if reg == nil {
		return errors.New("register is required")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create register file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDocuments(reg)); err != nil {
		_ = f.Close()
		return fmt.Errorf("write register file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close register file: %w", err)
	}
	return nil
}

// LoadJSON reads a register from path.
//
// A missing or empty file, a document that is not valid JSON, or one whose top
// level is not an array all give an empty register. Entries lacking a key or
// holding a value that cannot be coerced are skipped; duplicates collapse into
// one record. The only error returned is a failure to read a file that exists.
func LoadJSON(path string) (*register.Register, error) {
	reg, _, err := loadJSON(path)
	return reg, err
}

func loadJSON(path string) (*register.Register, loadReport, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return register.New(), loadReport{}, nil
	}
	if err != nil {
		return nil, loadReport{}, fmt.Errorf("stat register file: %w", err)
	}
	if info.Size() == 0 {
		return register.New(), loadReport{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, loadReport{}, fmt.Errorf("read register file: %w", err)
	}
	reg, report := decodeSnapshot(data)
	return reg, report, nil
}

// JSONFile is the JSON snapshot backend: one file holding the whole register.
type JSONFile struct {
	path    string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewJSONFile constructs a JSON file store. logger and metrics may be nil.
func NewJSONFile(path string, logger *slog.Logger, metrics *metrics.Metrics) *JSONFile {
	return &JSONFile{
		path:    path,
		logger:  orDiscard(logger),
		metrics: metrics,
	}
}

func (s *JSONFile) Path() string {
	return s.path
}

func (s *JSONFile) Load(ctx context.Context) (*register.Register, error) {
	reg, report, err := loadJSON(s.path)
	if err != nil {
		return nil, err
	}
	logLoad(ctx, s.logger, BackendJSON, s.path, reg, report)
	s.metrics.RecordLoad(BackendJSON, reg.Count(), report.skipped())
	return reg, nil
}

func (s *JSONFile) Save(ctx context.Context, reg *register.Register) error {
	start := time.Now()
	if err := SaveJSON(reg, s.path); err != nil {
		return err
	}
	s.metrics.ObserveSave(BackendJSON, start)
	s.logger.DebugContext(ctx, "register saved",
		"backend", BackendJSON,
		"path", s.path,
		"count", reg.Count(),
	)
	return nil
}
