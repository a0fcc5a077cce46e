package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"citizenreg/internal/register"
	"citizenreg/internal/register/models"
)

// Entry keys are the on-disk compatibility contract shared by every backend.
const (
	keyFirstName = "vorname"
	keyLastName  = "nachname"
	keyBirthYear = "geburtsjahr"
	keyCity      = "wohnort"
)

// document is the write-side shape of one entry.
type document struct {
	FirstName string `json:"vorname"`
	LastName  string `json:"nachname"`
	BirthYear int    `json:"geburtsjahr"`
	City      string `json:"wohnort"`
}

func toDocument(r models.Record) document {
	return document{
		FirstName: r.FirstName(),
		LastName:  r.LastName(),
		BirthYear: r.BirthYear(),
		City:      r.City(),
	}
}

func toDocuments(reg *register.Register) []document {
	records := reg.List()
	docs := make([]document, 0, len(records))
	for _, r := range records {
		docs = append(docs, toDocument(r))
	}
	return docs
}

var errMalformedEntry = errors.New("malformed entry")

// loadReport describes what a load dropped on the way in.
type loadReport struct {
	// discarded is set when the whole document was unusable.
	discarded  string
	malformed  int
	duplicates int
}

func (r loadReport) skipped() int {
	return r.malformed + r.duplicates
}

func (r *loadReport) add(reg *register.Register, record models.Record) {
	if !reg.Add(record) {
		r.duplicates++
	}
}

// decodeSnapshot turns a whole JSON document into a register. It never fails:
// a document that is not a JSON array yields an empty register, and entries
// that cannot be decoded are skipped one by one.
func decodeSnapshot(data []byte) (*register.Register, loadReport) {
	reg := register.New()
	var report loadReport

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			report.discarded = "top level is not an array"
		} else {
			report.discarded = "invalid JSON"
		}
		return reg, report
	}
	if entries == nil {
		report.discarded = "top level is not an array"
		return reg, report
	}

	for _, raw := range entries {
		record, err := decodeEntry(raw)
		if err != nil {
			report.malformed++
			continue
		}
		report.add(reg, record)
	}
	return reg, report
}

// decodeEntry extracts one record from a JSON object carrying the four entry keys.
func decodeEntry(raw []byte) (models.Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.Record{}, fmt.Errorf("%w: not an object", errMalformedEntry)
	}

	firstName, err := textField(fields, keyFirstName)
	if err != nil {
		return models.Record{}, err
	}
	lastName, err := textField(fields, keyLastName)
	if err != nil {
		return models.Record{}, err
	}
	birthYear, err := yearField(fields, keyBirthYear)
	if err != nil {
		return models.Record{}, err
	}
	city, err := textField(fields, keyCity)
	if err != nil {
		return models.Record{}, err
	}
	return models.NewRecord(firstName, lastName, birthYear, city), nil
}

func lookup(fields map[string]json.RawMessage, key string) (json.RawMessage, error) {
	raw, ok := fields[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", errMalformedEntry, key)
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, fmt.Errorf("%w: %q is null", errMalformedEntry, key)
	}
	return raw, nil
}

func textField(fields map[string]json.RawMessage, key string) (string, error) {
	raw, err := lookup(fields, key)
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %q is not a string", errMalformedEntry, key)
	}
	return s, nil
}

// yearField coerces a birth year from a JSON number (fractions truncate toward
// zero) or from a string holding a base-10 integer.
func yearField(fields map[string]json.RawMessage, key string) (int, error) {
	raw, err := lookup(fields, key)
	if err != nil {
		return 0, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, fmt.Errorf("%w: %q: %v", errMalformedEntry, key, err)
	}

	switch val := v.(type) {
	case json.Number:
		return numberToInt(val, key)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", errMalformedEntry, key)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %q has type %T", errMalformedEntry, key, v)
	}
}

func numberToInt(n json.Number, key string) (int, error) {
	if i, err := n.Int64(); err == nil {
		if i < math.MinInt || i > math.MaxInt {
			return 0, fmt.Errorf("%w: %q out of range", errMalformedEntry, key)
		}
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %q out of range", errMalformedEntry, key)
	}
	t := math.Trunc(f)
	if t < float64(math.MinInt) || t >= -float64(math.MinInt) {
		return 0, fmt.Errorf("%w: %q out of range", errMalformedEntry, key)
	}
	return int(t), nil
}
