// Package register holds the in-memory citizen register: an insertion-ordered,
// duplicate-free collection of records.
package register

import (
	"citizenreg/internal/register/models"
)

// Register keeps records in insertion order and rejects structural duplicates.
// It is not safe for concurrent mutation.
type Register struct {
	records []models.Record
	seen    map[models.Record]struct{}
}

func New() *Register {
	return &Register{seen: make(map[models.Record]struct{})}
}

// Add appends record unless an equal record is already present.
// Returns true when the record was added.
func (r *Register) Add(record models.Record) bool {
	if _, ok := r.seen[record]; ok {
		return false
	}
	r.seen[record] = struct{}{}
	r.records = append(r.records, record)
	return true
}

// List returns a copy of the records in insertion order. Callers may modify
// the returned slice freely.
func (r *Register) List() []models.Record {
	return append([]models.Record{}, r.records...)
}

func (r *Register) Count() int {
	return len(r.records)
}
