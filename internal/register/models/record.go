package models

import (
	"fmt"
	"strings"
)

// Record is one person in the register.
//
// Invariants:
//   - All four fields are fixed at construction; there are no setters.
//   - Two records are the same person iff every field matches. Record is a
//     comparable value, so == and map keys follow that rule directly.
//
// No validation happens here. The front end checks names and year ranges
// before building a record; the loaders only check that values coerce.
type Record struct {
	firstName string
	lastName  string
	birthYear int
	city      string
}

func NewRecord(firstName, lastName string, birthYear int, city string) Record {
	return Record{
		firstName: firstName,
		lastName:  lastName,
		birthYear: birthYear,
		city:      city,
	}
}

func (r Record) FirstName() string { return r.firstName }
func (r Record) LastName() string  { return r.lastName }
func (r Record) BirthYear() int    { return r.birthYear }
func (r Record) City() string      { return r.city }

// Equal reports structural equality.
func (r Record) Equal(other Record) bool {
	return r == other
}

// String is the list line shown to users, e.g. "Simon Rigel (1990), Bremen".
func (r Record) String() string {
	name := strings.TrimSpace(r.firstName + " " + r.lastName)
	line := fmt.Sprintf("%s (%d)", name, r.birthYear)
	if r.city != "" {
		line += ", " + r.city
	}
	return line
}
