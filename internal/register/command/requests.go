package command

import (
	"fmt"
	"strconv"
	"strings"

	"citizenreg/internal/register/models"
	dErrors "citizenreg/pkg/domain-errors"
)

// Plausible birth years accepted from user input.
const (
	MinBirthYear = 1800
	MaxBirthYear = 2100
)

// AddRequest is the raw input of the add command.
type AddRequest struct {
	FirstName string
	LastName  string
	BirthYear string
	City      string

	// Parsed values (populated by Validate)
	parsedYear int
}

// Validate trims and checks the input: the first name is required and the
// birth year must be an integer within [MinBirthYear, MaxBirthYear].
func (r *AddRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.City = strings.TrimSpace(r.City)

	if r.FirstName == "" {
		return dErrors.New(dErrors.CodeValidation, "first name must not be empty")
	}

	year, err := strconv.Atoi(strings.TrimSpace(r.BirthYear))
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "birth year must be a number")
	}
	if year < MinBirthYear || year > MaxBirthYear {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("birth year must be between %d and %d", MinBirthYear, MaxBirthYear))
	}
	r.parsedYear = year
	return nil
}

// Record builds the record. Call Validate first.
func (r *AddRequest) Record() models.Record {
	return models.NewRecord(r.FirstName, r.LastName, r.parsedYear, r.City)
}
