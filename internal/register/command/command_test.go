package command

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"citizenreg/internal/platform/config"
	"citizenreg/internal/register/command/mocks"
	"citizenreg/internal/register/models"
	"citizenreg/internal/register/service"
	"citizenreg/internal/register/store"
	dErrors "citizenreg/pkg/domain-errors"
	"citizenreg/pkg/testutil"
)

//go:generate mockgen -source=command.go -destination=mocks/service_mocks.go -package=mocks Service

var defaults = config.Register{File: "people.json", Backend: "json"}

type harness struct {
	app    *App
	svc    *mocks.MockService
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	opened []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := &harness{
		svc:    mocks.NewMockService(ctrl),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	open := func(_ context.Context, file, backend string) (Service, error) {
		h.opened = append(h.opened, file, backend)
		return h.svc, nil
	}
	h.app = New(open, defaults, h.stdout, h.stderr, nil)
	return h
}

func (h *harness) run(args ...string) int {
	return h.app.Run(context.Background(), append([]string{"register"}, args...))
}

func TestAddCommand_HappyPath(t *testing.T) {
	h := newHarness(t)
	h.svc.EXPECT().
		AddPerson(gomock.Any(), models.NewRecord("Simon", "Rigel", 1990, "Bremen")).
		Return(true, nil).
		Times(1)

	code := h.run("add", "--first", "  Simon ", "--last", "Rigel", "--year", "1990", "--city", "Bremen")

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "Person added.\n", h.stdout.String())
	assert.Empty(t, h.stderr.String())
	assert.Equal(t, []string{"people.json", "json"}, h.opened)
}

func TestAddCommand_Duplicate(t *testing.T) {
	h := newHarness(t)
	h.svc.EXPECT().AddPerson(gomock.Any(), gomock.Any()).Return(false, nil)

	code := h.run("add", "--first", "Simon", "--year", "1990")

	assert.Equal(t, ExitError, code)
	assert.Equal(t, "Person already exists.\n", h.stderr.String())
	assert.Empty(t, h.stdout.String())
}

func TestAddCommand_SaveFailure(t *testing.T) {
	h := newHarness(t)
	h.svc.EXPECT().
		AddPerson(gomock.Any(), gomock.Any()).
		Return(true, dErrors.Wrap(errors.New("disk full"), dErrors.CodeInternal, "failed to save register"))

	code := h.run("add", "--first", "Simon", "--year", "1990")

	assert.Equal(t, ExitError, code)
	assert.Contains(t, h.stderr.String(), "failed to save register: disk full")
}

func TestAddCommand_Validation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{name: "missing first name", args: []string{"--year", "1990"}, message: "first name must not be empty"},
		{name: "blank first name", args: []string{"--first", "   ", "--year", "1990"}, message: "first name must not be empty"},
		{name: "missing year", args: []string{"--first", "Simon"}, message: "birth year must be a number"},
		{name: "non-numeric year", args: []string{"--first", "Simon", "--year", "neunzehn"}, message: "birth year must be a number"},
		{name: "year too early", args: []string{"--first", "Simon", "--year", "1799"}, message: "birth year must be between 1800 and 2100"},
		{name: "year too late", args: []string{"--first", "Simon", "--year", "2101"}, message: "birth year must be between 1800 and 2100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			code := h.run(append([]string{"add"}, tt.args...)...)

			assert.Equal(t, ExitError, code)
			assert.Contains(t, h.stderr.String(), tt.message)
			assert.Empty(t, h.opened, "invalid input must not open the register")
		})
	}
}

func TestAddCommand_YearBoundsAccepted(t *testing.T) {
	for _, year := range []string{"1800", "2100"} {
		t.Run(year, func(t *testing.T) {
			h := newHarness(t)
			h.svc.EXPECT().AddPerson(gomock.Any(), gomock.Any()).Return(true, nil)

			assert.Equal(t, ExitOK, h.run("add", "--first", "Simon", "--year", year))
		})
	}
}

func TestListCommand(t *testing.T) {
	h := newHarness(t)
	h.svc.EXPECT().ListPeople(gomock.Any()).Return([]models.Record{
		models.NewRecord("rifdah", "adilarifah", 2004, "Bandung"),
		models.NewRecord("simon", "rigel", 1990, ""),
	})

	code := h.run("--file", "other.db", "--backend", "bolt", "list")

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "rifdah adilarifah (2004), Bandung\nsimon rigel (1990)\n", h.stdout.String())
	assert.Equal(t, []string{"other.db", "bolt"}, h.opened)
}

func TestCountCommand(t *testing.T) {
	h := newHarness(t)
	h.svc.EXPECT().Count(gomock.Any()).Return(3)

	assert.Equal(t, ExitOK, h.run("count"))
	assert.Equal(t, "3\n", h.stdout.String())
}

func TestOpenFailure(t *testing.T) {
	stderr := &bytes.Buffer{}
	open := func(context.Context, string, string) (Service, error) {
		return nil, dErrors.New(dErrors.CodeUnavailable, "register is in use by another process")
	}
	app := New(open, defaults, &bytes.Buffer{}, stderr, nil)

	code := app.Run(context.Background(), []string{"register", "count"})

	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr.String(), "register is in use by another process")
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, ExitUsage, h.run("frobnicate"))
	assert.Empty(t, h.opened)
}

// TestEndToEnd drives the real service and JSON store through the commands.
func TestEndToEnd(t *testing.T) {
	path := testutil.TempPath(t, "people.json")
	open := func(ctx context.Context, file, _ string) (Service, error) {
		svc, err := service.New(ctx, store.NewJSONFile(file, nil, nil))
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	app := New(open, config.Register{File: path, Backend: "json"}, stdout, stderr, nil)
	ctx := context.Background()

	require.Equal(t, ExitOK, app.Run(ctx, []string{"register", "add", "--first", "Anna", "--last", "Berg", "--year", "1985", "--city", "Hamburg"}))
	require.Equal(t, ExitOK, app.Run(ctx, []string{"register", "add", "--first", "Simon", "--year", "1990"}))
	require.Equal(t, ExitError, app.Run(ctx, []string{"register", "add", "--first", "Anna", "--last", "Berg", "--year", "1985", "--city", "Hamburg"}))

	stdout.Reset()
	require.Equal(t, ExitOK, app.Run(ctx, []string{"register", "list"}))
	assert.Equal(t, "Anna Berg (1985), Hamburg\nSimon (1990)\n", stdout.String())
}
