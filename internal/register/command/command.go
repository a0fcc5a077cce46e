// Package command is the command-line front end of the register. It parses
// arguments, validates input and delegates to the register service; it holds
// no register logic of its own.
package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	cli "github.com/jawher/mow.cli"

	"citizenreg/internal/platform/config"
	"citizenreg/internal/register/models"
)

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Service defines the register operations the front end uses.
type Service interface {
	AddPerson(ctx context.Context, record models.Record) (bool, error)
	ListPeople(ctx context.Context) []models.Record
	Count(ctx context.Context) int
}

// OpenFunc opens the service backed by the snapshot at file using backend.
type OpenFunc func(ctx context.Context, file, backend string) (Service, error)

// App wires the register commands to a service.
type App struct {
	open     OpenFunc
	defaults config.Register
	stdout   io.Writer
	stderr   io.Writer
	logger   *slog.Logger
}

// New constructs the command-line app. defaults supplies the snapshot path
// and backend used when the corresponding flags are not given.
func New(open OpenFunc, defaults config.Register, stdout, stderr io.Writer, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &App{
		open:     open,
		defaults: defaults,
		stdout:   stdout,
		stderr:   stderr,
		logger:   logger,
	}
}

// Run parses args (program name first, as in os.Args), executes the selected
// command and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	app := cli.App("register", "Citizen register: add people and list them")
	app.ErrorHandling = flag.ContinueOnError

	file := app.StringOpt("f file", a.defaults.File, "register snapshot path")
	backend := app.StringOpt("b backend", a.defaults.Backend, "snapshot backend: json or bolt")

	exitCode := ExitOK

	app.Command("add", "Add a person to the register", func(cmd *cli.Cmd) {
		first := cmd.StringOpt("first", "", "first name (required)")
		last := cmd.StringOpt("last", "", "last name")
		year := cmd.StringOpt("year", "", "birth year (required)")
		city := cmd.StringOpt("city", "", "city of residence")

		cmd.Action = func() {
			exitCode = a.add(ctx, *file, *backend, AddRequest{
				FirstName: *first,
				LastName:  *last,
				BirthYear: *year,
				City:      *city,
			})
		}
	})

	app.Command("list ls", "List everyone in the register", func(cmd *cli.Cmd) {
		cmd.Action = func() {
			exitCode = a.list(ctx, *file, *backend)
		}
	})

	app.Command("count", "Print the number of people in the register", func(cmd *cli.Cmd) {
		cmd.Action = func() {
			exitCode = a.count(ctx, *file, *backend)
		}
	})

	if err := app.Run(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}
	return exitCode
}

func (a *App) add(ctx context.Context, file, backend string, req AddRequest) int {
	if err := req.Validate(); err != nil {
		a.writeError(err)
		return ExitError
	}

	svc, err := a.open(ctx, file, backend)
	if err != nil {
		a.writeError(err)
		return ExitError
	}

	added, err := svc.AddPerson(ctx, req.Record())
	if err != nil {
		a.logger.ErrorContext(ctx, "add failed",
			"file", file,
			"backend", backend,
			"error", err,
		)
		a.writeError(err)
		return ExitError
	}
	if !added {
		fmt.Fprintln(a.stderr, "Person already exists.")
		return ExitError
	}
	fmt.Fprintln(a.stdout, "Person added.")
	return ExitOK
}

func (a *App) list(ctx context.Context, file, backend string) int {
	svc, err := a.open(ctx, file, backend)
	if err != nil {
		a.writeError(err)
		return ExitError
	}
	for _, record := range svc.ListPeople(ctx) {
		fmt.Fprintln(a.stdout, record.String())
	}
	return ExitOK
}

func (a *App) count(ctx context.Context, file, backend string) int {
	svc, err := a.open(ctx, file, backend)
	if err != nil {
		a.writeError(err)
		return ExitError
	}
	fmt.Fprintln(a.stdout, svc.Count(ctx))
	return ExitOK
}

func (a *App) writeError(err error) {
	fmt.Fprintf(a.stderr, "error: %v\n", err)
}
