package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"tripstore/config"
	"tripstore/internal/backend"
	"tripstore/internal/errors"
	logs "tripstore/internal/infra/log"
	"tripstore/internal/infra/persistence/document"
	"tripstore/internal/infra/persistence/postgres"
	"tripstore/internal/infra/pubsub"
	"tripstore/internal/usecase"
	"tripstore/internal/usecase/impl"

	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

// Runner holds the shared plumbing of every command.
type Runner struct {
	output io.Writer

	// loadConfig is swapped in tests.
	loadConfig func() (*config.Config, error)
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Output     io.Writer
	LoadConfig func() (*config.Config, error)
}

// NewRunner creates a new Runner with the provided options
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LoadConfig == nil {
		opts.LoadConfig = config.New
	}

	return &Runner{output: opts.Output, loadConfig: opts.LoadConfig}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		runCommand, capabilityCommand, provisionCommand, tokenCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// withMigrations starts the storage stack and hands the migration usecase to fn.
func (r *Runner) withMigrations(ctx context.Context, fn func(uc usecase.MigrationUsecase) error) error {
	cfg, err := r.loadConfig()
	if err != nil {
		return err
	}

	var uc usecase.MigrationUsecase
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Provide(
			logs.New,
			context.Background,
			postgres.New,
			postgres.NewSetBuilder,
			document.NewSetBuilder,
			backend.New,
			impl.NewValidationService,
			impl.NewMigrationService,
		),
		pubsub.Module,
		fx.Populate(&uc),
	)
	if err := app.Err(); err != nil {
		return errors.Wrap(err, "failed to assemble storage backends")
	}

	if err := app.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start storage backends")
	}
	defer func() {
		_ = app.Stop(context.WithoutCancel(ctx))
	}()

	return fn(uc)
}

func (r *Runner) writeJSON(data any) error {
	enc := json.NewEncoder(r.output)
	enc.SetIndent("", "  ")

	return enc.Encode(data)
}

func (r *Runner) writePlainln(format string, args ...any) {
	_, _ = fmt.Fprintf(r.output, format+"\n", args...)
}
