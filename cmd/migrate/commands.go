package main

import (
	"context"
	"time"

	"tripstore/internal/domain/constants"
	"tripstore/internal/domain/schema"
	"tripstore/internal/errors"
	"tripstore/internal/infra/auth"
	logs "tripstore/internal/infra/log"
	"tripstore/internal/infra/persistence/document"
	"tripstore/internal/usecase"
	"tripstore/internal/util"

	"github.com/urfave/cli/v3"
)

const defaultTokenTTL = time.Hour

func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run a migration and print its result",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "direction",
				Aliases:  []string{"d"},
				Usage:    "relational_to_document or document_to_relational",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "entity",
				Aliases: []string{"e"},
				Usage:   "Entity type to migrate; repeat for several, omit for all",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Records per page",
			},
			&cli.IntFlag{
				Name:  "sample-size",
				Usage: "Records compared per entity type after the run",
				Value: -1,
			},
			&cli.DurationFlag{
				Name:  "page-timeout",
				Usage: "Deadline for reading and writing one page",
			},
			&cli.BoolFlag{
				Name:  "stop-on-error",
				Usage: "Abort an entity type at its first failed record",
			},
			&cli.BoolFlag{
				Name:  "skip-validation",
				Usage: "Do not validate the target after the run",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Treat any sampled field mismatch as invalid",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the full result as JSON",
			},
		},
		Action: r.Run,
	}
}

func capabilityCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "capability",
		Usage:  "Report which migration directions the configuration supports",
		Action: r.Capability,
	}
}

func provisionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "provision",
		Usage:  "Create the DynamoDB tables and indexes of the document backend",
		Action: r.Provision,
	}
}

func tokenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Issue an operator token for the admin API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "subject",
				Aliases:  []string{"s"},
				Usage:    "Operator identity recorded in the token",
				Required: true,
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Usage: "Token lifetime",
				Value: defaultTokenTTL,
			},
		},
		Action: r.Token,
	}
}

// requestFromFlags maps the run flags onto a MigrationRequest so the CLI and
// the admin API share one conversion.
func requestFromFlags(cmd *cli.Command) usecase.MigrationRequest {
	req := usecase.MigrationRequest{
		Direction:   cmd.String("direction"),
		EntityTypes: cmd.StringSlice("entity"),
		BatchSize:   cmd.Int("batch-size"),
		Strict:      cmd.Bool("strict"),
	}
	if cmd.IsSet("sample-size") {
		n := cmd.Int("sample-size")
		req.SampleSize = &n
	}
	if cmd.IsSet("page-timeout") {
		req.PageTimeout = cmd.Duration("page-timeout").String()
	}
	if cmd.Bool("stop-on-error") {
		continueOnError := false
		req.ContinueOnError = &continueOnError
	}
	if cmd.Bool("skip-validation") {
		validate := false
		req.ValidateAfter = &validate
	}

	return req
}

// Run executes one migration. The command fails only when the run as a whole failed.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	req := requestFromFlags(cmd)

	return r.withMigrations(ctx, func(uc usecase.MigrationUsecase) error {
		opts, err := req.ToOptions(uc.DefaultOptions(""))
		if err != nil {
			return err
		}

		result, err := uc.Migrate(ctx, opts)
		if err != nil {
			return err
		}

		if cmd.Bool("json") {
			if err := r.writeJSON(result); err != nil {
				return err
			}
		} else {
			r.printResult(result)
		}

		if result.Status == usecase.StatusFailed {
			return errors.Errorf("migration %s failed", result.MigrationID)
		}

		return nil
	})
}

func (r *Runner) printResult(result *usecase.MigrationResult) {
	r.writePlainln("%s", result.Summary)
	for _, e := range result.Entities {
		r.writePlainln("  %-15s %-22s processed %d/%d, errors %d, %s (%s)",
			e.EntityType, e.Status, e.ProcessedCount, e.TotalCount, e.ErrorCount,
			util.FormatDuration(e.Duration), util.FormatRate(e.ProcessedCount, e.Duration))
		if e.FatalError != "" {
			r.writePlainln("    fatal: %s", e.FatalError)
		}
		for _, recErr := range e.Errors {
			r.writePlainln("    %s: %s", recErr.ID, recErr.Message)
		}
	}

	if result.Validation != nil {
		r.writePlainln("Validation: %s", result.Validation.Verdict)
		for _, v := range result.Validation.Entities {
			r.writePlainln("  %-15s %-8s expected %d, actual %d, sampled %d", v.EntityType, v.Verdict, v.Expected, v.Actual, v.Sampled)
			for _, d := range v.Discrepancies {
				r.writePlainln("    %s", d)
			}
			if v.Error != "" {
				r.writePlainln("    error: %s", v.Error)
			}
		}
	}
}

// Capability prints the migration capability of the configuration.
func (r *Runner) Capability(ctx context.Context, _ *cli.Command) error {
	return r.withMigrations(ctx, func(uc usecase.MigrationUsecase) error {
		r.writePlainln("%s", uc.Capability())

		return nil
	})
}

// Provision creates the document tables without starting the rest of the stack.
func (r *Runner) Provision(ctx context.Context, _ *cli.Command) error {
	cfg, err := r.loadConfig()
	if err != nil {
		return err
	}
	if cfg.DynamoDB == nil {
		return errors.New("no dynamodb section configured")
	}

	logger, err := logs.New(logs.Params{Config: cfg})
	if err != nil {
		return err
	}

	prefix := ""
	if cfg.Docstore != nil {
		prefix = cfg.Docstore.TablePrefix
	}

	if err := document.ProvisionTables(ctx, cfg.DynamoDB, prefix, logger); err != nil {
		return err
	}
	r.writePlainln("Provisioned %d tables", len(schema.All()))

	return nil
}

// Token prints a signed operator token.
func (r *Runner) Token(_ context.Context, cmd *cli.Command) error {
	cfg, err := r.loadConfig()
	if err != nil {
		return err
	}

	tokens, err := auth.NewJWTService(cfg)
	if err != nil {
		return err
	}

	token, err := tokens.GenerateToken(cmd.String("subject"), []string{constants.RoleOperator}, cmd.Duration("ttl"))
	if err != nil {
		return err
	}
	r.writePlainln("%s", token)

	return nil
}
