package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/haus-labs/haus-agent/pkg/cli/config"
	"github.com/haus-labs/haus-agent/pkg/utils/logging"
	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const (
	envFileVar     = "HAUS_ENV_FILE"
	defaultEnvFile = ".env"
)

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var closers []func()

	if err := loadEnvFile(); err != nil {
		return err
	}

	flags := loggerCfg.Flags()
	flags = append(flags, sentryCfg.Flags()...)

	app := &cli.Command{
		Name:    "haus",
		Usage:   "HAUS voice agent memory mediator",
		Version: version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, f)

			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return ctx, err
			}
			closers = append(closers, flush)

			logging.Default().Info("Starting haus", "logger", loggerCfg, "sentry", sentryCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdChat(),
			cmdCheck(),
			cmdSeed(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}

// loadEnvFile loads HAUS_ENV_FILE, or ./.env when present. Variables already
// set in the environment win.
func loadEnvFile() error {
	path := os.Getenv(envFileVar)
	if path == "" {
		if _, err := os.Stat(defaultEnvFile); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		path = defaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		return goerr.Wrap(err, "failed to load env file", goerr.V("path", path))
	}
	return nil
}
