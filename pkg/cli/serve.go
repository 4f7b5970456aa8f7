package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/haus-labs/haus-agent/pkg/cli/config"
	httpctrl "github.com/haus-labs/haus-agent/pkg/controller/http"
	"github.com/haus-labs/haus-agent/pkg/usecase"
	"github.com/haus-labs/haus-agent/pkg/utils/async"
	"github.com/haus-labs/haus-agent/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var callbackToken string
	var agentCfg config.Agent
	var tuningCfg config.Tuning
	var inventoryCfg config.Inventory

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("HAUS_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "callback-token",
			Usage:       "Bearer token required from the voice pipeline on /api routes",
			Sources:     cli.EnvVars("HAUS_CALLBACK_TOKEN"),
			Destination: &callbackToken,
		},
	}

	// Add shared config flags
	flags = append(flags, agentCfg.Flags()...)
	flags = append(flags, tuningCfg.Flags()...)
	flags = append(flags, inventoryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the callback API for the hosted voice pipeline",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := agentCfg.Configure()
			if err != nil {
				return err
			}

			tuning, err := tuningCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load tuning")
			}

			inventory, err := inventoryCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize inventory")
			}
			defer func() {
				if err := inventory.Close(); err != nil {
					logging.Default().Error("failed to close inventory", "error", err.Error())
				}
			}()

			dispatcher := async.NewDispatcher(async.WithMaxInFlight(tuning.Dispatch.MaxInFlight))
			uc := usecase.New(cfg, inventory,
				usecase.WithDispatcher(dispatcher),
				usecase.WithSessionOptions(usecase.WithTuning(tuning)),
			)

			var httpOpts []httpctrl.Options
			if callbackToken != "" {
				httpOpts = append(httpOpts, httpctrl.WithCallbackToken(callbackToken))
			} else {
				logging.Default().Warn("No callback token configured, /api routes are unauthenticated")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc.Session, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"agent", agentCfg,
					"inventory", inventoryCfg,
					"tuning", tuningCfg,
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				if shutdownErr := uc.Session.Shutdown(context.Background()); shutdownErr != nil {
					logging.Default().Warn("Detached memory writes did not finish", "error", shutdownErr.Error())
				}
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := gracefulShutdown(shutdownCtx, server, uc.Session); err != nil {
					return err
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// gracefulShutdown stops the server, then releases live calls and drains
// detached memory writes even when the server did not stop cleanly.
func gracefulShutdown(ctx context.Context, server, sessions shutdowner) error {
	serverErr := server.Shutdown(ctx)

	if err := sessions.Shutdown(context.Background()); err != nil {
		logging.Default().Warn("Detached memory writes did not finish", "error", err.Error())
	}

	if serverErr != nil {
		return goerr.Wrap(serverErr, "failed to shutdown server gracefully")
	}
	return nil
}
