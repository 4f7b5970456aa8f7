package cli

import (
	"context"

	"github.com/haus-labs/haus-agent/pkg/cli/config"
	"github.com/haus-labs/haus-agent/pkg/repository/memory"
	"github.com/haus-labs/haus-agent/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdSeed() *cli.Command {
	var inventoryCfg config.Inventory

	return &cli.Command{
		Name:  "seed",
		Usage: "Load the sample listings into the Firestore inventory",
		Flags: inventoryCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			if !inventoryCfg.Persistent() {
				return goerr.Wrap(config.ErrInvalidConfig, "seed requires the firestore inventory backend",
					goerr.V("inventory", inventoryCfg))
			}

			store, err := inventoryCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize inventory")
			}
			defer func() {
				if err := store.Close(); err != nil {
					logger.Error("failed to close inventory", "error", err.Error())
				}
			}()

			samples := memory.SampleProperties()
			for _, rec := range samples {
				if err := store.Put(ctx, rec); err != nil {
					return goerr.Wrap(err, "failed to store listing", goerr.V("property_id", rec.ID))
				}
				logger.Info("Listing stored", "property_id", rec.ID, "suburb", rec.Suburb)
			}

			listings, err := store.List(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list inventory")
			}
			logger.Info("Seed completed", "stored", len(samples), "total", len(listings))
			return nil
		},
	}
}
