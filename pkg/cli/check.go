package cli

import (
	"context"

	"github.com/haus-labs/haus-agent/pkg/cli/config"
	"github.com/haus-labs/haus-agent/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdCheck() *cli.Command {
	var agentCfg config.Agent
	var tuningCfg config.Tuning

	var flags []cli.Flag
	flags = append(flags, agentCfg.Flags()...)
	flags = append(flags, tuningCfg.Flags()...)

	return &cli.Command{
		Name:  "check",
		Usage: "Validate required environment and the tuning file without starting the agent",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			cfg, err := agentCfg.Configure()
			if err != nil {
				return err
			}

			tuning, err := tuningCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "tuning validation failed")
			}

			logger.Info("Configuration validation passed",
				"memory_base_url", cfg.MemoryBaseURL,
				"pipeline", cfg.Pipeline,
				"recall_limit", tuning.Mediator.RecallLimit,
				"positive_confidence", tuning.Confidence.Positive,
				"negative_confidence", tuning.Confidence.Negative,
				"memory_timeout", tuning.MemoryClient.Timeout,
			)
			return nil
		},
	}
}
