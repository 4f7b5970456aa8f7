package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/haus-labs/haus-agent/pkg/agent/tool"
	"github.com/haus-labs/haus-agent/pkg/cli/config"
	"github.com/haus-labs/haus-agent/pkg/usecase"
	"github.com/haus-labs/haus-agent/pkg/utils/async"
	"github.com/haus-labs/haus-agent/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

var (
	agentColor  = color.New(color.FgCyan, color.Bold)
	updateColor = color.New(color.FgHiBlack)
	promptColor = color.New(color.FgGreen)
)

func cmdChat() *cli.Command {
	var userID string
	var roomName string
	var agentCfg config.Agent
	var tuningCfg config.Tuning
	var inventoryCfg config.Inventory

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Aliases:     []string{"u"},
			Usage:       "Caller identity, as the dispatcher would put in call metadata",
			Sources:     cli.EnvVars("HAUS_CHAT_USER_ID"),
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "room",
			Usage:       "Room name used as identity when no user ID is given",
			Value:       "haus-chat",
			Destination: &roomName,
		},
	}

	flags = append(flags, agentCfg.Flags()...)
	flags = append(flags, tuningCfg.Flags()...)
	flags = append(flags, inventoryCfg.Flags()...)

	return &cli.Command{
		Name:    "chat",
		Aliases: []string{"c"},
		Usage:   "Talk to the agent in text, with memory and tools wired as on a call",
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

			llmClient, err := config.NewLLMClient(ctx, cfg)
			if err != nil {
				return err
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

			uc := usecase.New(cfg, inventory,
				usecase.WithLLMClient(llmClient),
				usecase.WithDispatcher(async.NewDispatcher(async.WithMaxInFlight(tuning.Dispatch.MaxInFlight))),
				usecase.WithSessionOptions(usecase.WithTuning(tuning)),
			)
			defer func() {
				if err := uc.Session.Shutdown(context.Background()); err != nil {
					logging.Default().Warn("Detached memory writes did not finish", "error", err.Error())
				}
			}()

			metadata := ""
			if userID != "" {
				metadata = fmt.Sprintf(`{"userId":%q}`, userID)
			}

			sess, err := uc.Session.Start(ctx, usecase.StartSessionInput{
				RoomName: roomName,
				Metadata: metadata,
			})
			if err != nil {
				return err
			}

			ctx = tool.WithUpdate(ctx, func(ctx context.Context, message string) {
				updateColor.Fprintf(os.Stdout, "  ... %s\n", message)
			})

			return chatLoop(ctx, uc.Conversation, sess, os.Stdin, os.Stdout)
		},
	}
}

func chatLoop(ctx context.Context, conv *usecase.ConversationUseCase, sess *usecase.Session, in io.Reader, out io.Writer) error {
	greeting, err := conv.Greet(ctx, sess.ID)
	if err != nil {
		return err
	}
	printReply(out, greeting)

	scanner := bufio.NewScanner(in)
	for {
		promptColor.Fprint(out, "you> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		}

		reply, err := conv.Respond(ctx, sess.ID, line)
		if err != nil {
			return err
		}
		printReply(out, reply)
	}

	if err := scanner.Err(); err != nil {
		return goerr.Wrap(err, "failed to read input")
	}
	fmt.Fprintln(out)
	return nil
}

func printReply(out io.Writer, reply string) {
	agentColor.Fprint(out, "haus> ")
	fmt.Fprintln(out, reply)
}
