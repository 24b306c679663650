package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/protalker/protalker/pkg/devserver"
	"github.com/protalker/protalker/pkg/exec"
)

func NewDevServerCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run a local stand-in for the chat and voice demo backends",
		Long: `Serve POST /api/openai-chat and POST /api/run-prueba locally.

Replies come from OpenAI when OPENAI_API_KEY is set and are echoed otherwise.
/api/run-prueba starts devserver.demo_command if configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.DevServer.Addr = addr
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runDevServer(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default :5000)")

	return cmd
}

func runDevServer(ctx context.Context, cfg *ProtalkerConfig) error {
	log := newLogger(cfg, "protalker.devserver")

	responder := newResponder(cfg)
	if _, ok := responder.(devserver.EchoResponder); ok {
		log.Warn("no OpenAI API key configured, echoing messages")
	} else {
		log.Info("using OpenAI responder")
	}

	var runner devserver.DemoRunner = devserver.NoopRunner{}
	if cfg.DevServer.DemoCommand != "" {
		runner = devserver.NewCommandRunner(&exec.ProcessLauncher{
			Output: os.Stderr,
			Logger: newLogger(cfg, "protalker.exec"),
		}, cfg.DevServer.DemoCommand)
	}

	opts := []devserver.Option{devserver.WithLogger(log)}
	if cfg.DevServer.RecordDSN != "" {
		recorder, err := devserver.OpenRecorder(cfg.DevServer.RecordDSN)
		if err != nil {
			return err
		}
		defer recorder.Close()
		opts = append(opts, devserver.WithRecorder(recorder))
	}

	return devserver.New(responder, runner, opts...).ListenAndServe(ctx, cfg.DevServer.Addr)
}

// newResponder picks OpenAI when a key is configured and echoes otherwise.
func newResponder(cfg *ProtalkerConfig) devserver.Responder {
	if key := cfg.DevServer.OpenAIAPIKey; key != "" {
		return devserver.NewOpenAIResponder(key, cfg.DevServer.OpenAIModel)
	}
	return devserver.EchoResponder{}
}
