package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/florianilch/ddauth/internal/app"
	"github.com/florianilch/ddauth/internal/credstore"
	"github.com/florianilch/ddauth/internal/observability"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string) error {
	return newRootCommand().Run(ctx, args)
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "ddauth",
		Usage: "Credential storage for dynamic DNS updates",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
				Value: slog.LevelInfo.String(),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (text|json)",
				Value: string(app.DefaultConfigLogFormat),
			},
			&cli.StringFlag{
				Name:  "log-exporter",
				Usage: "log exporter (none|stdout|otlp-http|otlp-grpc)",
				Value: string(app.DefaultConfigLogExporter),
			},
			&cli.StringFlag{
				Name:  "auth--backend",
				Usage: "credential backend (netrc|keyring|env)",
				Value: app.DefaultConfigAuthBackend,
			},
			&cli.StringSliceFlag{
				Name:  "auth--netrc-paths",
				Usage: "netrc files to try, in order (default: ~/.netrc, /etc/netrc)",
			},
			&cli.StringFlag{
				Name:  "auth--keyring-service",
				Usage: "keyring service name",
				Value: app.DefaultConfigKeyringService,
			},
			&cli.StringFlag{
				Name:  "auth--env-prefix",
				Usage: "environment variable prefix for the env backend",
				Value: app.DefaultConfigEnvPrefix,
			},
		},
		Commands: []*cli.Command{
			getCommand(),
			setCommand(),
			pathCommand(),
			backendsCommand(),
		},
	}
}

// newApp loads configuration, sets up logging and creates the App.
// The returned cleanup flushes pending log records.
func newApp(ctx context.Context, cmd *cli.Command) (*app.App, func(), error) {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Set up observability before creating app
	shutdown, err := observability.Instrument(ctx, cfg.LogLevel, string(cfg.LogFormat), string(cfg.LogExporter))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up observability layer: %w", err)
	}
	cleanup := func() {
		if err := shutdown(context.Background()); err != nil {
			fmt.Fprintf(cmd.Root().ErrWriter, "flushing logs: %v\n", err)
		}
	}

	logger := slog.Default().With("invocation", uuid.NewString(), "command", cmd.Name)
	application, err := app.New(cfg, app.WithLogger(logger))
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create app: %w", err)
	}

	return application, cleanup, nil
}

// machineArg returns the single machine argument of cmd.
func machineArg(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() != 1 || cmd.Args().First() == "" {
		return "", fmt.Errorf("expected exactly one machine argument")
	}
	return cmd.Args().First(), nil
}

func pathCommand() *cli.Command {
	return &cli.Command{
		Name:  "path",
		Usage: "print the netrc file credentials are read from",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			application, cleanup, err := newApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			path, err := application.NetrcPath()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.Root().Writer, path)
			return err
		},
	}
}

func backendsCommand() *cli.Command {
	return &cli.Command{
		Name:  "backends",
		Usage: "list the available credential backends",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			for _, b := range credstore.Backends() {
				mode := "read-write"
				if !b.Writable {
					mode = "read-only"
				}
				if _, err := fmt.Fprintf(cmd.Root().Writer, "%-8s %-10s %s\n", b.Name, mode, b.OneLiner); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
