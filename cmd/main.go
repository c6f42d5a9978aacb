package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/moviehub/internal/shared"
	"github.com/urfave/cli/v3"
)

const version = "0.1.0"

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{Logger: logger, Version: version})

	app := &cli.Command{
		Name:    "moviehub",
		Usage:   "Browse, add and review movies on a MovieHub server",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("MOVIEHUB_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "MovieHub API base URL (overrides api.base_url)",
				Sources: cli.EnvVars("MOVIEHUB_API_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error (overrides log.level)",
				Sources: cli.EnvVars("MOVIEHUB_LOG_LEVEL"),
			},
		},
		Before:   runner.Bootstrap,
		After:    runner.Close,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Debug("command failed", "error", err)
		logger.Fatal(errorMessage(err))
	}
}

// errorMessage hides transport and server details behind the generic user messages and
// passes every other error through.
func errorMessage(err error) string {
	var uf shared.UserFacing
	switch {
	case errors.As(err, &uf),
		errors.Is(err, shared.ErrConnection),
		errors.Is(err, shared.ErrDecode),
		errors.Is(err, shared.ErrAPIRequest),
		errors.Is(err, shared.ErrInvalidCredentials),
		errors.Is(err, shared.ErrNotAuthenticated),
		errors.Is(err, shared.ErrSubmitInFlight),
		errors.Is(err, shared.ErrMovieNotFound):
		return shared.UserMessage(err)
	}
	return err.Error()
}
