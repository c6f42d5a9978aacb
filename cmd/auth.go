package main

import (
	"context"
	"errors"

	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges credentials for a token and stores it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	creds := models.Credentials{
		Username: cmd.String("username"),
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
	}

	r.logger.Info("logging in", "username", creds.Username)
	if err := r.engine.Login(ctx, creds); err != nil {
		return err
	}
	return r.writePlain("✓ Logged in as %s\n", creds.Username)
}

// AuthRegister creates an account. It never stores a token.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	reg := models.Registration{
		Username: cmd.String("username"),
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
	}

	r.logger.Info("registering", "username", reg.Username)
	if err := r.engine.Register(ctx, reg); err != nil {
		return err
	}
	r.writePlain("✓ Account created for %s\n", reg.Username)
	return r.writePlain("Run 'moviehub auth login' to start a session.\n")
}

// AuthLogout clears the stored token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.engine.Logout(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus reports whether a token is stored and whether the API answers /health.
//
// A stored token only means the client will send it; the API may still reject it.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking auth status")

	r.writePlainHeader("MovieHub session")
	if r.session.IsAuthenticated(ctx) {
		r.writePlain("Session: ✓ Token stored\n")
	} else {
		r.writePlain("Session: ✗ Not logged in\n")
	}

	if r.movies == nil {
		return r.writePlain("API:     ✗ not configured\n")
	}

	if err := r.movies.Health(ctx); err != nil {
		r.logger.Debug("health check failed", "error", err)
		if errors.Is(err, shared.ErrServiceUnavailable) {
			return r.writePlain("API:     ✗ %s\n", err)
		}
		return r.writePlain("API:     ✗ %s\n", shared.UserMessage(err))
	}
	return r.writePlain("API:     ✓ healthy (%s)\n", r.config.API.BaseURL)
}
