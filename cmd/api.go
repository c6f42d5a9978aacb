package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/moviehub/internal/services"
	"github.com/desertthunder/moviehub/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the MovieHub API
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	if r.api == nil {
		return fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return err
	}
	return r.writeResponse(resp, cmd.Bool("pretty"))
}

// APIPost makes a direct POST request with a JSON body
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	if r.api == nil {
		return fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	data := cmd.String("data")
	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}
	if err := shared.ValidateJSON([]byte(data)); err != nil {
		return err
	}

	r.logger.Info("POST request", "path", path)

	resp, err := r.api.Post(ctx, path, []byte(data))
	if err != nil {
		return err
	}
	return r.writeResponse(resp, true)
}

// APIDocs opens the backend's interactive documentation, or prints its address with --print.
func (r *Runner) APIDocs(ctx context.Context, cmd *cli.Command) error {
	if r.api == nil {
		return fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	url := r.api.DocsURL()
	if cmd.Bool("print") {
		return r.writePlain("%s\n", url)
	}

	r.logger.Info("opening API docs", "url", url)
	if err := shared.OpenBrowser(url); err != nil {
		r.logger.Warn("could not open browser", "error", err)
		return r.writePlain("Open %s in your browser.\n", url)
	}
	return r.writePlain("✓ Opened %s\n", url)
}

func (r *Runner) writeResponse(resp *services.APIResponse, pretty bool) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, pretty)
	}
	return r.writePlain("%s\n", resp.Body)
}
