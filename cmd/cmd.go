// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for configuration and the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config.toml from the bundled example",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "print",
						Usage: "Print the example instead of writing it",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles the MovieHub session.
func authCommand(r *Runner) *cli.Command {
	credentialFlags := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Aliases:  []string{"u"},
				Usage:    "Account username",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "email",
				Aliases:  []string{"e"},
				Usage:    "Account email",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Account password",
				Sources: cli.EnvVars("MOVIEHUB_PASSWORD"),
			},
		}
	}

	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Log in and store the session token",
				Flags:  credentialFlags(),
				Action: r.AuthLogin,
			},
			{
				Name:   "register",
				Usage:  "Create an account (does not log in)",
				Flags:  credentialFlags(),
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Remove the stored session token",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show whether a token is stored and whether the API is reachable",
				Action: r.AuthStatus,
			},
		},
	}
}

// moviesCommand handles catalog operations.
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"m"},
		Usage:   "Browse and add movies",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List movies with optional search and sort",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"s"},
						Usage:   "Case-insensitive match on title or description",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "title or newest (default: ui.sort)",
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "list or grid (default: ui.display_mode)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "offline",
						Usage: "Read the local snapshot written by 'cache sync'",
					},
				},
				Action: r.MoviesList,
			},
			{
				Name:  "show",
				Usage: "Show a movie with its reviews and average rating",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "offline",
						Usage: "Read the local snapshot written by 'cache sync'",
					},
				},
				Action: r.MoviesShow,
			},
			{
				Name:  "add",
				Usage: "Add a movie (requires login)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "Movie title",
					},
					&cli.StringFlag{
						Name:  "year",
						Usage: "Release year",
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Description, at least 10 characters",
					},
				},
				Action: r.MoviesAdd,
			},
			{
				Name:  "export",
				Usage: "Export every movie with its reviews",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "json, csv, markdown or txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: moviehub_export_{epoch})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent file writers (default: export.workers)",
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Review requests per second (default: export.rate_limit)",
					},
				},
				Action: r.MoviesExport,
			},
		},
	}
}

// reviewsCommand handles review submission.
func reviewsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "reviews",
		Usage: "Review movies",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Review a movie (requires login)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "movie-id"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "rating",
						Aliases: []string{"r"},
						Usage:   "Rating from 1 to 5",
					},
					&cli.StringFlag{
						Name:  "comment",
						Usage: "Review text",
					},
				},
				Action: r.ReviewsAdd,
			},
		},
	}
}

// cacheCommand handles the opt-in offline snapshot.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Keep a local copy of the catalog",
		Commands: []*cli.Command{
			{
				Name:   "sync",
				Usage:  "Replace the local snapshot with the current catalog and reviews",
				Action: r.CacheSync,
			},
			{
				Name:   "status",
				Usage:  "Count what the local snapshot holds",
				Action: r.CacheStatus,
			},
		},
	}
}

// apiCommand handles direct API calls.
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the MovieHub API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the response body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
			{
				Name:  "docs",
				Usage: "Open the interactive API documentation in a browser",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "print",
						Usage: "Print the URL instead of opening it",
					},
				},
				Action: r.APIDocs,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal UI",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "offline",
				Usage: "Browse the local snapshot written by 'cache sync'",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where TUI logs are written",
				Value: "./tmp/moviehub-tui.log",
			},
		},
		Action: r.TUI,
	}
}
