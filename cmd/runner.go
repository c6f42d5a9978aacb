package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviehub/internal/repositories"
	"github.com/desertthunder/moviehub/internal/services"
	"github.com/desertthunder/moviehub/internal/session"
	"github.com/desertthunder/moviehub/internal/shared"
	"github.com/desertthunder/moviehub/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	version    string
	session    *session.Manager
	movies     services.Service
	api        *services.APIService
	db         *sql.DB
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.MovieEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Version    string
	Session    *session.Manager
	Movies     services.Service
	API        *services.APIService
	DB         *sql.DB
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Session == nil {
		opts.Session = session.NewManager(session.NewMemoryStore())
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		version:    opts.Version,
		session:    opts.Session,
		movies:     opts.Movies,
		api:        opts.API,
		db:         opts.DB,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	r.rebuildEngine()
	return r
}

// rebuildEngine wires the engine to the current service, session and (when open) the offline cache.
func (r *Runner) rebuildEngine() {
	var cache tasks.MovieCache
	if r.db != nil {
		cache = repositories.NewMovieRepository(r.db)
	}
	r.engine = tasks.NewMovieEngine(r.movies, r.session, cache, r.logger)
}

// Bootstrap loads the configuration named by --config, applies flag and environment overrides
// and builds the session store and API clients. It runs before every command.
func (r *Runner) Bootstrap(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	config := shared.DefaultConfig()
	if _, err := os.Stat(r.configPath); err == nil {
		loaded, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		config = loaded
	} else {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
	}

	if url := cmd.String("api-url"); url != "" {
		config.API.BaseURL = url
	}
	if level := cmd.String("log-level"); level != "" {
		config.Log.Level = level
	}
	r.config = config
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(config.Log.Level))

	if config.Session.Backend == "database" || config.Session.Backend == "db" {
		if _, err := r.openDatabase(ctx); err != nil {
			return ctx, err
		}
	}

	store, err := session.NewStore(config.Session, r.db)
	if err != nil {
		return ctx, err
	}
	r.session = session.NewManager(store)

	client := services.NewHTTPClient(r.session.TokenSource(), config.API.Timeout(), nil)
	r.movies = services.NewMovieHubService(config.API.BaseURL,
		services.WithHTTPClient(client),
		services.WithUserAgent(r.version),
		services.WithLogger(r.logger),
	)
	r.api = services.NewAPIService(config.API.BaseURL, client)
	r.rebuildEngine()

	r.logger.Debug("runner ready", "api", config.API.BaseURL, "session", config.Session.Backend)
	return ctx, nil
}

// Close releases the database, if one was opened.
func (r *Runner) Close(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// openDatabase opens and migrates the local database once and attaches it to the engine as the offline cache.
func (r *Runner) openDatabase(ctx context.Context) (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	r.logger.Debug("opening database", "path", r.config.Database.Path)
	db, err := shared.OpenDatabase(ctx, r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	r.db = db
	r.rebuildEngine()
	return db, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, moviesCommand, reviewsCommand, cacheCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
