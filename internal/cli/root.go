// Package cli implements the wanderly command-line client. It talks to the
// same services as the API server, but over a local store (SQLite by
// default) and with a persisted current-user pointer instead of tokens.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/wanderly/internal/config"
	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/itinerary"
	"github.com/pkordes/wanderly/internal/kv"
	"github.com/pkordes/wanderly/internal/metrics"
	"github.com/pkordes/wanderly/internal/openai"
	"github.com/pkordes/wanderly/internal/repo"
	"github.com/pkordes/wanderly/internal/service"
	"github.com/pkordes/wanderly/internal/weather"
)

// Options customizes the command tree. The zero value opens the store named
// by --db / --memory and reads collaborator keys from the environment.
type Options struct {
	// Backend, when set, replaces the store the flags would open.
	Backend kv.Backend

	// Generator and Weather replace the collaborators built from config.
	Generator service.ItineraryGenerator
	Weather   Forecaster

	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Forecaster returns best-effort weather. *weather.Service satisfies it.
type Forecaster interface {
	Forecast(ctx context.Context, city string, start, end time.Time) domain.Forecast
}

// app holds the services one command invocation works with.
type app struct {
	auth       *service.AuthService
	trips      *service.TripService
	members    *service.MemberService
	activities *service.ActivityService
	votes      *service.VoteService
	messages   *service.MessageService
	planner    *service.PlannerService
	weather    Forecaster
	close      func()
}

// NewRootCommand builds the wanderly command tree.
func NewRootCommand(opts Options) *cobra.Command {
	var (
		dbPath string
		memory bool
		a      app
	)

	root := &cobra.Command{
		Use:   "wanderly",
		Short: "Plan trips with friends from the terminal",
		Long: `wanderly plans group trips: generate an itinerary, vote on activities
and chat with the people you travel with.

Data lives in a local SQLite database (see --db).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opened, err := openApp(cmd.Context(), opts, dbPath, memory)
			if err != nil {
				return err
			}
			a = opened
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.close != nil {
				a.close()
			}
		},
	}
	if opts.Stdout != nil {
		root.SetOut(opts.Stdout)
	}
	if opts.Stderr != nil {
		root.SetErr(opts.Stderr)
	}

	root.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database file (default $HOME/.wanderly/wanderly.db)")
	root.PersistentFlags().BoolVar(&memory, "memory", false, "Use a throwaway in-memory store")

	root.AddCommand(
		signupCmd(&a),
		signinCmd(&a),
		signoutCmd(&a),
		whoamiCmd(&a),
		planCmd(&a),
		tripsCmd(&a),
		activitiesCmd(&a),
		voteCmd(&a),
		sayCmd(&a),
		messagesCmd(&a),
		weatherCmd(&a),
	)
	return root
}

// Execute runs the command tree against the process arguments.
func Execute(ctx context.Context) error {
	root := NewRootCommand(Options{})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

func openApp(ctx context.Context, opts Options, dbPath string, memory bool) (app, error) {
	cfg, err := config.LoadLocal()
	if err != nil {
		return app{}, err
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	backend, closeBackend := opts.Backend, func() {}
	if backend == nil {
		kind := kv.KindSQLite
		if memory {
			kind = kv.KindMemory
		}
		if dbPath == "" {
			dbPath = cfg.SQLitePath
		}
		if kind == kv.KindSQLite {
			if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
				return app{}, fmt.Errorf("create data directory: %w", err)
			}
		}
		backend, closeBackend, err = kv.Open(ctx, kv.Options{Kind: kind, SQLitePath: dbPath})
		if err != nil {
			return app{}, err
		}
	}

	store := repo.NewStore(backend, repo.Options{Logger: logger})

	gen := opts.Generator
	if gen == nil {
		var llm itinerary.Completer
		if client, err := openai.NewClient(cfg.OpenAIAPIKey,
			openai.WithModel(cfg.OpenAIModel),
			openai.WithBaseURL(cfg.OpenAIBaseURL),
		); err == nil {
			llm = client
		}
		gen = itinerary.NewGenerator(llm, logger, metrics.Nop{}, itinerary.WithTimeout(cfg.GenerationTimeout))
	}
	wx := opts.Weather
	if wx == nil {
		wx = weather.New(cfg.OpenWeatherAPIKey, logger, metrics.Nop{})
	}

	trips := service.NewTripService(store.Trips, store.Members)
	return app{
		auth:       service.NewAuthService(store.Users, store.Credentials, store.Session),
		trips:      trips,
		members:    service.NewMemberService(store.Trips, store.Users, store.Members),
		activities: service.NewActivityService(store.Trips, store.Activities),
		votes:      service.NewVoteService(store.Activities, store.Votes),
		messages:   service.NewMessageService(store.Trips, store.Messages),
		planner:    service.NewPlannerService(trips, store.Activities, gen),
		weather:    wx,
		close:      closeBackend,
	}, nil
}
