package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"blog-views/config"
	"blog-views/internal/cache/redis"
	"blog-views/internal/db"
	"blog-views/internal/domain"
	"blog-views/internal/logger"
	"blog-views/internal/repository/mongo"
	"blog-views/internal/service/views"

	goflags "github.com/jessevdk/go-flags"
)

// backend bundles what the subcommands need from the service stack
type backend struct {
	views views.ViewService
	posts domain.PostRepository
}

// opener builds a backend and returns a release func
type opener func(ctx context.Context) (*backend, func(), error)

// env is shared by all subcommands
type env struct {
	out  io.Writer
	open opener
}

type commands struct {
	Stats  *StatsCommand
	Record *RecordCommand
}

func buildParser(e *env) (*goflags.Parser, *commands) {
	parser := goflags.NewParser(nil, goflags.Default)
	parser.Name = "viewctl"
	parser.LongDescription = "Inspect and record blog views against the configured MongoDB."

	cmds := &commands{
		Stats:  &StatsCommand{env: e},
		Record: &RecordCommand{env: e},
	}

	parser.AddCommand("stats", "Show view stats for a subject", "Print total, unique and daily view counts of a subject as JSON.", cmds.Stats)
	parser.AddCommand("record", "Record a view", "Record a view of a subject for the given address and user agent, honouring the cooldown.", cmds.Record)

	return parser, cmds
}

// Run parses os.Args and executes the matched subcommand
func Run() error {
	return RunWithArgs(os.Args[1:])
}

func RunWithArgs(args []string) error {
	return run(&env{out: os.Stdout, open: openBackend}, args)
}

func run(e *env, args []string) error {
	parser, _ := buildParser(e)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok && flagsErr.Type == goflags.ErrHelp {
			return nil
		}
		return err
	}
	return nil
}

func openBackend(ctx context.Context) (*backend, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.LogLevel, "console")

	mongoDB, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, nil, err
	}
	release := func() { _ = mongoDB.Close(context.Background()) }

	opts := []views.Option{views.WithLogger(log), views.WithCooldown(cfg.ViewCooldown)}
	if cfg.ViewGuardEnabled {
		guard := redis.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		opts = append(opts, views.WithGuard(guard))
		closeMongo := release
		release = func() {
			_ = guard.Close()
			closeMongo()
		}
	}

	return &backend{
		views: views.NewViewService(mongo.NewViewRepository(mongoDB), opts...),
		posts: mongo.NewPostRepository(mongoDB),
	}, release, nil
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
