package main

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/dynasty-auction/go/clients"
	"github.com/mcdev12/dynasty-auction/go/clients/sleeper_client"
	"github.com/mcdev12/dynasty-auction/go/internal/config"
	"github.com/mcdev12/dynasty-auction/go/internal/draft"
	"github.com/mcdev12/dynasty-auction/go/internal/draft/auction"
	"github.com/mcdev12/dynasty-auction/go/internal/draft/gateway"
	"github.com/mcdev12/dynasty-auction/go/internal/draft/outbox"
	"github.com/mcdev12/dynasty-auction/go/internal/history"
	"github.com/mcdev12/dynasty-auction/go/internal/player"
	"github.com/mcdev12/dynasty-auction/go/internal/users"
)

type Services struct {
	Config       *config.Config
	Registry     *auction.Registry
	Auction      *draft.Service
	Gateway      *gateway.Service
	Catalog      *player.Catalog
	Players      *player.Handler
	Auth         *users.Handler
	Relay        *outbox.Relay
	OutboxHealth *outbox.HealthChecker
	Recorder     *history.Recorder

	closers []func()
}

func setupServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	// Wire up dependency injection chain
	// Infrastructure → notifiers → rooms → App → transports
	clock := clockwork.NewRealClock()
	s := &Services{Config: cfg}

	directory, err := users.NewDirectory(cfg.Accounts())
	if err != nil {
		return nil, fmt.Errorf("participant directory: %w", err)
	}

	// History
	var (
		database *sql.DB
		archive  draft.ChatArchive
		picks    player.HistoryStore
	)
	if cfg.Database.Enabled {
		database, err = setupDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { database.Close() })

		repo := history.NewRepository(database)
		if err := repo.EnsureSchema(ctx); err != nil {
			s.Close()
			return nil, err
		}
		s.Recorder = history.NewRecorder(repo, 0)
		archive, picks = repo, repo
	}

	// Outbox
	counters := outbox.NewCounters()
	var (
		publisher outbox.EventPublisher = outbox.NewLogPublisher()
		broker    outbox.ConnectionChecker
	)
	if cfg.NATS.Enabled {
		jsCfg := outbox.DefaultJetStreamConfig()
		jsCfg.URL = cfg.NATS.URL
		jsCfg.StreamName = cfg.NATS.StreamName
		jsCfg.SubjectPrefix = cfg.NATS.SubjectPrefix
		js, err := outbox.NewJetStreamPublisher(ctx, jsCfg)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, func() { js.Close() })
		publisher, broker = js, js
	}
	s.Relay = outbox.NewRelay(publisher, outbox.DefaultConfig(), clock, counters)
	s.OutboxHealth = outbox.NewHealthChecker(s.Relay, counters, broker)

	// Players
	source, err := s.playerSource(ctx, cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Catalog = player.NewCatalog(source, clock)
	if err := s.Catalog.Refresh(ctx); err != nil {
		// rooms still work; nominations fail until a refresh succeeds
		log.Error().Err(err).Str("source", string(cfg.Players.Source)).Msg("initial player load failed")
	}
	// league draft history always comes from Sleeper, whatever the player source
	leagues := sleeper_client.NewSleeperClient(cfg.Players.SleeperBaseURL, cfg.Players.Limit)
	s.Players = player.NewHandler(s.Catalog, player.NewDraftHistory(leagues, picks))

	// Rooms
	gwCfg := gateway.DefaultConfig()
	gwCfg.DefaultRoom = cfg.Server.DefaultRoom
	s.Gateway = gateway.NewService(gwCfg, directory)

	notifiers := auction.Fanout{s.Gateway.Notifier(), s.Relay}
	if s.Recorder != nil {
		notifiers = append(notifiers, s.Recorder)
	}
	s.Registry = auction.NewRegistry(cfg.Draft.Settings(),
		auction.WithClock(clock),
		auction.WithNotifier(notifiers),
	)
	s.closers = append(s.closers, s.Registry.Close)

	app := draft.NewApp(s.Registry, s.Catalog, archive, cfg.Draft.ChatHistory)
	s.Gateway.Bind(app)
	s.Auth = users.NewHandler(directory, app)
	s.Auction = draft.NewService(app, directory, cfg.Server.DefaultRoom)

	// the default room exists from startup
	s.Registry.GetOrCreate(cfg.Server.DefaultRoom)
	return s, nil
}

func (s *Services) playerSource(ctx context.Context, cfg *config.Config) (player.Source, error) {
	switch cfg.Players.Source {
	case clients.ExternalSourceSleeper:
		return sleeper_client.NewSleeperClient(cfg.Players.SleeperBaseURL, cfg.Players.Limit), nil
	case clients.ExternalSourcePostgres:
		pool, err := setupPlayerPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)
		return player.NewPostgresSource(pool, cfg.Players.Limit), nil
	case clients.ExternalSourceFile:
		return player.FileSource{Path: cfg.Players.FilePath}, nil
	default:
		return nil, fmt.Errorf("unknown player source %q", cfg.Players.Source)
	}
}

// Run starts every background loop and blocks until ctx is cancelled and
// they have returned.
func (s *Services) Run(ctx context.Context) {
	var wg sync.WaitGroup
	run := func(name string, fn func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(ctx)
			log.Debug().Str("loop", name).Msg("background loop stopped")
		}()
	}

	run("gateway", s.Gateway.Start)
	run("outbox", func(ctx context.Context) {
		if err := s.Relay.Run(ctx); err != nil {
			log.Error().Err(err).Msg("outbox relay failed")
		}
	})
	if s.Recorder != nil {
		run("history", s.Recorder.Run)
	}
	if interval := s.Config.Players.RefreshInterval; interval > 0 {
		run("players", func(ctx context.Context) { s.Catalog.RunRefresher(ctx, interval) })
	}

	wg.Wait()
}

// Close releases rooms and connections in reverse order of creation
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
