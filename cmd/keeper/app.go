package main

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/KirkDiggler/coc-keeper/internal/bestiary"
	"github.com/KirkDiggler/coc-keeper/internal/clients/inference"
	"github.com/KirkDiggler/coc-keeper/internal/config"
	"github.com/KirkDiggler/coc-keeper/internal/dice"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/handlers/chat"
	"github.com/KirkDiggler/coc-keeper/internal/metrics"
	"github.com/KirkDiggler/coc-keeper/internal/orchestrators/narrator"
	"github.com/KirkDiggler/coc-keeper/internal/orchestrators/resolver"
	"github.com/KirkDiggler/coc-keeper/internal/orchestrators/router"
	"github.com/KirkDiggler/coc-keeper/internal/pkg/clock"
	"github.com/KirkDiggler/coc-keeper/internal/pkg/idgen"
	"github.com/KirkDiggler/coc-keeper/internal/redis"
	"github.com/KirkDiggler/coc-keeper/internal/repositories/pending"
	"github.com/KirkDiggler/coc-keeper/internal/repositories/room"
	"github.com/KirkDiggler/coc-keeper/internal/repositories/sheet"
	"github.com/KirkDiggler/coc-keeper/internal/rules"
	"github.com/KirkDiggler/coc-keeper/internal/session"
	"github.com/KirkDiggler/coc-keeper/internal/transport"
)

// app is the wired dependency graph shared by serve and console
type app struct {
	redis   redis.Client
	handler *chat.Handler
	closers []func() error
}

// buildApp connects storage and builds every orchestrator. Replies go out
// through sender.
func buildApp(ctx context.Context, cfg *config.Config, sender transport.Sender, reg prometheus.Registerer) (*app, error) {
	a := &app{}

	client, err := redis.NewClientFromURL(cfg.RedisURL)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to create redis client")
	}
	a.redis = client
	a.closers = append(a.closers, client.Close)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = a.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to reach redis")
	}

	sheets, err := a.sheetRepository(cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	rooms, err := room.NewRedis(&room.RedisConfig{Client: client})
	if err != nil {
		_ = a.Close()
		return nil, errors.Wrap(err, "failed to create room repository")
	}

	clk := clock.New()
	offers, err := pending.NewRedisRepository(&pending.Config{
		Client:      client,
		Clock:       clk,
		IDGenerator: idgen.NewULID("offer"),
		TTL:         cfg.PendingTTL,
	})
	if err != nil {
		_ = a.Close()
		return nil, errors.Wrap(err, "failed to create pending repository")
	}

	store, err := session.NewStore(&session.Config{
		Sheets:       sheets,
		Rooms:        rooms,
		Offers:       offers,
		Clock:        clk,
		HistoryLimit: cfg.HistoryLimit,
		CacheSize:    cfg.SheetCacheSize,
		CacheTTL:     cfg.SheetCacheTTL,
	})
	if err != nil {
		_ = a.Close()
		return nil, errors.Wrap(err, "failed to create session store")
	}

	engine, err := rules.NewEngine(&rules.Config{Evaluator: dice.NewEvaluator(nil)})
	if err != nil {
		_ = a.Close()
		return nil, errors.Wrap(err, "failed to create rules engine")
	}

	recorder := metrics.New(reg)
	bus := events.NewBus()
	recorder.Subscribe(bus)

	res, err := resolver.NewOrchestrator(&resolver.Config{
		Sessions: store,
		Engine:   engine,
		EventBus: bus,
	})
	if err != nil {
		_ = a.Close()
		return nil, errors.Wrap(err, "failed to create resolver")
	}

	rt, err := router.NewOrchestrator(&router.Config{
		Sessions: store,
		Resolver: res,
		Engine:   engine,
		Bestiary: bestiary.New(),
	})
	if err != nil {
		_ = a.Close()
		return nil, errors.Wrap(err, "failed to create router")
	}

	llm, err := inference.New(&inference.Config{
		BaseURL:     cfg.OllamaURL,
		Model:       cfg.OllamaModel,
		Temperature: cfg.OllamaTemperature,
		NumCtx:      cfg.OllamaNumCtx,
		NoThink:     cfg.OllamaNoThink,
		Timeout:     cfg.InferenceTimeout,
	})
	if err != nil {
		_ = a.Close()
		return nil, errors.Wrap(err, "failed to create inference client")
	}

	nar, err := narrator.NewOrchestrator(&narrator.Config{
		Sessions:  store,
		Resolver:  res,
		Inference: metrics.InstrumentInference(llm, recorder),
		Timeout:   cfg.InferenceTimeout,
	})
	if err != nil {
		_ = a.Close()
		return nil, errors.Wrap(err, "failed to create narrator")
	}

	a.handler, err = chat.NewHandler(&chat.HandlerConfig{
		Router:   rt,
		Narrator: nar,
		Sender:   sender,
		Locks:    session.NewRoomLocks(),
		Metrics:  recorder,
		TurnIDs:  idgen.NewUUID(),
	})
	if err != nil {
		_ = a.Close()
		return nil, errors.Wrap(err, "failed to create chat handler")
	}

	slog.Info("keeper wired",
		"sheet_store", cfg.SheetStore,
		"model", cfg.OllamaModel,
		"history_limit", cfg.HistoryLimit)

	return a, nil
}

func (a *app) sheetRepository(cfg *config.Config) (sheet.Repository, error) {
	if cfg.SheetStore == config.SheetStoreSQLite {
		repo, err := sheet.NewSQLite(&sheet.SQLiteConfig{Path: cfg.SQLitePath})
		if err != nil {
			return nil, errors.Wrap(err, "failed to open sqlite sheet store")
		}
		a.closers = append(a.closers, repo.Close)
		return repo, nil
	}

	repo, err := sheet.NewRedis(&sheet.RedisConfig{Client: a.redis})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create sheet repository")
	}
	return repo, nil
}

// pingRedis is the /healthz check
func (a *app) pingRedis(ctx context.Context) error {
	return a.redis.Ping(ctx).Err()
}

// Close releases storage in reverse order
func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
