package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	dbsqlite "tinytrans/internal/adapters/db/sqlite"
	llmfactory "tinytrans/internal/adapters/llm/factory"
	"tinytrans/internal/adapters/llm/registry"
	promptRenderer "tinytrans/internal/adapters/prompt"
	"tinytrans/internal/adapters/record/memory"
	apiapp "tinytrans/internal/api/app"
	"tinytrans/internal/config"
	"tinytrans/internal/logger"
	"tinytrans/internal/message"
	"tinytrans/internal/model"
	"tinytrans/internal/ports"
	translatorusecase "tinytrans/internal/usecase/translator"
)

// App holds the services built from one config.
type App struct {
	cfg       config.Config
	db        *sql.DB
	cache     *dbsqlite.CacheRepo
	registry  *registry.Registry
	translate *translatorusecase.Service
	providers *apiapp.ProviderAPI
}

func NewApp(cfg config.Config) (*App, error) {
	a := &App{cfg: cfg, registry: registry.New()}

	if cfg.Cache.Enabled {
		db, err := dbsqlite.Open(context.Background(), cfg.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		a.db = db
		a.cache = dbsqlite.NewCacheRepo(db)
	}

	settings := cfg.Provider.Settings()
	prov, err := llmfactory.FromProvider(settings)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.registry.Register(settings.Name, prov)
	a.providers = apiapp.NewProviderAPI(a.registry, settings)

	var limiter *rate.Limiter
	if rps := cfg.Provider.RequestsPerSecond; rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	deps := translatorusecase.Deps{
		Provider:    prov,
		Settings:    settings,
		Prompt:      promptRenderer.New(cfg.Prompt.Overrides()),
		Limiter:     limiter,
		MaxAttempts: cfg.Provider.MaxAttempts,
	}
	if a.cache != nil {
		deps.Cache = a.cache
	}
	a.translate = translatorusecase.New(deps)
	logger.Debug("app ready", "module", "app", "provider", settings.Name, "type", settings.Type, "cache", cfg.Cache.Enabled)
	return a, nil
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// Translator is the auto-translate service the editor talks to.
func (a *App) Translator() ports.AutoTranslator { return a.translate }

// OpenTexts builds an in-memory messages file with one unit per display
// text. Units are named t1, t2, ... in argument order.
func (a *App) OpenTexts(name, sourceLang, targetLang string, texts []string) (*apiapp.UnitAPI, error) {
	units := make([]*memory.Unit, 0, len(texts))
	for i, t := range texts {
		m, err := message.ParseDisplay(t)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i+1, err)
		}
		units = append(units, memory.NewUnit(memory.UnitSpec{
			ID:     fmt.Sprintf("t%d", i+1),
			Source: m.NativeString(),
		}))
	}
	f := model.NewTranslationFile(name, memory.NewFile(sourceLang, targetLang, units...))
	return apiapp.NewUnitAPI(f, a.translate), nil
}

func (a *App) CacheCount(ctx context.Context) (int, error) {
	if a.cache == nil {
		return 0, errCacheDisabled
	}
	return a.cache.Count(ctx)
}

func (a *App) PurgeCache(ctx context.Context, olderThan time.Duration) (int64, error) {
	if a.cache == nil {
		return 0, errCacheDisabled
	}
	return a.cache.PurgeOlderThan(ctx, olderThan)
}
