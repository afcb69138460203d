// Package app wires the client-side components of one profile with fx.
package app

import (
	"context"
	"time"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/bus"
	"github.com/ccumaco/ai-frontend/internal/config"
	"github.com/ccumaco/ai-frontend/internal/journal"
	"github.com/ccumaco/ai-frontend/internal/lock"
	"github.com/ccumaco/ai-frontend/internal/logging"
	"github.com/ccumaco/ai-frontend/internal/metrics"
	"github.com/ccumaco/ai-frontend/internal/profile"
	"github.com/ccumaco/ai-frontend/internal/store"
	"github.com/ccumaco/ai-frontend/internal/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// JournalRetention is how long request activity is kept.
const JournalRetention = 30 * 24 * time.Hour

// Params selects the profile and the binary being wired.
type Params struct {
	Profile   string // --profile; empty resolves from config
	APIURL    string // --api-url; empty resolves from env/config
	Binary    string // names the log file and the instance lock
	Console   bool   // mirror logs to stderr
	Exclusive bool   // hold the per-profile instance lock
}

// Module returns the fx module composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("aifront",
		fx.Supply(p),
		fx.Provide(
			provideSettings,
			provideLogger,
			provideBus,
			provideLock,
			provideJournal,
			provideTracer,
			provideMetrics,
			provideClient,
			provideProjects,
			provideChats,
		),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Invoke(registerLifecycle),
	)
}

// ResolveSettings merges flags, environment and the profile config.
func ResolveSettings(p Params) (config.Settings, error) {
	config.LoadEnv()
	cfg := profile.LoadConfig()
	name := profile.Resolve(p.Profile, cfg)
	if err := profile.ValidateName(name); err != nil {
		return config.Settings{}, err
	}
	return config.Resolve(cfg, name, config.Overrides{APIURL: p.APIURL}), nil
}

func provideSettings(p Params) (config.Settings, error) {
	s, err := ResolveSettings(p)
	if err != nil {
		return config.Settings{}, err
	}
	if err := profile.EnsureDir(s.Profile); err != nil {
		return config.Settings{}, err
	}
	return s, nil
}

func provideLogger(p Params, s config.Settings) (*zap.Logger, error) {
	return logging.New(logging.Options{
		Path:    profile.LogPath(s.Profile, p.Binary),
		Profile: s.Profile,
		Level:   s.LogLevel,
		Console: p.Console,
	})
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideLock(p Params, s config.Settings, logger *zap.Logger) (*lock.Lock, error) {
	if !p.Exclusive {
		return nil, nil
	}
	l, err := lock.Acquire(profile.Dir(s.Profile), p.Binary)
	if err != nil {
		return nil, err
	}
	logger.Info("instance lock acquired", zap.String("path", l.Path()))
	return l, nil
}

func provideJournal(s config.Settings, logger *zap.Logger) (*journal.Journal, error) {
	path := profile.StateDBPath(s.Profile)
	db, res, err := journal.OpenMigrated(path)
	if err != nil {
		return nil, err
	}
	if res.Changed {
		logger.Info("migrations applied", zap.Uint("version", res.Version))
	} else {
		logger.Debug("migrations up to date", zap.Uint("version", res.Version))
	}
	logger.Info("journal initialized", zap.String("path", path))
	return journal.New(db, logger.Named("journal")), nil
}

func provideTracer(s config.Settings) (*sdktrace.TracerProvider, error) {
	return tracing.Init(context.Background(), s.Tracing.Enabled, s.Tracing.Endpoint, s.Profile)
}

func provideMetrics(s config.Settings, logger *zap.Logger) *metrics.Server {
	return metrics.NewServer(s.MetricsAddr, logger)
}

// The tracer provider is taken so that the global provider is installed
// before the first request.
func provideClient(s config.Settings, j *journal.Journal, _ *sdktrace.TracerProvider, logger *zap.Logger) *api.Client {
	logger.Info("backend configured", zap.String("api_url", s.APIURL), zap.Duration("timeout", s.Timeout))
	return api.New(api.Options{
		BaseURL:  s.APIURL,
		Timeout:  s.Timeout,
		Logger:   logger.Named("api"),
		Observer: j,
	})
}

func provideProjects(c *api.Client, b *bus.Bus, logger *zap.Logger) *store.Projects {
	return store.NewProjects(c, b, logger)
}

func provideChats(c *api.Client, b *bus.Bus, logger *zap.Logger) *store.Chats {
	return store.NewChats(c, b, logger)
}

func registerLifecycle(lc fx.Lifecycle, lk *lock.Lock, j *journal.Journal, tp *sdktrace.TracerProvider, ms *metrics.Server, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			ms.Start()
			if n, err := j.Prune(time.Now().Add(-JournalRetention)); err != nil {
				logger.Warn("journal prune failed", zap.Error(err))
			} else if n > 0 {
				logger.Info("journal pruned", zap.Int64("rows", n))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := ms.Stop(ctx); err != nil {
				logger.Warn("metrics shutdown", zap.Error(err))
			}
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Warn("tracer shutdown", zap.Error(err))
			}
			if err := j.Close(); err != nil {
				logger.Warn("journal close", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
