package app

import (
	"context"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/bus"
	"github.com/ccumaco/ai-frontend/internal/config"
	"github.com/ccumaco/ai-frontend/internal/journal"
	"github.com/ccumaco/ai-frontend/internal/store"
	"github.com/ccumaco/ai-frontend/internal/tui"
	"github.com/ccumaco/ai-frontend/internal/tui/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// TUI adds the interactive shell on top of Module. The shell starts with
// the app and shuts fx down when the user quits.
func TUI() fx.Option {
	return fx.Options(
		fx.Provide(provideViewModel, provideShell),
		fx.Invoke(runShell),
	)
}

func provideViewModel(c *api.Client, projects *store.Projects, chats *store.Chats, j *journal.Journal, b *bus.Bus, logger *zap.Logger) *model.ViewModel {
	return model.NewViewModel(context.Background(), c, projects, chats, j, b, logger)
}

func provideShell(vm *model.ViewModel, b *bus.Bus, s config.Settings, logger *zap.Logger) *tui.App {
	return tui.NewApp(vm, b, tui.Options{Profile: s.Profile, APIURL: s.APIURL}, logger)
}

func runShell(lc fx.Lifecycle, shell *tui.App, sd fx.Shutdowner, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := shell.Run(); err != nil {
					logger.Error("tui exited", zap.Error(err))
				}
				_ = sd.Shutdown()
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			shell.Stop()
			return nil
		},
	})
}
