// Package app wires the server process together with fx.
package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"taskflow/internal/api"
	"taskflow/internal/config"
	"taskflow/internal/logger"
	"taskflow/internal/notify"
	"taskflow/internal/repository"
	"taskflow/internal/service"
)

// Module provides every component of `taskflow serve`.
func Module(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			newLogger,
			newLocation,
			newDB,
			repository.NewStore,
			service.NewClock,
			service.NewTaskService,
			service.NewHabitService,
			service.NewCategoryService,
			newReportService,
			newNotifier,
			service.NewReportJob,
			newScheduler,
			newServer,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Invoke(dbLifecycle, serverLifecycle, schedulerLifecycle),
	)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := logger.ParseLevel(cfg.Log.Level)
	if level > zapcore.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	return logger.New(level)
}

func newLocation(cfg *config.Config) (*time.Location, error) {
	return cfg.Location()
}

func newDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	return repository.NewDB(cfg.Database, log)
}

func newReportService(cfg *config.Config, habits *service.HabitService) *service.ReportService {
	return service.NewReportService(habits, cfg.Report.Days)
}

// newNotifier posts to Telegram when a bot is configured and logs otherwise.
func newNotifier(cfg *config.Config, log *zap.Logger) (service.Notifier, error) {
	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		return notify.NewLog(log), nil
	}
	tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, log)
	if err != nil {
		return nil, err
	}
	return tg, nil
}

func newScheduler(loc *time.Location, log *zap.Logger) *service.SchedulerService {
	return service.NewSchedulerService(loc, log)
}

func newServer(cfg *config.Config, tasks *service.TaskService, habits *service.HabitService, categories *service.CategoryService, store *repository.Store, log *zap.Logger) *api.Server {
	return api.NewServer(cfg.Server.Addr(), tasks, habits, categories, store, log)
}

func dbLifecycle(lc fx.Lifecycle, db *gorm.DB, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("closing database")
			return repository.Close(db)
		},
	})
}

func serverLifecycle(lc fx.Lifecycle, server *api.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			server.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}

// schedulerLifecycle registers the habit digest when a schedule is configured.
func schedulerLifecycle(lc fx.Lifecycle, cfg *config.Config, scheduler *service.SchedulerService, job *service.ReportJob, log *zap.Logger) error {
	if cfg.Report.Schedule == "" {
		log.Info("habit digest disabled")
		return nil
	}
	if _, err := scheduler.Schedule(cfg.Report.Schedule, job.Func()); err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			scheduler.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
	return nil
}
