package app

import (
	"context"
	"os"
	"runtime/debug"
	"time"
	_ "time/tzdata"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/polestar/storefront/config"
	"github.com/polestar/storefront/internal/api"
	"github.com/polestar/storefront/internal/domain"
	"github.com/polestar/storefront/internal/events"
	"github.com/polestar/storefront/internal/notify"
	"github.com/polestar/storefront/internal/storage"
	"github.com/polestar/storefront/internal/webserver"
)

type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	store     storage.Store
	bus       *events.Bus
	notifier  *notify.InquiryNotifier
}

// Ensure Application implements all interfaces
var (
	_ DBProvider     = (*Application)(nil)
	_ ConfigProvider = (*Application)(nil)
	_ StoreProvider  = (*Application)(nil)
	_ EventProvider  = (*Application)(nil)
	_ AppContext     = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig, bus: events.NewBus()}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

// DB returns the gorm handle, nil when the memory backend is in use.
func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

func (a *Application) Store() storage.Store {
	return a.store
}

func (a *Application) Events() *events.Bus {
	return a.bus
}

// OverrideStore replaces the application's store (used in tests).
func (a *Application) OverrideStore(store storage.Store) {
	a.store = store
}

// Init sets up logging, the store and the background consumers.
func (a *Application) Init() error {
	cfg := a.appConfig
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	if err := initLogger(cfg.Logger, cfg.System.Debug); err != nil {
		return err
	}
	if names := cfg.DefaultCredentials(); len(names) > 0 {
		zap.L().Warn("development credentials in use, change them before deploying", zap.Strings("settings", names))
	}

	if err := a.OpenStore(); err != nil {
		return err
	}
	if err := a.MigrateDB(false); err != nil {
		return err
	}

	ctx := context.Background()
	if err := a.checkAdmin(ctx); err != nil {
		return err
	}
	if cfg.Database.Seed {
		if err := a.checkCatalog(ctx); err != nil {
			return err
		}
	}

	if cfg.Smtp.Enabled {
		notifier, err := notify.NewInquiryNotifier(cfg.Smtp)
		if err != nil {
			return err
		}
		if err := a.bus.OnInquiryCreated(notifier.InquiryCreated); err != nil {
			notifier.Close()
			return errors.Wrap(err, "subscribe inquiry notifier")
		}
		a.notifier = notifier
		zap.L().Info("inquiry notifications enabled", zap.Strings("to", cfg.Smtp.To))
	}
	return nil
}

func initLogger(cfg config.LogConfig, debugMode bool) error {
	var zapConfig zap.Config
	if cfg.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	if debugMode {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			return errors.Wrap(err, "build logger")
		}
	}

	zap.ReplaceGlobals(logger)
	return nil
}

// OpenStore connects the configured backend. It is a no-op once a store is set.
func (a *Application) OpenStore() error {
	if a.store != nil {
		return nil
	}
	dbcfg := a.appConfig.Database
	if dbcfg.Type == "memory" || dbcfg.Type == "" {
		a.store = storage.NewMemoryStore()
		zap.L().Info("using in-memory store")
		return nil
	}
	db, err := getDatabase(dbcfg, a.appConfig.GetDataDir())
	if err != nil {
		return err
	}
	a.gormDB = db
	a.store = storage.NewGormStore(db)
	zap.S().Infof("Database connection successful, type: %s", dbcfg.Type)
	return nil
}

// MigrateDB creates or updates the tables; track logs every statement.
func (a *Application) MigrateDB(track bool) (err error) {
	if a.gormDB == nil {
		return nil
	}
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEBUG_TRACE") != "" {
				debug.PrintStack()
			}
			if err2, ok := err1.(error); ok {
				err = err2
			} else {
				err = errors.Errorf("migration panic: %v", err1)
			}
			zap.S().Error(err)
		}
	}()
	db := a.gormDB
	if track {
		db = db.Debug()
	}
	if err := db.Migrator().AutoMigrate(domain.Tables...); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	return nil
}

// DropAll removes every table. Only used by the migrate command.
func (a *Application) DropAll() error {
	if a.gormDB == nil {
		return nil
	}
	return a.gormDB.Migrator().DropTable(domain.Tables...)
}

// Seed fills an empty catalog regardless of the seed setting.
func (a *Application) Seed(ctx context.Context) error {
	return a.checkCatalog(ctx)
}

// NewWebServer builds the HTTP server with every API route mounted.
func (a *Application) NewWebServer() *webserver.Server {
	s := webserver.NewServer(a.appConfig.Web)
	api.NewHandler(a.store, a.bus, a.appConfig.Auth, a.appConfig.Web.SessionSecret).Register(s)
	return s
}

// Release releases application resources
func (a *Application) Release() {
	a.bus.Wait()
	if a.notifier != nil {
		a.notifier.Close()
	}
	if a.gormDB != nil {
		if sqlDB, err := a.gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = zap.L().Sync()
}
