package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/polestar/storefront/config"
	"github.com/polestar/storefront/internal/events"
	"github.com/polestar/storefront/internal/storage"
	"github.com/polestar/storefront/internal/webserver"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// StoreProvider provides the catalog, inquiry and user stores
type StoreProvider interface {
	Store() storage.Store
}

// EventProvider provides the domain event bus
type EventProvider interface {
	Events() *events.Bus
}

// AppContext combines all provider interfaces for full application context
type AppContext interface {
	DBProvider
	ConfigProvider
	StoreProvider
	EventProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	DropAll() error
	Seed(ctx context.Context) error
	NewWebServer() *webserver.Server
	Release()
}
