package app

import (
	"context"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"

	"github.com/talkincode/bodega/config"
	"github.com/talkincode/bodega/internal/domain"
	"github.com/talkincode/bodega/internal/report"
	"github.com/talkincode/bodega/internal/store"
	"github.com/talkincode/bodega/internal/workflow"
)

// StoreProvider provides the product store
type StoreProvider interface {
	Store() store.ProductStore
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// BusProvider provides the screen event bus
type BusProvider interface {
	Bus() EventBus.Bus
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// ReportProvider provides report building and sharing
type ReportProvider interface {
	Reports() *report.Builder
	Sharer() report.Sharer
}

// ScreenProvider provides the statistics list screen
type ScreenProvider interface {
	Stats() *workflow.ListScreen
}

// AppContext combines all provider interfaces for full application context
type AppContext interface {
	StoreProvider
	ConfigProvider
	BusProvider
	SchedulerProvider
	ReportProvider
	ScreenProvider

	// StatsSnapshot refreshes the statistics screen through its focus event
	// and returns the products it holds
	StatsSnapshot(ctx context.Context) ([]domain.Product, error)
	// SnapshotReport builds every report format and writes it to the report dir
	SnapshotReport() ([]string, error)
}
