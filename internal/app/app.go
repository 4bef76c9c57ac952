package app

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/talkincode/bodega/config"
	"github.com/talkincode/bodega/internal/report"
	"github.com/talkincode/bodega/internal/store"
	"github.com/talkincode/bodega/internal/store/boltstore"
	"github.com/talkincode/bodega/internal/store/gormstore"
	"github.com/talkincode/bodega/internal/store/memstore"
	"github.com/talkincode/bodega/internal/store/mongostore"
	"github.com/talkincode/bodega/internal/workflow"
)

// StatsScreen names the list screen backing the statistics report
const StatsScreen = "estadisticas"

type Application struct {
	appConfig *config.AppConfig
	store     store.ProductStore
	sqlStore  *gormstore.Store
	bus       EventBus.Bus
	sched     *cron.Cron
	reports   *report.Builder
	sharer    report.Sharer
	stats     *workflow.ListScreen
}

// Ensure Application implements all interfaces
var (
	_ StoreProvider     = (*Application)(nil)
	_ ConfigProvider    = (*Application)(nil)
	_ BusProvider       = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ ReportProvider    = (*Application)(nil)
	_ ScreenProvider    = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{
		appConfig: appConfig,
		bus:       EventBus.New(),
		reports:   report.NewBuilder(appConfig.Report),
		sharer:    newSharer(appConfig),
	}
}

func newSharer(cfg *config.AppConfig) report.Sharer {
	if cfg.Report.Share == "sftp" {
		return report.NewSFTPSharer(cfg.SFTP)
	}
	return report.NewMailSharer(cfg.Mail)
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Store() store.ProductStore {
	return a.store
}

// OverrideStore replaces the application's product store (used in tests).
func (a *Application) OverrideStore(s store.ProductStore) {
	a.store = s
	a.attachScreens()
}

// attachScreens (re)builds the statistics screen over the current store and
// subscribes it to its focus topic.
func (a *Application) attachScreens() {
	if a.stats != nil {
		a.stats.Unmount()
	}
	a.stats = workflow.NewListScreen(StatsScreen, a.store, nil)
	if err := a.stats.Attach(a.bus); err != nil {
		zap.L().Error("attach screen failed", zap.String("screen", StatsScreen), zap.Error(err))
	}
}

// Stats returns the statistics list screen
func (a *Application) Stats() *workflow.ListScreen {
	return a.stats
}

// OverrideSharer replaces the report sharer (used in tests).
func (a *Application) OverrideSharer(s report.Sharer) {
	a.sharer = s
}

func (a *Application) Bus() EventBus.Bus {
	return a.bus
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

func (a *Application) Reports() *report.Builder {
	return a.reports
}

func (a *Application) Sharer() report.Sharer {
	return a.sharer
}

func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	initLogger(cfg)

	if err := cfg.InitDirs(); err != nil {
		zap.S().Warnf("create work dirs: %v", err)
	}

	ids, err := store.NewIDGenerator(cfg.System.NodeID)
	if err != nil {
		return err
	}
	s, err := a.openStore(cfg, ids)
	if err != nil {
		return err
	}
	a.store = s
	a.attachScreens()
	zap.S().Infof("Store connection successful, type: %s", cfg.Database.Type)

	if cfg.System.Demo {
		a.checkProducts()
	}

	a.initJob()
	return nil
}

func initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	var err error
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
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
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

func (a *Application) openStore(cfg *config.AppConfig, ids store.IDGenerator) (store.ProductStore, error) {
	switch cfg.Database.Type {
	case "", "memory":
		return memstore.New(ids), nil
	case "sqlite", "postgres":
		db, err := gormstore.OpenDB(cfg.Database, cfg.System.Workdir)
		if err != nil {
			return nil, err
		}
		s := gormstore.New(db, ids)
		a.sqlStore = s
		if err := a.MigrateDB(); err != nil {
			return nil, err
		}
		return s, nil
	case "bolt":
		name := cfg.Database.Name
		if name == "" {
			name = "bodega"
		}
		return boltstore.Open(path.Join(cfg.GetDataDir(), name+".bolt"), cfg.Database.Collection, ids)
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return mongostore.Connect(ctx, cfg.Database.URI, cfg.Database.Name, cfg.Database.Collection, ids)
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.Database.Type)
	}
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.stats != nil {
		a.stats.Unmount()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			zap.L().Error("close store failed", zap.Error(err))
		}
	}
	_ = zap.L().Sync()
}
