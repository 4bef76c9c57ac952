package app

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/process"
	"go.uber.org/zap"

	"github.com/talkincode/bodega/internal/domain"
	"github.com/talkincode/bodega/internal/report"
	"github.com/talkincode/bodega/internal/workflow"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	_, err = a.sched.AddFunc("@every 5m", a.SchedProcessMonitorTask)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	if spec := a.appConfig.Report.Schedule; spec != "" {
		_, err = a.sched.AddFunc(spec, a.SchedReportSnapshotTask)
		if err != nil {
			zap.S().Errorf("init job error %s", err.Error())
		}
	}

	a.sched.Start()
}

// SchedReportSnapshotTask writes a report snapshot to the report dir
func (a *Application) SchedReportSnapshotTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	if _, err := a.SnapshotReport(); err != nil {
		zap.L().Error("report snapshot failed", zap.String("namespace", "report"), zap.Error(err))
	}
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // G115: PID is always within int32 range
	if err != nil {
		return
	}
	fields := []zap.Field{zap.String("namespace", "monitor")}
	if cpuuse, err := p.CPUPercent(); err == nil {
		fields = append(fields, zap.Float64("cpu_percent", cpuuse))
	}
	if meminfo, err := p.MemoryInfo(); err == nil {
		fields = append(fields, zap.Uint64("rss_mb", meminfo.RSS/1024/1024))
	}
	zap.L().Debug("process usage", fields...)
}

// StatsSnapshot focuses the statistics screen and returns its snapshot. A
// failed refresh still serves the last loaded products; it is an error only
// when nothing was ever loaded.
func (a *Application) StatsSnapshot(ctx context.Context) ([]domain.Product, error) {
	if a.stats == nil {
		return nil, errors.New("statistics screen not attached")
	}
	workflow.Focus(ctx, a.bus, StatsScreen)
	if a.stats.State() == workflow.Failed {
		products := a.stats.Products()
		if len(products) == 0 {
			return nil, a.stats.LastError()
		}
		zap.L().Warn("serving stale statistics snapshot",
			zap.String("namespace", "report"),
			zap.Int("products", len(products)),
			zap.Error(a.stats.LastError()),
		)
		return products, nil
	}
	return a.stats.Products(), nil
}

// SnapshotReport renders every report format from the statistics snapshot
// into the report directory.
func (a *Application) SnapshotReport() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	products, err := a.StatsSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	artifacts, err := a.reports.Build(ctx, products)
	if err != nil {
		return nil, err
	}
	return report.WriteDir(a.appConfig.GetReportDir(), artifacts)
}
