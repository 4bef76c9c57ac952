package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/talkincode/bodega/config"
	"github.com/talkincode/bodega/internal/adminapi"
	"github.com/talkincode/bodega/internal/app"
	"github.com/talkincode/bodega/internal/webserver"
)

var (
	conffile = flag.String("c", "", "config yaml file")
	initdb   = flag.Bool("initdb", false, "drop and recreate the product table, then exit")
	snapshot = flag.Bool("snapshot", false, "write a report snapshot to the report dir, then exit")
	token    = flag.String("token", "", "print a bearer token for the given subject, then exit")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*conffile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	if *token != "" {
		if cfg.Web.Secret == "" {
			fmt.Fprintln(os.Stderr, "web.secret is not set")
			os.Exit(1)
		}
		t, err := webserver.IssueToken(cfg.Web.Secret, *token, 30*24*time.Hour)
		if err != nil {
			fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(t)
		return
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}
	defer application.Release()

	if *initdb {
		if err := application.InitDb(); err != nil {
			zap.S().Errorf("init database: %v", err)
			return
		}
		zap.S().Info("database initialized")
		return
	}

	if *snapshot {
		paths, err := application.SnapshotReport()
		if err != nil {
			zap.S().Errorf("report snapshot: %v", err)
			return
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return
	}

	adminapi.Init()
	server := webserver.New(cfg.Web, application)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		if err := server.Shutdown(context.Background()); err != nil {
			zap.S().Errorf("shutdown: %v", err)
		}
	}()

	if err := server.Start(); err != nil {
		zap.S().Errorf("web server: %v", err)
	}
}
