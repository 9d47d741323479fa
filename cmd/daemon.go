package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/chimed/chimed/cmd/common"
	"github.com/chimed/chimed/internal/api"
	"github.com/chimed/chimed/internal/config"
	"github.com/chimed/chimed/internal/daemon"
	"github.com/chimed/chimed/internal/recur"
	"github.com/chimed/chimed/internal/render"
	"github.com/chimed/chimed/internal/server"
	"github.com/chimed/chimed/pkg/chimelib"
	"github.com/chimed/chimed/pkg/logger"
)

var daemonFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "config, c",
		Usage: "path to the daemon config file",
	},
}

func runDaemon(ctx *cli.Context) error {
	l := log.Default()
	lg := logger.NewStandardLogger(l)
	defer lg.Close()

	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "load_config", err)
		return nil
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "create_data_dir", err)
		return nil
	}

	fs := afero.NewOsFs()
	storage := chimelib.NewSQLiteStorage(cfg.DatabasePath(), l)
	renderer := render.NewToneRenderer(l, fs, cfg.TonePath, cfg.MaxRingDuration)
	sched := chimelib.NewScheduler(storage, renderer, chimelib.SystemClock{}, cfg.PastDueLimit, l)

	rules, err := recur.LoadRules(fs, cfg.RulesPath())
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "load_rules", err)
		return nil
	}

	a, err := api.NewApi(l, sched, rules)
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "new_api", err)
		return nil
	}

	serv := server.NewServer(l, a, &server.RPCConfig{
		Secret:    cfg.RPCSecret,
		ListenAll: cfg.RPCListenAll,
		Version:   version,
		Commit:    commit,
		BuildType: BuildType,
	}, cfg.Port)
	a.RegisterHandlers(serv)

	runner := daemon.New(&daemon.Config{
		ShutdownTimeout: 10 * time.Second,
	}, &daemon.Dependencies{
		RunFunc: func(runCtx context.Context) error {
			return serv.Start(runCtx)
		},
		ShutdownFunc: func() error {
			if err := a.Close(); err != nil {
				lg.Warning("api close: %v", err)
			}
			return storage.Close()
		},
	})

	sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-sigCtx.Done()
		lg.Info("shutting down")
		if err := runner.Shutdown(); err != nil && err != daemon.ErrNotRunning {
			lg.Error("shutdown: %v", err)
		}
	}()

	lg.Info("chimed %s starting, data dir %s", version, cfg.DataDir)
	if err := runner.Start(sigCtx); err != nil && err != context.Canceled {
		common.PrintRuntimeErr(ctx, "daemon", "run", err)
	}
	return nil
}
