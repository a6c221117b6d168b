package main

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"kalender/connection"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the reminder sweep",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := connection.NewRouter(a.cfg, a.log, a.svc)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.svc.RunReminderLoop(gctx, a.cfg.Reminders.Interval)
		return nil
	})
	g.Go(func() error {
		return connection.StartServer(gctx, a.cfg.HTTP, a.log, router)
	})
	return g.Wait()
}
