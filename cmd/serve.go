package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"SIABSEN/config"
	"SIABSEN/feed"
	"SIABSEN/jobs"
	"SIABSEN/logger"
	"SIABSEN/routes"
	"SIABSEN/scan"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Jalankan server HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("port", "", "Port (default dari PORT atau 8000)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	// Endpoint admin wajib punya key, matikan aplikasi demi keamanan
	if err := config.RequireJWTKey(); err != nil {
		return err
	}
	if a.cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	port := a.cfg.Port
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		port = p
	}

	// 1. Kamera perangkat dan controller scan
	f := feed.New(a.cfg.FeedStale, a.cfg.Match.DescriptorDim)
	ctrl := scan.NewController(f, f, a.store, a.log, scan.Options{
		Enroll:    scan.Timing(a.cfg.Enroll),
		Recognize: scan.Timing(a.cfg.Recog),
		Location:  a.cfg.Location,
		Logger:    logger.Module(a.logger, "scan"),
	})
	defer ctrl.Close()

	// 2. Backup terjadwal (opsional)
	if a.cfg.Backup.Dir != "" {
		b := jobs.NewBackup(a.cfg.Backup.Dir, a.log, a.store, a.cfg.Location, logger.Module(a.logger, "backup"))
		sched, err := jobs.Schedule(a.cfg.Backup, b)
		if err != nil {
			return err
		}
		defer sched.Stop()
	}

	// 3. Router
	router := routes.SetupRouter(routes.Deps{
		Controller: ctrl,
		Store:      a.store,
		Log:        a.log,
		Feed:       f,
		Admin:      a.cfg.Admin,
		Location:   a.cfg.Location,
		StaticDir:  a.cfg.StaticDir,
		Logger:     logger.Module(a.logger, "http"),
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Server berjalan", "addr", srv.Addr, "storage", a.cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Mematikan server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
