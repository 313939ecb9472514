package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"SIABSEN/attendance"
	"SIABSEN/config"
	"SIABSEN/descriptor"
	"SIABSEN/logger"
	"SIABSEN/models"
	"SIABSEN/storage"

	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "siabsen",
	Short: "Pendaftaran wajah dan absen berbasis pengenalan wajah",
	Long: `SIABSEN menyimpan descriptor wajah per nama, menjalankan sesi scan
enroll/recognize terhadap kamera perangkat, dan mencatat absen ke log
append-only yang bisa diexport ke CSV atau JSON.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "File .env tambahan (default: .env jika ada)")
}

// app berisi dependency yang dipakai bersama oleh semua command.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	blobs  storage.BlobStore
	store  *descriptor.Store
	log    *attendance.Log
}

func loadApp(ctx context.Context) (*app, error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}

	l := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(l)

	blobs, err := openBlobStore(cfg.Storage)
	if err != nil {
		return nil, err
	}

	store := descriptor.NewStore(blobs, cfg.Match.Threshold, descriptor.Strategy(cfg.Match.Strategy),
		logger.Module(l, "descriptor"), descriptor.WithDimension(cfg.Match.DescriptorDim))
	store.Load(ctx)
	log := attendance.NewLog(blobs, logger.Module(l, "attendance"))
	log.Load(ctx)

	return &app{cfg: cfg, logger: l, blobs: blobs, store: store, log: log}, nil
}

func openBlobStore(cfg config.StorageConfig) (storage.BlobStore, error) {
	switch cfg.Driver {
	case "mysql", "sqlite":
		db, err := models.ConnectDatabase(cfg.Driver, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return storage.NewGormStore(db), nil
	default:
		return storage.NewFileStore(cfg.DataDir)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func today(loc *time.Location) time.Time {
	return time.Now().In(loc)
}
