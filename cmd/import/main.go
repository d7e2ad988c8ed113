package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"hotelavail/internal/catalog"
	"hotelavail/internal/config"
	"hotelavail/internal/database"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	hotelsPath   string
	bookingsPath string
	dbPath       string
	backup       config.BackupConfig
}

func run(args []string) error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	return importCatalog(ctx, opts, &logger)
}

// parseOptions reads defaults from CONFIG_PATH when it is set and lets flags
// override them.
func parseOptions(args []string) (options, error) {
	opts := options{
		hotelsPath:   "data/hotels.json",
		bookingsPath: "data/bookings.json",
		dbPath:       "data/catalog.db",
		backup:       config.BackupConfig{Enabled: true, RetentionDays: 30, StoragePath: "data/backups"},
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return opts, fmt.Errorf("load config: %w", err)
		}
		if cfg.Data.HotelsPath != "" {
			opts.hotelsPath = cfg.Data.HotelsPath
		}
		if cfg.Data.BookingsPath != "" {
			opts.bookingsPath = cfg.Data.BookingsPath
		}
		if cfg.Data.DatabasePath != "" {
			opts.dbPath = cfg.Data.DatabasePath
		}
		opts.backup = cfg.Data.Backup
	}

	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.StringVar(&opts.hotelsPath, "hotels", opts.hotelsPath, "path or URL of hotels.json")
	fs.StringVar(&opts.bookingsPath, "bookings", opts.bookingsPath, "path or URL of bookings.json")
	fs.StringVar(&opts.dbPath, "db", opts.dbPath, "path to sqlite db")
	noBackup := fs.Bool("no-backup", false, "skip the snapshot of the existing database")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if *noBackup {
		opts.backup.Enabled = false
	}
	return opts, nil
}

func importCatalog(ctx context.Context, opts options, logger *zerolog.Logger) error {
	cat, err := catalog.NewJSONSource(opts.hotelsPath, opts.bookingsPath, logger).Load(ctx)
	if err != nil {
		return fmt.Errorf("load json catalog: %w", err)
	}

	// NewDB creates the file, so check for a previous catalog first.
	_, statErr := os.Stat(opts.dbPath)
	hadCatalog := statErr == nil

	db, err := database.NewDB(opts.dbPath, logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	backups := database.NewBackupService(opts.dbPath, opts.backup, logger)
	if hadCatalog {
		backupPath, err := backups.PerformBackup(db)
		if err != nil {
			return fmt.Errorf("backup: %w", err)
		}
		if backupPath != "" {
			logger.Info().Str("backup", backupPath).Msg("previous catalog saved")
		}
	}
	backups.CleanupOldBackups()

	if err := db.ReplaceCatalog(ctx, cat); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}

	stats := cat.Stats()
	fmt.Printf("Import finished: hotels=%d, rooms=%d, bookings=%d\n", stats.Hotels, stats.Rooms, stats.Bookings)
	return nil
}
