package database

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hotelavail/internal/config"

	"github.com/rs/zerolog"
)

// BackupService snapshots the catalog database before it is replaced by an
// import and prunes snapshots older than the retention window.
type BackupService struct {
	dbPath string
	config config.BackupConfig
	logger *zerolog.Logger
	now    func() time.Time
}

func NewBackupService(dbPath string, cfg config.BackupConfig, logger *zerolog.Logger) *BackupService {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &BackupService{
		dbPath: dbPath,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

// PerformBackup writes a snapshot and returns its path. A missing source
// database is not an error: there is nothing to back up before a first import.
func (s *BackupService) PerformBackup(db *DB) (string, error) {
	if !s.config.Enabled {
		return "", nil
	}
	if _, err := os.Stat(s.dbPath); os.IsNotExist(err) {
		return "", nil
	}

	if err := os.MkdirAll(s.config.StoragePath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupPath := s.nextBackupPath()

	s.logger.Info().Str("path", backupPath).Msg("Performing catalog backup using VACUUM INTO")

	if db != nil {
		quoted := strings.ReplaceAll(backupPath, "'", "''")
		_, err := db.db.Exec(fmt.Sprintf("VACUUM INTO '%s'", quoted))
		if err == nil {
			return backupPath, nil
		}
		s.logger.Warn().Err(err).Msg("VACUUM INTO failed, falling back to file copy")
	}

	if err := s.copyFile(backupPath); err != nil {
		return "", err
	}
	return backupPath, nil
}

// nextBackupPath names a snapshot after the current time down to the
// nanosecond and adds a counter if that name is already taken, so two imports
// never write to the same file.
func (s *BackupService) nextBackupPath() string {
	base := "catalog_" + s.now().Format("20060102_150405.000000000")
	path := filepath.Join(s.config.StoragePath, base+".db")
	for n := 1; fileExists(path); n++ {
		path = filepath.Join(s.config.StoragePath, fmt.Sprintf("%s_%d.db", base, n))
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (s *BackupService) copyFile(backupPath string) error {
	source, err := os.Open(s.dbPath)
	if err != nil {
		return fmt.Errorf("open source database: %w", err)
	}
	defer source.Close()

	destination, err := os.Create(backupPath)
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return fmt.Errorf("copy database: %w", err)
	}
	return nil
}

// CleanupOldBackups removes snapshots older than RetentionDays.
func (s *BackupService) CleanupOldBackups() {
	if s.config.RetentionDays <= 0 || s.config.StoragePath == "" {
		return
	}

	files, err := os.ReadDir(s.config.StoragePath)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read backup directory for cleanup")
		return
	}

	cutoff := s.now().AddDate(0, 0, -s.config.RetentionDays)

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		info, err := file.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			s.logger.Info().Str("file", file.Name()).Msg("Deleting old backup")
			_ = os.Remove(filepath.Join(s.config.StoragePath, file.Name()))
		}
	}
}
