package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hotelavail/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupService(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.ReplaceCatalog(context.Background(), testCatalog(t)))

	storagePath := filepath.Join(t.TempDir(), "backups")
	cfg := config.BackupConfig{
		Enabled:       true,
		StoragePath:   storagePath,
		RetentionDays: 1,
	}
	logger := zerolog.Nop()
	s := NewBackupService(db.Path(), cfg, &logger)

	t.Run("PerformBackup", func(t *testing.T) {
		path, err := s.PerformBackup(db)
		require.NoError(t, err)
		assert.FileExists(t, path)

		snapshot, err := NewDB(path, &logger)
		require.NoError(t, err)
		defer snapshot.Close()
		cat, err := snapshot.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, cat.Stats().Hotels)
	})

	t.Run("FileCopyFallback", func(t *testing.T) {
		s.now = func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }
		defer func() { s.now = time.Now }()

		path, err := s.PerformBackup(nil)
		require.NoError(t, err)
		assert.FileExists(t, path)
	})

	t.Run("CleanupOldBackups", func(t *testing.T) {
		oldFile := filepath.Join(storagePath, "catalog_old.db")
		require.NoError(t, os.WriteFile(oldFile, []byte("old"), 0o644))

		oldTime := time.Now().AddDate(0, 0, -2)
		require.NoError(t, os.Chtimes(oldFile, oldTime, oldTime))

		s.CleanupOldBackups()

		files, err := os.ReadDir(storagePath)
		require.NoError(t, err)
		assert.Len(t, files, 2)
		for _, f := range files {
			assert.NotEqual(t, "catalog_old.db", f.Name())
		}
	})
}

func TestBackupService_SameInstantKeepsBothSnapshots(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.ReplaceCatalog(context.Background(), testCatalog(t)))

	logger := zerolog.Nop()
	storagePath := filepath.Join(t.TempDir(), "backups")
	s := NewBackupService(db.Path(), config.BackupConfig{Enabled: true, StoragePath: storagePath}, &logger)
	frozen := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return frozen }

	first, err := s.PerformBackup(db)
	require.NoError(t, err)
	second, err := s.PerformBackup(nil)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.FileExists(t, first)
	assert.FileExists(t, second)

	files, err := os.ReadDir(storagePath)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestBackupService_Disabled(t *testing.T) {
	logger := zerolog.Nop()
	s := NewBackupService("any", config.BackupConfig{Enabled: false}, &logger)

	path, err := s.PerformBackup(nil)
	assert.NoError(t, err)
	assert.Empty(t, path)
}

func TestBackupService_NothingToBackUp(t *testing.T) {
	logger := zerolog.Nop()
	dir := t.TempDir()
	s := NewBackupService(filepath.Join(dir, "missing.db"), config.BackupConfig{Enabled: true, StoragePath: dir}, &logger)

	path, err := s.PerformBackup(nil)
	assert.NoError(t, err)
	assert.Empty(t, path)
}
