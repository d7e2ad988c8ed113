package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"hotelavail/internal/catalog"
	"hotelavail/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := NewDB(filepath.Join(t.TempDir(), "catalog.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(
		[]models.Hotel{
			{
				ID:   "H1",
				Name: "Hotel California",
				RoomTypes: []models.RoomType{
					{Code: "SGL", Description: "Single Room", Amenities: []string{"WiFi", "TV"}, Features: []string{"Non-smoking"}},
					{Code: "DBL", Description: "Double Room"},
				},
				Rooms: []models.Room{
					{RoomType: "SGL", RoomID: "101"},
					{RoomType: "DBL", RoomID: "201"},
					{RoomType: "DBL", RoomID: "202"},
				},
			},
			{ID: "A0", Name: "Sorted first by id, loaded second"},
		},
		[]models.Booking{
			{HotelID: "H1", Arrival: models.MustParseDate("2024-01-02"), Departure: models.MustParseDate("2024-01-05"), RoomType: "DBL", RoomRate: "Prepaid"},
			{HotelID: "H1", Arrival: models.MustParseDate("2024-01-03"), Departure: models.MustParseDate("2024-01-04"), RoomType: "SGL"},
		},
	)
	require.NoError(t, err)
	return cat
}

func TestNewDB_DirectoryCreation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "catalog.db")
	logger := zerolog.Nop()

	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, dbPath)
	assert.Equal(t, dbPath, db.Path())
}

func TestDB_Ping(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, db.PingContext(context.Background()))
}

func TestDB_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	want := testCatalog(t)

	require.NoError(t, db.ReplaceCatalog(ctx, want))

	got, err := db.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, want.Stats(), got.Stats())
	assert.Equal(t, want.Bookings(), got.Bookings())

	hotels := got.Hotels()
	require.Len(t, hotels, 2)
	assert.Equal(t, "H1", hotels[0].ID, "load order follows import order")
	assert.Equal(t, want.Hotels()[0], hotels[0])
	assert.Empty(t, hotels[0].RoomTypes[1].Amenities)
}

func TestDB_ReplaceCatalogReplaces(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.ReplaceCatalog(ctx, testCatalog(t)))

	smaller, err := catalog.New([]models.Hotel{{ID: "H9", Name: "Only"}}, nil)
	require.NoError(t, err)
	require.NoError(t, db.ReplaceCatalog(ctx, smaller))

	got, err := db.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.Stats{Hotels: 1}, got.Stats())
}

func TestDB_LoadEmpty(t *testing.T) {
	db := setupTestDB(t)
	_, err := db.Load(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestDB_ImplementsSource(t *testing.T) {
	var _ catalog.Source = (*DB)(nil)
}

func TestDB_LoadRejectsCorruptDates(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.ReplaceCatalog(ctx, testCatalog(t)))

	_, err := db.db.Exec(`UPDATE bookings SET arrival = 'soon'`)
	require.NoError(t, err)

	_, err = db.Load(ctx)
	assert.Error(t, err)
}

func TestDB_ClosedReturnsErrors(t *testing.T) {
	logger := zerolog.Nop()
	db, err := NewDB(filepath.Join(t.TempDir(), "closed.db"), &logger)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	assert.Error(t, db.PingContext(context.Background()))
	_, err = db.Load(context.Background())
	assert.Error(t, err)
	assert.Error(t, db.ReplaceCatalog(context.Background(), testCatalog(t)))
}

func TestNewDB_InvalidDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	logger := zerolog.Nop()
	_, err := NewDB(filepath.Join(blocker, "catalog.db"), &logger)
	assert.Error(t, err)
}
