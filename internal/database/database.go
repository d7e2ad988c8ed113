package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"hotelavail/internal/catalog"
	"hotelavail/internal/models"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// ErrEmptyCatalog is returned by Load when nothing has been imported yet.
var ErrEmptyCatalog = errors.New("catalog database is empty")

// DB stores the hotel catalog in SQLite so that processes can start from a
// single file instead of two JSON documents.
type DB struct {
	db     *sql.DB
	path   string
	logger *zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("catalog database initialized")
	return &DB{db: db, path: path, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS hotels (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            position INTEGER NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS room_types (
            hotel_id TEXT NOT NULL REFERENCES hotels(id) ON DELETE CASCADE,
            code TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            amenities TEXT NOT NULL DEFAULT '[]',
            features TEXT NOT NULL DEFAULT '[]',
            position INTEGER NOT NULL,
            PRIMARY KEY (hotel_id, position)
        )`,
		`CREATE TABLE IF NOT EXISTS rooms (
            hotel_id TEXT NOT NULL REFERENCES hotels(id) ON DELETE CASCADE,
            room_id TEXT NOT NULL,
            room_type TEXT NOT NULL,
            position INTEGER NOT NULL,
            PRIMARY KEY (hotel_id, position)
        )`,
		`CREATE TABLE IF NOT EXISTS bookings (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            hotel_id TEXT NOT NULL,
            arrival TEXT NOT NULL,
            departure TEXT NOT NULL,
            room_type TEXT NOT NULL,
            room_rate TEXT NOT NULL DEFAULT ''
        )`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_hotel_room_type ON bookings(hotel_id, room_type)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

// ReplaceCatalog atomically swaps the stored catalog for cat.
func (db *DB) ReplaceCatalog(ctx context.Context, cat *catalog.Catalog) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"bookings", "rooms", "room_types", "hotels"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, h := range cat.Hotels() {
		if err := insertHotel(ctx, tx, i, &h); err != nil {
			return err
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO bookings (hotel_id, arrival, departure, room_type, room_rate)
        VALUES (?, ?, ?, ?, ?)
    `)
	if err != nil {
		return fmt.Errorf("prepare booking insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range cat.Bookings() {
		if _, err := stmt.ExecContext(ctx, b.HotelID, b.Arrival.String(), b.Departure.String(), b.RoomType, b.RoomRate); err != nil {
			return fmt.Errorf("insert booking for hotel %s: %w", b.HotelID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog: %w", err)
	}

	stats := cat.Stats()
	db.logger.Info().
		Int("hotels", stats.Hotels).
		Int("rooms", stats.Rooms).
		Int("bookings", stats.Bookings).
		Msg("catalog imported")
	return nil
}

func insertHotel(ctx context.Context, tx *sql.Tx, position int, h *models.Hotel) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO hotels (id, name, position) VALUES (?, ?, ?)`,
		h.ID, h.Name, position,
	); err != nil {
		return fmt.Errorf("insert hotel %s: %w", h.ID, err)
	}

	for i, rt := range h.RoomTypes {
		amenities, err := encodeList(rt.Amenities)
		if err != nil {
			return err
		}
		features, err := encodeList(rt.Features)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO room_types (hotel_id, code, description, amenities, features, position) VALUES (?, ?, ?, ?, ?, ?)`,
			h.ID, rt.Code, rt.Description, amenities, features, i,
		); err != nil {
			return fmt.Errorf("insert room type %s/%s: %w", h.ID, rt.Code, err)
		}
	}

	for i, room := range h.Rooms {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rooms (hotel_id, room_id, room_type, position) VALUES (?, ?, ?, ?)`,
			h.ID, room.RoomID, room.RoomType, i,
		); err != nil {
			return fmt.Errorf("insert room %s/%s: %w", h.ID, room.RoomID, err)
		}
	}
	return nil
}

// Load reads the stored catalog. It makes DB a catalog.Source.
func (db *DB) Load(ctx context.Context) (*catalog.Catalog, error) {
	hotels, err := db.loadHotels(ctx)
	if err != nil {
		return nil, err
	}
	if len(hotels) == 0 {
		return nil, fmt.Errorf("%s: %w", db.path, ErrEmptyCatalog)
	}

	bookings, err := db.loadBookings(ctx)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.New(hotels, bookings)
	if err != nil {
		return nil, fmt.Errorf("build catalog from %s: %w", db.path, err)
	}

	db.logger.Info().Str("path", db.path).Int("hotels", len(hotels)).Int("bookings", len(bookings)).Msg("catalog loaded")
	return cat, nil
}

func (db *DB) loadHotels(ctx context.Context) ([]models.Hotel, error) {
	rows, err := db.db.QueryContext(ctx, `SELECT id, name FROM hotels ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query hotels: %w", err)
	}
	defer rows.Close()

	var hotels []models.Hotel
	index := make(map[string]int)
	for rows.Next() {
		var h models.Hotel
		if err := rows.Scan(&h.ID, &h.Name); err != nil {
			return nil, fmt.Errorf("scan hotel: %w", err)
		}
		index[h.ID] = len(hotels)
		hotels = append(hotels, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rtRows, err := db.db.QueryContext(ctx, `
        SELECT hotel_id, code, description, amenities, features
        FROM room_types
        ORDER BY hotel_id, position
    `)
	if err != nil {
		return nil, fmt.Errorf("query room types: %w", err)
	}
	defer rtRows.Close()

	for rtRows.Next() {
		var (
			hotelID             string
			rt                  models.RoomType
			amenities, features string
		)
		if err := rtRows.Scan(&hotelID, &rt.Code, &rt.Description, &amenities, &features); err != nil {
			return nil, fmt.Errorf("scan room type: %w", err)
		}
		if rt.Amenities, err = decodeList(amenities); err != nil {
			return nil, err
		}
		if rt.Features, err = decodeList(features); err != nil {
			return nil, err
		}
		if i, ok := index[hotelID]; ok {
			hotels[i].RoomTypes = append(hotels[i].RoomTypes, rt)
		}
	}
	if err := rtRows.Err(); err != nil {
		return nil, err
	}

	roomRows, err := db.db.QueryContext(ctx, `SELECT hotel_id, room_id, room_type FROM rooms ORDER BY hotel_id, position`)
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer roomRows.Close()

	for roomRows.Next() {
		var hotelID string
		var room models.Room
		if err := roomRows.Scan(&hotelID, &room.RoomID, &room.RoomType); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		if i, ok := index[hotelID]; ok {
			hotels[i].Rooms = append(hotels[i].Rooms, room)
		}
	}
	return hotels, roomRows.Err()
}

func (db *DB) loadBookings(ctx context.Context) ([]models.Booking, error) {
	rows, err := db.db.QueryContext(ctx, `
        SELECT hotel_id, arrival, departure, room_type, room_rate
        FROM bookings
        ORDER BY id
    `)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		var arrival, departure string
		if err := rows.Scan(&b.HotelID, &arrival, &departure, &b.RoomType, &b.RoomRate); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		if b.Arrival, err = models.ParseDate(arrival); err != nil {
			return nil, fmt.Errorf("booking for hotel %s: %w", b.HotelID, err)
		}
		if b.Departure, err = models.ParseDate(departure); err != nil {
			return nil, fmt.Errorf("booking for hotel %s: %w", b.HotelID, err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(raw), nil
}

func decodeList(raw string) ([]string, error) {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decode list %q: %w", raw, err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}

func (db *DB) Path() string {
	return db.path
}

func (db *DB) PingContext(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.db.Close()
}
