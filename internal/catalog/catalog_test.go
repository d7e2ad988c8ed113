package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"hotelavail/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	hotels := []models.Hotel{
		{ID: "H1", Name: "One", RoomTypes: []models.RoomType{{Code: "SGL", Amenities: []string{"WiFi"}}}, Rooms: []models.Room{{RoomType: "SGL", RoomID: "1"}}},
		{ID: "H2", Name: "Two"},
	}
	bookings := []models.Booking{{
		HotelID:   "H1",
		Arrival:   models.MustParseDate("2024-01-02"),
		Departure: models.MustParseDate("2024-01-04"),
		RoomType:  "SGL",
	}}

	cat, err := New(hotels, bookings)
	require.NoError(t, err)

	t.Run("Lookup", func(t *testing.T) {
		h, ok := cat.Hotel("H1")
		require.True(t, ok)
		assert.Equal(t, "One", h.Name)

		_, ok = cat.Hotel("H3")
		assert.False(t, ok)
	})

	t.Run("Order", func(t *testing.T) {
		got := cat.Hotels()
		require.Len(t, got, 2)
		assert.Equal(t, "H1", got[0].ID)
		assert.Equal(t, "H2", got[1].ID)
	})

	t.Run("Immutable", func(t *testing.T) {
		hotels[0].Name = "mutated input"
		bookings[0].HotelID = "mutated input"

		h, _ := cat.Hotel("H1")
		h.Rooms[0].RoomType = "mutated copy"
		h.RoomTypes[0].Amenities[0] = "mutated copy"
		cat.Bookings()[0].RoomType = "mutated copy"

		again, _ := cat.Hotel("H1")
		assert.Equal(t, "One", again.Name)
		assert.Equal(t, "SGL", again.Rooms[0].RoomType)
		assert.Equal(t, "WiFi", again.RoomTypes[0].Amenities[0])
		assert.Equal(t, "H1", cat.Bookings()[0].HotelID)
		assert.Equal(t, "SGL", cat.Bookings()[0].RoomType)
	})

	t.Run("Stats", func(t *testing.T) {
		assert.Equal(t, Stats{Hotels: 2, Rooms: 1, Bookings: 1}, cat.Stats())
	})
}

func TestNew_Rejects(t *testing.T) {
	_, err := New([]models.Hotel{{ID: "H1"}, {ID: "H1"}}, nil)
	assert.True(t, errors.Is(err, ErrDuplicateHotel))

	_, err = New([]models.Hotel{{Name: "nameless"}}, nil)
	assert.True(t, errors.Is(err, ErrEmptyHotelID))

	day := models.MustParseDate("2024-01-05")
	for name, b := range map[string]models.Booking{
		"no arrival":   {HotelID: "H1", Departure: day, RoomType: "DBL"},
		"no departure": {HotelID: "H1", Arrival: day, RoomType: "DBL"},
		"no dates":     {HotelID: "H1", RoomType: "DBL"},
	} {
		t.Run(name, func(t *testing.T) {
			ok := models.Booking{HotelID: "H1", Arrival: day, Departure: day.AddDays(1), RoomType: "DBL"}
			_, err := New([]models.Hotel{{ID: "H1"}}, []models.Booking{ok, b})
			require.ErrorIs(t, err, ErrInvalidBooking)
			assert.Contains(t, err.Error(), "booking #1")
		})
	}
}

func TestNilCatalog(t *testing.T) {
	var cat *Catalog
	_, ok := cat.Hotel("H1")
	assert.False(t, ok)
	assert.Nil(t, cat.Hotels())
	assert.Nil(t, cat.Bookings())
	assert.Equal(t, Stats{}, cat.Stats())
}

func TestJSONSource_Files(t *testing.T) {
	src := NewJSONSource(filepath.Join("testdata", "hotels.json"), filepath.Join("testdata", "bookings.json"), nil)

	cat, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Stats{Hotels: 2, Rooms: 8, Bookings: 3}, cat.Stats())

	h, ok := cat.Hotel("H2")
	require.True(t, ok)
	assert.Equal(t, []string{"DBL", "STE"}, h.RoomTypeCodes())

	b := cat.Bookings()[1]
	assert.Equal(t, "2024-09-02", b.Arrival.String())
	assert.Equal(t, "Standard", b.RoomRate)
}

func TestJSONSource_Errors(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`[{"id": `), 0o644))
	badDate := filepath.Join(dir, "bad_date.json")
	require.NoError(t, os.WriteFile(badDate, []byte(`[{"hotelId":"H1","arrival":"tomorrow","departure":"2024-01-01"}]`), 0o644))
	noArrival := filepath.Join(dir, "no_arrival.json")
	require.NoError(t, os.WriteFile(noArrival, []byte(`[{"hotelId":"H1","departure":"2024-01-05","roomType":"DBL"}]`), 0o644))
	noDeparture := filepath.Join(dir, "no_departure.json")
	require.NoError(t, os.WriteFile(noDeparture, []byte(`[{"hotelId":"H1","arrival":"2024-01-05","roomType":"DBL"}]`), 0o644))
	nullArrival := filepath.Join(dir, "null_arrival.json")
	require.NoError(t, os.WriteFile(nullArrival, []byte(`[{"hotelId":"H1","arrival":null,"departure":"2024-01-05","roomType":"DBL"}]`), 0o644))
	dup := filepath.Join(dir, "dup.json")
	require.NoError(t, os.WriteFile(dup, []byte(`[{"id":"H1"},{"id":"H1"}]`), 0o644))

	hotels := filepath.Join("testdata", "hotels.json")
	bookings := filepath.Join("testdata", "bookings.json")

	tests := []struct {
		name         string
		hotels, book string
	}{
		{"missing hotels file", filepath.Join(dir, "nope.json"), bookings},
		{"missing bookings file", hotels, filepath.Join(dir, "nope.json")},
		{"unparseable hotels", broken, bookings},
		{"invalid booking date", hotels, badDate},
		{"missing arrival", hotels, noArrival},
		{"missing departure", hotels, noDeparture},
		{"null arrival", hotels, nullArrival},
		{"duplicate hotel", dup, bookings},
		{"empty path", "", bookings},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := NewJSONSource(tt.hotels, tt.book, nil).Load(context.Background())
			assert.Error(t, err)
			assert.Nil(t, cat)
		})
	}
}

func TestJSONSource_HTTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/hotels.json", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join("testdata", "hotels.json"))
	})
	mux.HandleFunc("/bookings.json", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join("testdata", "bookings.json"))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	t.Run("Success", func(t *testing.T) {
		cat, err := NewJSONSource(ts.URL+"/hotels.json", ts.URL+"/bookings.json", nil).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, cat.Stats().Hotels)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := NewJSONSource(ts.URL+"/hotels.json", ts.URL+"/missing.json", nil).Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status: 404")
	})
}
