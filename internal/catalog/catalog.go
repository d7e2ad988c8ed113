// Package catalog holds the hotels and bookings a process checks availability
// against. A Catalog is built once at startup and never modified.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"hotelavail/internal/models"
)

var (
	ErrDuplicateHotel = errors.New("duplicate hotel id")
	ErrEmptyHotelID   = errors.New("hotel without id")
	ErrInvalidBooking = errors.New("booking without arrival or departure")
)

// Source loads a catalog from wherever the data lives.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

type Catalog struct {
	hotels   []models.Hotel
	byID     map[string]int
	bookings []models.Booking
}

// New copies hotels and bookings into an immutable catalog. Hotel ids must be
// unique and non-empty, and every booking needs both dates.
func New(hotels []models.Hotel, bookings []models.Booking) (*Catalog, error) {
	c := &Catalog{
		hotels:   make([]models.Hotel, len(hotels)),
		byID:     make(map[string]int, len(hotels)),
		bookings: slices.Clone(bookings),
	}

	for i, h := range hotels {
		if h.ID == "" {
			return nil, fmt.Errorf("hotel #%d (%q): %w", i, h.Name, ErrEmptyHotelID)
		}
		if _, ok := c.byID[h.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateHotel, h.ID)
		}
		c.hotels[i] = cloneHotel(h)
		c.byID[h.ID] = i
	}

	for i, b := range c.bookings {
		if b.Arrival.IsZero() || b.Departure.IsZero() {
			return nil, fmt.Errorf("booking #%d (hotel %s): %w", i, b.HotelID, ErrInvalidBooking)
		}
	}

	return c, nil
}

// Hotel returns a copy of the hotel with the given id.
func (c *Catalog) Hotel(id string) (models.Hotel, bool) {
	if c == nil {
		return models.Hotel{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return models.Hotel{}, false
	}
	return cloneHotel(c.hotels[i]), true
}

// Hotels returns the hotels in the order they were loaded.
func (c *Catalog) Hotels() []models.Hotel {
	if c == nil {
		return nil
	}
	out := make([]models.Hotel, len(c.hotels))
	for i, h := range c.hotels {
		out[i] = cloneHotel(h)
	}
	return out
}

func (c *Catalog) Bookings() []models.Booking {
	if c == nil {
		return nil
	}
	return slices.Clone(c.bookings)
}

type Stats struct {
	Hotels   int `json:"hotels"`
	Rooms    int `json:"rooms"`
	Bookings int `json:"bookings"`
}

func (c *Catalog) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	s := Stats{Hotels: len(c.hotels), Bookings: len(c.bookings)}
	for _, h := range c.hotels {
		s.Rooms += len(h.Rooms)
	}
	return s
}

func cloneHotel(h models.Hotel) models.Hotel {
	out := h
	out.Rooms = slices.Clone(h.Rooms)
	out.RoomTypes = make([]models.RoomType, len(h.RoomTypes))
	for i, rt := range h.RoomTypes {
		rt.Amenities = slices.Clone(rt.Amenities)
		rt.Features = slices.Clone(rt.Features)
		out.RoomTypes[i] = rt
	}
	return out
}
