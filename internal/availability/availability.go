// Package availability answers "how many rooms of a type are free in a hotel
// between two dates" over an in-memory catalog of hotels and bookings.
package availability

import "hotelavail/internal/models"

// Query field names, in the order the form presents them.
const (
	FieldHotelID   = "hotelId"
	FieldStartDate = "startDate"
	FieldEndDate   = "endDate"
	FieldRoomType  = "roomType"
)

// Catalog is the read-only data a check runs against.
type Catalog interface {
	Hotel(id string) (models.Hotel, bool)
	Bookings() []models.Booking
}

// Compute validates q and counts rooms of q.RoomType in q.HotelID: total
// inventory, bookings overlapping [start, end) and the difference. The first
// failed validation is returned as a ValidationError; no partial result is
// produced. Bookings are counted, not rooms, and the difference is not clamped.
func Compute(cat Catalog, q models.Query) (models.Availability, error) {
	if missing := missingFields(q); len(missing) > 0 {
		return models.Availability{}, &MissingFieldError{Fields: missing}
	}

	start, end, err := parseRange(q.StartDate, q.EndDate)
	if err != nil {
		return models.Availability{}, err
	}

	hotel, err := resolveHotel(cat, q.HotelID)
	if err != nil {
		return models.Availability{}, err
	}

	if !hotel.HasRoomType(q.RoomType) {
		return models.Availability{}, &InvalidRoomTypeError{
			HotelID:    hotel.ID,
			RoomType:   q.RoomType,
			ValidCodes: hotel.RoomTypeCodes(),
		}
	}

	return count(&hotel, cat.Bookings(), q.RoomType, start, end), nil
}

// Report computes availability for every room type of a hotel, in the order
// the hotel declares them.
func Report(cat Catalog, hotelID, startDate, endDate string) ([]models.RoomTypeAvailability, error) {
	var missing []string
	if hotelID == "" {
		missing = append(missing, FieldHotelID)
	}
	if startDate == "" {
		missing = append(missing, FieldStartDate)
	}
	if endDate == "" {
		missing = append(missing, FieldEndDate)
	}
	if len(missing) > 0 {
		return nil, &MissingFieldError{Fields: missing}
	}

	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	hotel, err := resolveHotel(cat, hotelID)
	if err != nil {
		return nil, err
	}

	bookings := cat.Bookings()
	rows := make([]models.RoomTypeAvailability, 0, len(hotel.RoomTypes))
	for _, rt := range hotel.RoomTypes {
		rows = append(rows, models.RoomTypeAvailability{
			RoomType:     rt.Code,
			Description:  rt.Description,
			Availability: count(&hotel, bookings, rt.Code, start, end),
		})
	}
	return rows, nil
}

func count(hotel *models.Hotel, bookings []models.Booking, roomType string, start, end models.Date) models.Availability {
	total := hotel.CountRooms(roomType)

	booked := 0
	for _, b := range bookings {
		if b.HotelID == hotel.ID && b.RoomType == roomType && b.Overlaps(start, end) {
			booked++
		}
	}

	return models.Availability{
		TotalRooms:     total,
		BookedRooms:    booked,
		AvailableRooms: total - booked,
	}
}

func missingFields(q models.Query) []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{FieldHotelID, q.HotelID},
		{FieldStartDate, q.StartDate},
		{FieldEndDate, q.EndDate},
		{FieldRoomType, q.RoomType},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func parseRange(startDate, endDate string) (models.Date, models.Date, error) {
	start, err := models.ParseDate(startDate)
	if err != nil {
		return models.Date{}, models.Date{}, &InvalidDateError{Field: FieldStartDate, Value: startDate}
	}
	end, err := models.ParseDate(endDate)
	if err != nil {
		return models.Date{}, models.Date{}, &InvalidDateError{Field: FieldEndDate, Value: endDate}
	}
	if start.After(end) {
		return models.Date{}, models.Date{}, &InvalidRangeError{Start: startDate, End: endDate}
	}
	return start, end, nil
}

func resolveHotel(cat Catalog, hotelID string) (models.Hotel, error) {
	if cat == nil {
		return models.Hotel{}, &UnknownHotelError{HotelID: hotelID}
	}
	hotel, ok := cat.Hotel(hotelID)
	if !ok {
		return models.Hotel{}, &UnknownHotelError{HotelID: hotelID}
	}
	return hotel, nil
}
