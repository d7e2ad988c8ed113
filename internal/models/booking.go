package models

// Booking is one entry of bookings.json. RoomRate is carried for display only.
type Booking struct {
	HotelID   string `json:"hotelId"`
	Arrival   Date   `json:"arrival"`
	Departure Date   `json:"departure"`
	RoomType  string `json:"roomType"`
	RoomRate  string `json:"roomRate"`
}

// Overlaps reports whether the booking intersects the half-open range [start, end).
// A booking departing on start or arriving on end does not overlap.
func (b Booking) Overlaps(start, end Date) bool {
	return start.Before(b.Departure) && end.After(b.Arrival)
}
