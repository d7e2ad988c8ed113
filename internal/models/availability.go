package models

// Query is one availability check as entered on the form. Dates stay raw strings
// until validation so that an empty field is distinguishable from a bad one.
type Query struct {
	HotelID   string `json:"hotelId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	RoomType  string `json:"roomType"`
}

// Availability is the result of a check. AvailableRooms is negative when the
// hotel is overbooked for the range.
type Availability struct {
	TotalRooms     int `json:"totalRooms"`
	BookedRooms    int `json:"bookedRooms"`
	AvailableRooms int `json:"availableRooms"`
}

// RoomTypeAvailability is one row of a per-hotel report.
type RoomTypeAvailability struct {
	RoomType    string `json:"roomType"`
	Description string `json:"description,omitempty"`
	Availability
}
