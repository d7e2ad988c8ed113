package models

const (
	StateSelectHotel    = "select_hotel"
	StateEnterStartDate = "enter_start_date"
	StateEnterEndDate   = "enter_end_date"
	StateSelectRoomType = "select_room_type"
	StateChecked        = "checked"
)

const (
	StateKeyHotelID   = "hotel_id"
	StateKeyStartDate = "start_date"
	StateKeyEndDate   = "end_date"
	StateKeyRoomType  = "room_type"
)

const (
	// DefaultStateTTL is how long an idle form is kept, in seconds.
	DefaultStateTTL = 24 * 60 * 60

	// RateLimitMessages per RateLimitWindow seconds per user.
	RateLimitMessages = 20
	RateLimitWindow   = 60
)
