package models

// Hotel is one entry of hotels.json.
type Hotel struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	RoomTypes []RoomType `json:"roomTypes"`
	Rooms     []Room     `json:"rooms"`
}

type RoomType struct {
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities"`
	Features    []string `json:"features"`
}

type Room struct {
	RoomType string `json:"roomType"`
	RoomID   string `json:"roomId"`
}

// RoomTypeCodes returns the hotel's room type codes in declared order.
func (h *Hotel) RoomTypeCodes() []string {
	codes := make([]string, 0, len(h.RoomTypes))
	for _, rt := range h.RoomTypes {
		codes = append(codes, rt.Code)
	}
	return codes
}

// HasRoomType reports whether code is one of the hotel's room type codes.
func (h *Hotel) HasRoomType(code string) bool {
	for _, rt := range h.RoomTypes {
		if rt.Code == code {
			return true
		}
	}
	return false
}

// CountRooms returns the number of rooms of the given type.
func (h *Hotel) CountRooms(roomType string) int {
	count := 0
	for _, room := range h.Rooms {
		if room.RoomType == roomType {
			count++
		}
	}
	return count
}

// DisplayName renders the hotel the way pickers show it: "Name (ID)".
func (h *Hotel) DisplayName() string {
	return h.Name + " (" + h.ID + ")"
}
