package models

// UserState is the bot conversation state: which form field the user is
// filling in and the values collected so far.
type UserState struct {
	UserID      int64             `json:"user_id"`
	CurrentStep string            `json:"current_step"`
	TempData    map[string]string `json:"temp_data"`
}

func (s *UserState) GetString(key string) string {
	if s == nil || s.TempData == nil {
		return ""
	}
	return s.TempData[key]
}

// Query assembles the collected form values into an availability query.
func (s *UserState) Query(roomType string) Query {
	return Query{
		HotelID:   s.GetString(StateKeyHotelID),
		StartDate: s.GetString(StateKeyStartDate),
		EndDate:   s.GetString(StateKeyEndDate),
		RoomType:  roomType,
	}
}

// Clone returns a copy with its own TempData map.
func (s *UserState) Clone() *UserState {
	if s == nil {
		return nil
	}
	data := make(map[string]string, len(s.TempData))
	for k, v := range s.TempData {
		data[k] = v
	}
	return &UserState{UserID: s.UserID, CurrentStep: s.CurrentStep, TempData: data}
}
