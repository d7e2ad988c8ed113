package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("ISO", func(t *testing.T) {
		d, err := ParseDate("2024-01-05")
		require.NoError(t, err)
		assert.Equal(t, "2024-01-05", d.String())
	})

	t.Run("Compact", func(t *testing.T) {
		d, err := ParseDate("20240105")
		require.NoError(t, err)
		assert.True(t, d.Equal(NewDate(2024, 1, 5)))
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, raw := range []string{"", "2024-13-01", "05.01.2024", "2024-1-5", "yesterday"} {
			_, err := ParseDate(raw)
			assert.Error(t, err, raw)
		}
	})
}

func TestDateJSON(t *testing.T) {
	var b Booking
	raw := `{"hotelId":"H1","arrival":"20240102","departure":"2024-01-05","roomType":"DBL","roomRate":"Prepaid"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	assert.Equal(t, "2024-01-02", b.Arrival.String())
	assert.Equal(t, "2024-01-05", b.Departure.String())

	out, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"arrival":"2024-01-02"`)

	err = json.Unmarshal([]byte(`{"arrival":"soon"}`), &b)
	assert.Error(t, err)
}

func TestBookingOverlaps(t *testing.T) {
	b := Booking{Arrival: MustParseDate("2024-01-02"), Departure: MustParseDate("2024-01-05")}

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"contains booking", "2024-01-01", "2024-01-10", true},
		{"inside booking", "2024-01-03", "2024-01-04", true},
		{"starts on departure", "2024-01-05", "2024-01-10", false},
		{"ends on arrival", "2023-12-30", "2024-01-02", false},
		{"before", "2023-12-01", "2023-12-05", false},
		{"single day inside", "2024-01-03", "2024-01-03", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Overlaps(MustParseDate(tt.start), MustParseDate(tt.end)))
		})
	}

	sameDay := Booking{Arrival: MustParseDate("2024-01-01"), Departure: MustParseDate("2024-01-01")}
	assert.False(t, sameDay.Overlaps(MustParseDate("2024-01-01"), MustParseDate("2024-01-10")))
}

func TestHotelHelpers(t *testing.T) {
	h := Hotel{
		ID:        "H1",
		Name:      "Hotel California",
		RoomTypes: []RoomType{{Code: "SGL"}, {Code: "DBL"}},
		Rooms:     []Room{{RoomType: "SGL", RoomID: "101"}, {RoomType: "DBL", RoomID: "201"}, {RoomType: "DBL", RoomID: "202"}},
	}

	assert.Equal(t, []string{"SGL", "DBL"}, h.RoomTypeCodes())
	assert.True(t, h.HasRoomType("DBL"))
	assert.False(t, h.HasRoomType("TPL"))
	assert.Equal(t, 2, h.CountRooms("DBL"))
	assert.Equal(t, 0, h.CountRooms("TPL"))
	assert.Equal(t, "Hotel California (H1)", h.DisplayName())
}

func TestUserState_Helpers(t *testing.T) {
	t.Run("NilTempData", func(t *testing.T) {
		var nilState *UserState
		assert.Equal(t, "", nilState.GetString("any"))
		assert.Equal(t, "", (&UserState{}).GetString("any"))
		assert.Nil(t, nilState.Clone())
	})

	t.Run("Query", func(t *testing.T) {
		state := &UserState{TempData: map[string]string{
			StateKeyHotelID:   "H1",
			StateKeyStartDate: "2024-01-01",
			StateKeyEndDate:   "2024-01-10",
		}}
		assert.Equal(t, Query{HotelID: "H1", StartDate: "2024-01-01", EndDate: "2024-01-10", RoomType: "DBL"}, state.Query("DBL"))
	})

	t.Run("Clone", func(t *testing.T) {
		state := &UserState{UserID: 1, CurrentStep: StateSelectHotel, TempData: map[string]string{"k": "v"}}
		clone := state.Clone()
		clone.TempData["k"] = "changed"
		assert.Equal(t, "v", state.TempData["k"])
	})
}
