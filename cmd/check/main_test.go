package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"hotelavail/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testHotels   = "../../internal/catalog/testdata/hotels.json"
	testBookings = "../../internal/catalog/testdata/bookings.json"
)

func runCheck(t *testing.T, extra ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args := append([]string{"-hotels", testHotels, "-bookings", testBookings}, extra...)
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_PrintsCounts(t *testing.T) {
	code, out, _ := runCheck(t, "-hotel", "H1", "-start", "2024-09-01", "-end", "2024-09-02", "-type", "DBL")

	assert.Equal(t, exitOK, code)
	assert.Equal(t, "Total Rooms: 3\nBooked Rooms: 1\nAvailable Rooms: 2\n", out)
}

func TestRun_JSON(t *testing.T) {
	code, out, _ := runCheck(t, "-json", "-hotel", "H2", "-start", "20240905", "-end", "20240906", "-type", "STE")
	require.Equal(t, exitOK, code)

	var res models.Availability
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, models.Availability{TotalRooms: 1, BookedRooms: 1, AvailableRooms: 0}, res)
}

func TestRun_ValidationError(t *testing.T) {
	code, out, errOut := runCheck(t, "-hotel", "H9", "-start", "2024-09-01", "-end", "2024-09-02", "-type", "DBL")

	assert.Equal(t, exitValidation, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Invalid Hotel ID.")
}

func TestRun_MissingFields(t *testing.T) {
	code, _, errOut := runCheck(t, "-hotel", "H1")

	assert.Equal(t, exitValidation, code)
	assert.Contains(t, errOut, "Please fill out all fields.")
}

func TestRun_LoadError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-hotels", "testdata/missing.json", "-bookings", testBookings,
		"-hotel", "H1", "-start", "2024-09-01", "-end", "2024-09-02", "-type", "DBL"}, &stdout, &stderr)

	assert.Equal(t, exitLoadError, code)
	assert.Empty(t, stdout.String())
}
