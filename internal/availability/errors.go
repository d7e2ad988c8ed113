package availability

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation matches every error returned for a rejected query.
	ErrValidation = errors.New("validation failed")

	ErrMissingField    = errors.New("missing field")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidRange    = errors.New("invalid date range")
	ErrUnknownHotel    = errors.New("unknown hotel")
	ErrInvalidRoomType = errors.New("invalid room type")
)

// Error codes exposed to API clients.
const (
	CodeMissingField    = "missing_field"
	CodeInvalidDate     = "invalid_date"
	CodeInvalidRange    = "invalid_range"
	CodeUnknownHotel    = "unknown_hotel"
	CodeInvalidRoomType = "invalid_room_type"
)

// ValidationError is implemented by all query validation errors.
type ValidationError interface {
	error
	Code() string
}

// MissingFieldError lists the empty query fields in form order.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string { return "Please fill out all fields." }
func (e *MissingFieldError) Code() string  { return CodeMissingField }

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrValidation || target == ErrMissingField
}

// InvalidDateError is returned when a date field is not a calendar date.
type InvalidDateError struct {
	Field string
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("Invalid %s %q: expected YYYY-MM-DD.", humanField(e.Field), e.Value)
}
func (e *InvalidDateError) Code() string { return CodeInvalidDate }

func (e *InvalidDateError) Is(target error) bool {
	return target == ErrValidation || target == ErrInvalidDate
}

// InvalidRangeError is returned when the start date is after the end date.
type InvalidRangeError struct {
	Start string
	End   string
}

func (e *InvalidRangeError) Error() string { return "Start date must be before the end date." }
func (e *InvalidRangeError) Code() string  { return CodeInvalidRange }

func (e *InvalidRangeError) Is(target error) bool {
	return target == ErrValidation || target == ErrInvalidRange
}

type UnknownHotelError struct {
	HotelID string
}

func (e *UnknownHotelError) Error() string { return "Invalid Hotel ID." }
func (e *UnknownHotelError) Code() string  { return CodeUnknownHotel }

func (e *UnknownHotelError) Is(target error) bool {
	return target == ErrValidation || target == ErrUnknownHotel
}

// InvalidRoomTypeError carries the hotel's valid codes for the message.
type InvalidRoomTypeError struct {
	HotelID    string
	RoomType   string
	ValidCodes []string
}

func (e *InvalidRoomTypeError) Error() string {
	return "Invalid room type. Valid types are: " + strings.Join(e.ValidCodes, ", ")
}
func (e *InvalidRoomTypeError) Code() string { return CodeInvalidRoomType }

func (e *InvalidRoomTypeError) Is(target error) bool {
	return target == ErrValidation || target == ErrInvalidRoomType
}

func humanField(field string) string {
	switch field {
	case FieldStartDate:
		return "start date"
	case FieldEndDate:
		return "end date"
	default:
		return field
	}
}
