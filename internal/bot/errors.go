package bot

import (
	"errors"

	"hotelavail/internal/availability"
)

const (
	msgRateLimited    = "⚠️ You are sending messages too often. Please wait a moment."
	msgSelectHotel    = "Select a hotel:"
	msgEnterStartDate = "Enter the start date (YYYY-MM-DD):"
	msgEnterEndDate   = "Enter the end date (YYYY-MM-DD):"
	msgSelectRoomType = "Select a room type or type its code:"
	msgNoHotels       = "No hotels are loaded. Please try again later."
	msgStartFirst     = "Send /start to check room availability."
	msgCheckFirst     = "Run a check with /start first, then send /export."
	msgReset          = "Form cleared. Send /start to begin a new check."
	msgExportDisabled = "Export is not available."
	msgHelp           = "/start - check room availability\n/export - xlsx report for the last check\n/reset - clear the form"
	msgInternalError  = "❌ Something went wrong while processing your request. Please try again later."
)

// getErrorMessage returns the text shown to the user for err. Validation
// errors carry their own form message.
func (b *Bot) getErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var verr availability.ValidationError
	if errors.As(err, &verr) {
		return "⚠️ " + verr.Error()
	}

	return msgInternalError
}
