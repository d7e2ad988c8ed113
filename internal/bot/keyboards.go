package bot

import (
	"hotelavail/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	callbackHotelPrefix    = "hotel_"
	callbackRoomTypePrefix = "rt_"
	callbackExport         = "export"
	callbackRestart        = "restart"

	roomTypesPerRow = 3
)

// hotelKeyboard lists hotels one per row as "Name (ID)".
func hotelKeyboard(hotels []models.Hotel) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(hotels))
	for i := range hotels {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(hotels[i].DisplayName(), callbackHotelPrefix+hotels[i].ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func roomTypeKeyboard(hotel *models.Hotel) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, rt := range hotel.RoomTypes {
		label := rt.Code
		if rt.Description != "" {
			label += ": " + rt.Description
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, callbackRoomTypePrefix+rt.Code))
		if len(row) == roomTypesPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func resultKeyboard(withExport bool) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	if withExport {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("📊 Export report", callbackExport))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData("🔄 New check", callbackRestart))
	return tgbotapi.NewInlineKeyboardMarkup(row)
}
