package domain

import (
	"context"
	"time"

	"hotelavail/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AvailabilityChecker is what front ends (HTTP, bot, CLI) call.
type AvailabilityChecker interface {
	Check(ctx context.Context, q models.Query) (models.Availability, error)
	Report(ctx context.Context, hotelID, startDate, endDate string) ([]models.RoomTypeAvailability, error)
	Hotels() []models.Hotel
	Hotel(id string) (models.Hotel, bool)
}

type StateRepository interface {
	GetState(ctx context.Context, userID int64) (*models.UserState, error)
	SetState(ctx context.Context, state *models.UserState) error
	ClearState(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type StateManager interface {
	GetUserState(ctx context.Context, userID int64) (*models.UserState, error)
	SetUserState(ctx context.Context, userID int64, step string, data map[string]string) error
	AdvanceForm(ctx context.Context, state *models.UserState, step, key, value string) error
	ClearUserState(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type ReportExporter interface {
	ExportReport(ctx context.Context, hotel models.Hotel, startDate, endDate string, rows []models.RoomTypeAvailability) (string, error)
}

// TelegramService is the bot's view of the Telegram API.
type TelegramService interface {
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	SendDocument(chatID int64, path, caption string) (tgbotapi.Message, error)
	AnswerCallback(callbackID, text string) error
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}
