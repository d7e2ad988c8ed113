package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotelavail/internal/availability"
	"hotelavail/internal/metrics"
	"hotelavail/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.Chat == nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	zerolog.Ctx(ctx).Debug().
		Int64("user_id", userID).
		Str("username", msg.From.UserName).
		Str("text", text).
		Msg("Handling message")

	switch command(text) {
	case "start":
		b.handleStart(ctx, chatID, userID)
		return
	case "reset":
		b.clearUserState(ctx, userID)
		b.sendMessage(ctx, chatID, msgReset)
		return
	case "export":
		b.handleExport(ctx, chatID, userID)
		return
	case "help":
		b.sendMessage(ctx, chatID, msgHelp)
		return
	}

	state := b.getUserState(ctx, userID)
	if state == nil {
		b.sendMessage(ctx, chatID, msgStartFirst)
		return
	}

	switch state.CurrentStep {
	case models.StateSelectHotel:
		b.selectHotel(ctx, chatID, userID, text)
	case models.StateEnterStartDate:
		b.handleStartDate(ctx, chatID, state, text)
	case models.StateEnterEndDate:
		b.handleEndDate(ctx, chatID, state, text)
	case models.StateSelectRoomType, models.StateChecked:
		b.runCheck(ctx, chatID, state, text)
	default:
		b.sendMessage(ctx, chatID, msgStartFirst)
	}
}

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	// Answer right away so the client stops showing the spinner.
	if err := b.tgService.AnswerCallback(callback.ID, ""); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to answer callback")
	}
	if callback.Message == nil {
		return
	}

	userID := callback.From.ID
	chatID := callback.Message.Chat.ID
	data := callback.Data

	switch {
	case strings.HasPrefix(data, callbackHotelPrefix):
		b.selectHotel(ctx, chatID, userID, strings.TrimPrefix(data, callbackHotelPrefix))

	case strings.HasPrefix(data, callbackRoomTypePrefix):
		state := b.getUserState(ctx, userID)
		if state == nil || (state.CurrentStep != models.StateSelectRoomType && state.CurrentStep != models.StateChecked) {
			b.sendMessage(ctx, chatID, msgStartFirst)
			return
		}
		b.runCheck(ctx, chatID, state, strings.TrimPrefix(data, callbackRoomTypePrefix))

	case data == callbackExport:
		b.handleExport(ctx, chatID, userID)

	case data == callbackRestart:
		b.handleStart(ctx, chatID, userID)
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID, userID int64) {
	b.clearUserState(ctx, userID)

	hotels := b.checker.Hotels()
	if len(hotels) == 0 {
		b.sendMessage(ctx, chatID, msgNoHotels)
		return
	}

	b.setUserState(ctx, userID, models.StateSelectHotel, nil)
	b.sendWithKeyboard(ctx, chatID, msgSelectHotel, hotelKeyboard(hotels))
}

func (b *Bot) selectHotel(ctx context.Context, chatID, userID int64, hotelID string) {
	hotel, ok := b.checker.Hotel(hotelID)
	if !ok {
		b.sendMessage(ctx, chatID, b.getErrorMessage(&availability.UnknownHotelError{HotelID: hotelID}))
		b.handleStart(ctx, chatID, userID)
		return
	}

	b.setUserState(ctx, userID, models.StateEnterStartDate, map[string]string{
		models.StateKeyHotelID: hotel.ID,
	})
	b.sendMessage(ctx, chatID, fmt.Sprintf("Hotel: %s\n%s", hotel.DisplayName(), msgEnterStartDate))
}

func (b *Bot) handleStartDate(ctx context.Context, chatID int64, state *models.UserState, text string) {
	if _, err := models.ParseDate(text); err != nil {
		b.sendMessage(ctx, chatID, b.getErrorMessage(&availability.InvalidDateError{
			Field: availability.FieldStartDate, Value: text,
		}))
		return
	}

	if !b.advance(ctx, chatID, state, models.StateEnterEndDate, models.StateKeyStartDate, text) {
		return
	}
	b.sendMessage(ctx, chatID, msgEnterEndDate)
}

func (b *Bot) handleEndDate(ctx context.Context, chatID int64, state *models.UserState, text string) {
	end, err := models.ParseDate(text)
	if err != nil {
		b.sendMessage(ctx, chatID, b.getErrorMessage(&availability.InvalidDateError{
			Field: availability.FieldEndDate, Value: text,
		}))
		return
	}

	startText := state.GetString(models.StateKeyStartDate)
	if start, err := models.ParseDate(startText); err == nil && start.After(end) {
		b.sendMessage(ctx, chatID, b.getErrorMessage(&availability.InvalidRangeError{Start: startText, End: text}))
		return
	}

	hotel, ok := b.checker.Hotel(state.GetString(models.StateKeyHotelID))
	if !ok {
		b.sendMessage(ctx, chatID, b.getErrorMessage(&availability.UnknownHotelError{
			HotelID: state.GetString(models.StateKeyHotelID),
		}))
		return
	}

	if !b.advance(ctx, chatID, state, models.StateSelectRoomType, models.StateKeyEndDate, text) {
		return
	}
	b.sendWithKeyboard(ctx, chatID, msgSelectRoomType, roomTypeKeyboard(&hotel))
}

// runCheck submits the collected form with roomType. On success the form
// stays filled so another room type or /export can follow.
func (b *Bot) runCheck(ctx context.Context, chatID int64, state *models.UserState, roomType string) {
	q := state.Query(roomType)
	result, err := b.checker.Check(ctx, q)
	if err != nil {
		b.sendMessage(ctx, chatID, b.getErrorMessage(err))
		if errors.Is(err, availability.ErrInvalidRoomType) {
			if hotel, ok := b.checker.Hotel(q.HotelID); ok {
				b.sendWithKeyboard(ctx, chatID, msgSelectRoomType, roomTypeKeyboard(&hotel))
			}
		}
		return
	}

	if !b.advance(ctx, chatID, state, models.StateChecked, models.StateKeyRoomType, roomType) {
		return
	}

	hotel, _ := b.checker.Hotel(q.HotelID)
	b.sendWithKeyboard(ctx, chatID, formatResult(&hotel, q, result), resultKeyboard(b.exporter != nil))
}

func (b *Bot) handleExport(ctx context.Context, chatID, userID int64) {
	if b.exporter == nil {
		b.sendMessage(ctx, chatID, msgExportDisabled)
		return
	}

	state := b.getUserState(ctx, userID)
	if state == nil || state.CurrentStep != models.StateChecked {
		b.sendMessage(ctx, chatID, msgCheckFirst)
		return
	}

	q := state.Query("")
	rows, err := b.checker.Report(ctx, q.HotelID, q.StartDate, q.EndDate)
	if err != nil {
		b.sendMessage(ctx, chatID, b.getErrorMessage(err))
		return
	}
	hotel, _ := b.checker.Hotel(q.HotelID)

	path, err := b.exporter.ExportReport(ctx, hotel, q.StartDate, q.EndDate, rows)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("hotel_id", q.HotelID).Msg("Failed to export report")
		b.sendMessage(ctx, chatID, msgInternalError)
		return
	}

	caption := fmt.Sprintf("%s: %s - %s", hotel.DisplayName(), q.StartDate, q.EndDate)
	if _, err := b.tgService.SendDocument(chatID, path, caption); err != nil {
		metrics.IncBotError()
		zerolog.Ctx(ctx).Error().Err(err).Str("file_path", path).Msg("Failed to send report")
	}
}

func formatResult(hotel *models.Hotel, q models.Query, result models.Availability) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s to %s, room type %s\n\n", hotel.DisplayName(), q.StartDate, q.EndDate, q.RoomType)
	fmt.Fprintf(&sb, "Total rooms: %d\n", result.TotalRooms)
	fmt.Fprintf(&sb, "Booked rooms: %d\n", result.BookedRooms)
	fmt.Fprintf(&sb, "Available rooms: %d", result.AvailableRooms)
	if result.AvailableRooms < 0 {
		fmt.Fprintf(&sb, "\n⚠️ Overbooked by %d room(s).", -result.AvailableRooms)
	}
	return sb.String()
}

// command returns the bot command in text without the slash and any
// @botname suffix, or "" when text is not a command.
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	name := strings.Fields(text)[0][1:]
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}
