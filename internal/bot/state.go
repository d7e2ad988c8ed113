package bot

import (
	"context"

	"hotelavail/internal/metrics"
	"hotelavail/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) getUserState(ctx context.Context, userID int64) *models.UserState {
	state, err := b.stateService.GetUserState(ctx, userID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", userID).Msg("Failed to get user state")
		return nil
	}
	return state
}

func (b *Bot) setUserState(ctx context.Context, userID int64, step string, data map[string]string) {
	if err := b.stateService.SetUserState(ctx, userID, step, data); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", userID).Str("step", step).Msg("Failed to set user state")
	}
}

// advance records one answered field. It reports false when the form could
// not be saved and the user has been told so.
func (b *Bot) advance(ctx context.Context, chatID int64, state *models.UserState, step, key, value string) bool {
	if err := b.stateService.AdvanceForm(ctx, state, step, key, value); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", state.UserID).Str("step", step).Msg("Failed to save form")
		b.sendMessage(ctx, chatID, msgInternalError)
		return false
	}
	return true
}

func (b *Bot) clearUserState(ctx context.Context, userID int64) {
	if err := b.stateService.ClearUserState(ctx, userID); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", userID).Msg("Failed to clear user state")
	}
}

func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string) {
	if _, err := b.tgService.SendMessage(chatID, text); err != nil {
		metrics.IncBotError()
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

func (b *Bot) sendWithKeyboard(ctx context.Context, chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	if _, err := b.tgService.SendWithInlineKeyboard(chatID, text, keyboard); err != nil {
		metrics.IncBotError()
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}
