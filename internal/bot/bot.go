// Package bot runs the availability form as a Telegram conversation.
package bot

import (
	"context"
	"errors"
	"time"

	"hotelavail/internal/config"
	"hotelavail/internal/domain"
	"hotelavail/internal/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const updateTimeout = 30 * time.Second

type Bot struct {
	tgService    domain.TelegramService
	config       *config.Config
	stateService domain.StateManager
	checker      domain.AvailabilityChecker
	exporter     domain.ReportExporter
	logger       *zerolog.Logger
}

func NewBot(
	tgService domain.TelegramService,
	cfg *config.Config,
	stateService domain.StateManager,
	checker domain.AvailabilityChecker,
	exporter domain.ReportExporter,
	logger *zerolog.Logger,
) (*Bot, error) {
	switch {
	case tgService == nil:
		return nil, errors.New("telegram service is required")
	case stateService == nil:
		return nil, errors.New("state service is required")
	case checker == nil:
		return nil, errors.New("availability checker is required")
	case cfg == nil:
		return nil, errors.New("config is required")
	}

	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	botLogger := logger.With().Str("component", "bot").Logger()

	return &Bot{
		tgService:    tgService,
		config:       cfg,
		stateService: stateService,
		checker:      checker,
		exporter:     exporter,
		logger:       &botLogger,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tgService.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

// Stop stops receiving Telegram updates (best-effort).
func (b *Bot) Stop() {
	if b == nil || b.tgService == nil {
		return
	}
	b.tgService.StopReceivingUpdates()
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() {
		metrics.ObserveBotUpdate(time.Since(start))
	}()

	// Each update gets its own deadline.
	updateCtx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	l := b.logger.With().Str("request_id", uuid.NewString()).Logger()
	updateCtx = l.WithContext(updateCtx)

	b.withRecovery(updateCtx, func() {
		var userID, chatID int64
		switch {
		case update.Message != nil && update.Message.From != nil:
			userID = update.Message.From.ID
			chatID = update.Message.Chat.ID
		case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
			userID = update.CallbackQuery.From.ID
			if update.CallbackQuery.Message != nil {
				chatID = update.CallbackQuery.Message.Chat.ID
			}
		}

		if userID == 0 {
			return
		}

		if !b.allowUser(updateCtx, userID) {
			if chatID != 0 {
				b.sendMessage(updateCtx, chatID, msgRateLimited)
			}
			return
		}

		if update.CallbackQuery != nil {
			b.handleCallbackQuery(updateCtx, update.CallbackQuery)
			return
		}

		b.handleMessage(updateCtx, update.Message)
	})
}
