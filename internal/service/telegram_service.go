package service

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"hotelavail/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageLength is Telegram's limit for one text message, in characters.
const maxMessageLength = 4096

// TelegramService wraps the bot API with the few calls the availability
// bot needs.
type TelegramService struct {
	bot domain.TelegramSender
}

func NewTelegramService(bot domain.TelegramSender) *TelegramService {
	return &TelegramService{bot: bot}
}

// SendMessage sends text, split into several messages when it is too long.
// The last sent message is returned.
func (s *TelegramService) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	return s.sendChunks(chatID, text, nil)
}

// SendWithInlineKeyboard attaches keyboard to the last chunk of text.
func (s *TelegramService) SendWithInlineKeyboard(
	chatID int64,
	text string,
	keyboard tgbotapi.InlineKeyboardMarkup,
) (tgbotapi.Message, error) {
	return s.sendChunks(chatID, text, keyboard)
}

func (s *TelegramService) sendChunks(chatID int64, text string, markup any) (tgbotapi.Message, error) {
	chunks := splitMessage(text, maxMessageLength)
	var sent tgbotapi.Message
	for i, chunk := range chunks {
		msg := tgbotapi.NewMessage(chatID, chunk)
		if i == len(chunks)-1 && markup != nil {
			msg.ReplyMarkup = markup
		}
		var err error
		if sent, err = s.bot.Send(msg); err != nil {
			return sent, err
		}
	}
	return sent, nil
}

// SendDocument uploads the file at path with an optional caption.
func (s *TelegramService) SendDocument(chatID int64, path, caption string) (tgbotapi.Message, error) {
	if _, err := os.Stat(path); err != nil {
		return tgbotapi.Message{}, fmt.Errorf("document %s: %w", path, err)
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	return s.bot.Send(doc)
}

func (s *TelegramService) AnswerCallback(callbackID, text string) error {
	_, err := s.bot.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

func (s *TelegramService) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return s.bot.GetUpdatesChan(config)
}

func (s *TelegramService) GetSelf() tgbotapi.User {
	return s.bot.GetSelf()
}

func (s *TelegramService) StopReceivingUpdates() {
	s.bot.StopReceivingUpdates()
}

// splitMessage cuts text into pieces of at most limit runes, preferring
// line breaks as cut points.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var b strings.Builder
	n := 0
	flush := func() {
		if chunk := strings.Trim(b.String(), "\n"); chunk != "" {
			chunks = append(chunks, chunk)
		}
		b.Reset()
		n = 0
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		for utf8.RuneCountInString(line) > limit {
			flush()
			r := []rune(line)
			chunks = append(chunks, string(r[:limit]))
			line = string(r[limit:])
		}
		size := utf8.RuneCountInString(line)
		if n+size > limit {
			flush()
		}
		b.WriteString(line)
		n += size
	}
	flush()
	return chunks
}
