package bot

import (
	"context"
	"errors"
	"sync"

	tele "gopkg.in/telebot.v4"
)

// telegramSender delivers operator notifications once the bot is running.
type telegramSender struct {
	mu  sync.RWMutex
	bot *tele.Bot
}

func (s *telegramSender) set(b *tele.Bot) {
	s.mu.Lock()
	s.bot = b
	s.mu.Unlock()
}

// Send implements notify.SendFunc.
func (s *telegramSender) Send(_ context.Context, recipientID int64, text string) error {
	s.mu.RLock()
	b := s.bot
	s.mu.RUnlock()
	if b == nil {
		return errors.New("bot not started")
	}
	_, err := b.Send(&tele.User{ID: recipientID}, text, tele.ModeMarkdown)
	return err
}
