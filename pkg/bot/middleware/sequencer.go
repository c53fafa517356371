package middleware

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// WithChatSequencer serializes message handling per chat. The navigation
// engine applies answers in the order they arrive; two updates from the same
// respondent must never race each other, while different chats keep being
// handled concurrently.
func WithChatSequencer() Middleware {
	var mu sync.Mutex

	chatLocks := make(map[int64]*sync.Mutex)

	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, message *tgbotapi.Message) (tgbotapi.MessageConfig, error) {
			if message == nil {
				return tgbotapi.MessageConfig{}, errors.New("message is nil")
			}

			mu.Lock()
			lock, ok := chatLocks[message.Chat.ID]
			if !ok {
				lock = &sync.Mutex{}
				chatLocks[message.Chat.ID] = lock
			}
			mu.Unlock()

			lock.Lock()
			defer lock.Unlock()

			return next.Handle(ctx, message)
		})
	}
}
