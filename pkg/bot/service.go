package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/evgsokolov/surveyflow/pkg/bot/middleware"
	"github.com/evgsokolov/surveyflow/pkg/core"
)

const requestTimeout = 30 * time.Second

// BotAPI is the subset of the Telegram bot API capabilities we use.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	StopReceivingUpdates()
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

// SurveyService runs the survey conversation for a respondent.
type SurveyService interface {
	StartSurvey(ctx context.Context, userID string) (*core.Response, error)
	HandleMessage(ctx context.Context, userID, text string) (*core.Response, error)
	SkipQuestion(ctx context.Context, userID string) (*core.Response, error)
	GoBack(ctx context.Context, userID string) (*core.Response, error)
	ResetSurvey(ctx context.Context, userID string) (*core.Response, error)
}

// Config holds the configuration for the Telegram bot.
type Config struct {
	TelegramToken string `mapstructure:"telegram_token"`
}

// Service is the Telegram front-end of the survey.
type Service struct {
	bot       BotAPI
	surveySvc SurveyService
	handler   middleware.Handler
}

// New creates a new bot service delivering the given survey service over
// Telegram.
func New(cfg *Config, surveySvc SurveyService) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("telegram token cannot be empty")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	s := &Service{
		bot:       bot,
		surveySvc: surveySvc,
	}
	s.handler = s.setupHandler()

	return s, nil
}

// setupHandler wires the command handler behind the middleware stack.
func (s *Service) setupHandler() middleware.Handler {
	return middleware.Use(
		middleware.HandlerFunc(s.Handle),
		middleware.WithChatSequencer(),
	)
}

// Run processes incoming updates until the context is cancelled, then shuts
// down gracefully.
func (s *Service) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Starting survey bot")

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30

	updates := s.bot.GetUpdatesChan(updateConfig)

	var wg sync.WaitGroup

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}

			wg.Add(1)

			go func() {
				defer wg.Done()

				reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
				defer cancel()

				// nolint:staticcheck // don't want to have dependecy on cmd package here for now
				reqCtx = context.WithValue(reqCtx, "req_id", uuid.New().String())

				s.processUpdate(reqCtx, &update)
			}()

		case <-ctx.Done():
			slog.Info("Starting graceful shutdown")
			s.bot.StopReceivingUpdates()

			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()

			select {
			case <-done:
				slog.InfoContext(ctx, "Graceful shutdown completed")
			case <-time.After(requestTimeout):
				slog.Warn("Graceful shutdown timed out")
			}

			return nil
		}
	}
}

func (s *Service) processUpdate(ctx context.Context, update *tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	msg := update.Message

	// nolint:staticcheck // don't want to have dependecy on cmd package here for now
	ctx = context.WithValue(ctx, "chat_id", fmt.Sprintf("%d", msg.Chat.ID))

	msgConfig, err := s.handler.Handle(ctx, msg)

	switch {
	case errors.Is(err, context.Canceled):
		slog.InfoContext(ctx, "Request cancelled",
			slog.Int64("chat_id", msg.Chat.ID),
		)

		return
	case err != nil:
		slog.ErrorContext(ctx, "Unexpected error",
			slog.Any("error", err),
		)

		return
	}

	if msgConfig.Text == "" {
		return
	}

	if _, err := s.bot.Send(msgConfig); err != nil {
		slog.ErrorContext(ctx, "Failed to send message",
			slog.Any("error", err),
		)
	}
}
