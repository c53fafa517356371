package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/evgsokolov/surveyflow/pkg/core"
)

const (
	helpMessage = `Available Commands:

/start - Start the survey, or resume where you left off
/back - Return to the previous question
/skip - Skip an optional question
/reset - Discard your answers and start over
/help - Display this help message

Your progress is saved after every answer, so you can stop and come back any time.`
	unknownCommandMessage = "❓ Unknown command.\n\nUse /help to see the list of available commands."
	emptyMessage          = "Please answer with one of the buttons, or use /help to see available commands."
)

// Handle processes incoming telegram messages, handles commands and plain
// text answers, and generates the appropriate response.
func (s *Service) Handle(ctx context.Context, msg *tgbotapi.Message) (tgbotapi.MessageConfig, error) {
	slog.DebugContext(ctx, "Handling message", slog.Any("message", msg))

	if msg.Command() != "" {
		resp, err := s.handleCommand(ctx, msg)
		if err != nil {
			return tgbotapi.MessageConfig{}, fmt.Errorf("failed to handle command: %w", err)
		}

		return resp, nil
	}

	if msg.Text == "" {
		return newTextMessage(msg.Chat.ID, emptyMessage), nil
	}

	resp, err := s.surveySvc.HandleMessage(ctx, fmt.Sprintf("%d", msg.From.ID), msg.Text)
	if err != nil {
		return tgbotapi.MessageConfig{}, fmt.Errorf("failed to handle text message: %w", err)
	}

	return newMessage(msg.Chat.ID, resp), nil
}

// handleCommand handles Telegram command messages and generates an appropriate response based on the command received.
func (s *Service) handleCommand(ctx context.Context, msg *tgbotapi.Message) (tgbotapi.MessageConfig, error) {
	userID := fmt.Sprintf("%d", msg.From.ID)

	switch msg.Command() {
	case "start":
		resp, err := s.surveySvc.StartSurvey(ctx, userID)
		if err != nil {
			return tgbotapi.MessageConfig{}, fmt.Errorf("failed to start survey: %w", err)
		}

		return newMessage(msg.Chat.ID, resp), nil
	case "help":
		return newTextMessage(msg.Chat.ID, helpMessage), nil
	case "back":
		resp, err := s.surveySvc.GoBack(ctx, userID)
		if err != nil {
			return tgbotapi.MessageConfig{}, fmt.Errorf("failed to go back: %w", err)
		}

		return newMessage(msg.Chat.ID, resp), nil
	case "skip":
		resp, err := s.surveySvc.SkipQuestion(ctx, userID)
		if err != nil {
			return tgbotapi.MessageConfig{}, fmt.Errorf("failed to skip question: %w", err)
		}

		return newMessage(msg.Chat.ID, resp), nil
	case "reset":
		resp, err := s.surveySvc.ResetSurvey(ctx, userID)
		if err != nil {
			return tgbotapi.MessageConfig{}, fmt.Errorf("failed to reset survey: %w", err)
		}

		return newMessage(msg.Chat.ID, resp), nil
	default:
		return newTextMessage(msg.Chat.ID, unknownCommandMessage), nil
	}
}

// newMessage renders a survey response: the answers become a reply keyboard,
// one button per row; a final response removes the keyboard.
func newMessage(chatID int64, resp *core.Response) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, resp.Message)

	if len(resp.Answers) == 0 || resp.Done {
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
		return msg
	}

	rows := make([][]tgbotapi.KeyboardButton, len(resp.Answers))
	for i, answer := range resp.Answers {
		rows[i] = tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(answer))
	}

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.OneTimeKeyboard = false
	keyboard.ResizeKeyboard = true
	msg.ReplyMarkup = keyboard

	return msg
}

// newTextMessage creates a plain text message without a keyboard.
func newTextMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}
