package bot

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/evgsokolov/surveyflow/pkg/core"
)

// MockSurveyService is a testify mock of SurveyService.
type MockSurveyService struct {
	mock.Mock
}

func NewMockSurveyService(t *testing.T) *MockSurveyService {
	t.Helper()

	m := &MockSurveyService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockSurveyService) StartSurvey(ctx context.Context, userID string) (*core.Response, error) {
	args := m.Called(ctx, userID)
	if resp := args.Get(0); resp != nil {
		return resp.(*core.Response), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockSurveyService) HandleMessage(ctx context.Context, userID, text string) (*core.Response, error) {
	args := m.Called(ctx, userID, text)
	if resp := args.Get(0); resp != nil {
		return resp.(*core.Response), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockSurveyService) SkipQuestion(ctx context.Context, userID string) (*core.Response, error) {
	args := m.Called(ctx, userID)
	if resp := args.Get(0); resp != nil {
		return resp.(*core.Response), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockSurveyService) GoBack(ctx context.Context, userID string) (*core.Response, error) {
	args := m.Called(ctx, userID)
	if resp := args.Get(0); resp != nil {
		return resp.(*core.Response), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockSurveyService) ResetSurvey(ctx context.Context, userID string) (*core.Response, error) {
	args := m.Called(ctx, userID)
	if resp := args.Get(0); resp != nil {
		return resp.(*core.Response), args.Error(1)
	}

	return nil, args.Error(1)
}

func newCommandMessage(chatID, userID int64, command string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text: "/" + command,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(command) + 1},
		},
		Chat: &tgbotapi.Chat{ID: chatID},
		From: &tgbotapi.User{ID: userID},
	}
}

func newTextMessageIn(chatID, userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: chatID},
		From: &tgbotapi.User{ID: userID},
	}
}

func TestHandleCommand(t *testing.T) {
	questionResp := &core.Response{
		Message: "Screening (1/2)\n\nDo you use the product?",
		Answers: []string{"No", "Yes"},
	}

	tests := []struct {
		name       string
		message    *tgbotapi.Message
		setupMocks func(m *MockSurveyService)
		wantText   string
		wantErr    bool
	}{
		{
			name:    "start command",
			message: newCommandMessage(123, 456, "start"),
			setupMocks: func(m *MockSurveyService) {
				m.On("StartSurvey", mock.Anything, "456").Return(questionResp, nil)
			},
			wantText: questionResp.Message,
		},
		{
			name:       "help command",
			message:    newCommandMessage(123, 456, "help"),
			setupMocks: func(*MockSurveyService) {},
			wantText:   helpMessage,
		},
		{
			name:    "back command",
			message: newCommandMessage(123, 456, "back"),
			setupMocks: func(m *MockSurveyService) {
				m.On("GoBack", mock.Anything, "456").Return(questionResp, nil)
			},
			wantText: questionResp.Message,
		},
		{
			name:    "skip command",
			message: newCommandMessage(123, 456, "skip"),
			setupMocks: func(m *MockSurveyService) {
				m.On("SkipQuestion", mock.Anything, "456").Return(questionResp, nil)
			},
			wantText: questionResp.Message,
		},
		{
			name:    "reset command",
			message: newCommandMessage(123, 456, "reset"),
			setupMocks: func(m *MockSurveyService) {
				m.On("ResetSurvey", mock.Anything, "456").Return(questionResp, nil)
			},
			wantText: questionResp.Message,
		},
		{
			name:       "unknown command",
			message:    newCommandMessage(123, 456, "banana"),
			setupMocks: func(*MockSurveyService) {},
			wantText:   unknownCommandMessage,
		},
		{
			name:    "command error",
			message: newCommandMessage(123, 456, "start"),
			setupMocks: func(m *MockSurveyService) {
				m.On("StartSurvey", mock.Anything, "456").Return(nil, errors.New("boom"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockSurveyService(t)
			tt.setupMocks(mockSvc)

			svc := &Service{surveySvc: mockSvc}

			resp, err := svc.Handle(context.Background(), tt.message)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(123), resp.ChatID)
			assert.Equal(t, tt.wantText, resp.Text)
		})
	}
}

func TestHandle_TextAnswer(t *testing.T) {
	mockSvc := NewMockSurveyService(t)
	mockSvc.On("HandleMessage", mock.Anything, "456", "Yes").Return(&core.Response{
		Message: "Next question",
		Answers: []string{"A", "B"},
	}, nil)

	svc := &Service{surveySvc: mockSvc}

	resp, err := svc.Handle(context.Background(), newTextMessageIn(123, 456, "Yes"))
	require.NoError(t, err)

	assert.Equal(t, "Next question", resp.Text)

	keyboard, ok := resp.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, keyboard.Keyboard, 2)
	assert.Equal(t, "A", keyboard.Keyboard[0][0].Text)
	assert.Equal(t, "B", keyboard.Keyboard[1][0].Text)
}

func TestHandle_EmptyText(t *testing.T) {
	svc := &Service{surveySvc: NewMockSurveyService(t)}

	resp, err := svc.Handle(context.Background(), newTextMessageIn(123, 456, ""))
	require.NoError(t, err)
	assert.Equal(t, emptyMessage, resp.Text)
}

func TestHandle_DoneRemovesKeyboard(t *testing.T) {
	mockSvc := NewMockSurveyService(t)
	mockSvc.On("HandleMessage", mock.Anything, "456", "Yes").Return(&core.Response{
		Message: "Thanks!",
		Done:    true,
	}, nil)

	svc := &Service{surveySvc: mockSvc}

	resp, err := svc.Handle(context.Background(), newTextMessageIn(123, 456, "Yes"))
	require.NoError(t, err)

	_, ok := resp.ReplyMarkup.(tgbotapi.ReplyKeyboardRemove)
	assert.True(t, ok)
}
