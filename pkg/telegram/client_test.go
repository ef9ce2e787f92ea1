package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToIncoming_Text(t *testing.T) {
	update := tgbotapi.Update{
		UpdateID: 9,
		Message: &tgbotapi.Message{
			MessageID: 3,
			From:      &tgbotapi.User{ID: 1001},
			Chat:      &tgbotapi.Chat{ID: 555},
			Text:      "25.11.2022",
		},
	}

	msg, ok := ToIncoming(update)
	require.True(t, ok)

	assert.Equal(t, 9, msg.UpdateID)
	assert.Equal(t, 3, msg.MessageID)
	assert.Equal(t, int64(555), msg.ChatID)
	assert.Equal(t, int64(1001), msg.UserID)
	assert.Equal(t, "25.11.2022", msg.Text)
	assert.False(t, msg.IsCommand())
	assert.False(t, msg.HasVideo())
}

func TestToIncoming_Command(t *testing.T) {
	update := tgbotapi.Update{
		Message: &tgbotapi.Message{
			From:     &tgbotapi.User{ID: 1},
			Chat:     &tgbotapi.Chat{ID: 1},
			Text:     "/del 25.11.2022",
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 4}},
		},
	}

	msg, ok := ToIncoming(update)
	require.True(t, ok)

	assert.True(t, msg.IsCommand())
	assert.Equal(t, "del", msg.Command)
	assert.Equal(t, "25.11.2022", msg.CommandArgs)
}

func TestToIncoming_Video(t *testing.T) {
	update := tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 12,
			From:      &tgbotapi.User{ID: 1},
			Chat:      &tgbotapi.Chat{ID: 2},
			Caption:   "first dance",
			Video:     &tgbotapi.Video{FileID: "BAACAgIAAxkBAAI", Duration: 30},
		},
	}

	msg, ok := ToIncoming(update)
	require.True(t, ok)

	require.True(t, msg.HasVideo())
	assert.Equal(t, "BAACAgIAAxkBAAI", msg.Video.FileID)
	assert.Equal(t, 30, msg.Video.Duration)
	assert.Equal(t, "first dance", msg.Caption)
	assert.Empty(t, msg.Text)
}

func TestToIncoming_DropsUpdatesWithoutMessage(t *testing.T) {
	_, ok := ToIncoming(tgbotapi.Update{UpdateID: 1})
	assert.False(t, ok)

	_, ok = ToIncoming(tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}}})
	assert.False(t, ok)

	_, ok = ToIncoming(tgbotapi.Update{ChannelPost: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}}})
	assert.False(t, ok)
}

func TestReplyKeyboard(t *testing.T) {
	keyboard := replyKeyboard([]string{"a", "b"})

	require.Len(t, keyboard.Keyboard, 1)
	require.Len(t, keyboard.Keyboard[0], 2)
	assert.Equal(t, "a", keyboard.Keyboard[0][0].Text)
	assert.Equal(t, "b", keyboard.Keyboard[0][1].Text)
	assert.True(t, keyboard.ResizeKeyboard)
}
