package telegram

import (
	"context"
	"errors"
	"fmt"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"video-archive-bot/dto"
)

var (
	ErrRelayFailure         = errors.New("relay to archival channel failed")
	ErrReplayFailure        = errors.New("replay from archival channel failed")
	ErrChannelDeleteFailure = errors.New("archival channel delete failed")
)

// Client sends through the Telegram Bot API and turns long polling updates
// into dto.IncomingMessage values.
type Client struct {
	api         *tgbotapi.BotAPI
	pollTimeout int
}

func NewClient(token string, pollTimeout int, debug bool) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	api.Debug = debug

	return &Client{
		api:         api,
		pollTimeout: pollTimeout,
	}, nil
}

func (c *Client) Username() string {
	return c.api.Self.UserName
}

func (c *Client) SendText(ctx context.Context, chatID int64, text string, buttons ...string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(buttons) > 0 {
		msg.ReplyMarkup = replyKeyboard(buttons)
	}
	_, err := c.api.Send(msg)
	return err
}

func (c *Client) ForwardMessage(ctx context.Context, to dto.ChatRef, fromChatID int64, messageID int) (int, error) {
	forward := tgbotapi.NewForward(to.ID, fromChatID, messageID)
	forward.ChannelUsername = to.Username

	sent, err := c.api.Send(forward)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRelayFailure, err)
	}
	return sent.MessageID, nil
}

func (c *Client) CopyMessage(ctx context.Context, toChatID int64, from dto.ChatRef, messageID int) error {
	cp := tgbotapi.NewCopyMessage(toChatID, from.ID, messageID)
	cp.FromChannelUsername = from.Username

	if _, err := c.api.CopyMessage(cp); err != nil {
		return fmt.Errorf("%w: %w", ErrReplayFailure, err)
	}
	return nil
}

func (c *Client) DeleteMessage(ctx context.Context, chat dto.ChatRef, messageID int) error {
	del := tgbotapi.DeleteMessageConfig{
		ChannelUsername: chat.Username,
		ChatID:          chat.ID,
		MessageID:       messageID,
	}
	if _, err := c.api.Request(del); err != nil {
		return fmt.Errorf("%w: %w", ErrChannelDeleteFailure, err)
	}
	return nil
}

// Updates long polls until ctx is done. The returned channel is closed when
// polling stops.
func (c *Client) Updates(ctx context.Context) <-chan dto.IncomingMessage {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = c.pollTimeout
	updates := c.api.GetUpdatesChan(cfg)

	out := make(chan dto.IncomingMessage)
	go func() {
		defer close(out)
		defer c.api.StopReceivingUpdates()
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				msg, ok := ToIncoming(update)
				if !ok {
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// ToIncoming keeps only what the handlers need. Updates without a message
// or sender (edits, channel posts, callbacks) are dropped.
func ToIncoming(update tgbotapi.Update) (dto.IncomingMessage, bool) {
	m := update.Message
	if m == nil || m.From == nil || m.Chat == nil {
		return dto.IncomingMessage{}, false
	}

	msg := dto.IncomingMessage{
		UpdateID:  update.UpdateID,
		MessageID: m.MessageID,
		ChatID:    m.Chat.ID,
		UserID:    m.From.ID,
		Text:      m.Text,
		Caption:   m.Caption,
	}
	if m.IsCommand() {
		msg.Command = m.Command()
		msg.CommandArgs = m.CommandArguments()
	}
	if m.Video != nil {
		msg.Video = &dto.Video{
			FileID:   m.Video.FileID,
			Duration: m.Video.Duration,
		}
	}

	return msg, true
}

func replyKeyboard(buttons []string) tgbotapi.ReplyKeyboardMarkup {
	row := make([]tgbotapi.KeyboardButton, 0, len(buttons))
	for _, text := range buttons {
		row = append(row, tgbotapi.NewKeyboardButton(text))
	}
	return tgbotapi.NewReplyKeyboard(row)
}
