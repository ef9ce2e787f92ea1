package handler

import (
	"context"
	"github.com/rs/zerolog"
	"video-archive-bot/conversation"
	"video-archive-bot/dto"
	"video-archive-bot/service"
)

// Messenger is the part of the chat transport the handlers talk to.
type Messenger interface {
	service.ChannelDeleter
	// SendText replies with text. When buttons are given they are shown as a
	// one row reply keyboard.
	SendText(ctx context.Context, chatID int64, text string, buttons ...string) error
	// ForwardMessage forwards a message into chat and returns the id of the
	// copy there.
	ForwardMessage(ctx context.Context, to dto.ChatRef, fromChatID int64, messageID int) (int, error)
	CopyMessage(ctx context.Context, toChatID int64, from dto.ChatRef, messageID int) error
}

type Handler interface {
	Handle(ctx context.Context, msg dto.IncomingMessage) error
}

type handler struct {
	messenger Messenger
	videos    service.Service
	sessions  conversation.Store
	gate      Gate
	channel   dto.ChatRef
}

func (h *handler) Handle(ctx context.Context, msg dto.IncomingMessage) error {
	logger := zerolog.Ctx(ctx).With().
		Int64("chat_id", msg.ChatID).
		Int64("user_id", msg.UserID).
		Int("message_id", msg.MessageID).
		Logger()
	ctx = logger.WithContext(ctx)

	if h.gate.IsOperator(msg.UserID) {
		return h.handleOperator(ctx, msg)
	}
	return h.handleRequester(ctx, msg)
}

func NewHandler(messenger Messenger, videos service.Service, sessions conversation.Store, gate Gate, channel dto.ChatRef) Handler {
	return &handler{
		messenger: messenger,
		videos:    videos,
		sessions:  sessions,
		gate:      gate,
		channel:   channel,
	}
}
