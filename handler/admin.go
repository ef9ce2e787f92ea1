package handler

import (
	"context"
	"errors"
	"fmt"
	"github.com/rs/zerolog"
	"strings"
	"video-archive-bot/constant"
	"video-archive-bot/conversation"
	"video-archive-bot/dto"
	"video-archive-bot/service"
)

var operatorKeyboard = []string{constant.ButtonAddVideo, constant.ButtonDeleteVideo}

func (h *handler) handleOperator(ctx context.Context, msg dto.IncomingMessage) error {
	key := conversation.Key{ChatID: msg.ChatID, UserID: msg.UserID}

	switch {
	case msg.Command == constant.CommandStart:
		return h.reply(ctx, msg.ChatID, constant.MsgOperatorWelcome)
	case msg.Command == constant.CommandCancel:
		h.sessions.Clear(key)
		return h.reply(ctx, msg.ChatID, constant.MsgCancelled)
	case msg.Command == constant.CommandDelete:
		videoID := strings.TrimSpace(msg.CommandArgs)
		if videoID == "" {
			return h.enterDeleteMode(ctx, key, msg.ChatID)
		}
		h.sessions.Clear(key)
		return h.deleteVideos(ctx, key, msg.ChatID, videoID)
	case msg.Text == constant.ButtonAddVideo:
		return h.startUpload(ctx, key, msg.ChatID)
	case msg.Text == constant.ButtonDeleteVideo:
		return h.enterDeleteMode(ctx, key, msg.ChatID)
	}

	session := h.sessions.Get(key)
	switch session.State {
	case conversation.StateAwaitingVideo:
		if msg.HasVideo() {
			return h.captureVideo(ctx, key, msg)
		}
		return h.reply(ctx, msg.ChatID, constant.MsgSendVideoFile)
	case conversation.StateAwaitingIdentifier:
		if session.DeleteMode {
			if msg.Text == "" {
				return h.reply(ctx, msg.ChatID, constant.MsgSendDeleteID)
			}
			return h.deleteVideos(ctx, key, msg.ChatID, msg.Text)
		}
		if msg.HasVideo() {
			h.sessions.Clear(key)
			return h.captureVideo(ctx, key, msg)
		}
		if msg.Text == "" {
			return h.reply(ctx, msg.ChatID, constant.MsgSendIdentifier)
		}
		return h.saveVideo(ctx, key, session, msg)
	default:
		return h.reply(ctx, msg.ChatID, constant.MsgOperatorHint)
	}
}

func (h *handler) startUpload(ctx context.Context, key conversation.Key, chatID int64) error {
	h.sessions.Clear(key)
	h.sessions.Set(key, conversation.Session{State: conversation.StateAwaitingVideo})
	return h.reply(ctx, chatID, constant.MsgSendOneVideo)
}

func (h *handler) enterDeleteMode(ctx context.Context, key conversation.Key, chatID int64) error {
	h.sessions.Clear(key)
	h.sessions.Set(key, conversation.Session{State: conversation.StateAwaitingIdentifier, DeleteMode: true})
	return h.reply(ctx, chatID, constant.MsgSendDeleteID)
}

// captureVideo forwards the operator's video to the archival channel and
// waits for its identifier.
func (h *handler) captureVideo(ctx context.Context, key conversation.Key, msg dto.IncomingMessage) error {
	channelMessageID, err := h.messenger.ForwardMessage(ctx, h.channel, msg.ChatID, msg.MessageID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("channel", h.channel.String()).Msg("failed to relay video")
		h.sessions.Clear(key)
		return h.reply(ctx, msg.ChatID, fmt.Sprintf(constant.MsgRelayFailed, err))
	}

	h.sessions.Set(key, conversation.Session{
		State:            conversation.StateAwaitingIdentifier,
		FileID:           msg.Video.FileID,
		Caption:          msg.Caption,
		ChannelMessageID: channelMessageID,
	})
	zerolog.Ctx(ctx).Debug().Int("channel_message_id", channelMessageID).Msg("video relayed")

	return h.reply(ctx, msg.ChatID, constant.MsgVideoRelayed)
}

func (h *handler) saveVideo(ctx context.Context, key conversation.Key, session conversation.Session, msg dto.IncomingMessage) error {
	if session.FileID == "" {
		h.sessions.Clear(key)
		return h.reply(ctx, msg.ChatID, constant.MsgVideoMissing)
	}

	videoID := strings.TrimSpace(msg.Text)
	err := h.videos.SaveVideo(ctx, videoID, session.FileID, session.Caption, session.ChannelMessageID)
	if errors.Is(err, service.ErrInvalidIdentifier) {
		return h.reply(ctx, msg.ChatID, constant.MsgInvalidIdentifier)
	}
	if err != nil {
		return h.fail(ctx, msg.ChatID, err)
	}

	h.sessions.Clear(key)
	return h.reply(ctx, msg.ChatID, fmt.Sprintf(constant.MsgVideoSaved, videoID))
}

func (h *handler) deleteVideos(ctx context.Context, key conversation.Key, chatID int64, text string) error {
	videoID := strings.TrimSpace(text)
	result, err := h.videos.DeleteVideos(ctx, h.messenger, h.channel, videoID)
	if errors.Is(err, service.ErrInvalidIdentifier) {
		return h.reply(ctx, chatID, constant.MsgInvalidIdentifier)
	}

	h.sessions.Clear(key)
	if err != nil {
		return h.fail(ctx, chatID, err)
	}

	return h.reply(ctx, chatID, fmt.Sprintf(constant.MsgVideosDeleted,
		videoID, result.DeletedDB, result.DeletedChannel, result.FailedChannel))
}

func (h *handler) reply(ctx context.Context, chatID int64, text string) error {
	return h.messenger.SendText(ctx, chatID, text, operatorKeyboard...)
}

// fail tells the operator something went wrong and hands err back to the
// dispatcher for logging.
func (h *handler) fail(ctx context.Context, chatID int64, err error) error {
	if replyErr := h.reply(ctx, chatID, constant.MsgInternalError); replyErr != nil {
		return errors.Join(err, replyErr)
	}
	return err
}
