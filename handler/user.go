package handler

import (
	"context"
	"errors"
	"github.com/rs/zerolog"
	"video-archive-bot/constant"
	"video-archive-bot/dto"
)

func (h *handler) handleRequester(ctx context.Context, msg dto.IncomingMessage) error {
	if msg.Command == constant.CommandStart {
		return h.messenger.SendText(ctx, msg.ChatID, constant.MsgRequesterWelcome)
	}
	if msg.Text == "" || isKnownCommand(msg.Command) || isButton(msg.Text) {
		return nil
	}

	videos, err := h.videos.GetVideos(ctx, msg.Text)
	if err != nil {
		if replyErr := h.messenger.SendText(ctx, msg.ChatID, constant.MsgInternalError); replyErr != nil {
			return errors.Join(err, replyErr)
		}
		return err
	}

	if len(videos) == 0 {
		return h.messenger.SendText(ctx, msg.ChatID, constant.MsgVideosNotFound)
	}

	var errs []error
	for _, video := range videos {
		if !video.Linked() {
			continue
		}
		err := h.messenger.CopyMessage(ctx, msg.ChatID, h.channel, video.ChannelMessageID)
		if err == nil {
			continue
		}
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("video_id", video.VideoID).
			Int("channel_message_id", video.ChannelMessageID).
			Msg("archived video unavailable")
		if err := h.messenger.SendText(ctx, msg.ChatID, constant.MsgVideoUnavailable); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func isButton(text string) bool {
	return text == constant.ButtonAddVideo || text == constant.ButtonDeleteVideo
}

// isKnownCommand reports whether name is one of the bot's own commands.
// Anything else a requester types, slash or not, is looked up.
func isKnownCommand(name string) bool {
	switch name {
	case constant.CommandStart, constant.CommandDelete, constant.CommandCancel:
		return true
	}
	return false
}
