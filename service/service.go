package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/rs/zerolog"
	"strings"
	"video-archive-bot/constant"
	"video-archive-bot/dto"
	"video-archive-bot/entities"
	"video-archive-bot/repository"
)

var ErrInvalidIdentifier = errors.New("invalid video identifier")

// ChannelDeleter removes a message from a chat. The archival channel is the
// only chat it is used with.
type ChannelDeleter interface {
	DeleteMessage(ctx context.Context, chat dto.ChatRef, messageID int) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event dto.VideoEvent) error
}

type Service interface {
	SaveVideo(ctx context.Context, videoID, fileID, caption string, channelMessageID int) error
	GetVideos(ctx context.Context, videoID string) ([]*entities.Video, error)
	DeleteVideos(ctx context.Context, deleter ChannelDeleter, channel dto.ChatRef, videoID string) (dto.DeleteResult, error)
}

type service struct {
	repo      repository.VideoRepository
	publisher EventPublisher
}

func (s service) SaveVideo(ctx context.Context, videoID, fileID, caption string, channelMessageID int) error {
	if !IsValidIdentifier(videoID) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, videoID)
	}
	videoID = strings.TrimSpace(videoID)

	video := &entities.Video{
		VideoID:          videoID,
		FileID:           fileID,
		Caption:          caption,
		ChannelMessageID: channelMessageID,
	}
	if err := s.repo.Insert(ctx, video); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("video_id", videoID).
		Uint("id", video.ID).
		Int("channel_message_id", channelMessageID).
		Msg("video saved")

	event := dto.NewVideoEvent(constant.EventVideoSaved, videoID, 1)
	event.ChannelMessageID = channelMessageID
	s.publish(ctx, event)

	return nil
}

func (s service) GetVideos(ctx context.Context, videoID string) ([]*entities.Video, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return []*entities.Video{}, nil
	}

	return s.repo.FindByVideoID(ctx, videoID)
}

func (s service) DeleteVideos(ctx context.Context, deleter ChannelDeleter, channel dto.ChatRef, videoID string) (dto.DeleteResult, error) {
	var result dto.DeleteResult
	if !IsValidIdentifier(videoID) {
		return result, fmt.Errorf("%w: %q", ErrInvalidIdentifier, videoID)
	}
	videoID = strings.TrimSpace(videoID)

	videos, err := s.repo.FindByVideoID(ctx, videoID)
	if err != nil {
		return result, err
	}

	for _, video := range videos {
		if !video.Linked() {
			continue
		}
		if err := deleter.DeleteMessage(ctx, channel, video.ChannelMessageID); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).
				Str("video_id", videoID).
				Int("channel_message_id", video.ChannelMessageID).
				Msg("failed to delete channel message")
			result.FailedChannel++
			continue
		}
		result.DeletedChannel++
	}

	deleted, err := s.repo.DeleteByVideoID(ctx, videoID)
	if err != nil {
		return result, err
	}
	result.DeletedDB = int(deleted)

	zerolog.Ctx(ctx).Info().
		Str("video_id", videoID).
		Int("deleted_db", result.DeletedDB).
		Int("deleted_channel", result.DeletedChannel).
		Int("failed_channel", result.FailedChannel).
		Msg("videos deleted")

	if result.DeletedDB > 0 {
		s.publish(ctx, dto.NewVideoEvent(constant.EventVideoDeleted, videoID, result.DeletedDB))
	}

	return result, nil
}

func (s service) publish(ctx context.Context, event dto.VideoEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("event_id", event.ID.String()).Msg("failed to publish event")
	}
}

func NewService(repo repository.VideoRepository, publisher EventPublisher) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
	}
}
