package dto

import (
	"github.com/google/uuid"
	"strconv"
	"strings"
	"time"
	"video-archive-bot/constant"
)

// IncomingMessage is the transport independent view of an inbound chat
// message.
type IncomingMessage struct {
	UpdateID  int    `json:"updateId"`
	MessageID int    `json:"messageId"`
	ChatID    int64  `json:"chatId"`
	UserID    int64  `json:"userId"`
	Text      string `json:"text"`
	Caption   string `json:"caption"`
	// Command and CommandArgs are set when Text is a bot command.
	Command     string `json:"command"`
	CommandArgs string `json:"commandArgs"`
	Video       *Video `json:"video,omitempty"`
}

type Video struct {
	FileID   string `json:"fileId"`
	Duration int    `json:"duration"`
}

func (m IncomingMessage) HasVideo() bool {
	return m.Video != nil && m.Video.FileID != ""
}

func (m IncomingMessage) IsCommand() bool {
	return m.Command != ""
}

// ChatRef addresses a chat either by numeric id or by public @username.
type ChatRef struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
}

// ParseChatRef accepts "-1001234567890" or "@channel".
func ParseChatRef(s string) (ChatRef, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "@") {
		return ChatRef{Username: s}, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return ChatRef{}, err
	}
	return ChatRef{ID: id}, nil
}

func (c ChatRef) String() string {
	if c.Username != "" {
		return c.Username
	}
	return strconv.FormatInt(c.ID, 10)
}

func (c ChatRef) IsZero() bool {
	return c.ID == 0 && c.Username == ""
}

type DeleteResult struct {
	DeletedDB      int `json:"deletedDb"`
	DeletedChannel int `json:"deletedChannel"`
	FailedChannel  int `json:"failedChannel"`
}

type VideoEvent struct {
	ID               uuid.UUID          `json:"id"`
	Type             constant.EventType `json:"type"`
	VideoID          string             `json:"videoId"`
	Count            int                `json:"count"`
	ChannelMessageID int                `json:"channelMessageId,omitempty"`
	OccurredAt       time.Time          `json:"occurredAt"`
}

func NewVideoEvent(eventType constant.EventType, videoID string, count int) VideoEvent {
	return VideoEvent{
		ID:         uuid.New(),
		Type:       eventType,
		VideoID:    videoID,
		Count:      count,
		OccurredAt: time.Now().UTC(),
	}
}
