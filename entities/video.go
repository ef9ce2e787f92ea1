package entities

import "time"

// Video is a reference to an uploaded video kept in the archival channel.
// Rows are never updated after insert.
type Video struct {
	ID               uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	VideoID          string    `json:"video_id" gorm:"column:video_id;type:text;not null;index:idx_video_id"`
	FileID           string    `json:"file_id" gorm:"column:file_id;type:text;not null"`
	Caption          string    `json:"caption" gorm:"column:caption;type:text"`
	ChannelMessageID int       `json:"channel_message_id" gorm:"column:channel_message_id;type:integer;not null"`
	CreatedAt        time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Video) TableName() string {
	return "videos"
}

// Linked reports whether the record points at a message in the archival
// channel. Legacy rows have no linkage.
func (v *Video) Linked() bool {
	return v.ChannelMessageID != 0
}
