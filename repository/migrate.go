package repository

import (
	"context"
	"fmt"
	"github.com/rs/zerolog"
	"video-archive-bot/entities"
)

const createVideosSQLite = `
	CREATE TABLE IF NOT EXISTS videos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id TEXT NOT NULL,
		file_id TEXT NOT NULL,
		caption TEXT DEFAULT '',
		channel_message_id INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

const createVideosPostgres = `
	CREATE TABLE IF NOT EXISTS videos (
		id BIGSERIAL PRIMARY KEY,
		video_id TEXT NOT NULL,
		file_id TEXT NOT NULL,
		caption TEXT DEFAULT '',
		channel_message_id INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`

// Columns added after the first release. Databases created before them are
// upgraded in place; existing rows get the default.
var addedColumns = []struct {
	name string
	ddl  string
}{
	{name: "caption", ddl: "ALTER TABLE videos ADD COLUMN caption TEXT DEFAULT ''"},
	{name: "channel_message_id", ddl: "ALTER TABLE videos ADD COLUMN channel_message_id INTEGER NOT NULL DEFAULT 0"},
}

func (r *repo) Migrate(ctx context.Context) error {
	db := r.GetDB().WithContext(ctx)
	migrator := db.Migrator()

	if !migrator.HasTable(&entities.Video{}) {
		ddl := createVideosSQLite
		if db.Dialector.Name() == "postgres" {
			ddl = createVideosPostgres
		}
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("create videos table: %w", err)
		}
		zerolog.Ctx(ctx).Info().Msg("created videos table")
	}

	for _, column := range addedColumns {
		if migrator.HasColumn(&entities.Video{}, column.name) {
			continue
		}
		if err := db.Exec(column.ddl).Error; err != nil {
			return fmt.Errorf("add column %s: %w", column.name, err)
		}
		zerolog.Ctx(ctx).Info().Str("column", column.name).Msg("added missing column")
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_video_id ON videos(video_id)").Error; err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	return nil
}
