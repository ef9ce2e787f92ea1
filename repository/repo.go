package repository

import (
	"context"
	"database/sql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"video-archive-bot/constant"
	"video-archive-bot/entities"
)

type VideoRepository interface {
	GetDB() *gorm.DB
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Insert(ctx context.Context, video *entities.Video) error
	FindByVideoID(ctx context.Context, videoID string) ([]*entities.Video, error)
	DeleteByVideoID(ctx context.Context, videoID string) (int64, error)
}

type repo struct {
	db *gorm.DB
}

func (r *repo) Insert(ctx context.Context, video *entities.Video) error {
	return r.GetDB().WithContext(ctx).Create(video).Error
}

func (r *repo) FindByVideoID(ctx context.Context, videoID string) ([]*entities.Video, error) {
	videos := make([]*entities.Video, 0)
	err := r.GetDB().WithContext(ctx).Where("video_id = ?", videoID).Order("id ASC").Find(&videos).Error
	if err != nil {
		return nil, err
	}

	return videos, nil
}

func (r *repo) DeleteByVideoID(ctx context.Context, videoID string) (int64, error) {
	result := r.GetDB().WithContext(ctx).Where("video_id = ?", videoID).Delete(&entities.Video{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func (r *repo) Ping(ctx context.Context) error {
	db, err := r.GetDB().DB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

func NewRepo(db *sql.DB, driver constant.DatabaseDriver, logLevel logger.LogLevel) (VideoRepository, error) {
	gormDB, err := gorm.Open(dialector(db, driver),
		&gorm.Config{
			Logger: logger.Default.LogMode(logLevel),
		},
	)
	if err != nil {
		return nil, err
	}
	return &repo{
		db: gormDB,
	}, nil
}

func dialector(db *sql.DB, driver constant.DatabaseDriver) gorm.Dialector {
	if driver == constant.DatabaseDriverPostgres {
		return postgres.New(postgres.Config{Conn: db})
	}
	return sqlite.New(sqlite.Config{DriverName: driver.String(), Conn: db})
}

func (r *repo) GetDB() *gorm.DB {
	return r.db
}
