// persistence/gorm_postgresql.go
package persistence

import (
	"context"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wfunc/sugoroku/logger"
	"github.com/wfunc/sugoroku/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// zapWriter routes gorm's log lines into the service logger.
type zapWriter struct{}

func (zapWriter) Printf(format string, args ...interface{}) {
	logger.Log.Warnf(format, args...)
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	gormLogger := gormlogger.New(
		zapWriter{},
		gormlogger.Config{
			SlowThreshold: time.Second,     // 慢SQL阈值
			LogLevel:      gormlogger.Warn, // 日志级别
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn(host, port, user, password, dbname)), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}
	return newGormPostgreSQL(db)
}

func newGormPostgreSQL(db *gorm.DB) (*GormPostgreSQL, error) {
	// 获取通用数据库对象 sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&GameRecordModel{}); err != nil {
		return nil, err
	}
	return &GormPostgreSQL{db: db}, nil
}

// GameRecordModel 对局归档表
type GameRecordModel struct {
	ID        uint             `gorm:"primaryKey"`
	RoomCode  string           `gorm:"index;not null"`
	Players   int              `gorm:"not null"`
	Rankings  []models.Ranking `gorm:"type:jsonb;serializer:json"`
	StartedAt time.Time
	EndedAt   time.Time `gorm:"index"`
	CreatedAt time.Time
}

func (GameRecordModel) TableName() string {
	return "game_records"
}

func toModel(record models.GameRecord) GameRecordModel {
	return GameRecordModel{
		RoomCode:  record.RoomCode,
		Players:   record.Players,
		Rankings:  record.Rankings,
		StartedAt: record.StartedAt,
		EndedAt:   record.EndedAt,
	}
}

func (m GameRecordModel) record() models.GameRecord {
	return models.GameRecord{
		RoomCode:  m.RoomCode,
		Players:   m.Players,
		Rankings:  m.Rankings,
		StartedAt: m.StartedAt,
		EndedAt:   m.EndedAt,
	}
}

// SaveGameRecord 保存游戏记录
func (p *GormPostgreSQL) SaveGameRecord(ctx context.Context, record models.GameRecord) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := toModel(record)
	return p.db.WithContext(ctx).Create(&row).Error
}

// RecentGameRecords 查询最近的对局
func (p *GormPostgreSQL) RecentGameRecords(ctx context.Context, limit int) ([]models.GameRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var rows []GameRecordModel
	if err := p.db.WithContext(ctx).Order("ended_at desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]models.GameRecord, len(rows))
	for i, row := range rows {
		out[i] = row.record()
	}
	return out, nil
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
