// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"

	"github.com/wfunc/sugoroku/models"
)

// PostgreSQL 基于 database/sql 的归档实现
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	db, err := sql.Open("postgres", dsn(host, port, user, password, dbname))
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 初始化数据库表结构. The layout matches what GormPostgreSQL migrates to.
func initTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS game_records (
            id BIGSERIAL PRIMARY KEY,
            room_code TEXT NOT NULL,
            players BIGINT NOT NULL,
            rankings JSONB,
            started_at TIMESTAMPTZ,
            ended_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
        CREATE INDEX IF NOT EXISTS idx_game_records_room_code ON game_records(room_code);
        CREATE INDEX IF NOT EXISTS idx_game_records_ended_at ON game_records(ended_at);
    `)
	return err
}

// SaveGameRecord 保存游戏记录
func (p *PostgreSQL) SaveGameRecord(ctx context.Context, record models.GameRecord) error {
	rankings, err := json.Marshal(record.Rankings)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
        INSERT INTO game_records (room_code, players, rankings, started_at, ended_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err = p.db.ExecContext(ctx, query,
		record.RoomCode, record.Players, rankings, record.StartedAt, record.EndedAt)
	return err
}

// RecentGameRecords 查询最近的对局
func (p *PostgreSQL) RecentGameRecords(ctx context.Context, limit int) ([]models.GameRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
        SELECT room_code, players, rankings, started_at, ended_at
        FROM game_records
        ORDER BY ended_at DESC
        LIMIT $1
    `
	rows, err := p.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.GameRecord
	for rows.Next() {
		var (
			rec      models.GameRecord
			rankings []byte
		)
		if err := rows.Scan(&rec.RoomCode, &rec.Players, &rankings, &rec.StartedAt, &rec.EndedAt); err != nil {
			return nil, err
		}
		if len(rankings) > 0 {
			if err := json.Unmarshal(rankings, &rec.Rankings); err != nil {
				return nil, err
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
