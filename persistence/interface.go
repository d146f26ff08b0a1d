// persistence/interface.go
package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wfunc/sugoroku/config"
	"github.com/wfunc/sugoroku/models"
)

// Recorder 完成对局的归档存储
type Recorder interface {
	SaveGameRecord(ctx context.Context, record models.GameRecord) error
	// RecentGameRecords returns up to limit records, most recently ended first.
	RecentGameRecords(ctx context.Context, limit int) ([]models.GameRecord, error)
	Close() error
}

// 错误定义
var (
	ErrUnknownDriver = errors.New("unknown database driver")
	ErrClosed        = errors.New("recorder closed")
)

const queryTimeout = 5 * time.Second

// Open builds the Recorder selected by cfg.Driver.
func Open(cfg config.DatabaseConfig) (Recorder, error) {
	pg := cfg.Postgres
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore(cfg.RecentLimit), nil
	case "gorm":
		return NewGormPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	case "postgres":
		return NewPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}

func dsn(host string, port int, user, password, dbname string) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}
