package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	HTTPAddress         string        `mapstructure:"http_address"`
	RPCAddress          string        `mapstructure:"rpc_address"`
	HealthAddress       string        `mapstructure:"health_address"`
	HealthCheckInterval time.Duration `mapstructure:"health_check_interval"`
	StatsInterval       time.Duration `mapstructure:"stats_interval"`
}

// GameConfig holds the fixed rules of every room. Values are read once at startup.
type GameConfig struct {
	MaxRooms       int           `mapstructure:"max_rooms"`
	MinPlayers     int           `mapstructure:"min_players"`
	MaxPlayers     int           `mapstructure:"max_players"`
	StartingMoney  int           `mapstructure:"starting_money"`
	GoalBonuses    []int         `mapstructure:"goal_bonuses"`
	RoomCodeLength int           `mapstructure:"room_code_length"`
	NameMaxLength  int           `mapstructure:"name_max_length"`
	DiceDelay      time.Duration `mapstructure:"dice_delay"`
	StepDelay      time.Duration `mapstructure:"step_delay"`
	MinMoveDelay   time.Duration `mapstructure:"min_move_delay"`
	TurnStartDelay time.Duration `mapstructure:"turn_start_delay"`
	DestroyDelay   time.Duration `mapstructure:"destroy_delay"`
	BoardFile      string        `mapstructure:"board_file"`
}

type DatabaseConfig struct {
	// Driver selects the game archive backend: "" (in-memory), "gorm" or "postgres".
	Driver      string         `mapstructure:"driver"`
	RecentLimit int            `mapstructure:"recent_limit"`
	Postgres    PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

var defaults = map[string]interface{}{
	"server.http_address":          ":8080",
	"server.rpc_address":           "",
	"server.health_address":        "",
	"server.health_check_interval": 30 * time.Second,
	"server.stats_interval":        time.Minute,

	"game.max_rooms":        20,
	"game.min_players":      2,
	"game.max_players":      4,
	"game.starting_money":   0,
	"game.goal_bonuses":     []int{500, 300, 100, 0},
	"game.room_code_length": 5,
	"game.name_max_length":  8,
	"game.dice_delay":       1500 * time.Millisecond,
	"game.step_delay":       400 * time.Millisecond,
	"game.min_move_delay":   500 * time.Millisecond,
	"game.turn_start_delay": 500 * time.Millisecond,
	"game.destroy_delay":    5 * time.Second,
	"game.board_file":       "",

	"database.driver":            "",
	"database.recent_limit":      50,
	"database.postgres.host":     "localhost",
	"database.postgres.port":     5432,
	"database.postgres.user":     "postgres",
	"database.postgres.password": "",
	"database.postgres.dbname":   "sugoroku",

	"log.level": "info",
}

// ErrInvalid is returned when the loaded values cannot describe a playable room.
var ErrInvalid = errors.New("invalid configuration")

// LoadConfig reads config.yaml from path (if present), environment variables
// prefixed with SUGOROKU_, and falls back to built-in defaults for every key.
func LoadConfig(path string) (config *Config, err error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("sugoroku")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the game rules for internal consistency.
func (c *Config) Validate() error {
	g := c.Game
	switch {
	case g.MaxRooms <= 0:
		return errors.Join(ErrInvalid, errors.New("game.max_rooms must be positive"))
	case g.MinPlayers < 1 || g.MaxPlayers < g.MinPlayers:
		return errors.Join(ErrInvalid, errors.New("game.min_players/max_players out of range"))
	case g.RoomCodeLength <= 0:
		return errors.Join(ErrInvalid, errors.New("game.room_code_length must be positive"))
	case g.NameMaxLength <= 0:
		return errors.Join(ErrInvalid, errors.New("game.name_max_length must be positive"))
	case c.Database.RecentLimit <= 0:
		return errors.Join(ErrInvalid, errors.New("database.recent_limit must be positive"))
	}
	return nil
}
