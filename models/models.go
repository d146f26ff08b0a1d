// models/models.go
package models

import (
	"time"
)

// Ranking 最终排名中的一行
type Ranking struct {
	Rank        int    `json:"rank"`
	PlayerIndex int    `json:"player_index"`
	Name        string `json:"name"`
	Money       int    `json:"money"`
	Finished    bool   `json:"finished"`
	FinishOrder int    `json:"finish_order"`
}

// GameRecord 一局结束后的归档记录
type GameRecord struct {
	RoomCode  string    `json:"room_code"`
	Players   int       `json:"players"`
	Rankings  []Ranking `json:"rankings"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// Duration returns how long the game was played.
func (r GameRecord) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.EndedAt.Before(r.StartedAt) {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// Winner returns the first-ranked entry, if any.
func (r GameRecord) Winner() (Ranking, bool) {
	if len(r.Rankings) == 0 {
		return Ranking{}, false
	}
	return r.Rankings[0], true
}
