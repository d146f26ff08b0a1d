package room

import (
	"math/rand"
	"time"

	"github.com/wfunc/sugoroku/models"
	"github.com/wfunc/sugoroku/session"
)

// Broadcaster defines the interface for delivering messages to room members.
// broadcast.RoomBroadcaster is the production implementation.
type Broadcaster interface {
	Broadcast(recipients []*session.Session, msgType string, msg interface{}) error
	SendTo(s *session.Session, msgType string, msg interface{}) error
}

// Scheduler runs a callback once after delay (interval 0).
type Scheduler interface {
	AddTimer(delay time.Duration, interval time.Duration, callback func()) int64
}

// Rand must be safe for concurrent use: rooms draw from it in parallel.
type Rand interface {
	Intn(n int) int
}

// Archiver receives the record of every finished game. Archive must not block.
type Archiver interface {
	Archive(record models.GameRecord)
}

// Metrics is the subset of monitor.Monitor the registry reports to.
type Metrics interface {
	SetActiveRooms(count int)
	IncGamesStarted()
	IncGamesFinished()
}

type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.Intn(n) }

type nopArchiver struct{}

func (nopArchiver) Archive(models.GameRecord) {}

type nopMetrics struct{}

func (nopMetrics) SetActiveRooms(int) {}
func (nopMetrics) IncGamesStarted()   {}
func (nopMetrics) IncGamesFinished()  {}
