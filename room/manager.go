package room

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/wfunc/sugoroku/logger"
	"github.com/wfunc/sugoroku/network"
	"github.com/wfunc/sugoroku/session"
)

const defaultName = "Player"

// Manager 管理所有房间 (the room registry). Lock order is room before
// manager: code holding Manager.mutex never waits for a room lock.
type Manager struct {
	settings Settings
	rooms    map[string]*Room
	mutex    sync.RWMutex

	broadcaster Broadcaster
	scheduler   Scheduler
	rng         Rand
	archiver    Archiver
	metrics     Metrics
}

type Option func(*Manager)

func WithRand(rng Rand) Option { return func(m *Manager) { m.rng = rng } }

func WithArchiver(a Archiver) Option { return func(m *Manager) { m.archiver = a } }

func WithMetrics(metrics Metrics) Option { return func(m *Manager) { m.metrics = metrics } }

// NewRoomManager 创建一个新的房间管理器
func NewRoomManager(settings Settings, broadcaster Broadcaster, scheduler Scheduler, opts ...Option) *Manager {
	m := &Manager{
		settings:    settings,
		rooms:       make(map[string]*Room),
		broadcaster: broadcaster,
		scheduler:   scheduler,
		rng:         globalRand{},
		archiver:    nopArchiver{},
		metrics:     nopMetrics{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Settings returns the rules the registry was built with.
func (m *Manager) Settings() Settings {
	return m.settings
}

// CreateRoom seats sess as host of a new room and replies room_created.
func (m *Manager) CreateRoom(sess *session.Session, name string) (*Room, error) {
	if sess.RoomCode() != "" {
		return nil, ErrAlreadyInRoom
	}
	name = m.cleanName(name)

	m.mutex.Lock()
	if len(m.rooms) >= m.settings.MaxRooms {
		m.mutex.Unlock()
		return nil, ErrServerFull
	}
	r := newRoom(m.generateCode(), m)
	// r is not reachable yet, so taking its lock here cannot wait on anyone
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seat(sess, name)
	r.host = sess
	m.rooms[r.Code] = r
	count := len(m.rooms)
	m.mutex.Unlock()

	sess.SetName(name)
	sess.SetRoomCode(r.Code)
	m.metrics.SetActiveRooms(count)

	r.sendTo(sess, network.MsgRoomCreated, network.RoomCreated{
		Type:    network.MsgRoomCreated,
		Code:    r.Code,
		Players: r.snapshot(),
	})
	logger.Log.Infof("Room %s created by %s (session %s). Active rooms: %d", r.Code, name, sess.GetID(), count)
	return r, nil
}

// JoinRoom seats sess in the waiting room code and returns its seat index.
func (m *Manager) JoinRoom(sess *session.Session, code, name string) (*Room, int, error) {
	if sess.RoomCode() != "" {
		return nil, -1, ErrAlreadyInRoom
	}
	code = NormalizeCode(code)
	name = m.cleanName(name)

	r, ok := m.GetRoom(code)
	if !ok {
		return nil, -1, ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.closed:
		return nil, -1, ErrRoomNotFound
	case r.status != StatusWaiting:
		return nil, -1, ErrAlreadyStarted
	case len(r.players) >= m.settings.MaxPlayers:
		return nil, -1, ErrRoomFull
	}

	p := r.seat(sess, name)
	sess.SetName(name)
	sess.SetRoomCode(r.Code)

	players := r.snapshot()
	r.sendTo(sess, network.MsgRoomJoined, network.RoomJoined{
		Type:        network.MsgRoomJoined,
		Code:        r.Code,
		PlayerIndex: p.Index,
		Players:     players,
	})
	r.broadcastExcept(sess, network.MsgPlayerJoined, network.Roster{
		Type:    network.MsgPlayerJoined,
		Players: players,
	})

	logger.Log.Infof("%s joined room %s. Players: %d", name, r.Code, len(r.players))
	return r, p.Index, nil
}

// GetRoom 从管理器中获取一个房间
func (m *Manager) GetRoom(code string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	room, exists := m.rooms[code]
	return room, exists
}

// RoomOf returns the room sess is seated in.
func (m *Manager) RoomOf(sess *session.Session) (*Room, bool) {
	code := sess.RoomCode()
	if code == "" {
		return nil, false
	}
	return m.GetRoom(code)
}

// Count returns the number of live rooms.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// MaxRooms returns the registry capacity.
func (m *Manager) MaxRooms() int {
	return m.settings.MaxRooms
}

// DestroyRoom removes the room and detaches its members. It is a no-op for
// unknown codes.
func (m *Manager) DestroyRoom(code string) {
	r, ok := m.GetRoom(code)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m.destroyLocked(r)
}

// destroyLocked requires r.mu to be held.
func (m *Manager) destroyLocked(r *Room) {
	if r.closed {
		return
	}
	r.closed = true

	m.mutex.Lock()
	if m.rooms[r.Code] == r {
		delete(m.rooms, r.Code)
	}
	count := len(m.rooms)
	m.mutex.Unlock()

	for _, p := range r.players {
		if p.sess != nil {
			p.sess.ClearRoom(r.Code)
		}
	}
	m.metrics.SetActiveRooms(count)
	logger.Log.Infof("Room %s destroyed. Active rooms: %d", r.Code, count)
}

// generateCode requires m.mutex to be held.
func (m *Manager) generateCode() string {
	buf := make([]byte, m.settings.RoomCodeLength)
	for {
		for i := range buf {
			buf[i] = codeAlphabet[m.rng.Intn(len(codeAlphabet))]
		}
		code := string(buf)
		if _, taken := m.rooms[code]; !taken {
			return code
		}
	}
}

func (m *Manager) cleanName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultName
	}
	if utf8.RuneCountInString(name) > m.settings.NameMaxLength {
		name = string([]rune(name)[:m.settings.NameMaxLength])
	}
	return name
}

// NormalizeCode upper-cases and trims a code typed by a player.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
