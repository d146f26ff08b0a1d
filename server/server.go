package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/wfunc/sugoroku/broadcast"
	"github.com/wfunc/sugoroku/config"
	"github.com/wfunc/sugoroku/logger"
	"github.com/wfunc/sugoroku/monitor"
	"github.com/wfunc/sugoroku/network"
	"github.com/wfunc/sugoroku/room"
	gamerpc "github.com/wfunc/sugoroku/rpc"
	"github.com/wfunc/sugoroku/session"
)

type GameServer struct {
	cfg            config.ServerConfig
	upgrader       websocket.Upgrader
	router         *mux.Router
	httpServer     *http.Server
	roomManager    *room.Manager
	sessionManager *session.Manager
	broadcaster    *broadcast.RoomBroadcaster
	monitor        *monitor.Monitor
	rpcServer      *gamerpc.Server
	healthServer   *gamerpc.HealthServer

	conns      sync.WaitGroup
	stats      Scheduler
	statsTimer int64
}

// Scheduler runs the periodic status report.
type Scheduler interface {
	AddTimer(delay time.Duration, interval time.Duration, callback func()) int64
	RemoveTimer(timerId int64)
}

// NewGameServer wires the HTTP routes and, when their addresses are set, the
// net/rpc status server and the gRPC health server.
func NewGameServer(cfg config.ServerConfig, rooms *room.Manager, broadcaster *broadcast.RoomBroadcaster,
	mon *monitor.Monitor, history gamerpc.GameHistory) (*GameServer, error) {
	s := &GameServer{
		cfg:            cfg,
		roomManager:    rooms,
		sessionManager: session.NewManager(),
		broadcaster:    broadcaster,
		monitor:        mon,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	s.router = mux.NewRouter()
	s.router.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	s.router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet, http.MethodOptions)
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	s.router.Handle("/metrics", mon.Handler()).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.RPCAddress != "" {
		rpcServer, err := gamerpc.NewServer(cfg.RPCAddress, gamerpc.NewStatusService(rooms, history))
		if err != nil {
			return nil, err
		}
		s.rpcServer = rpcServer
	}
	if cfg.HealthAddress != "" {
		healthServer, err := gamerpc.NewHealthServer(cfg.HealthAddress)
		if err != nil {
			if s.rpcServer != nil {
				s.rpcServer.Stop()
			}
			return nil, err
		}
		s.healthServer = healthServer
	}
	return s, nil
}

// Handler returns the HTTP router.
func (s *GameServer) Handler() http.Handler {
	return s.router
}

// Start serves HTTP until Shutdown is called.
func (s *GameServer) Start() error {
	if s.rpcServer != nil {
		go s.rpcServer.Start()
	}
	if s.healthServer != nil {
		go s.healthServer.Start()
	}

	logger.Log.Infof("Game server listening on %s", s.cfg.HTTPAddress)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ReportStats logs the online and room counts every interval until Shutdown.
// Call it before Start.
func (s *GameServer) ReportStats(sched Scheduler, interval time.Duration) {
	if interval <= 0 {
		return
	}
	s.stats = sched
	s.statsTimer = sched.AddTimer(interval, interval, s.logStats)
}

func (s *GameServer) logStats() {
	rooms := s.roomManager.Count()
	s.monitor.SetActiveRooms(rooms)
	logger.Log.Infof("Status: %d sessions online, %d/%d rooms",
		s.sessionManager.Count(), rooms, s.roomManager.MaxRooms())
}

// Shutdown stops accepting connections and drops every live session. It
// returns once every read loop has finished its disconnect handling, so games
// ended by the shutdown have been archived, or when ctx expires.
func (s *GameServer) Shutdown(ctx context.Context) error {
	if s.healthServer != nil {
		s.healthServer.SetServing(false)
	}
	if s.stats != nil {
		s.stats.RemoveTimer(s.statsTimer)
	}
	err := s.httpServer.Shutdown(ctx)
	s.sessionManager.CloseAll()

	drained := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-ctx.Done():
		logger.Log.Warnf("Shutdown gave up waiting for connections: %v", ctx.Err())
		err = errors.Join(err, ctx.Err())
	}

	if s.rpcServer != nil {
		s.rpcServer.Stop()
	}
	if s.healthServer != nil {
		s.healthServer.Stop()
	}
	return err
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// counted before the upgrade so Shutdown cannot miss a connection that is
	// hijacked while it drains
	s.conns.Add(1)
	defer s.conns.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(network.NewWSConnection(conn, s.cfg.HealthCheckInterval))
}

// handleConnection runs the read loop of one client until its connection fails.
func (s *GameServer) handleConnection(conn network.Connection) {
	s.conns.Add(1)
	defer s.conns.Done()

	sess := session.NewSession(uuid.New().String(), conn)
	s.sessionManager.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", conn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", conn.RemoteAddr(), sess.GetID())
		s.roomManager.Disconnect(sess)
		s.sessionManager.Remove(sess.GetID())
		s.monitor.DecOnlinePlayers()
		conn.Close()
	}()

	for {
		raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.dispatch(sess, raw)
	}
}

type statusResponse struct {
	Rooms    int `json:"rooms"`
	MaxRooms int `json:"max_rooms"`
}

func (s *GameServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(statusResponse{
		Rooms:    s.roomManager.Count(),
		MaxRooms: s.roomManager.MaxRooms(),
	}); err != nil {
		logger.Log.Warnf("Failed to write status: %v", err)
	}
}

func (s *GameServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
