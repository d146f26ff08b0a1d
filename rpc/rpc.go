package rpc

import (
	"context"
	"errors"
	"net"
	"net/rpc"
	"time"

	"github.com/wfunc/sugoroku/logger"
	"github.com/wfunc/sugoroku/models"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	rpc      *rpc.Server
}

// NewServer listens on addr and registers every receiver in services.
func NewServer(addr string, services ...interface{}) (*Server, error) {
	srv := rpc.NewServer()
	for _, svc := range services {
		if err := srv.Register(svc); err != nil {
			return nil, err
		}
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{listener: listener, rpc: srv}, nil
}

// Addr returns the bound address; useful when listening on port 0.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Start begins listening for RPC requests. It returns when the listener is closed.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.listener.Addr())
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go s.rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// RoomCounter reports registry occupancy.
type RoomCounter interface {
	Count() int
	MaxRooms() int
}

// GameHistory serves archived games.
type GameHistory interface {
	Recent(ctx context.Context, limit int) ([]models.GameRecord, error)
}

// StatusService is the struct that exposes RPC methods. Methods follow the
// net/rpc signature: exported, pointer reply, error result.
type StatusService struct {
	rooms   RoomCounter
	history GameHistory
}

func NewStatusService(rooms RoomCounter, history GameHistory) *StatusService {
	return &StatusService{rooms: rooms, history: history}
}

// StatusArgs carries the caller's name for the log; gob cannot encode an empty struct.
type StatusArgs struct {
	Caller string
}

type StatusReply struct {
	Rooms    int
	MaxRooms int
}

func (s *StatusService) Status(args *StatusArgs, reply *StatusReply) error {
	logger.Log.Debugf("Status requested by %q", args.Caller)
	reply.Rooms = s.rooms.Count()
	reply.MaxRooms = s.rooms.MaxRooms()
	return nil
}

type RecentGamesArgs struct {
	Limit int
}

type RecentGamesReply struct {
	Games []models.GameRecord
}

func (s *StatusService) RecentGames(args *RecentGamesArgs, reply *RecentGamesReply) error {
	if s.history == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	games, err := s.history.Recent(ctx, args.Limit)
	if err != nil {
		return err
	}
	reply.Games = games
	return nil
}
