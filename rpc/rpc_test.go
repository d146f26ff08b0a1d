package rpc

import (
	"context"
	"net/rpc"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/wfunc/sugoroku/models"
)

type MockRooms struct{ count, max int }

func (m MockRooms) Count() int    { return m.count }
func (m MockRooms) MaxRooms() int { return m.max }

type MockHistory struct {
	games []models.GameRecord
	limit int
}

func (m *MockHistory) Recent(ctx context.Context, limit int) ([]models.GameRecord, error) {
	m.limit = limit
	return m.games, nil
}

func TestStatusService_OverRPC(t *testing.T) {
	history := &MockHistory{games: []models.GameRecord{{RoomCode: "ABCDE", Players: 3}}}
	srv, err := NewServer("127.0.0.1:0", NewStatusService(MockRooms{count: 2, max: 20}, history))
	require.NoError(t, err)
	go srv.Start()
	defer srv.Stop()

	client, err := rpc.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer client.Close()

	var status StatusReply
	require.NoError(t, client.Call("StatusService.Status", &StatusArgs{Caller: "test"}, &status))
	assert.Equal(t, StatusReply{Rooms: 2, MaxRooms: 20}, status)

	var recent RecentGamesReply
	require.NoError(t, client.Call("StatusService.RecentGames", &RecentGamesArgs{Limit: 5}, &recent))
	require.Len(t, recent.Games, 1)
	assert.Equal(t, "ABCDE", recent.Games[0].RoomCode)
	assert.Equal(t, 5, history.limit)
}

func TestStatusService_NoHistory(t *testing.T) {
	svc := NewStatusService(MockRooms{}, nil)
	var reply RecentGamesReply
	require.NoError(t, svc.RecentGames(&RecentGamesArgs{}, &reply))
	assert.Empty(t, reply.Games)
}

func TestHealthServer(t *testing.T) {
	h, err := NewHealthServer("127.0.0.1:0")
	require.NoError(t, err)
	go h.Start()
	defer h.Stop()

	conn, err := grpc.NewClient("passthrough:///"+h.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	client := healthpb.NewHealthClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	h.SetServing(false)
	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}
