package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wfunc/sugoroku/board"
	"github.com/wfunc/sugoroku/broadcast"
	"github.com/wfunc/sugoroku/config"
	"github.com/wfunc/sugoroku/logger"
	"github.com/wfunc/sugoroku/monitor"
	"github.com/wfunc/sugoroku/persistence"
	"github.com/wfunc/sugoroku/room"
	"github.com/wfunc/sugoroku/server"
	"github.com/wfunc/sugoroku/services"
	"github.com/wfunc/sugoroku/timer"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		logger.Log.Warnf("Ignoring log level %q: %v", cfg.Log.Level, err)
	}

	b := board.Default()
	if cfg.Game.BoardFile != "" {
		if b, err = board.Load(cfg.Game.BoardFile); err != nil {
			logger.Log.Fatalf("Failed to load board: %v", err)
		}
	}
	logger.Log.Infof("Board ready: %d squares", b.Len())

	// Initialize game archive
	store, err := persistence.Open(cfg.Database)
	if err != nil {
		logger.Log.Fatalf("Failed to open game archive: %v", err)
	}
	defer store.Close()

	records := services.NewRecordService(store, cfg.Database.RecentLimit)
	records.Start(context.Background())

	mon := monitor.NewMonitor("sugoroku")
	timers := timer.NewTimerManager()
	broadcaster := broadcast.NewRoomBroadcaster(mon)
	rooms := room.NewRoomManager(room.NewSettings(cfg.Game, b), broadcaster, timers,
		room.WithArchiver(records), room.WithMetrics(mon))

	gameServer, err := server.NewGameServer(cfg.Server, rooms, broadcaster, mon, records)
	if err != nil {
		logger.Log.Fatalf("Failed to create server: %v", err)
	}
	gameServer.ReportStats(timers, cfg.Server.StatsInterval)

	go func() {
		if err := gameServer.Start(); err != nil {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Shutdown returns after every read loop has run its disconnect handling,
	// so the archive queue holds all games ended by it before the drain.
	if err := gameServer.Shutdown(ctx); err != nil {
		logger.Log.Errorf("Server shutdown: %v", err)
	}
	timers.Stop()
	records.Stop()
}
