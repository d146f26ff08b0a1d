package network

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wfunc/sugoroku/board"
	"github.com/wfunc/sugoroku/models"
)

// Inbound message types (client -> server).
const (
	MsgCreateRoom   = "create_room"
	MsgJoinRoom     = "join_room"
	MsgStartGame    = "start_game"
	MsgRollDice     = "roll_dice"
	MsgBranchChoice = "branch_choice"
	MsgEventAck     = "event_ack"
)

// Outbound message types (server -> client).
const (
	MsgRoomCreated         = "room_created"
	MsgRoomJoined          = "room_joined"
	MsgPlayerJoined        = "player_joined"
	MsgRoomError           = "room_error"
	MsgGameStarted         = "game_started"
	MsgTurnStart           = "turn_start"
	MsgDiceResult          = "dice_result"
	MsgPlayerMoving        = "player_moving"
	MsgBranchChoiceRequest = "branch_choice_request"
	MsgEventTriggered      = "event_triggered"
	MsgPlayerFinished      = "player_finished"
	MsgGameOver            = "game_over"
	MsgPlayerLeft          = "player_left"
	MsgHostChanged         = "host_changed"
	MsgPlayerDisconnected  = "player_disconnected"
)

// ErrMalformed marks an inbound payload that could not be decoded.
var ErrMalformed = errors.New("malformed message")

// Inbound is the union of every client message; Type selects which fields matter.
type Inbound struct {
	Type   string `json:"type"`
	Name   string `json:"name,omitempty"`
	Code   string `json:"code,omitempty"`
	Choice *int   `json:"choice,omitempty"`
}

// DecodeInbound parses a client frame.
func DecodeInbound(data []byte) (*Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if in.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)
	}
	if in.Type == MsgBranchChoice && in.Choice == nil {
		return nil, fmt.Errorf("%w: branch_choice without choice", ErrMalformed)
	}
	return &in, nil
}

// PlayerInfo is one entry of a roster snapshot.
type PlayerInfo struct {
	Index        int    `json:"index"`
	Name         string `json:"name"`
	Position     int    `json:"position"`
	Money        int    `json:"money"`
	Finished     bool   `json:"finished"`
	FinishOrder  int    `json:"finish_order"`
	Disconnected bool   `json:"disconnected"`
	IsHost       bool   `json:"is_host"`
}

type RoomCreated struct {
	Type    string       `json:"type"`
	Code    string       `json:"code"`
	Players []PlayerInfo `json:"players"`
}

type RoomJoined struct {
	Type        string       `json:"type"`
	Code        string       `json:"code"`
	PlayerIndex int          `json:"player_index"`
	Players     []PlayerInfo `json:"players"`
}

// Roster carries player_joined and player_left.
type Roster struct {
	Type    string       `json:"type"`
	Players []PlayerInfo `json:"players"`
}

type RoomError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type GameStarted struct {
	Type        string         `json:"type"`
	Board       []board.Square `json:"board"`
	Players     []PlayerInfo   `json:"players"`
	FirstPlayer int            `json:"first_player"`
}

type TurnStart struct {
	Type          string       `json:"type"`
	CurrentPlayer int          `json:"current_player"`
	Players       []PlayerInfo `json:"players"`
}

type DiceResult struct {
	Type        string `json:"type"`
	PlayerIndex int    `json:"player_index"`
	Value       int    `json:"value"`
}

type PlayerMoving struct {
	Type        string `json:"type"`
	PlayerIndex int    `json:"player_index"`
	Path        []int  `json:"path"`
}

type BranchOption struct {
	Next  int    `json:"next"`
	Label string `json:"label"`
}

type BranchChoiceRequest struct {
	Type        string         `json:"type"`
	SquareIndex int            `json:"square_index"`
	Options     []BranchOption `json:"options"`
}

// TriggeredEvent echoes the square's event with the amount actually applied.
type TriggeredEvent struct {
	board.Event
	ActualAmount int    `json:"actual_amount"`
	Description  string `json:"description"`
}

type EventTriggered struct {
	Type        string         `json:"type"`
	PlayerIndex int            `json:"player_index"`
	SquareIndex int            `json:"square_index"`
	Event       TriggeredEvent `json:"event"`
	MoneyBefore int            `json:"money_before"`
	MoneyAfter  int            `json:"money_after"`
	Players     []PlayerInfo   `json:"players"`
}

type PlayerFinished struct {
	Type        string `json:"type"`
	PlayerIndex int    `json:"player_index"`
	FinishOrder int    `json:"finish_order"`
	Bonus       int    `json:"bonus"`
	MoneyBefore int    `json:"money_before"`
	MoneyAfter  int    `json:"money_after"`
}

type GameOver struct {
	Type     string           `json:"type"`
	Rankings []models.Ranking `json:"rankings"`
}

type HostChanged struct {
	Type         string `json:"type"`
	NewHostIndex int    `json:"new_host_index"`
}

type PlayerDisconnected struct {
	Type        string `json:"type"`
	PlayerIndex int    `json:"player_index"`
}
