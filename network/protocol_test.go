package network

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/wfunc/sugoroku/board"
)

func TestDecodeInbound(t *testing.T) {
	in, err := DecodeInbound([]byte(`{"type":"join_room","code":"abcde","name":"Ann"}`))
	if err != nil {
		t.Fatalf("DecodeInbound failed: %v", err)
	}
	if in.Type != MsgJoinRoom || in.Code != "abcde" || in.Name != "Ann" {
		t.Errorf("Unexpected decode: %+v", in)
	}

	in, err = DecodeInbound([]byte(`{"type":"branch_choice","choice":1}`))
	if err != nil || in.Choice == nil || *in.Choice != 1 {
		t.Fatalf("Expected choice 1, got %+v (%v)", in, err)
	}
}

func TestDecodeInbound_Malformed(t *testing.T) {
	bad := []string{
		`not json`,
		`{"name":"no type"}`,
		`{"type":"branch_choice"}`,
		`{"type":"branch_choice","choice":"x"}`,
	}
	for _, raw := range bad {
		if _, err := DecodeInbound([]byte(raw)); !errors.Is(err, ErrMalformed) {
			t.Errorf("Expected ErrMalformed for %s, got %v", raw, err)
		}
	}
}

func TestEventTriggered_FlattensEvent(t *testing.T) {
	msg := EventTriggered{
		Type: MsgEventTriggered,
		Event: TriggeredEvent{
			Event:        board.Event{Kind: board.LoseMoney, Amount: 100, Text: "tax"},
			ActualAmount: -100,
		},
	}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Event map[string]interface{} `json:"event"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Event["kind"] != "lose_money" || decoded.Event["actual_amount"] != float64(-100) {
		t.Errorf("Unexpected event payload: %v", decoded.Event)
	}
}
