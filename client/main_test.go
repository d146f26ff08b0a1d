package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/sugoroku/network"
)

func TestParseCommand(t *testing.T) {
	msg, quit, err := parseCommand("join abcde", "Ann")
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Equal(t, network.Inbound{Type: network.MsgJoinRoom, Code: "abcde", Name: "Ann"}, msg)

	msg, _, err = parseCommand("branch 1", "Ann")
	require.NoError(t, err)
	require.NotNil(t, msg.Choice)
	assert.Equal(t, 1, *msg.Choice)

	_, quit, err = parseCommand("quit", "Ann")
	require.NoError(t, err)
	assert.True(t, quit)

	for _, bad := range []string{"", "join", "branch x", "fly"} {
		_, _, err := parseCommand(bad, "Ann")
		assert.Error(t, err, bad)
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "player 2 rolled 5", describe([]byte(`{"type":"dice_result","player_index":1,"value":5}`)))
	assert.Equal(t, "choose a route: 0=Mountain route, 1=Coast route",
		describe([]byte(`{"type":"branch_choice_request","square_index":10,"options":[{"next":11,"label":"Mountain route"},{"next":18,"label":"Coast route"}]}`)))
	assert.Equal(t, "garbage", describe([]byte("garbage")))
}
