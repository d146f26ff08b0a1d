package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v3"

	"github.com/wfunc/sugoroku/network"
)

func main() {
	cmd := &cli.Command{
		Name:  "sugoroku-client",
		Usage: "play sugoroku from a terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: "localhost:8080", Usage: "server host:port", Sources: cli.EnvVars("SUGOROKU_ADDR")},
			&cli.StringFlag{Name: "name", Value: "Player", Usage: "display name"},
			&cli.StringFlag{Name: "code", Usage: "join this room on connect instead of waiting for a command"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	u := url.URL{Scheme: "ws", Host: cmd.String("addr"), Path: "/ws"}
	fmt.Printf("Connecting to %s\n", u.String())

	c, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}
	defer c.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				fmt.Println("Read error:", err)
				return
			}
			fmt.Println("<-", describe(message))
		}
	}()

	name := cmd.String("name")
	if code := cmd.String("code"); code != "" {
		if err := send(c, network.Inbound{Type: network.MsgJoinRoom, Code: code, Name: name}); err != nil {
			return err
		}
	}

	fmt.Println("Commands: create | join CODE | start | roll | branch N | ack | quit")

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			c.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			msg, quit, err := parseCommand(line, name)
			if quit {
				return nil
			}
			if err != nil {
				fmt.Println(err)
				continue
			}
			if err := send(c, msg); err != nil {
				return err
			}
		}
	}
}

// parseCommand turns one line typed by the user into a client message.
func parseCommand(line, name string) (network.Inbound, bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return network.Inbound{}, false, fmt.Errorf("empty command")
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return network.Inbound{}, true, nil
	case "create":
		return network.Inbound{Type: network.MsgCreateRoom, Name: name}, false, nil
	case "join":
		if len(fields) < 2 {
			return network.Inbound{}, false, fmt.Errorf("usage: join CODE")
		}
		return network.Inbound{Type: network.MsgJoinRoom, Code: fields[1], Name: name}, false, nil
	case "start":
		return network.Inbound{Type: network.MsgStartGame}, false, nil
	case "roll":
		return network.Inbound{Type: network.MsgRollDice}, false, nil
	case "ack":
		return network.Inbound{Type: network.MsgEventAck}, false, nil
	case "branch":
		if len(fields) < 2 {
			return network.Inbound{}, false, fmt.Errorf("usage: branch N")
		}
		choice, err := strconv.Atoi(fields[1])
		if err != nil {
			return network.Inbound{}, false, fmt.Errorf("branch: %w", err)
		}
		return network.Inbound{Type: network.MsgBranchChoice, Choice: &choice}, false, nil
	}
	return network.Inbound{}, false, fmt.Errorf("unknown command %q", fields[0])
}

func send(c *websocket.Conn, msg network.Inbound) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.WriteMessage(websocket.TextMessage, data)
}

// describe renders a server message as one readable line.
func describe(raw []byte) string {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return string(raw)
	}

	switch head.Type {
	case network.MsgDiceResult:
		var m network.DiceResult
		if json.Unmarshal(raw, &m) == nil {
			return fmt.Sprintf("player %d rolled %d", m.PlayerIndex+1, m.Value)
		}
	case network.MsgTurnStart:
		var m network.TurnStart
		if json.Unmarshal(raw, &m) == nil {
			return fmt.Sprintf("turn of player %d", m.CurrentPlayer+1)
		}
	case network.MsgEventTriggered:
		var m network.EventTriggered
		if json.Unmarshal(raw, &m) == nil {
			return fmt.Sprintf("player %d: %s -> %d (type ack)", m.PlayerIndex+1, m.Event.Description, m.MoneyAfter)
		}
	case network.MsgBranchChoiceRequest:
		var m network.BranchChoiceRequest
		if json.Unmarshal(raw, &m) == nil {
			opts := make([]string, len(m.Options))
			for i, o := range m.Options {
				opts[i] = fmt.Sprintf("%d=%s", i, o.Label)
			}
			return "choose a route: " + strings.Join(opts, ", ")
		}
	}
	return string(raw)
}
