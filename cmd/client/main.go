// Command client is a terminal client for poking at a running relay server.
// It speaks the same event protocol as the browser client: create or join a
// room, then type actions that are relayed to the opponent.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v3"

	"github.com/harborgames/seastrike/game/protocol"
)

var serverURL string

func main() {
	cmd := &cli.Command{
		Name:  "seastrike-client",
		Usage: "terminal client for the Seastrike relay server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "server",
				Usage:       "WebSocket endpoint of the relay server",
				Value:       "ws://localhost:8080/ws",
				Destination: &serverURL,
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "create a room and wait for an opponent",
				ArgsUsage: "<room>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runSession(protocol.EventCreateRoom, cmd.Args().First())
				},
			},
			{
				Name:      "join",
				Usage:     "join an existing room",
				ArgsUsage: "<room>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runSession(protocol.EventJoinRoom, cmd.Args().First())
				},
			},
			{
				Name:  "watch",
				Usage: "connect without joining a room and print events",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runSession("", "")
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// localState mirrors the partial-state deltas the server pushes; the client
// merges every client-update into it, exactly as the browser client does.
type localState struct {
	ClientID          string
	GameState         string
	RoomName          string
	Opponent          string
	OpponentGameState string
	Turn              string
}

func (s *localState) merge(u protocol.ClientUpdate) {
	if u.ClientID != "" {
		s.ClientID = u.ClientID
	}
	if u.GameState != "" {
		s.GameState = u.GameState
	}
	if u.RoomName != "" {
		s.RoomName = u.RoomName
	}
	if u.Opponent != "" {
		s.Opponent = u.Opponent
	}
	if u.OpponentGameState != "" {
		s.OpponentGameState = u.OpponentGameState
	}
	if u.Turn != "" {
		s.Turn = u.Turn
	}
}

func runSession(initialEvent, room string) error {
	if initialEvent != "" && room == "" {
		return fmt.Errorf("room name required")
	}

	conn, _, err := websocket.DefaultDialer.Dial(serverURL, nil)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", serverURL, err)
	}
	defer conn.Close()

	state := &localState{}
	done := make(chan struct{})

	go func() {
		defer close(done)
		readLoop(conn, state)
	}()

	if initialEvent != "" {
		if err := send(conn, initialEvent, room); err != nil {
			return err
		}
	}

	printHelp()
	go inputLoop(conn, state)

	<-done
	return nil
}

func printHelp() {
	fmt.Println("Commands: start | ready | attack <cell> | result <cell> <hit|miss> | over | quit")
}

// readLoop prints incoming events and merges state deltas.
func readLoop(conn *websocket.Conn, state *localState) {
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			color.Red("Connection closed: %v", err)
			return
		}

		var env protocol.Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			color.Red("Bad frame: %v", err)
			continue
		}

		switch env.Event {
		case protocol.EventClientUpdate:
			var update protocol.ClientUpdate
			if err := json.Unmarshal(env.Data, &update); err != nil {
				color.Red("Bad client-update: %v", err)
				continue
			}
			state.merge(update)
			color.Cyan("update: %s", env.Data)

		case protocol.EventStartGame:
			color.Green("Opponent started the game. Place your ships, then type 'ready'.")

		case protocol.EventAttackCell:
			color.Yellow("Incoming attack on cell %s. Answer with 'result %s <hit|miss>'.", env.Data, env.Data)

		case protocol.EventAttackResult:
			var result protocol.AttackResult
			if err := json.Unmarshal(env.Data, &result); err != nil {
				color.Red("Bad attack-result: %v", err)
				continue
			}
			color.Yellow("Attack on cell %s: outcome %s", result.Cell, result.Outcome)

		case protocol.EventGameOver:
			color.Green("Game over. You won!")

		case protocol.EventOpponentLeft:
			color.Red("Opponent left the room.")

		case protocol.EventRoomError:
			color.Red("Refused: %s", env.Data)

		default:
			fmt.Printf("%s: %s\n", env.Event, env.Data)
		}
	}
}

// inputLoop translates typed commands into relay events.
func inputLoop(conn *websocket.Conn, state *localState) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "start":
			send(conn, protocol.EventStartGame, protocol.StartGameRequest{
				RoomName: state.RoomName,
				Opponent: state.Opponent,
			})

		case "ready":
			send(conn, protocol.EventReady, protocol.ReadyRequest{
				Opponent:          state.Opponent,
				OpponentGameState: state.OpponentGameState,
			})

		case "attack":
			if len(fields) < 2 {
				printHelp()
				continue
			}
			cell, err := strconv.Atoi(fields[1])
			if err != nil {
				color.Red("Cell must be a number")
				continue
			}
			raw, _ := json.Marshal(cell)
			send(conn, protocol.EventAttackCell, protocol.AttackCellRequest{
				Opponent: state.Opponent,
				Cell:     raw,
			})

		case "result":
			if len(fields) < 3 {
				printHelp()
				continue
			}
			cell, err := strconv.Atoi(fields[1])
			if err != nil {
				color.Red("Cell must be a number")
				continue
			}
			rawCell, _ := json.Marshal(cell)
			rawOutcome, _ := json.Marshal(fields[2] == "hit")
			send(conn, protocol.EventAttackResult, protocol.AttackResultRequest{
				Opponent: state.Opponent,
				Cell:     rawCell,
				Outcome:  rawOutcome,
				RoomName: state.RoomName,
			})

		case "over":
			send(conn, protocol.EventGameOver, protocol.GameOverRequest{
				Opponent: state.Opponent,
				RoomName: state.RoomName,
			})

		case "quit":
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		default:
			printHelp()
		}
	}
}

func send(conn *websocket.Conn, event string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return conn.WriteJSON(protocol.Envelope{Event: event, Data: raw})
}
