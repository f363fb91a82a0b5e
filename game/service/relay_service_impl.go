package service

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/fatih/color"

	"github.com/harborgames/seastrike/game/protocol"
	"github.com/harborgames/seastrike/game/session"
)

type relayService struct {
	// mu serializes event handling, so every leave/join/broadcast sequence
	// completes before the next event observes the membership table.
	mu sync.Mutex

	emitter   Emitter
	directory *session.Directory
	phases    *session.PhaseRegistry
	opts      Options
}

// NewRelayService creates the relay over an injected emitter and directory.
func NewRelayService(emitter Emitter, directory *session.Directory, phases *session.PhaseRegistry, opts Options) RelayService {
	return &relayService{
		emitter:   emitter,
		directory: directory,
		phases:    phases,
		opts:      opts,
	}
}

// HandleConnect clears any inherited membership and initializes the client's
// local state.
func (s *relayService) HandleConnect(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	color.Green("Connected: %s", connID)
	s.directory.LeaveAll(connID)
	s.emitter.Emit(connID, protocol.EventClientUpdate, protocol.ClientUpdate{
		ClientID:  connID,
		GameState: protocol.StateInactive,
	})
}

// HandleEvent dispatches a decoded client frame. Unknown events and payloads
// that fail to decode are logged and dropped; nothing here is fatal.
func (s *relayService) HandleEvent(connID, event string, data json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch event {
	case protocol.EventCreateRoom:
		var room string
		if err := json.Unmarshal(data, &room); err != nil {
			log.Printf("Ignoring create-room from %s: %v", connID, err)
			return
		}
		s.createRoom(connID, room)

	case protocol.EventJoinRoom:
		var room string
		if err := json.Unmarshal(data, &room); err != nil {
			log.Printf("Ignoring join-room from %s: %v", connID, err)
			return
		}
		s.joinRoom(connID, room)

	case protocol.EventStartGame:
		var req protocol.StartGameRequest
		if err := json.Unmarshal(data, &req); err != nil {
			log.Printf("Ignoring start-game from %s: %v", connID, err)
			return
		}
		s.startGame(connID, req)

	case protocol.EventReady:
		var req protocol.ReadyRequest
		if err := json.Unmarshal(data, &req); err != nil {
			log.Printf("Ignoring ready from %s: %v", connID, err)
			return
		}
		s.ready(connID, req)

	case protocol.EventAttackCell:
		var req protocol.AttackCellRequest
		if err := json.Unmarshal(data, &req); err != nil {
			log.Printf("Ignoring attack-cell from %s: %v", connID, err)
			return
		}
		s.attackCell(connID, req)

	case protocol.EventAttackResult:
		var req protocol.AttackResultRequest
		if err := json.Unmarshal(data, &req); err != nil {
			log.Printf("Ignoring attack-result from %s: %v", connID, err)
			return
		}
		s.attackResult(connID, req)

	case protocol.EventGameOver:
		var req protocol.GameOverRequest
		if err := json.Unmarshal(data, &req); err != nil {
			log.Printf("Ignoring game-over from %s: %v", connID, err)
			return
		}
		s.gameOver(connID, req)

	default:
		log.Printf("Ignoring unknown event %q from %s", event, connID)
	}
}

// HandleDisconnecting notifies the remaining peer in every room the
// departing connection still occupies. Runs before the transport removes the
// connection, while membership is still queryable.
func (s *relayService) HandleDisconnecting(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, room := range s.directory.GameRooms(connID) {
		s.emitter.Emit(room, protocol.EventOpponentLeft, nil)
	}
}

// HandleDisconnect runs after removal is complete. Rooms left empty vanish
// on their own; only the phase bookkeeping needs sweeping.
func (s *relayService) HandleDisconnect(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	color.Red("Disconnected: %s", connID)
	s.pruneEmptyRooms()
}

func (s *relayService) createRoom(connID, room string) {
	if s.directory.Exists(room) {
		log.Printf("Client %s tried to create room %s but it already exists.", connID, room)
		s.reject(connID, "create-room", room, "room already exists")
		return
	}

	if err := s.directory.Create(connID, room); err != nil {
		log.Printf("Client %s failed to create room %s: %v", connID, room, err)
		return
	}
	s.pruneEmptyRooms()
	s.phases.SetPhase(room, session.PhaseForming)

	s.emitter.Emit(connID, protocol.EventClientUpdate, protocol.ClientUpdate{
		RoomName:     room,
		Players:      []string{connID},
		ClientIsHost: protocol.Bool(true),
	})
	log.Printf("Client %s created room %s.", connID, room)
}

func (s *relayService) joinRoom(connID, room string) {
	host, err := s.directory.Join(connID, room)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrRoomNotFound):
			log.Printf("Client %s tried to join room %s but it does not exist.", connID, room)
			s.reject(connID, "join-room", room, "room does not exist")
		case errors.Is(err, session.ErrRoomFull):
			log.Printf("Client %s tried to join room %s but it is full.", connID, room)
			s.reject(connID, "join-room", room, "room is full")
		default:
			log.Printf("Client %s could not join room %s: %v", connID, room, err)
		}
		return
	}
	s.pruneEmptyRooms()

	s.phases.SetPhase(room, session.PhasePlacement)
	s.phases.SetReadiness(room, connID, session.ReadinessUnset)
	s.phases.SetReadiness(room, host, session.ReadinessUnset)

	s.emitter.Emit(connID, protocol.EventClientUpdate, protocol.ClientUpdate{
		RoomName:          room,
		Opponent:          host,
		OpponentGameState: protocol.StateInactive,
		ClientIsHost:      protocol.Bool(false),
	})
	s.emitter.Emit(host, protocol.EventClientUpdate, protocol.ClientUpdate{
		RoomName:          room,
		Opponent:          connID,
		OpponentGameState: protocol.StateInactive,
	})
	log.Printf("Client %s joined room %s.", connID, room)
}

func (s *relayService) startGame(connID string, req protocol.StartGameRequest) {
	s.emitter.Emit(req.Opponent, protocol.EventStartGame, nil)
	s.emitter.Emit(req.RoomName, protocol.EventClientUpdate, protocol.ClientUpdate{
		Turn:      connID,
		GameState: protocol.StatePlacement,
	})
	log.Printf("Game started at room %s.", req.RoomName)
}

// ready runs the two-phase handshake. The reported opponent state is trusted
// as-is: when it says "waiting" the opponent already signaled readiness and
// both peers advance, otherwise the caller waits and the opponent is told so.
func (s *relayService) ready(connID string, req protocol.ReadyRequest) {
	log.Printf("%s is ready to proceed, opponent is in %s", connID, req.OpponentGameState)

	room := ""
	if rooms := s.directory.GameRooms(connID); len(rooms) > 0 {
		room = rooms[0]
	}

	if req.OpponentGameState == protocol.StateWaiting {
		update := protocol.ClientUpdate{
			OpponentGameState: protocol.StateActive,
			GameState:         protocol.StateActive,
		}
		s.emitter.Emit(connID, protocol.EventClientUpdate, update)
		s.emitter.Emit(req.Opponent, protocol.EventClientUpdate, update)

		if room != "" {
			s.phases.SetPhase(room, session.PhaseActive)
			s.phases.SetReadiness(room, connID, session.ReadinessActive)
			s.phases.SetReadiness(room, req.Opponent, session.ReadinessActive)
		}
		return
	}

	s.emitter.Emit(connID, protocol.EventClientUpdate, protocol.ClientUpdate{
		GameState: protocol.StateWaiting,
	})
	s.emitter.Emit(req.Opponent, protocol.EventClientUpdate, protocol.ClientUpdate{
		OpponentGameState: protocol.StateWaiting,
	})

	if room != "" {
		s.phases.SetPhase(room, session.PhaseReadyNegotiation)
		s.phases.SetReadiness(room, connID, session.ReadinessWaiting)
	}
}

func (s *relayService) attackCell(connID string, req protocol.AttackCellRequest) {
	log.Printf("%s attacked cell %s", connID, req.Cell)
	s.emitter.Emit(req.Opponent, protocol.EventAttackCell, req.Cell)
}

func (s *relayService) attackResult(connID string, req protocol.AttackResultRequest) {
	s.emitter.Emit(req.Opponent, protocol.EventAttackResult, protocol.AttackResult{
		Cell:    req.Cell,
		Outcome: req.Outcome,
	})
	s.emitter.Emit(req.RoomName, protocol.EventClientUpdate, protocol.ClientUpdate{
		Turn: connID,
	})
}

func (s *relayService) gameOver(connID string, req protocol.GameOverRequest) {
	log.Printf("Game in room %s ended, %s won.", req.RoomName, req.Opponent)
	s.emitter.Emit(req.Opponent, protocol.EventGameOver, nil)
	if req.RoomName != "" {
		s.phases.SetPhase(req.RoomName, session.PhaseFinished)
	}
}

func (s *relayService) reject(connID, op, room, reason string) {
	if !s.opts.SurfaceRejections {
		return
	}
	s.emitter.Emit(connID, protocol.EventRoomError, protocol.RoomError{
		Op:       op,
		RoomName: room,
		Reason:   reason,
	})
}

// pruneEmptyRooms drops phase bookkeeping for rooms whose membership has
// gone to zero. Invoked from the leave and disconnect paths only; there is
// no background sweep.
func (s *relayService) pruneEmptyRooms() {
	for _, room := range s.phases.Rooms() {
		if !s.directory.Exists(room) {
			s.phases.Drop(room)
		}
	}
}

// RoomExists reports whether the room currently has any members.
func (s *relayService) RoomExists(room string) bool {
	return s.directory.Exists(room)
}

// ListRooms returns the observational view of every occupied room.
func (s *relayService) ListRooms() []*RoomInfo {
	rooms := s.directory.Rooms()
	infos := make([]*RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		infos = append(infos, s.roomInfo(room))
	}
	return infos
}

// ErrRoomNotFound re-exports the directory sentinel for API callers.
var ErrRoomNotFound = session.ErrRoomNotFound

// GetRoom returns one room's view, or ErrRoomNotFound when it has no members.
func (s *relayService) GetRoom(room string) (*RoomInfo, error) {
	if !s.directory.Exists(room) {
		return nil, ErrRoomNotFound
	}
	return s.roomInfo(room), nil
}

func (s *relayService) roomInfo(room string) *RoomInfo {
	members := s.directory.MembersOf(room)

	phase, tracked := s.phases.PhaseOf(room)
	if !tracked {
		// Derive from membership for rooms predating the registry entry.
		if len(members) > 1 {
			phase = session.PhasePlacement
		} else {
			phase = session.PhaseForming
		}
	}

	return &RoomInfo{
		Name:    room,
		Members: members,
		Phase:   phase.String(),
	}
}
