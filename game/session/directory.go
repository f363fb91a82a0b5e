package session

import "errors"

var (
	ErrRoomOccupied = errors.New("room already exists")
	ErrRoomNotFound = errors.New("room does not exist")
	ErrRoomFull     = errors.New("room already has two players")
	ErrOwnRoom      = errors.New("cannot join own room")
)

// Membership is the live channel-membership view owned by the transport.
type Membership interface {
	MembersOf(channel string) []string
	ChannelsOf(connID string) []string
	Channels() []string
	Join(connID, channel string)
	Leave(connID, channel string)
}

// Directory resolves rooms against the transport's membership table. A room
// exists exactly when at least one connection occupies its channel; there is
// no separate room record and no cached copy of membership.
type Directory struct {
	transport Membership
}

// NewDirectory creates a directory over the given transport.
func NewDirectory(transport Membership) *Directory {
	return &Directory{transport: transport}
}

// MembersOf returns the connection ids occupying the room.
func (d *Directory) MembersOf(room string) []string {
	return d.transport.MembersOf(room)
}

// Exists reports whether the room has at least one member.
func (d *Directory) Exists(room string) bool {
	return len(d.transport.MembersOf(room)) > 0
}

// Create claims an empty room for the connection. The connection leaves any
// room it currently occupies first, so it is never in two game rooms.
func (d *Directory) Create(connID, room string) error {
	if len(d.transport.MembersOf(room)) > 0 {
		return ErrRoomOccupied
	}
	d.LeaveAll(connID)
	d.transport.Join(connID, room)
	return nil
}

// Join adds the connection to a room holding exactly one other member and
// returns that member's id, the host. A room with no members does not exist;
// a room with two members is full.
func (d *Directory) Join(connID, room string) (string, error) {
	members := d.transport.MembersOf(room)
	switch {
	case len(members) == 0:
		return "", ErrRoomNotFound
	case len(members) > 1:
		return "", ErrRoomFull
	case members[0] == connID:
		return "", ErrOwnRoom
	}

	host := members[0]
	d.LeaveAll(connID)
	d.transport.Join(connID, room)
	return host, nil
}

// LeaveAll removes the connection from every channel except the private one
// named after its own id.
func (d *Directory) LeaveAll(connID string) {
	for _, channel := range d.transport.ChannelsOf(connID) {
		if channel != connID {
			d.transport.Leave(connID, channel)
		}
	}
}

// GameRooms returns the rooms the connection occupies, excluding its private
// channel. Under the one-room invariant this has at most one element.
func (d *Directory) GameRooms(connID string) []string {
	var rooms []string
	for _, channel := range d.transport.ChannelsOf(connID) {
		if channel != connID {
			rooms = append(rooms, channel)
		}
	}
	return rooms
}

// Opponent returns the other member of the room, if any.
func (d *Directory) Opponent(room, selfID string) (string, bool) {
	for _, id := range d.transport.MembersOf(room) {
		if id != selfID {
			return id, true
		}
	}
	return "", false
}

// Rooms lists every occupied game room. Private channels are filtered out:
// they are exactly the channels named after one of their own members.
func (d *Directory) Rooms() []string {
	var rooms []string
	for _, channel := range d.transport.Channels() {
		if d.isPrivate(channel) {
			continue
		}
		rooms = append(rooms, channel)
	}
	return rooms
}

func (d *Directory) isPrivate(channel string) bool {
	for _, id := range d.transport.MembersOf(channel) {
		if id == channel {
			return true
		}
	}
	return false
}
