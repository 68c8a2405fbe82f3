package app

import "sync"

// Conn represents a connected client
type Conn interface {
	ID() string
	Send(data []byte) error
	Close() error
}

// Binding ties a connection to the player it joined as
type Binding struct {
	RoomID   string
	PlayerID string
}

type boundConn struct {
	conn    Conn
	binding Binding
}

// Sessions maps each live connection to at most one (room, player) pair
type Sessions struct {
	mu    sync.RWMutex
	conns map[string]*boundConn            // connID -> binding
	rooms map[string]map[string]*boundConn // roomID -> connID -> binding
}

// NewSessions creates an empty binding table
func NewSessions() *Sessions {
	return &Sessions{
		conns: make(map[string]*boundConn),
		rooms: make(map[string]map[string]*boundConn),
	}
}

// Bind attaches conn to a room and player, replacing any earlier binding.
// It returns the replaced binding, if there was one.
func (s *Sessions) Bind(conn Conn, b Binding) (Binding, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, _, hadPrev := s.unbindLocked(conn.ID())

	bc := &boundConn{conn: conn, binding: b}
	s.conns[conn.ID()] = bc

	members, ok := s.rooms[b.RoomID]
	if !ok {
		members = make(map[string]*boundConn)
		s.rooms[b.RoomID] = members
	}
	members[conn.ID()] = bc
	return prev, hadPrev
}

// Bound reports whether any connection is bound to the player in the room
func (s *Sessions) Bound(b Binding) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, bc := range s.rooms[b.RoomID] {
		if bc.binding.PlayerID == b.PlayerID {
			return true
		}
	}
	return false
}

// Lookup returns the binding of a connection
func (s *Sessions) Lookup(connID string) (Binding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bc, ok := s.conns[connID]
	if !ok {
		return Binding{}, false
	}
	return bc.binding, true
}

// Conn returns the bound connection with the given ID
func (s *Sessions) Conn(connID string) (Conn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bc, ok := s.conns[connID]
	if !ok {
		return nil, false
	}
	return bc.conn, true
}

// Unbind removes a connection's binding. last reports whether no other
// connection is still bound to the same player in the same room.
func (s *Sessions) Unbind(connID string) (b Binding, last bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unbindLocked(connID)
}

func (s *Sessions) unbindLocked(connID string) (Binding, bool, bool) {
	bc, ok := s.conns[connID]
	if !ok {
		return Binding{}, false, false
	}
	delete(s.conns, connID)

	members := s.rooms[bc.binding.RoomID]
	delete(members, connID)
	if len(members) == 0 {
		delete(s.rooms, bc.binding.RoomID)
	}

	for _, other := range members {
		if other.binding.PlayerID == bc.binding.PlayerID {
			return bc.binding, false, true
		}
	}
	return bc.binding, true, true
}

// Members returns every connection bound to a room
func (s *Sessions) Members(roomID string) []Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := s.rooms[roomID]
	out := make([]Conn, 0, len(members))
	for _, bc := range members {
		out = append(out, bc.conn)
	}
	return out
}

// Count returns the number of bound connections
func (s *Sessions) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns)
}
