package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wordrace/internal/domain"
)

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateRoomResponse is the response for room creation
type CreateRoomResponse struct {
	RoomID     string `json:"roomId"`
	InviteLink string `json:"inviteLink"`
}

// RoomPlayer is the public view of a player in a room
type RoomPlayer struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsReady    bool   `json:"isReady"`
	IsFinished bool   `json:"isFinished"`
	IsOnline   bool   `json:"isOnline"`
}

// GetRoomResponse is the response for getting room info. It never carries
// the secret word or guesses.
type GetRoomResponse struct {
	RoomID      string       `json:"roomId"`
	Phase       domain.Phase `json:"phase"`
	HostID      string       `json:"hostId"`
	Round       int          `json:"round"`
	Players     []RoomPlayer `json:"players"`
	OnlineCount int          `json:"onlineCount"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	ActiveRooms   int `json:"activeRooms"`
	TotalPlayers  int `json:"totalPlayers"`
	OnlinePlayers int `json:"onlinePlayers"`
	Connections   int `json:"connections"`
}

// handleCreateRoom handles POST /api/rooms
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := s.store.CreateRoom()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create room")
		s.sendError(w, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create room")
		return
	}

	// Build invite link
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	inviteLink := scheme + "://" + r.Host + "/join/" + roomID

	s.sendStatus(w, http.StatusCreated, &CreateRoomResponse{
		RoomID:     roomID,
		InviteLink: inviteLink,
	})
}

// handleGetRoom handles GET /api/rooms/{roomId}
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")

	snap, err := s.store.Snapshot(roomID)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) || errors.Is(err, domain.ErrEmptyRoomID) {
			s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
		} else {
			s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		}
		return
	}

	resp := &GetRoomResponse{
		RoomID:  snap.ID,
		Phase:   snap.Phase,
		HostID:  snap.HostID,
		Round:   snap.Round,
		Players: make([]RoomPlayer, 0, len(snap.Players)),
	}
	for _, p := range snap.Players {
		resp.Players = append(resp.Players, RoomPlayer{
			ID:         p.ID,
			Name:       p.Name,
			IsReady:    p.IsReady,
			IsFinished: p.IsFinished,
			IsOnline:   p.IsOnline,
		})
		if p.IsOnline {
			resp.OnlineCount++
		}
	}

	s.sendSuccess(w, resp)
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{
		Status: "ok",
	})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.store.Stats()
	s.sendSuccess(w, &StatsResponse{
		ActiveRooms:   stats.Rooms,
		TotalPlayers:  stats.Players,
		OnlinePlayers: stats.OnlinePlayers,
		Connections:   s.engine.Sessions().Count(),
	})
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	s.sendStatus(w, http.StatusOK, data)
}

func (s *Server) sendStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
