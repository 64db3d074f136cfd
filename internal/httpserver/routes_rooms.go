// internal/httpserver/routes_rooms.go
//
// Room lifecycle over REST: creating a room, discovering public rooms, and
// joining by invite code or at random. Joining here only records membership;
// the realtime session starts when the member opens the socket and sends
// join_room.
package httpserver

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"tilerooms/internal/game"
)

const (
	inviteCodeLen      = 6
	inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	inviteCodeRetries  = 5

	minTimePerTurn = 30
	maxTimePerTurn = 300
	minPlayers     = 2
	maxPlayers     = 4
)

type createRoomReq struct {
	IsPrivate   bool `json:"isPrivate"`
	TimePerTurn int  `json:"timePerTurn"`
	MaxPlayers  int  `json:"maxPlayers"`
}

func (s *Server) mountRoomRoutes() {
	s.r.Route("/rooms", func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(s.requireAuth())
		r.Post("/", s.handleCreateRoom)
		r.Get("/mine", s.handleMyRoom)
		r.Get("/public", s.handleListPublic)
		r.Get("/{roomID}", s.handleGetRoom)
		r.Post("/join/code", s.handleJoinByCode)
		r.Post("/join/random", s.handleJoinRandom)
	})
}

// handleCreateRoom creates a waiting room with the caller as admin. A user
// administers at most one room at a time.
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)

	var body createRoomReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	if body.TimePerTurn < minTimePerTurn || body.TimePerTurn > maxTimePerTurn {
		writeErr(w, fmt.Errorf("timePerTurn must be %d-%d seconds: %w",
			minTimePerTurn, maxTimePerTurn, game.ErrValidation))
		return
	}
	if body.MaxPlayers < minPlayers || body.MaxPlayers > maxPlayers {
		writeErr(w, fmt.Errorf("maxPlayers must be %d-%d: %w",
			minPlayers, maxPlayers, game.ErrValidation))
		return
	}
	if _, err := s.rooms.GetByAdmin(r.Context(), me.ID); err == nil {
		writeErr(w, fmt.Errorf("user already administers a room: %w", game.ErrConflict))
		return
	}

	admin := game.Player{ID: me.ID, Username: me.Username}
	var room *game.Room
	for attempt := 0; ; attempt++ {
		room = game.NewRoom(genID(), genInviteCode(), body.IsPrivate, admin, body.TimePerTurn, body.MaxPlayers)
		err := s.rooms.Create(r.Context(), room)
		if err == nil {
			break
		}
		// Invite codes collide rarely; retry with a fresh one.
		if errors.Is(err, game.ErrConflict) && attempt < inviteCodeRetries {
			continue
		}
		log.Error().Err(err).Msg("create room")
		writeErr(w, err)
		return
	}
	log.Info().Str("room", room.ID).Str("admin", me.ID).Msg("room created")
	writeJSON(w, room)
}

// handleMyRoom returns the room the caller administers.
func (s *Server) handleMyRoom(w http.ResponseWriter, r *http.Request) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	room, err := s.rooms.GetByAdmin(r.Context(), me.ID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, room)
}

// handleGetRoom returns a room the caller is a member of.
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	room, err := s.rooms.Get(r.Context(), chi.URLParam(r, "roomID"))
	if err != nil {
		writeErr(w, err)
		return
	}
	if !room.HasPlayer(me.ID) {
		writeErr(w, fmt.Errorf("user is not a player in this room: %w", game.ErrNotAssociated))
		return
	}
	writeJSON(w, room)
}

// handleListPublic lists public rooms still gathering players.
func (s *Server) handleListPublic(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.rooms.ListPublicWaiting(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	if rooms == nil {
		rooms = []*game.Room{}
	}
	writeJSON(w, rooms)
}

type joinByCodeReq struct {
	InviteCode string `json:"inviteCode"`
}

// handleJoinByCode adds the caller to the room behind an invite code.
// Works for private and public rooms alike; the code is the capability.
func (s *Server) handleJoinByCode(w http.ResponseWriter, r *http.Request) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)

	var body joinByCodeReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.InviteCode == "" {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	room, err := s.rooms.GetByInviteCode(r.Context(), body.InviteCode)
	if err != nil {
		writeErr(w, err)
		return
	}
	joined, err := s.joinRoom(r.Context(), room.ID, me)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, joined)
}

// handleJoinRandom adds the caller to the first public waiting room with a
// free seat.
func (s *Server) handleJoinRandom(w http.ResponseWriter, r *http.Request) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)

	rooms, err := s.rooms.ListPublicWaiting(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	for _, room := range rooms {
		if len(room.Players) >= room.MaxPlayers || room.HasPlayer(me.ID) {
			continue
		}
		joined, err := s.joinRoom(r.Context(), room.ID, me)
		if err != nil {
			// The seat may have been taken, or the room closed, between the
			// listing and the locked re-read. Try the next candidate.
			if errors.Is(err, game.ErrInvalidState) || errors.Is(err, game.ErrConflict) ||
				errors.Is(err, game.ErrNotFound) {
				continue
			}
			writeErr(w, err)
			return
		}
		writeJSON(w, joined)
		return
	}
	writeErr(w, fmt.Errorf("no public room with a free seat: %w", game.ErrNotFound))
}

// joinRoom records membership and persists. The room is re-read under the
// hub's per-room lock so overlapping joins, and joins racing socket actions,
// serialize instead of clobbering each other's writes. The updated aggregate
// is returned so clients can render the lobby before opening the socket.
func (s *Server) joinRoom(ctx context.Context, roomID string, me *authUser) (*game.Room, error) {
	unlock := s.hub.LockRoom(roomID)
	defer unlock()

	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := room.AddPlayer(game.Player{ID: me.ID, Username: me.Username}); err != nil {
		return nil, err
	}
	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, err
	}
	log.Info().Str("room", room.ID).Str("player", me.ID).Msg("player joined room")
	return room, nil
}

// genInviteCode produces a short uppercase code without lookalike characters.
func genInviteCode() string {
	b := make([]byte, inviteCodeLen)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = inviteCodeAlphabet[int(b[i])%len(inviteCodeAlphabet)]
	}
	return string(b)
}
