package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilerooms/internal/hub"
	"tilerooms/internal/store"
	"tilerooms/internal/words"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE words (word TEXT PRIMARY KEY) WITHOUT ROWID;`)
	require.NoError(t, err)

	rooms := store.NewMemoryRooms()
	users := store.NewMemoryUsers()
	dict := words.NewSQLStore(db)
	h := hub.New(hub.NewRegistry(), rooms, dict, hub.NewRand())
	return New(rooms, users, dict, h)
}

// do issues a request against the router and returns the recorder.
func do(s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

// signup registers a user and returns their bearer token and id.
func signup(t *testing.T, s *Server, username string) (token, id string) {
	t.Helper()
	rec := do(s, http.MethodPost, "/auth/signup", "", map[string]string{
		"username": username, "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res struct {
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	decode(t, rec, &res)
	require.NotEmpty(t, res.Token)
	return res.Token, res.ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignupLoginMe(t *testing.T) {
	s := newTestServer(t)
	token, id := signup(t, s, "alice")

	rec := do(s, http.MethodPost, "/auth/signup", "", map[string]string{
		"username": "alice", "password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(s, http.MethodPost, "/auth/signup", "", map[string]string{
		"username": "bob", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(s, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice", "password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(s, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice", "password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(s, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	decode(t, rec, &me)
	assert.Equal(t, id, me.ID)
	assert.Equal(t, "alice", me.Username)

	rec = do(s, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoomLifecycle(t *testing.T) {
	s := newTestServer(t)
	adminTok, adminID := signup(t, s, "alice")
	guestTok, guestID := signup(t, s, "bob")

	rec := do(s, http.MethodPost, "/rooms/", adminTok, map[string]any{
		"isPrivate": false, "timePerTurn": 60, "maxPlayers": 3,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var room struct {
		ID         string `json:"id"`
		InviteCode string `json:"inviteCode"`
		AdminID    string `json:"adminId"`
	}
	decode(t, rec, &room)
	assert.Equal(t, adminID, room.AdminID)
	assert.Len(t, room.InviteCode, 6)

	// One room per admin.
	rec = do(s, http.MethodPost, "/rooms/", adminTok, map[string]any{
		"isPrivate": false, "timePerTurn": 60, "maxPlayers": 3,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(s, http.MethodGet, "/rooms/mine", adminTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(s, http.MethodPost, "/rooms/join/code", guestTok, map[string]string{
		"inviteCode": room.InviteCode,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var joined struct {
		Players []struct {
			ID string `json:"id"`
		} `json:"players"`
	}
	decode(t, rec, &joined)
	require.Len(t, joined.Players, 2)
	assert.Equal(t, guestID, joined.Players[1].ID)

	// Members can read the room, strangers cannot.
	rec = do(s, http.MethodGet, "/rooms/"+room.ID, guestTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	strangerTok, _ := signup(t, s, "carol")
	rec = do(s, http.MethodGet, "/rooms/"+room.ID, strangerTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(s, http.MethodGet, "/rooms/public", strangerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var public []json.RawMessage
	decode(t, rec, &public)
	assert.Len(t, public, 1)

	rec = do(s, http.MethodPost, "/rooms/join/random", strangerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &joined)
	assert.Len(t, joined.Players, 3)

	// Room is full now, nothing left to join at random.
	lateTok, _ := signup(t, s, "dave")
	rec = do(s, http.MethodPost, "/rooms/join/random", lateTok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConcurrentJoinsKeepEveryMember(t *testing.T) {
	s := newTestServer(t)
	adminTok, adminID := signup(t, s, "alice")

	rec := do(s, http.MethodPost, "/rooms/", adminTok, map[string]any{
		"isPrivate": false, "timePerTurn": 60, "maxPlayers": 3,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var room struct {
		ID         string `json:"id"`
		InviteCode string `json:"inviteCode"`
	}
	decode(t, rec, &room)

	// Two seats left; five users race for them. Unserialized joins used to
	// read the same roster and overwrite each other's writes.
	const racers = 5
	tokens := make([]string, racers)
	ids := make([]string, racers)
	for i := 0; i < racers; i++ {
		tokens[i], ids[i] = signup(t, s, fmt.Sprintf("racer%d", i))
	}

	codes := make([]int, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = do(s, http.MethodPost, "/rooms/join/code", tokens[i], map[string]string{
				"inviteCode": room.InviteCode,
			}).Code
		}(i)
	}
	wg.Wait()

	var winners []string
	for i, code := range codes {
		if code == http.StatusOK {
			winners = append(winners, ids[i])
		}
	}
	require.Len(t, winners, 2, "exactly the free seats are handed out")

	rec = do(s, http.MethodGet, "/rooms/"+room.ID, adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Players []struct {
			ID string `json:"id"`
		} `json:"players"`
	}
	decode(t, rec, &got)
	require.Len(t, got.Players, 3)

	roster := map[string]bool{}
	for _, p := range got.Players {
		roster[p.ID] = true
	}
	assert.True(t, roster[adminID])
	for _, id := range winners {
		assert.True(t, roster[id], "winner %s kept their seat", id)
	}
}

func TestCreateRoomValidation(t *testing.T) {
	s := newTestServer(t)
	tok, _ := signup(t, s, "alice")

	for name, body := range map[string]map[string]any{
		"turn too short":   {"timePerTurn": 5, "maxPlayers": 3},
		"turn too long":    {"timePerTurn": 999, "maxPlayers": 3},
		"too few players":  {"timePerTurn": 60, "maxPlayers": 1},
		"too many players": {"timePerTurn": 60, "maxPlayers": 9},
	} {
		rec := do(s, http.MethodPost, "/rooms/", tok, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}

	rec := do(s, http.MethodPost, "/rooms/", "", map[string]any{"timePerTurn": 60, "maxPlayers": 3})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWordEndpoints(t *testing.T) {
	s := newTestServer(t)
	tok, _ := signup(t, s, "alice")

	req := httptest.NewRequest(http.MethodPost, "/words/load", strings.NewReader("cat\ndog\nbird\n"))
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(s, http.MethodGet, "/words/count", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var count struct {
		Count int `json:"count"`
	}
	decode(t, rec, &count)
	assert.Equal(t, 3, count.Count)
}

func TestGenInviteCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := genInviteCode()
		require.Len(t, code, inviteCodeLen)
		for _, r := range code {
			assert.Contains(t, inviteCodeAlphabet, fmt.Sprintf("%c", r))
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}
