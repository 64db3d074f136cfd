// internal/hub/messages.go
//
// Wire types for the socket protocol: one inbound message is one action,
// one outbound message is one event. Field and kind names are the protocol
// the mobile client was built against; do not rename casually.
package hub

import (
	"tilerooms/internal/board"
	"tilerooms/internal/game"
)

// Action discriminates inbound message kinds.
type Action string

const (
	ActionJoinRoom          Action = "join_room"
	ActionStartGame         Action = "start_game"
	ActionChangeRoomPrivacy Action = "change_room_privacy"
	ActionEndTurn           Action = "end_turn"
	ActionSkipTurn          Action = "skip_turn"
	ActionSuggestEndGame    Action = "suggest_end_game"
	ActionPlaceWord         Action = "place_word"
	ActionExchangeTiles     Action = "exchange_tiles"
	ActionPauseGame         Action = "pause_game"
	ActionResumeGame        Action = "resume_game"
	ActionLeaveGame         Action = "leave_game"
	ActionKickPlayer        Action = "kick_player"
	ActionLeaveRoom         Action = "leave_room"
	ActionSendReaction      Action = "send_reaction"
)

// MaxReactionLen caps the reaction payload, counted in characters.
const MaxReactionLen = 15

// Incoming is one client action. RoomID is always required; the remaining
// fields are kind-specific.
type Incoming struct {
	Action        Action                 `json:"action"`
	RoomID        string                 `json:"roomID"`
	KickPlayerID  string                 `json:"kickPlayerID,omitempty"`
	ChangingTiles []int                  `json:"changingTiles,omitempty"`
	Direction     game.Direction         `json:"direction,omitempty"`
	Letters       []game.LetterPlacement `json:"letters,omitempty"`
	Reaction      string                 `json:"reaction,omitempty"`
}

// Event discriminates outbound message kinds.
type Event string

const (
	EventError Event = "error"

	EventJoinedRoom   Event = "joined_room"
	EventPlayerJoined Event = "player_joined"

	EventRoomChangedPrivacy Event = "room_changed_privacy"

	EventLeftRoom       Event = "left_room"
	EventPlayerLeftRoom Event = "player_left_room"

	EventRoomReady   Event = "room_ready"
	EventRoomWaiting Event = "room_waiting"

	EventKickedByAdmin Event = "kicked_by_admin"
	EventPlayerKicked  Event = "player_kicked"

	EventLeftGame       Event = "left_game"
	EventPlayerLeftGame Event = "player_left_game"

	EventExchangedTiles       Event = "exchanged_tiles"
	EventPlayerExchangedTiles Event = "player_exchanged_tiles"

	EventEndedTurn       Event = "ended_turn"
	EventPlayerEndedTurn Event = "player_ended_turn"

	EventPlacedWord       Event = "placed_word"
	EventPlayerPlacedWord Event = "player_placed_word"

	EventGameEndedEmptyTurns Event = "game_ended_much_empty_turns"
	EventGameEndedSoloInRoom Event = "game_ended_solo_in_room"
	EventGameEndedPlayerWon  Event = "game_ended_player_winned"

	EventGameStarted Event = "game_started"
	EventGamePaused  Event = "game_paused"
	EventGameResumed Event = "game_resumed"

	EventReactionSent Event = "reaction_sent"
)

// PlayerInfo identifies a player in player_joined events.
type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Outgoing is one server event. All payload fields are optional and only
// populated for the kinds that carry them.
type Outgoing struct {
	Event Event `json:"event"`

	NewPlayerInfo          *PlayerInfo     `json:"newPlayerInfo,omitempty"`
	NewRoomPrivacy         *bool           `json:"newRoomPrivacy,omitempty"`
	KickedPlayerID         string          `json:"kickedPlayerID,omitempty"`
	LeftPlayerID           string          `json:"leftPlayerID,omitempty"`
	ExchangedTilesPlayerID string          `json:"exchangedTilesPlayerID,omitempty"`
	EndedTurnPlayerID      string          `json:"endedTurnPlayerID,omitempty"`
	PlacedWordPlayerID     string          `json:"placedWordPlayerID,omitempty"`
	NewWord                string          `json:"newWord,omitempty"`
	ScoredPoints           *int            `json:"scoredPoints,omitempty"`
	BoardLayout            [][]board.Bonus `json:"boardLayout,omitempty"`
	CurrentTurn            string          `json:"currentTurn,omitempty"`
	PlayerTiles            []string        `json:"playerTiles,omitempty"`
	NewAdminID             string          `json:"newAdminID,omitempty"`
	WinnerID               string          `json:"winnerID,omitempty"`
	Reaction               string          `json:"reaction,omitempty"`
	SenderID               string          `json:"senderID,omitempty"`
	ErrorMessage           string          `json:"errorMessage,omitempty"`
}
