package matchsync

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pacosako/engine/internal/paco"
)

// ClientMessage is the JSON tagged union a connection may send (spec §6
// "Client -> Server messages"). Grounded on sync_match.rs's
// ClientMatchMessage, extended with Rollback and TimeDriftCheck which the
// distilled spec adds.
type ClientMessage struct {
	Type          string       `json:"type"`
	Key           string       `json:"key,omitempty"`
	Action        *paco.Action `json:"action,omitempty"`
	SendTimestamp int64        `json:"send,omitempty"`
}

const (
	ClientDoAction       = "DoAction"
	ClientRollback       = "Rollback"
	ClientTimeDriftCheck = "TimeDriftCheck"
	ClientSubscribe      = "subscribeToMatchSocket"
)

// ParseClientMessage decodes one inbound frame. Malformed input is reported
// locally (spec §7); the connection is never torn down for it.
func ParseClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("malformed client message: %w", err)
	}
	if msg.Type == "" {
		return ClientMessage{}, fmt.Errorf("malformed client message: missing type")
	}
	return msg, nil
}

// ServerMessage is the JSON tagged union broadcast or replied to a
// connection (spec §6 "Server -> Client messages").
type ServerMessage struct {
	Type    string        `json:"type"`
	State   *ClientState  `json:"state,omitempty"`
	Message string        `json:"message,omitempty"`
	Send    int64         `json:"send,omitempty"`
	Bounced int64         `json:"bounced,omitempty"`
}

const (
	ServerCurrentMatchState = "CurrentMatchState"
	ServerError             = "Error"
	ServerTimeDriftResponse = "TimeDriftResponse"
)

// CurrentMatchStateMessage wraps a projected ClientState for the wire.
func CurrentMatchStateMessage(state ClientState) ServerMessage {
	return ServerMessage{Type: ServerCurrentMatchState, State: &state}
}

// ErrorMessage reports a failure to the single connection that caused it;
// it is never broadcast (spec §7 "Authorization failure"/"Protocol
// violations").
func ErrorMessage(err error) ServerMessage {
	return ServerMessage{Type: ServerError, Message: err.Error()}
}

// TimeDriftResponseMessage echoes the client's send timestamp alongside the
// server's observed receive time, letting the client estimate clock skew
// against the authoritative timer.
func TimeDriftResponseMessage(send int64, bounced time.Time) ServerMessage {
	return ServerMessage{Type: ServerTimeDriftResponse, Send: send, Bounced: bounced.UnixMilli()}
}

// Record is the persisted match record (spec §6 "Persisted match record").
// All fields beyond ActionHistory are optional so older records without
// them still decode.
type Record struct {
	ActionHistory []paco.Action `json:"action_history"`
	Timer         *Timer        `json:"timer,omitempty"`
	Setup         SetupOptions  `json:"setup"`
	WhitePlayer   string        `json:"white_player,omitempty"`
	BlackPlayer   string        `json:"black_player,omitempty"`
}

// ToRecord captures a Match's persisted fields.
func (m *Match) ToRecord() Record {
	record := Record{
		ActionHistory: m.Actions,
		Timer:         m.Timer,
		Setup:         m.Setup,
	}
	if user, ok := m.White.User(); ok {
		record.WhitePlayer = user
	}
	if user, ok := m.Black.User(); ok {
		record.BlackPlayer = user
	}
	return record
}

// FromRecord rebuilds a Match from its persisted record.
func FromRecord(key string, record Record) *Match {
	return &Match{
		Key:     key,
		Actions: record.ActionHistory,
		Setup:   record.Setup,
		Timer:   record.Timer,
		White:   ForUser(record.WhitePlayer),
		Black:   ForUser(record.BlackPlayer),
	}
}
