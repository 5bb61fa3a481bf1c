package proto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Kind tags a chat envelope.
type Kind string

const (
	// KindEnter announces a client joining a room.
	KindEnter Kind = "ENTER"
	// KindTalk carries a chat message to room members.
	KindTalk Kind = "TALK"
	// KindQuit announces a client leaving a room.
	KindQuit Kind = "QUIT"
)

// TimeLayout is the wire format for envelope timestamps.
const TimeLayout = "2006-01-02 15:04:05"

const (
	// SystemRoom is the room id stamped on server-generated error replies.
	SystemRoom = "system"
	// SystemSender is the sender stamped on server-generated error replies.
	SystemSender = "System"
)

var pingMarker = []byte(`"type":"PING"`)

// Envelope is the wire unit exchanged over a chat connection.
type Envelope struct {
	Type      Kind      `json:"type"`
	RoomID    string    `json:"roomId"`
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	Timestamp Timestamp `json:"timestamp"`
}

// New builds an envelope stamped with the current time.
func New(kind Kind, roomID, sender, message string) *Envelope {
	return &Envelope{
		Type:      kind,
		RoomID:    roomID,
		Sender:    sender,
		Message:   message,
		Timestamp: Timestamp{time.Now()},
	}
}

// SystemError builds the TALK envelope used to report an error back to the
// originating connection.
func SystemError(message string) *Envelope {
	return New(KindTalk, SystemRoom, SystemSender, message)
}

// Decode parses a raw frame into an envelope. A missing timestamp is
// assigned at decode time.
func Decode(raw []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Timestamp.IsZero() {
		env.Timestamp = Timestamp{time.Now()}
	}
	return &env, nil
}

// Encode serializes the envelope for the wire.
func (e *Envelope) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return data, nil
}

// IsPing reports whether a raw frame is a keep-alive probe.
func IsPing(raw []byte) bool {
	return bytes.Contains(raw, pingMarker)
}

// Timestamp marshals as "yyyy-MM-dd HH:mm:ss" on the wire.
type Timestamp struct {
	time.Time
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(TimeLayout))
}

// UnmarshalJSON implements json.Unmarshaler. Empty and null values leave
// the timestamp zero so Decode can stamp it.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.ParseInLocation(TimeLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("parse timestamp: %w", err)
	}
	t.Time = parsed
	return nil
}
