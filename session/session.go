package session

import (
	"encoding/json"
	"fmt"
)

// DefaultID is the well-known identifier of the device-local session.
// Anything else was started remotely.
const DefaultID = "default"

// Session is the mutable per-interaction preference state enriched by a
// resolved identity. Each instance belongs to exactly one in-flight
// request; the hosting system serializes reuse of a session id.
type Session struct {
	SessionID      string            `json:"session_id"`
	Lang           string            `json:"lang,omitempty"`
	SiteID         string            `json:"site_id,omitempty"`
	STTPreferences map[string]string `json:"stt_preferences,omitempty"`
	TTSPreferences map[string]string `json:"tts_preferences,omitempty"`
	SystemUnit     string            `json:"system_unit,omitempty"`
	DateFormat     string            `json:"date_format,omitempty"`
	TimeFormat     string            `json:"time_format,omitempty"`
	Location       *Location         `json:"location,omitempty"`
}

// Location is a nested preference structure assembled from the flat
// location fields of a user record. It is always set whole, never
// partially.
type Location struct {
	City       City       `json:"city"`
	Coordinate Coordinate `json:"coordinate"`
	Timezone   Timezone   `json:"timezone"`
}

type City struct {
	Name  string `json:"name,omitempty"`
	Code  string `json:"code,omitempty"`
	State State  `json:"state"`
}

type State struct {
	Name    string  `json:"name,omitempty"`
	Code    string  `json:"code,omitempty"`
	Country Country `json:"country"`
}

type Country struct {
	Name string `json:"name,omitempty"`
	Code string `json:"code,omitempty"`
}

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Timezone struct {
	Code string `json:"code,omitempty"`
}

// Deserialize decodes a serialized session. Empty payloads decode to the
// default session.
func Deserialize(raw json.RawMessage) (*Session, error) {
	s := &Session{SessionID: DefaultID}

	if len(raw) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("deserialize session: %w", err)
	}

	if len(s.SessionID) == 0 {
		s.SessionID = DefaultID
	}

	return s, nil
}

func (s *Session) Serialize() (json.RawMessage, error) {
	bytes, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("serialize session: %w", err)
	}
	return bytes, nil
}
