package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeserializeEmptyYieldsDefault(t *testing.T) {
	s, err := Deserialize(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultID, s.SessionID)
}

func TestDeserializeMissingIDYieldsDefault(t *testing.T) {
	s, err := Deserialize([]byte(`{"lang":"en-us"}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultID, s.SessionID)
	assert.Equal(t, "en-us", s.Lang)
}

func TestSerializeRoundTrip(t *testing.T) {
	s := &Session{
		SessionID:  "sess-9",
		Lang:       "pt-pt",
		SystemUnit: "metric",
		Location: &Location{
			City:     City{Name: "Lisbon", State: State{Country: Country{Code: "PT"}}},
			Timezone: Timezone{Code: "Europe/Lisbon"},
		},
	}

	raw, err := s.Serialize()
	require.NoError(t, err)

	back, err := Deserialize(raw)
	require.NoError(t, err)
	assert.Equal(t, s, back)
}

func TestDeserializeMalformed(t *testing.T) {
	_, err := Deserialize([]byte(`{not json`))
	assert.Error(t, err)
}
