package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/identity/directory"
)

func fullUser() *directory.User {
	return &directory.User{
		UserID:        "u-1",
		Name:          "Alice",
		Discriminator: directory.DiscriminatorUser,
		Lang:          "en-us",
		SiteID:        "kitchen",
		SystemUnit:    "metric",
		DateFormat:    "DMY",
		TimeFormat:    "full",
		STTConfig:     map[string]string{"module": "whisper"},
		TTSConfig:     map[string]string{"voice": "alan-low"},
		City:          "Lisbon",
		CityCode:      "LIS",
		Region:        "Lisboa",
		RegionCode:    "11",
		Country:       "Portugal",
		CountryCode:   "PT",
		Timezone:      "Europe/Lisbon",
		Latitude:      38.7223,
		Longitude:     -9.1393,
	}
}

func TestMergeFillsEmptyFields(t *testing.T) {
	merger := NewMerger()

	s := &Session{SessionID: "sess-1"}

	merged := merger.Merge(s, fullUser())

	assert.Equal(t, "sess-1", merged.SessionID)
	assert.Equal(t, "en-us", merged.Lang)
	assert.Equal(t, "kitchen", merged.SiteID)
	assert.Equal(t, "metric", merged.SystemUnit)
	assert.Equal(t, "DMY", merged.DateFormat)
	assert.Equal(t, "full", merged.TimeFormat)
	assert.Equal(t, map[string]string{"module": "whisper"}, merged.STTPreferences)
	assert.Equal(t, map[string]string{"voice": "alan-low"}, merged.TTSPreferences)
}

func TestMergeNeverClobbersCallerValues(t *testing.T) {
	merger := NewMerger()

	s := &Session{
		SessionID:      "sess-1",
		Lang:           "pt-pt",
		SystemUnit:     "imperial",
		STTPreferences: map[string]string{"module": "vosk"},
	}

	merged := merger.Merge(s, fullUser())

	assert.Equal(t, "pt-pt", merged.Lang)
	assert.Equal(t, "imperial", merged.SystemUnit)
	assert.Equal(t, map[string]string{"module": "vosk"}, merged.STTPreferences)

	// empty fields were still filled independently
	assert.Equal(t, "kitchen", merged.SiteID)
	assert.Equal(t, "DMY", merged.DateFormat)
}

func TestMergeIsIdempotent(t *testing.T) {
	merger := NewMerger()

	s := &Session{SessionID: "sess-1", Lang: "pt-pt"}
	user := fullUser()

	once := merger.Merge(s, user)
	twice := merger.Merge(once, user)

	assert.Equal(t, once, twice)
}

func TestMergeIsPure(t *testing.T) {
	merger := NewMerger()

	s := &Session{SessionID: "sess-1"}

	_ = merger.Merge(s, fullUser())

	// input session is untouched
	assert.Empty(t, s.Lang)
	assert.Nil(t, s.Location)
}

func TestMergeAssemblesLocationAtomically(t *testing.T) {
	merger := NewMerger()

	merged := merger.Merge(&Session{SessionID: "sess-1"}, fullUser())

	require.NotNil(t, merged.Location)
	assert.Equal(t, "Lisbon", merged.Location.City.Name)
	assert.Equal(t, "LIS", merged.Location.City.Code)
	assert.Equal(t, "Lisboa", merged.Location.City.State.Name)
	assert.Equal(t, "Portugal", merged.Location.City.State.Country.Name)
	assert.Equal(t, "PT", merged.Location.City.State.Country.Code)
	assert.Equal(t, "Europe/Lisbon", merged.Location.Timezone.Code)
	assert.InDelta(t, 38.7223, merged.Location.Coordinate.Latitude, 1e-9)
	assert.InDelta(t, -9.1393, merged.Location.Coordinate.Longitude, 1e-9)
}

func TestMergeKeepsExistingLocationWhole(t *testing.T) {
	merger := NewMerger()

	s := &Session{
		SessionID: "sess-1",
		Location: &Location{
			City: City{Name: "Porto"},
		},
	}

	merged := merger.Merge(s, fullUser())

	assert.Equal(t, "Porto", merged.Location.City.Name)
	// no partial fill of the nested structure
	assert.Empty(t, merged.Location.Timezone.Code)
}

func TestMergeSkipsEmptyUserLocation(t *testing.T) {
	merger := NewMerger()

	user := &directory.User{UserID: "u-2", Lang: "en-us"}

	merged := merger.Merge(&Session{SessionID: "sess-1"}, user)

	assert.Nil(t, merged.Location)
}

func TestMergeNilInputs(t *testing.T) {
	merger := NewMerger()

	assert.Nil(t, merger.Merge(nil, fullUser()))

	s := &Session{SessionID: "sess-1", Lang: "pt-pt"}
	assert.Equal(t, s, merger.Merge(s, nil))
}
