package session

import "github.com/w-h-a/identity/directory"

// Merger projects a user's stored preferences onto a session. Each field
// is filled only if the session left it empty; caller-set values always
// win. Merging the same pair twice yields the same session, so retries
// are harmless.
type Merger struct{}

func (m *Merger) Merge(s *Session, user *directory.User) *Session {
	if s == nil || user == nil {
		return s
	}

	merged := *s

	if len(merged.Lang) == 0 {
		merged.Lang = user.Lang
	}
	if len(merged.SiteID) == 0 {
		merged.SiteID = user.SiteID
	}
	if len(merged.STTPreferences) == 0 && len(user.STTConfig) > 0 {
		merged.STTPreferences = copyMap(user.STTConfig)
	}
	if len(merged.TTSPreferences) == 0 && len(user.TTSConfig) > 0 {
		merged.TTSPreferences = copyMap(user.TTSConfig)
	}
	if len(merged.SystemUnit) == 0 {
		merged.SystemUnit = user.SystemUnit
	}
	if len(merged.DateFormat) == 0 {
		merged.DateFormat = user.DateFormat
	}
	if len(merged.TimeFormat) == 0 {
		merged.TimeFormat = user.TimeFormat
	}

	// the nested location is assembled in one shot from the record's flat
	// fields; a session that already carries a location keeps all of it
	if merged.Location == nil {
		if loc := assembleLocation(user); loc != nil {
			merged.Location = loc
		}
	}

	return &merged
}

func assembleLocation(user *directory.User) *Location {
	empty := len(user.City) == 0 && len(user.CityCode) == 0 &&
		len(user.Region) == 0 && len(user.RegionCode) == 0 &&
		len(user.Country) == 0 && len(user.CountryCode) == 0 &&
		len(user.Timezone) == 0 &&
		user.Latitude == 0 && user.Longitude == 0
	if empty {
		return nil
	}

	return &Location{
		City: City{
			Name: user.City,
			Code: user.CityCode,
			State: State{
				Name: user.Region,
				Code: user.RegionCode,
				Country: Country{
					Name: user.Country,
					Code: user.CountryCode,
				},
			},
		},
		Coordinate: Coordinate{
			Latitude:  user.Latitude,
			Longitude: user.Longitude,
		},
		Timezone: Timezone{
			Code: user.Timezone,
		},
	}
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func NewMerger() *Merger {
	return &Merger{}
}
