package directory

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("user not found")

// Discriminator is the identity type of a stored record.
type Discriminator string

const (
	DiscriminatorUser  Discriminator = "user"
	DiscriminatorAgent Discriminator = "agent"
	DiscriminatorGroup Discriminator = "group"
	DiscriminatorRole  Discriminator = "role"
)

// User is a stored preference record. It is treated as an immutable
// snapshot by everything downstream of a lookup.
type User struct {
	UserID        string
	Name          string
	Discriminator Discriminator
	Aliases       []string
	ExternalIDs   map[string]string

	// At runtime, user-aware callers can require a minimum auth level.
	AuthLevel  int
	AuthPhrase string

	// Location
	SiteID      string
	City        string
	CityCode    string
	Region      string
	RegionCode  string
	Country     string
	CountryCode string
	Timezone    string
	Latitude    float64
	Longitude   float64

	// Preferences
	Lang           string
	SecondaryLangs []string
	SystemUnit     string
	TimeFormat     string
	DateFormat     string
	STTConfig      map[string]string
	TTSConfig      map[string]string

	// Contact info
	Email       string
	PhoneNumber string
}

// Directory resolves user records. Implementations guarantee user_id
// uniqueness but not alias or auth-phrase uniqueness; list-returning
// lookups preserve the directory's insertion order so that callers can
// resolve ambiguity deterministically.
type Directory interface {
	Get(ctx context.Context, userID string) (*User, error)
	FindByPassphrase(ctx context.Context, phrase string) ([]*User, error)
	FindByAliasOrID(ctx context.Context, nameOrAlias string) ([]*User, error)
	List(ctx context.Context) ([]*User, error)
	Add(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	Delete(ctx context.Context, userID string) error
}
