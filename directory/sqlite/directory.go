package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/w-h-a/identity/directory"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	discriminator TEXT NOT NULL,
	aliases TEXT NOT NULL DEFAULT '[]',
	external_ids TEXT NOT NULL DEFAULT '{}',
	auth_level INTEGER NOT NULL DEFAULT 0,
	auth_phrase TEXT NOT NULL DEFAULT '',
	site_id TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	city_code TEXT NOT NULL DEFAULT '',
	region TEXT NOT NULL DEFAULT '',
	region_code TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	country_code TEXT NOT NULL DEFAULT '',
	timezone TEXT NOT NULL DEFAULT '',
	latitude REAL NOT NULL DEFAULT 0,
	longitude REAL NOT NULL DEFAULT 0,
	lang TEXT NOT NULL DEFAULT '',
	secondary_langs TEXT NOT NULL DEFAULT '[]',
	system_unit TEXT NOT NULL DEFAULT '',
	time_format TEXT NOT NULL DEFAULT '',
	date_format TEXT NOT NULL DEFAULT '',
	stt_config TEXT NOT NULL DEFAULT '{}',
	tts_config TEXT NOT NULL DEFAULT '{}',
	email TEXT NOT NULL DEFAULT '',
	phone_number TEXT NOT NULL DEFAULT ''
)`

const columns = `
	user_id, name, discriminator, aliases, external_ids,
	auth_level, auth_phrase,
	site_id, city, city_code, region, region_code, country, country_code,
	timezone, latitude, longitude,
	lang, secondary_langs, system_unit, time_format, date_format,
	stt_config, tts_config, email, phone_number
`

type sqliteDirectory struct {
	options directory.Options
	conn    *sql.DB
}

func (s *sqliteDirectory) Get(ctx context.Context, userID string) (*directory.User, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+columns+` FROM users WHERE user_id = ?`, userID)

	user, err := scan(row)
	if err == sql.ErrNoRows {
		return nil, directory.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Both lookups match in Go rather than in SQL: sqlite's LIKE and LOWER
// only fold ASCII, and aliases is a JSON-encoded column. Scanning keeps
// Unicode case folding identical to the in-memory backend.

func (s *sqliteDirectory) FindByPassphrase(ctx context.Context, phrase string) ([]*directory.User, error) {
	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var found []*directory.User

	for _, user := range users {
		if len(user.AuthPhrase) == 0 {
			continue
		}
		if strings.EqualFold(user.AuthPhrase, phrase) {
			found = append(found, user)
		}
	}

	return found, nil
}

func (s *sqliteDirectory) FindByAliasOrID(ctx context.Context, nameOrAlias string) ([]*directory.User, error) {
	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var found []*directory.User

	for _, user := range users {
		if user.UserID == nameOrAlias || strings.EqualFold(user.Name, nameOrAlias) {
			found = append(found, user)
			continue
		}
		for _, alias := range user.Aliases {
			if strings.EqualFold(alias, nameOrAlias) {
				found = append(found, user)
				break
			}
		}
	}

	return found, nil
}

func (s *sqliteDirectory) List(ctx context.Context) ([]*directory.User, error) {
	return s.find(ctx, `SELECT `+columns+` FROM users ORDER BY rowid`)
}

func (s *sqliteDirectory) find(ctx context.Context, query string, args ...any) ([]*directory.User, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*directory.User

	for rows.Next() {
		user, err := scan(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (s *sqliteDirectory) Add(ctx context.Context, user *directory.User) (*directory.User, error) {
	if err := validate(user); err != nil {
		return nil, err
	}

	cpy := *user
	if len(cpy.UserID) == 0 {
		cpy.UserID = uuid.New().String()
	}

	args, err := encode(&cpy)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO users (` + columns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if _, err := s.conn.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}

	return s.Get(ctx, cpy.UserID)
}

func (s *sqliteDirectory) Update(ctx context.Context, user *directory.User) (*directory.User, error) {
	if err := validate(user); err != nil {
		return nil, err
	}

	args, err := encode(user)
	if err != nil {
		return nil, err
	}

	query := `UPDATE users SET
		name = ?, discriminator = ?, aliases = ?, external_ids = ?,
		auth_level = ?, auth_phrase = ?,
		site_id = ?, city = ?, city_code = ?, region = ?, region_code = ?,
		country = ?, country_code = ?, timezone = ?, latitude = ?, longitude = ?,
		lang = ?, secondary_langs = ?, system_unit = ?, time_format = ?, date_format = ?,
		stt_config = ?, tts_config = ?, email = ?, phone_number = ?
		WHERE user_id = ?`

	// user_id moves from first positional arg to the WHERE clause
	res, err := s.conn.ExecContext(ctx, query, append(args[1:], user.UserID)...)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, directory.ErrNotFound
	}

	return s.Get(ctx, user.UserID)
}

func (s *sqliteDirectory) Delete(ctx context.Context, userID string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM users WHERE user_id = ?`, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return directory.ErrNotFound
	}

	return nil
}

func validate(user *directory.User) error {
	switch user.Discriminator {
	case directory.DiscriminatorUser, directory.DiscriminatorAgent, directory.DiscriminatorGroup, directory.DiscriminatorRole:
		return nil
	default:
		return fmt.Errorf("invalid discriminator %q", user.Discriminator)
	}
}

func encode(user *directory.User) ([]any, error) {
	aliases, err := marshal(user.Aliases)
	if err != nil {
		return nil, err
	}
	externalIDs, err := marshal(user.ExternalIDs)
	if err != nil {
		return nil, err
	}
	secondaryLangs, err := marshal(user.SecondaryLangs)
	if err != nil {
		return nil, err
	}
	sttConfig, err := marshal(user.STTConfig)
	if err != nil {
		return nil, err
	}
	ttsConfig, err := marshal(user.TTSConfig)
	if err != nil {
		return nil, err
	}

	return []any{
		user.UserID, user.Name, string(user.Discriminator), aliases, externalIDs,
		user.AuthLevel, user.AuthPhrase,
		user.SiteID, user.City, user.CityCode, user.Region, user.RegionCode,
		user.Country, user.CountryCode, user.Timezone, user.Latitude, user.Longitude,
		user.Lang, secondaryLangs, user.SystemUnit, user.TimeFormat, user.DateFormat,
		sttConfig, ttsConfig, user.Email, user.PhoneNumber,
	}, nil
}

func marshal(v any) (string, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal user field: %w", err)
	}
	return string(bytes), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*directory.User, error) {
	var user directory.User
	var discriminator string
	var aliases, externalIDs, secondaryLangs, sttConfig, ttsConfig string

	err := row.Scan(
		&user.UserID, &user.Name, &discriminator, &aliases, &externalIDs,
		&user.AuthLevel, &user.AuthPhrase,
		&user.SiteID, &user.City, &user.CityCode, &user.Region, &user.RegionCode,
		&user.Country, &user.CountryCode, &user.Timezone, &user.Latitude, &user.Longitude,
		&user.Lang, &secondaryLangs, &user.SystemUnit, &user.TimeFormat, &user.DateFormat,
		&sttConfig, &ttsConfig, &user.Email, &user.PhoneNumber,
	)
	if err != nil {
		return nil, err
	}

	user.Discriminator = directory.Discriminator(discriminator)

	if err := json.Unmarshal([]byte(aliases), &user.Aliases); err != nil {
		user.Aliases = nil
	}
	if err := json.Unmarshal([]byte(externalIDs), &user.ExternalIDs); err != nil {
		user.ExternalIDs = nil
	}
	if err := json.Unmarshal([]byte(secondaryLangs), &user.SecondaryLangs); err != nil {
		user.SecondaryLangs = nil
	}
	if err := json.Unmarshal([]byte(sttConfig), &user.STTConfig); err != nil {
		user.STTConfig = nil
	}
	if err := json.Unmarshal([]byte(ttsConfig), &user.TTSConfig); err != nil {
		user.TTSConfig = nil
	}

	return &user, nil
}

func NewDirectory(opts ...directory.Option) directory.Directory {
	options := directory.NewOptions(opts...)

	s := &sqliteDirectory{
		options: options,
	}

	// file path or :memory:
	conn, err := sql.Open("sqlite", s.options.Location)
	if err != nil {
		detail := "failed to open sqlite directory"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	if _, err := conn.ExecContext(context.Background(), schema); err != nil {
		detail := "failed to migrate sqlite directory"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	s.conn = conn

	return s
}
