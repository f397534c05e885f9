package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/w-h-a/identity/directory"
)

type memoryDirectory struct {
	options directory.Options
	users   map[string]*directory.User
	order   []string
	mtx     sync.RWMutex
}

func (m *memoryDirectory) Get(ctx context.Context, userID string) (*directory.User, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	user, ok := m.users[userID]
	if !ok {
		return nil, directory.ErrNotFound
	}

	return clone(user), nil
}

func (m *memoryDirectory) FindByPassphrase(ctx context.Context, phrase string) ([]*directory.User, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	var found []*directory.User

	for _, id := range m.order {
		user := m.users[id]
		if len(user.AuthPhrase) == 0 {
			continue
		}
		if strings.EqualFold(user.AuthPhrase, phrase) {
			found = append(found, clone(user))
		}
	}

	return found, nil
}

func (m *memoryDirectory) FindByAliasOrID(ctx context.Context, nameOrAlias string) ([]*directory.User, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	var found []*directory.User

	for _, id := range m.order {
		user := m.users[id]
		if user.UserID == nameOrAlias || strings.EqualFold(user.Name, nameOrAlias) {
			found = append(found, clone(user))
			continue
		}
		for _, alias := range user.Aliases {
			if strings.EqualFold(alias, nameOrAlias) {
				found = append(found, clone(user))
				break
			}
		}
	}

	return found, nil
}

func (m *memoryDirectory) List(ctx context.Context) ([]*directory.User, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	users := make([]*directory.User, 0, len(m.order))
	for _, id := range m.order {
		users = append(users, clone(m.users[id]))
	}

	return users, nil
}

func (m *memoryDirectory) Add(ctx context.Context, user *directory.User) (*directory.User, error) {
	if err := validate(user); err != nil {
		return nil, err
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	cpy := clone(user)

	if len(cpy.UserID) == 0 {
		cpy.UserID = uuid.New().String()
	} else if _, exists := m.users[cpy.UserID]; exists {
		return nil, fmt.Errorf("user %s already exists", cpy.UserID)
	}

	m.users[cpy.UserID] = cpy
	m.order = append(m.order, cpy.UserID)

	return clone(cpy), nil
}

func (m *memoryDirectory) Update(ctx context.Context, user *directory.User) (*directory.User, error) {
	if err := validate(user); err != nil {
		return nil, err
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	if _, ok := m.users[user.UserID]; !ok {
		return nil, directory.ErrNotFound
	}

	cpy := clone(user)
	m.users[cpy.UserID] = cpy

	return clone(cpy), nil
}

func (m *memoryDirectory) Delete(ctx context.Context, userID string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if _, ok := m.users[userID]; !ok {
		return directory.ErrNotFound
	}

	delete(m.users, userID)

	for i, id := range m.order {
		if id == userID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
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

func clone(user *directory.User) *directory.User {
	cpy := *user

	cpy.Aliases = append([]string(nil), user.Aliases...)
	cpy.SecondaryLangs = append([]string(nil), user.SecondaryLangs...)

	if user.ExternalIDs != nil {
		cpy.ExternalIDs = make(map[string]string, len(user.ExternalIDs))
		for k, v := range user.ExternalIDs {
			cpy.ExternalIDs[k] = v
		}
	}
	if user.STTConfig != nil {
		cpy.STTConfig = make(map[string]string, len(user.STTConfig))
		for k, v := range user.STTConfig {
			cpy.STTConfig[k] = v
		}
	}
	if user.TTSConfig != nil {
		cpy.TTSConfig = make(map[string]string, len(user.TTSConfig))
		for k, v := range user.TTSConfig {
			cpy.TTSConfig[k] = v
		}
	}

	return &cpy
}

func NewDirectory(opts ...directory.Option) directory.Directory {
	options := directory.NewOptions(opts...)

	m := &memoryDirectory{
		options: options,
		users:   map[string]*directory.User{},
		order:   []string{},
		mtx:     sync.RWMutex{},
	}

	return m
}
