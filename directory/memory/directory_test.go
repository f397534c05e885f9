package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/identity/directory"
)

func TestAddAndGet(t *testing.T) {
	ctx := context.Background()
	dir := NewDirectory()

	added, err := dir.Add(ctx, &directory.User{
		Name:          "Alice",
		Discriminator: directory.DiscriminatorUser,
		AuthPhrase:    "open sesame",
	})
	require.NoError(t, err)
	require.NotEmpty(t, added.UserID)

	got, err := dir.Get(ctx, added.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "open sesame", got.AuthPhrase)
}

func TestGetUnknown(t *testing.T) {
	ctx := context.Background()
	dir := NewDirectory()

	_, err := dir.Get(ctx, "nobody")
	assert.ErrorIs(t, err, directory.ErrNotFound)
}

func TestAddRejectsBadDiscriminator(t *testing.T) {
	ctx := context.Background()
	dir := NewDirectory()

	_, err := dir.Add(ctx, &directory.User{Name: "Odd", Discriminator: "robot"})
	assert.Error(t, err)
}

func TestFindByPassphraseIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	dir := NewDirectory()

	_, err := dir.Add(ctx, &directory.User{
		Name:          "Alice",
		Discriminator: directory.DiscriminatorUser,
		AuthPhrase:    "Open Sesame",
	})
	require.NoError(t, err)

	found, err := dir.FindByPassphrase(ctx, "open sesame")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Alice", found[0].Name)
}

func TestFindByPassphraseIgnoresEmptyPhrases(t *testing.T) {
	ctx := context.Background()
	dir := NewDirectory()

	_, err := dir.Add(ctx, &directory.User{Name: "NoPhrase", Discriminator: directory.DiscriminatorUser})
	require.NoError(t, err)

	found, err := dir.FindByPassphrase(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFindByPassphrasePreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	dir := NewDirectory()

	first, err := dir.Add(ctx, &directory.User{
		Name:          "First",
		Discriminator: directory.DiscriminatorUser,
		AuthPhrase:    "shared phrase",
	})
	require.NoError(t, err)

	_, err = dir.Add(ctx, &directory.User{
		Name:          "Second",
		Discriminator: directory.DiscriminatorUser,
		AuthPhrase:    "shared phrase",
	})
	require.NoError(t, err)

	found, err := dir.FindByPassphrase(ctx, "shared phrase")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, first.UserID, found[0].UserID)
}

func TestFindByAliasOrID(t *testing.T) {
	ctx := context.Background()
	dir := NewDirectory()

	added, err := dir.Add(ctx, &directory.User{
		Name:          "Alice",
		Discriminator: directory.DiscriminatorUser,
		Aliases:       []string{"Ally", "Big A"},
	})
	require.NoError(t, err)

	byID, err := dir.FindByAliasOrID(ctx, added.UserID)
	require.NoError(t, err)
	require.Len(t, byID, 1)

	byName, err := dir.FindByAliasOrID(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, byName, 1)

	byAlias, err := dir.FindByAliasOrID(ctx, "ally")
	require.NoError(t, err)
	require.Len(t, byAlias, 1)

	none, err := dir.FindByAliasOrID(ctx, "zed")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReturnedRecordsAreSnapshots(t *testing.T) {
	ctx := context.Background()
	dir := NewDirectory()

	added, err := dir.Add(ctx, &directory.User{
		Name:          "Alice",
		Discriminator: directory.DiscriminatorUser,
		STTConfig:     map[string]string{"module": "whisper"},
	})
	require.NoError(t, err)

	added.STTConfig["module"] = "mutated"
	added.Name = "Mallory"

	got, err := dir.Get(ctx, added.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "whisper", got.STTConfig["module"])
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	dir := NewDirectory()

	added, err := dir.Add(ctx, &directory.User{Name: "Alice", Discriminator: directory.DiscriminatorUser})
	require.NoError(t, err)

	added.Lang = "pt-pt"
	updated, err := dir.Update(ctx, added)
	require.NoError(t, err)
	assert.Equal(t, "pt-pt", updated.Lang)

	require.NoError(t, dir.Delete(ctx, added.UserID))

	_, err = dir.Get(ctx, added.UserID)
	assert.ErrorIs(t, err, directory.ErrNotFound)

	assert.ErrorIs(t, dir.Delete(ctx, added.UserID), directory.ErrNotFound)
}

func TestListPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	dir := NewDirectory()

	names := []string{"c", "a", "b"}
	for _, name := range names {
		_, err := dir.Add(ctx, &directory.User{Name: name, Discriminator: directory.DiscriminatorUser})
		require.NoError(t, err)
	}

	users, err := dir.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	for i, name := range names {
		assert.Equal(t, name, users[i].Name)
	}
}
