package persistence_test

import (
	"context"
	"testing"
	"time"

	"messaging-service/ddd/infrastructure/database/persistence"
	"messaging-service/ddd/infrastructure/database/po"
	"messaging-service/internal/testutil"
	"messaging-service/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserDirectory_GetIdentitiesOmitsUnknown(t *testing.T) {
	db := testutil.NewTestDB(t)
	alice := testutil.SeedUser(t, db, "alice", "user", true)
	bob := testutil.SeedUser(t, db, "bob", "admin", true)
	dir := persistence.NewUserDirectory(db, nil)
	ctx := context.Background()

	found, err := dir.GetIdentities(ctx, []uint64{alice, bob, 999})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "alice", found[alice].Name)
	assert.True(t, found[bob].IsAdmin())

	none, err := dir.GetIdentity(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestUserDirectory_ListActiveUserIDs(t *testing.T) {
	db := testutil.NewTestDB(t)
	a := testutil.SeedUser(t, db, "a", "user", true)
	testutil.SeedUser(t, db, "b", "user", false)
	c := testutil.SeedUser(t, db, "c", "admin", true)

	ids, err := persistence.NewUserDirectory(db, nil).ListActiveUserIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint64{a, c}, ids)
}

func TestUserDirectory_CachesIdentitiesUntilTTL(t *testing.T) {
	db := testutil.NewTestDB(t)
	id := testutil.SeedUser(t, db, "alice", "user", true)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := cache.NewMemoryStore(time.Minute, func() time.Time { return now })
	dir := persistence.NewUserDirectory(db, store)
	ctx := context.Background()

	u, err := dir.GetIdentity(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, 1, store.Len())

	require.NoError(t, db.Model(&po.User{}).Where("id = ?", id).Update("name", "renamed").Error)

	u, err = dir.GetIdentity(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Name, "served from cache within ttl")

	now = now.Add(time.Minute)
	u, err = dir.GetIdentity(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "renamed", u.Name)
}
