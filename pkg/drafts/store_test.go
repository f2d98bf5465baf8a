package drafts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing draft loads empty", func(t *testing.T) {
		got, err := store.Load(ctx, "loginForm")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("save drops empty values", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "registerForm", map[string]string{
			"firstName": "Jane",
			"lastName":  "",
			"phone":     "+1 234",
		}))
		got, err := store.Load(ctx, "registerForm")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"firstName": "Jane", "phone": "+1 234"}, got)
	})

	t.Run("save replaces previous draft", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "registerForm", map[string]string{"lastName": "Doe"}))
		got, err := store.Load(ctx, "registerForm")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"lastName": "Doe"}, got)
	})

	t.Run("forms are isolated", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "loginForm", map[string]string{"loginEmail": "a@b.com"}))
		got, err := store.Load(ctx, "registerForm")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"lastName": "Doe"}, got)
	})

	t.Run("saving nothing clears", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "loginForm", map[string]string{"loginEmail": ""}))
		got, err := store.Load(ctx, "loginForm")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx, "registerForm"))
		require.NoError(t, store.Clear(ctx, "registerForm"))
		got, err := store.Load(ctx, "registerForm")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("blank form id", func(t *testing.T) {
		_, err := store.Load(ctx, " ")
		assert.ErrorIs(t, err, ErrFormIDRequired)
		assert.ErrorIs(t, store.Save(ctx, "", map[string]string{"a": "b"}), ErrFormIDRequired)
		assert.ErrorIs(t, store.Clear(ctx, ""), ErrFormIDRequired)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemory())
}

func TestMemoryStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemory().Load(ctx, "loginForm")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFileStore(t *testing.T) {
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)
	runStoreContract(t, store)
}

func TestFileStoreCorruptPayload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFile(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "loginForm_data.json"), []byte("{not json"), 0o600))
	got, err := store.Load(context.Background(), "loginForm")
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Empty(t, got)
}

func TestFileStoreSanitisesFileNames(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFile(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), "../escape", map[string]string{"a": "b"}))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "___escape_data.json", entries[0].Name())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := NewRedis(client, WithKeyPrefix("authform:"), WithTTL(time.Hour))
	require.NoError(t, err)
	runStoreContract(t, store)

	require.NoError(t, store.Save(context.Background(), "loginForm", map[string]string{"loginEmail": "a@b.com"}))
	assert.True(t, mr.Exists("authform:loginForm_data"))
	assert.Equal(t, time.Hour, mr.TTL("authform:loginForm_data"))

	mr.FastForward(2 * time.Hour)
	got, err := store.Load(context.Background(), "loginForm")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewRedisRequiresClient(t *testing.T) {
	_, err := NewRedis(nil)
	assert.Error(t, err)
}

func TestSQLStore(t *testing.T) {
	db, err := OpenSQLite("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)

	store, err := NewSQL(db)
	require.NoError(t, err)
	runStoreContract(t, store)
}

func TestFilterSkipsSecrets(t *testing.T) {
	mem := NewMemory()
	store := Filter{
		Store: mem,
		Skip: func(_, fieldID string) bool {
			return fieldID == "registerPassword"
		},
	}
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "registerForm", map[string]string{
		"registerEmail":    "a@b.com",
		"registerPassword": "Secret12!",
	}))
	got, err := mem.Load(ctx, "registerForm")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"registerEmail": "a@b.com"}, got)
}

func TestCompact(t *testing.T) {
	assert.Nil(t, Compact(nil))
	assert.Nil(t, Compact(map[string]string{"a": ""}))
	assert.Equal(t, map[string]string{"a": "1"}, Compact(map[string]string{"a": "1", "b": "", "": "x"}))
}

func TestScopedIsolatesClients(t *testing.T) {
	mem := NewMemory()
	alice := Scoped{Store: mem, Scope: "alice"}
	bob := Scoped{Store: mem, Scope: "bob"}
	ctx := context.Background()

	runStoreContract(t, alice)

	require.NoError(t, alice.Save(ctx, "loginForm", map[string]string{"loginEmail": "alice@example.com"}))
	got, err := bob.Load(ctx, "loginForm")
	require.NoError(t, err)
	assert.Empty(t, got)

	raw, err := mem.Load(ctx, "alice:loginForm")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"loginEmail": "alice@example.com"}, raw)

	_, err = alice.Load(ctx, " ")
	assert.ErrorIs(t, err, ErrFormIDRequired)
}
