package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(ttl time.Duration, capacity int) (*SessionStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewSessionStore(ttl, capacity)
	store.now = clock.Now
	return store, clock
}

func TestSessionStore_PutGet(t *testing.T) {
	store, _ := newTestStore(time.Minute, 4)

	upload := store.Put("user_1", "iris.csv", []byte("a,b\n1,2\n"))
	require.NotEqual(t, uuid.Nil, upload.ID)

	got, err := store.Get(upload.ID, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "iris.csv", got.Filename)
	assert.Equal(t, []byte("a,b\n1,2\n"), got.Data)
	assert.Equal(t, 1, store.Len())
}

func TestSessionStore_UnknownID(t *testing.T) {
	store, _ := newTestStore(time.Minute, 4)

	_, err := store.Get(uuid.New(), "user_1")
	assert.ErrorIs(t, err, ErrUploadNotFound)
}

func TestSessionStore_OwnerCheck(t *testing.T) {
	store, _ := newTestStore(time.Minute, 4)
	upload := store.Put("user_1", "iris.csv", []byte("x"))

	_, err := store.Get(upload.ID, "user_2")
	assert.ErrorIs(t, err, ErrUploadForbidden)

	err = store.Delete(upload.ID, "user_2")
	assert.ErrorIs(t, err, ErrUploadForbidden)
	assert.Equal(t, 1, store.Len(), "forbidden delete must not remove the upload")
}

func TestSessionStore_Expiry(t *testing.T) {
	store, clock := newTestStore(10*time.Minute, 4)
	upload := store.Put("", "iris.csv", []byte("x"))

	clock.Advance(9 * time.Minute)
	_, err := store.Get(upload.ID, "")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = store.Get(upload.ID, "")
	assert.ErrorIs(t, err, ErrUploadNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestSessionStore_EvictsOldestAtCapacity(t *testing.T) {
	store, clock := newTestStore(time.Hour, 2)

	first := store.Put("", "a.csv", []byte("a"))
	clock.Advance(time.Second)
	second := store.Put("", "b.csv", []byte("b"))
	clock.Advance(time.Second)
	third := store.Put("", "c.csv", []byte("c"))

	assert.Equal(t, 2, store.Len())

	_, err := store.Get(first.ID, "")
	assert.ErrorIs(t, err, ErrUploadNotFound)

	for _, id := range []uuid.UUID{second.ID, third.ID} {
		_, err := store.Get(id, "")
		assert.NoError(t, err)
	}
}

func TestSessionStore_Delete(t *testing.T) {
	store, _ := newTestStore(time.Minute, 4)
	upload := store.Put("user_1", "iris.csv", []byte("x"))

	require.NoError(t, store.Delete(upload.ID, "user_1"))

	_, err := store.Get(upload.ID, "user_1")
	assert.ErrorIs(t, err, ErrUploadNotFound)
	assert.ErrorIs(t, store.Delete(upload.ID, "user_1"), ErrUploadNotFound)
}

func TestNewSessionStore_Defaults(t *testing.T) {
	store := NewSessionStore(0, 0)
	assert.Equal(t, 30*time.Minute, store.ttl)
	assert.Equal(t, 64, store.capacity)
}
