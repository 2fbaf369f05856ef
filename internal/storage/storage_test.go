package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ObjectStore = (*R2)(nil)
	_ ObjectStore = (*Memory)(nil)
)

func TestNewKey(t *testing.T) {
	key := NewKey(ProfilePictures, "Me.JPG")
	assert.True(t, strings.HasPrefix(key, "profile_pics/"), key)
	assert.True(t, strings.HasSuffix(key, ".jpg"), key)
	assert.NotEqual(t, key, NewKey(ProfilePictures, "Me.JPG"))

	assert.NotContains(t, NewKey(LessonMaterials, "notes"), ".")
}

func TestR2ConfigEnabled(t *testing.T) {
	assert.False(t, R2Config{}.Enabled())
	assert.False(t, R2Config{AccountID: "a", Bucket: "b", AccessKey: "c"}.Enabled())
	assert.True(t, R2Config{AccountID: "a", Bucket: "b", AccessKey: "c", SecretKey: "d"}.Enabled())
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("http://localhost:8080/media/")

	require.NoError(t, m.Put(ctx, "a/b.txt", "text/plain", []byte("hi")))
	data, err := m.Get(ctx, "a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))
	assert.Equal(t, "text/plain", m.ContentType("a/b.txt"))
	assert.Equal(t, "http://localhost:8080/media/a/b.txt", m.URL("a/b.txt"))

	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Delete(ctx, "a/b.txt"))
	assert.Zero(t, m.Len())
	_, err = m.Get(ctx, "a/b.txt")
	assert.True(t, errors.Is(err, ErrObjectNotFound))

	assert.Equal(t, "/x", NewMemory("").URL("x"))
}
