package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ RedisInterface = (*RedisClient)(nil)
var _ RedisInterface = (*MockRedisClient)(nil)

func TestMockRedisClient(t *testing.T) {
	ctx := context.Background()
	m := NewMockRedisClient()

	_, err := m.GetPage(ctx, "index.html")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, m.SetPage(ctx, "index.html", "<html></html>", time.Minute))
	html, err := m.GetPage(ctx, "index.html")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", html)

	require.NoError(t, m.DeletePage(ctx, "index.html"))
	_, err = m.GetPage(ctx, "index.html")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, m.SetPage(ctx, "a.html", "a", 0))
	require.NoError(t, m.SetPage(ctx, "b.html", "b", 0))
	require.NoError(t, m.ClearPages(ctx))
	_, err = m.GetPage(ctx, "a.html")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMockRedisClientExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMockRedisClient()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.SetPage(ctx, "index.html", "x", time.Minute))
	now = now.Add(59 * time.Second)
	_, err := m.GetPage(ctx, "index.html")
	assert.NoError(t, err)

	now = now.Add(time.Second)
	_, err = m.GetPage(ctx, "index.html")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisClientKey(t *testing.T) {
	r := &RedisClient{prefix: "titan:page:"}
	assert.Equal(t, r.key("index.html"), r.key("index.html"))
	assert.NotEqual(t, r.key("index.html"), r.key("blog.html"))
	assert.Len(t, r.key("index.html"), len("titan:page:")+64)
}
