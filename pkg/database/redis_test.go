package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewRedisClient_Connects(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	client, err := NewRedisClient(context.Background(), RedisConfig{Addr: addr})

	assert.Nil(t, client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis")
}

func TestNewRedisClient_TracesCommands(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), RedisConfig{Addr: mr.Addr(), PoolSize: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	exporter := setupTestTracer(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "storefront:s1:cart", "[]", time.Hour).Err())
	assert.ErrorIs(t, client.Get(ctx, "storefront:s1:wishlist").Err(), redis.Nil)
	_, err = client.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, "storefront:s1:toasts", "a")
		p.Expire(ctx, "storefront:s1:toasts", time.Hour)
		return nil
	})
	require.NoError(t, err)

	var spans tracetest.SpanStubs
	for _, s := range exporter.GetSpans() {
		switch s.Name {
		case "redis.set", "redis.get", "redis.pipeline":
			spans = append(spans, s)
		}
	}
	require.Len(t, spans, 3)

	assert.Equal(t, "redis.set", spans[0].Name)
	assert.Equal(t, "redis", spanAttrs(spans[0])["db.system"])

	assert.Equal(t, "redis.get", spans[1].Name)
	assert.Equal(t, codes.Unset, spans[1].Status.Code)

	assert.Equal(t, "redis.pipeline", spans[2].Name)
	assert.Equal(t, "rpush expire", spanAttrs(spans[2])["db.operation"])
	assert.Equal(t, "2", spanAttrs(spans[2])["db.redis.num_cmd"])
}

func TestNewRedisClient_TracesFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	exporter := setupTestTracer(t)
	mr.SetError("LOADING")

	require.Error(t, client.Get(context.Background(), "k").Err())

	spans := exporter.GetSpans()
	require.NotEmpty(t, spans)
	assert.Equal(t, codes.Error, spans[len(spans)-1].Status.Code)
}
