//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisCache(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	cache := NewRedisCache(fmt.Sprintf("%s:%s", host, port.Port()), "", 0)
	t.Cleanup(func() { _ = cache.Close() })
	require.NoError(t, cache.Ping(ctx))

	_, ok, err := cache.Get(ctx, "loan-decision:missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "loan-decision:1", `{"ok":true}`, time.Minute))
	val, ok, err := cache.Get(ctx, "loan-decision:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"ok":true}`, val)

	require.NoError(t, cache.Delete(ctx, "loan-decision:1"))
	_, ok, err = cache.Get(ctx, "loan-decision:1")
	require.NoError(t, err)
	assert.False(t, ok)
}
