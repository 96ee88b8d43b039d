package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/i474232898/weather-locations/internal/weather"
)

var (
	_ weather.Cache = (*MemoryCache)(nil)
	_ weather.Cache = (*RedisCache)(nil)
)

func exerciseCache(t *testing.T, c weather.Cache) {
	ctx := context.Background()

	var miss weather.Place
	hit, err := c.Get(ctx, "geocode:paris", &miss)
	require.NoError(t, err)
	assert.False(t, hit)

	want := weather.Place{Name: "Paris, Île-de-France, France", Region: "Île-de-France", Country: "France", Latitude: 48.85341, Longitude: 2.3488}
	require.NoError(t, c.Set(ctx, "geocode:paris", want, time.Minute))

	var got weather.Place
	hit, err = c.Get(ctx, "geocode:paris", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)
}

func TestMemoryCache(t *testing.T) {
	exerciseCache(t, NewMemoryCache(time.Minute, time.Minute))
}

func TestMemoryCache_Expires(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	var v string
	hit, err := c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("Redis container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := ConnectRedis(fmt.Sprintf("redis://%s:%s/0", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	exerciseCache(t, NewRedisCache(client, "weather:"))
}

func TestConnectRedis_InvalidURL(t *testing.T) {
	_, err := ConnectRedis("not-a-url")
	assert.Error(t, err)
}
