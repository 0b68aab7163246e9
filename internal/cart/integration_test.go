package cart_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"foodbooking/internal/cart"
)

// TestStoreAgainstRealRedis exercises the cart store against an actual
// redis server, TTL behavior included. miniredis covers the fast path;
// this one needs Docker and is skipped in short mode.
func TestStoreAgainstRealRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:latest",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}
	defer redisContainer.Terminate(ctx)

	host, err := redisContainer.Host(ctx)
	require.NoError(t, err)
	port, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	defer client.Close()

	store := cart.NewStore(client, 2*time.Second)

	saved := cart.Cart{10: 2, 11: 1}
	require.NoError(t, store.Save(ctx, "sess1", saved))

	loaded, err := store.Get(ctx, "sess1")
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	// The key expires with the configured TTL.
	time.Sleep(3 * time.Second)
	expired, err := store.Get(ctx, "sess1")
	require.NoError(t, err)
	assert.Empty(t, expired)
}
