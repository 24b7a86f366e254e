//go:build integration

package profile

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedisContainer(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() {
		client.Close()
		container.Terminate(ctx)
	})

	return client
}

func TestIntegration_ProfileRoundTrip(t *testing.T) {
	rdb := setupRedisContainer(t)
	store := NewStore(rdb)
	ctx := context.Background()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	ash := &Identity{UID: "ash", Email: "ash@example.com"}
	gary := &Identity{UID: "gary", Email: "gary@example.com"}

	if err := store.SaveTeam(ctx, ash, TeamRed); err != nil {
		t.Fatalf("SaveTeam(ash) failed: %v", err)
	}
	if err := store.SaveTeam(ctx, gary, TeamBlue); err != nil {
		t.Fatalf("SaveTeam(gary) failed: %v", err)
	}

	p, err := store.GetProfile(ctx, ash)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if p.Team != TeamRed {
		t.Errorf("ash team = %q, want %q", p.Team, TeamRed)
	}

	p, err = store.GetProfile(ctx, gary)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if p.Team != TeamBlue {
		t.Errorf("gary team = %q, want %q", p.Team, TeamBlue)
	}
}
