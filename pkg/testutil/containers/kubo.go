//go:build integration

package containers

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// KuboContainer wraps a testcontainers IPFS (Kubo) instance.
type KuboContainer struct {
	Container testcontainers.Container
	APIAddr   string
}

// NewKuboContainer starts a Kubo node and returns the mapped API address.
func NewKuboContainer(t *testing.T) *KuboContainer {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "ipfs/kubo:v0.29.0",
		ExposedPorts: []string{"5001/tcp"},
		WaitingFor:   wait.ForListeningPort("5001/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start kubo container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get kubo host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5001")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get kubo api port: %v", err)
	}

	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	return &KuboContainer{
		Container: container,
		APIAddr:   host + ":" + port.Port(),
	}
}
