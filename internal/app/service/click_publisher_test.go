package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sifan077/linkpulse/config"
	"github.com/sifan077/linkpulse/internal/app/model"
	natsclient "github.com/sifan077/linkpulse/internal/infra/nats"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startJetStream(t *testing.T) nats.JetStreamContext {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping nats integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "nats:2.10-alpine",
			Cmd:          []string{"-js"},
			ExposedPorts: []string{"4222/tcp"},
			WaitingFor:   wait.ForLog("Server is ready").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start nats container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to resolve container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "4222/tcp")
	if err != nil {
		t.Fatalf("failed to resolve mapped port: %v", err)
	}

	conn, js, err := natsclient.Connect(config.NATSConfig{Host: host, Port: port.Int()}, nil)
	if err != nil {
		t.Fatalf("failed to connect to nats: %v", err)
	}
	t.Cleanup(conn.Close)
	return js
}

func TestClickPublisher_PublishesToStream(t *testing.T) {
	js := startJetStream(t)
	publisher := NewClickPublisher(js)

	if err := publisher.EnsureStream(); err != nil {
		t.Fatalf("EnsureStream error: %v", err)
	}
	// Second call finds the existing stream.
	if err := publisher.EnsureStream(); err != nil {
		t.Fatalf("EnsureStream (existing) error: %v", err)
	}

	sub, err := js.SubscribeSync(model.ClickStreamSubject, nats.DeliverAll())
	if err != nil {
		t.Fatalf("SubscribeSync error: %v", err)
	}

	event := model.ClickEvent{ID: "evt-1", LinkID: 7, ShortCode: "abc123", IP: "10.0.0.1", UserAgent: "ua", Timestamp: time.Now().UTC()}
	if err := publisher.Publish(event); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	select {
	case <-js.PublishAsyncComplete():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for publish acknowledgement")
	}

	msg, err := sub.NextMsg(5 * time.Second)
	if err != nil {
		t.Fatalf("NextMsg error: %v", err)
	}
	var got model.ClickEvent
	if err := json.Unmarshal(msg.Data, &got); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if got.ID != "evt-1" || got.LinkID != 7 || got.ShortCode != "abc123" {
		t.Fatalf("unexpected event %+v", got)
	}
}
