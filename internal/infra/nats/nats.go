package natsclient

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sifan077/linkpulse/config"
	"go.uber.org/zap"
)

const (
	defaultHost           = "localhost"
	defaultPort           = 4222
	defaultConnectTimeout = 5 * time.Second
	reconnectWait         = 2 * time.Second

	// maxPendingPublishes caps in-flight async publishes before PublishAsync starts blocking.
	maxPendingPublishes = 256
)

// Connect dials NATS and opens a JetStream context for click events.
// The connection keeps reconnecting forever; state changes are logged.
func Connect(cfg config.NATSConfig, log *zap.Logger) (*nats.Conn, nats.JetStreamContext, error) {
	if log == nil {
		log = zap.NewNop()
	}

	conn, err := nats.Connect(URL(cfg), Options(cfg, log)...)
	if err != nil {
		return nil, nil, fmt.Errorf("nats: connect: %w", err)
	}

	js, err := conn.JetStream(nats.PublishAsyncMaxPending(maxPendingPublishes))
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("nats: init jetstream: %w", err)
	}

	return conn, js, nil
}

// Options returns the connection options used by Connect.
func Options(cfg config.NATSConfig, log *zap.Logger) []nats.Option {
	if log == nil {
		log = zap.NewNop()
	}
	opts := []nats.Option{
		nats.Name("linkpulse"),
		nats.Timeout(defaultConnectTimeout),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(reconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", nc.ConnectedUrlRedacted()))
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			log.Info("nats connection closed")
		}),
	}

	if cfg.User != "" {
		opts = append(opts, nats.UserInfo(cfg.User, cfg.Password))
	}
	return opts
}

// URL returns the nats:// address for cfg, defaulting to localhost:4222.
func URL(cfg config.NATSConfig) string {
	host := cfg.Host
	if host == "" {
		host = defaultHost
	}
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}
	return "nats://" + net.JoinHostPort(host, strconv.Itoa(port))
}
