// Package publish notifies downstream consumers about written snapshots
// over NATS. Publishing is best effort and fully optional: a nil Publisher
// is valid and drops every event.
package publish

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/nordrail/traintrips/config"
	"github.com/nordrail/traintrips/metrics"
)

// SnapshotEvent is the wire payload for one written snapshot file.
type SnapshotEvent struct {
	Path      string    `json:"path"`
	Rows      int       `json:"rows"`
	Step      string    `json:"step"`
	WrittenAt time.Time `json:"written_at"`
}

type Publisher struct {
	conn    *nats.Conn
	prefix  string
	logger  *slog.Logger
	metrics *metrics.Collector
}

// Connect opens the NATS connection, or returns (nil, nil) when no URL is
// configured. Callers use the returned Publisher even when nil.
func Connect(cfg config.NATSConfig, m *metrics.Collector, logger *slog.Logger) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	conn, err := nats.Connect(cfg.URL,
		nats.Name("traintrips"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			m.NATSConnected.Set(0)
			if err != nil {
				logger.Warn("nats disconnected", "error", err.Error())
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			m.NATSConnected.Set(1)
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	m.NATSConnected.Set(1)
	logger.Info("nats connected", "url", cfg.URL)
	return &Publisher{conn: conn, prefix: cfg.SubjectPrefix, logger: logger, metrics: m}, nil
}

// SnapshotWritten publishes one snapshot notification. Errors are counted
// and logged; a failed publish never fails the pipeline step.
func (p *Publisher) SnapshotWritten(path string, rows int, step string) {
	if p == nil {
		return
	}
	ev := SnapshotEvent{Path: path, Rows: rows, Step: step, WrittenAt: time.Now().UTC()}
	data, err := json.Marshal(ev)
	if err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Warn("snapshot event encode failed", "error", err.Error())
		return
	}
	subject := p.prefix + ".snapshots"
	if err := p.conn.Publish(subject, data); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Warn("snapshot event publish failed", "subject", subject, "error", err.Error())
		return
	}
	p.metrics.Published.Inc()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("nats drain failed", "error", err.Error())
	}
	p.metrics.NATSConnected.Set(0)
}
