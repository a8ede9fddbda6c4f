package events

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/d60-Lab/shelf/pkg/logger"
)

// NATSPublisher publishes events on core NATS subjects.
type NATSPublisher struct {
	conn     *nats.Conn
	subjects map[string]string
}

// NewNATSPublisher connects to url. subject overrides the subject used for
// TopicActivityCreated; other topics are published under "shelf.<topic>".
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("shelf"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	p := &NATSPublisher{conn: conn, subjects: map[string]string{}}
	if subject != "" {
		p.subjects[TopicActivityCreated] = subject
	}
	return p, nil
}

func (p *NATSPublisher) subject(topic string) string {
	if s, ok := p.subjects[topic]; ok {
		return s
	}
	return "shelf." + topic
}

func (p *NATSPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.conn.Publish(p.subject(topic), payload)
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
