package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/d60-Lab/shelf/pkg/logger"
)

// LogPublisher logs events; used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, topic string, payload []byte) error {
	logger.Debug("event", zap.String("topic", topic), zap.ByteString("payload", payload))
	return nil
}

func (LogPublisher) Close() error { return nil }
