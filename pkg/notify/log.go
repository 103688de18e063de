package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogGateway writes messages to the logger at debug level. Used in development
// so codes can be read from the console when no real channel is configured.
type LogGateway struct {
	log *zap.Logger
}

func NewLogGateway(log *zap.Logger) *LogGateway {
	return &LogGateway{log: log.With(zap.String("gateway", "log"))}
}

func (g *LogGateway) Deliver(_ context.Context, msg Message) error {
	fields := []zap.Field{
		zap.String("kind", string(msg.Kind)),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	}
	if msg.Code != "" {
		fields = append(fields, zap.String("code", msg.Code))
	}
	g.log.Debug("Notification", fields...)
	return nil
}
