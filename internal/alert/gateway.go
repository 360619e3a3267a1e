package alert

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"hotel-analytics-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gateway is the outbound notification boundary. Credential and transport
// configuration are entirely the implementation's concern; the pipeline
// only hands over a destination and a body. Truncation, if the channel
// needs it, is the transport's responsibility.
type Gateway interface {
	Send(ctx context.Context, destination, body string) (ok bool, detail string, err error)
}

// SimulatedGateway stands in for a real SMS provider during development
// and testing, succeeding at a configurable rate.
type SimulatedGateway struct {
	sender      string
	successRate float64
	logger      *zap.Logger
}

// NewSimulatedGateway creates a simulated SMS gateway.
func NewSimulatedGateway(sender string, successRate float64) *SimulatedGateway {
	return &SimulatedGateway{
		sender:      sender,
		successRate: successRate,
		logger:      util.GetLogger(),
	}
}

// Send pretends to dispatch an SMS.
func (g *SimulatedGateway) Send(ctx context.Context, destination, body string) (bool, string, error) {
	if destination == "" {
		return false, "destination number is empty", nil
	}

	select {
	case <-ctx.Done():
		return false, "", ctx.Err()
	case <-time.After(time.Duration(50+rand.Intn(200)) * time.Millisecond):
	}

	if rand.Float64() >= g.successRate {
		g.logger.Warn("Simulated gateway declined message",
			zap.String("destination", destination))
		return false, "gateway declined message", nil
	}

	sid := fmt.Sprintf("SMS-%s", uuid.New().String()[:8])
	g.logger.Info("Simulated gateway accepted message",
		zap.String("destination", destination),
		zap.String("sid", sid),
		zap.Int("body_len", len(body)))
	return true, fmt.Sprintf("message sent with SID: %s", sid), nil
}
