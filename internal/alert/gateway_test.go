package alert

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedGatewaySend(t *testing.T) {
	g := NewSimulatedGateway("+15550000", 1.0)

	ok, detail, err := g.Send(context.Background(), "+15550100", "test body")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(detail, "message sent with SID: SMS-"))
}

func TestSimulatedGatewayAlwaysDeclines(t *testing.T) {
	g := NewSimulatedGateway("+15550000", 0.0)

	ok, detail, err := g.Send(context.Background(), "+15550100", "test body")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "gateway declined message", detail)
}

func TestSimulatedGatewayEmptyDestination(t *testing.T) {
	g := NewSimulatedGateway("+15550000", 1.0)

	ok, detail, err := g.Send(context.Background(), "", "test body")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "destination number is empty", detail)
}

func TestSimulatedGatewayCanceledContext(t *testing.T) {
	g := NewSimulatedGateway("+15550000", 1.0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, _, err := g.Send(ctx, "+15550100", "test body")
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}
