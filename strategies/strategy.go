package strategies

import (
	"context"

	"github.com/rustyeddy/fxsession/broker"
	"github.com/rustyeddy/fxsession/market"
)

// TickStrategy is the minimal interface a session strategy must implement.
// It is called once per price tick.
type TickStrategy interface {
	OnTick(ctx context.Context, b broker.Broker, tick market.Tick) error
}
