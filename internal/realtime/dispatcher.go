package realtime

import (
	"context"

	"go.uber.org/zap"
)

// Dispatcher delivers events to whoever is online. Delivery is best effort:
// offline users and full queues are skipped without error.
type Dispatcher struct {
	presence Presence
	log      *zap.Logger
}

func NewDispatcher(p Presence, log *zap.Logger) *Dispatcher {
	return &Dispatcher{presence: p, log: log}
}

func (d *Dispatcher) Notify(_ context.Context, userID string, kind EventKind, payload any) {
	c, ok := d.presence.Lookup(userID)
	if !ok {
		d.log.Debug("notify skipped, user offline", zap.String("user_id", userID), zap.String("event", string(kind)))
		return
	}
	if !c.Push(Event{Kind: kind, Payload: payload}) {
		d.log.Warn("notify dropped", zap.String("user_id", userID), zap.String("conn_id", c.ID()), zap.String("event", string(kind)))
		return
	}
	d.log.Debug("notify pushed", zap.String("user_id", userID), zap.String("event", string(kind)))
}
