package command

import (
	log "github.com/sirupsen/logrus"

	"github.com/carlsendk/nilan-gateway/internal/catalog"
)

// Bus is the transport contract the gateway needs. There must be no other
// version of this interface in this package.
type Bus interface {
	Read(bank catalog.Bank, addr uint16, count uint8) ([]uint16, error)
	Write(addr uint16, value int16) error
}

// Gateway validates externally supplied commands and forwards accepted
// writes onto the bus. Both ingress paths (broker subscriptions and the
// query dispatcher) go through the same instance.
type Gateway struct {
	bus   Bus
	rules []Rule
	wake  func()
}

// NewGateway wires the gateway to the bus. wake is invoked after every
// accepted write so the next poll fires immediately; nil is allowed.
func NewGateway(bus Bus, rules []Rule, wake func()) *Gateway {
	return &Gateway{bus: bus, rules: rules, wake: wake}
}

// SetWake installs the poll trigger after construction. Wiring order in
// main requires the gateway to exist before the scheduler does.
func (g *Gateway) SetWake(wake func()) { g.wake = wake }

// Rules exposes the subscription rule set for broker wiring.
func (g *Gateway) Rules() []Rule { return g.rules }

// HandleMessage applies the rule matching topic to an inbound payload.
// Invalid payloads are dropped silently; only a log line records them.
func (g *Gateway) HandleMessage(topic string, payload []byte) {
	for _, r := range g.rules {
		if r.Topic != topic {
			continue
		}

		v, ok := r.Accept(payload)
		if !ok {
			log.WithFields(log.Fields{
				"topic":   topic,
				"payload": string(payload),
			}).Debug("command: payload rejected")
			return
		}

		if err := g.bus.Write(r.Address, v); err != nil {
			log.WithFields(log.Fields{
				"topic":   topic,
				"address": r.Address,
			}).WithError(err).Warn("command: bus write failed")
			return
		}

		log.WithFields(log.Fields{
			"topic":   topic,
			"address": r.Address,
			"value":   v,
		}).Info("command: write applied")

		g.accepted()
		return
	}
}

func (g *Gateway) accepted() {
	if g.wake != nil {
		g.wake()
	}
}
