// Package scheduler drives the periodic poll of the register catalog and
// republishes every named field to the broker.
package scheduler

import (
	"context"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/carlsendk/nilan-gateway/internal/catalog"
	"github.com/carlsendk/nilan-gateway/internal/codec"
)

// Bus is the transport contract the scheduler needs.
type Bus interface {
	Read(bank catalog.Bank, addr uint16, count uint8) ([]uint16, error)
}

// Publisher delivers one field value to the broker namespace. Publishing
// while disconnected is a silent no-op; missed values are lost, not queued.
type Publisher interface {
	Publish(topic, payload string)
}

// state of the poll machine. Polling is only ever observed from within
// PollOnce itself; it exists so a stuck bus transaction is attributable.
type state uint8

const (
	stateIdle state = iota
	statePolling
)

// DefaultInterval is the poll interval in normal operation.
const DefaultInterval = 3 * time.Minute

// Config selects what to poll and where to publish.
type Config struct {
	Interval time.Duration
	Prefix   string // topic root, e.g. "ventilation"
	Groups   []catalog.Group
}

// Scheduler walks the configured groups on a fixed interval. A write
// accepted through the command gateway forces the next walk immediately.
type Scheduler struct {
	cfg Config
	bus Bus
	pub Publisher

	mu    sync.Mutex
	state state
	next  time.Time // zero means due immediately
}

// New builds a scheduler that is due immediately, so the first step after
// startup publishes a full snapshot.
func New(cfg Config, bus Bus, pub Publisher) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if len(cfg.Groups) == 0 {
		cfg.Groups = catalog.Groups()
	}
	return &Scheduler{cfg: cfg, bus: bus, pub: pub}
}

// ForceDue resets the due-time to "immediate". Safe to call from broker
// handler goroutines.
func (s *Scheduler) ForceDue() {
	s.mu.Lock()
	s.next = time.Time{}
	s.mu.Unlock()
}

// Step runs one scheduler step: if the poll interval has elapsed (or a
// write forced the cycle), walk the catalog once. Reports whether a poll
// ran.
func (s *Scheduler) Step(now time.Time) bool {
	s.mu.Lock()
	if !s.next.IsZero() && now.Before(s.next) {
		s.mu.Unlock()
		return false
	}
	s.state = statePolling
	s.mu.Unlock()

	s.PollOnce()

	s.mu.Lock()
	s.state = stateIdle
	s.next = time.Now().Add(s.cfg.Interval)
	s.mu.Unlock()
	return true
}

// PollOnce walks every configured group in priority order. A transient bus
// error on one group never aborts the rest of the cycle: the group is
// skipped and its previously published values stay stale until the next
// successful read.
func (s *Scheduler) PollOnce() {
	// Numeric pass: one message per named field.
	for _, g := range s.cfg.Groups {
		if g.Text() {
			continue
		}
		words, err := s.bus.Read(g.Bank, g.Base, g.Count)
		if err != nil {
			log.WithField("group", g.Name).WithError(err).Warn("poll: group skipped")
			continue
		}
		s.publishGroup(g, words)
	}

	// Text pass: display lines span multiple registers that belong
	// together, so each text group publishes one concatenated string.
	for _, g := range s.cfg.Groups {
		if !g.Text() {
			continue
		}
		words, err := s.bus.Read(g.Bank, g.Base, g.Count)
		if err != nil {
			log.WithField("group", g.Name).WithError(err).Warn("poll: text group skipped")
			continue
		}
		s.pub.Publish(s.textTopic(g), codec.Text(words))
	}
}

func (s *Scheduler) publishGroup(g catalog.Group, words []uint16) {
	for i, name := range g.Fields {
		if name == "" || i >= len(words) {
			continue
		}
		topic := s.cfg.Prefix + "/" + segment(g, name) + "/" + name
		s.pub.Publish(topic, codec.Word(g.Decode, words[i]))
	}
}

// segment picks the topic routing segment for one field. The humidity
// sensor lives inside the temperature block but is not a temperature, so
// it gets its own segment.
func segment(g catalog.Group, field string) string {
	if g.ID == catalog.Temp && field == "RH" {
		return "humidity"
	}
	return g.Segment
}

func (s *Scheduler) textTopic(g catalog.Group) string {
	return s.cfg.Prefix + "/" + g.Segment + "/" + strings.Join(g.Fields, "")
}

// Run steps the scheduler until ctx is canceled. maintain runs first on
// every tick (broker reconnect and resubscription); the due poll follows.
func (s *Scheduler) Run(ctx context.Context, maintain func()) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if maintain != nil {
				maintain()
			}
			s.Step(now)
		}
	}
}
