package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/carlsendk/nilan-gateway/internal/catalog"
)

// ---- fakes ----

type fakeBus struct {
	failBase map[uint16]bool // base addresses that error
	fill     uint16
	reads    []uint16 // base addresses in read order
}

func (f *fakeBus) Read(bank catalog.Bank, addr uint16, count uint8) ([]uint16, error) {
	f.reads = append(f.reads, addr)
	if f.failBase[addr] {
		return nil, errors.New("bus timeout")
	}
	words := make([]uint16, count)
	for i := range words {
		words[i] = f.fill
	}
	return words, nil
}

type fakePub struct {
	msgs map[string]string
}

func (f *fakePub) Publish(topic, payload string) {
	if f.msgs == nil {
		f.msgs = map[string]string{}
	}
	f.msgs[topic] = payload
}

func mustGroup(t *testing.T, name string) catalog.Group {
	t.Helper()
	g, ok := catalog.Lookup(name)
	if !ok {
		t.Fatalf("group %q not in catalog", name)
	}
	return g
}

// ---- tests ----

func TestStep_DueImmediatelyOnStart(t *testing.T) {
	pub := &fakePub{}
	s := New(Config{Prefix: "ventilation"}, &fakeBus{}, pub)

	if !s.Step(time.Now()) {
		t.Fatal("first step must poll")
	}
	if len(pub.msgs) == 0 {
		t.Fatal("first poll must publish")
	}
}

func TestStep_IntervalGate(t *testing.T) {
	s := New(Config{Prefix: "v", Interval: time.Hour}, &fakeBus{}, &fakePub{})

	if !s.Step(time.Now()) {
		t.Fatal("first step must poll")
	}
	if s.Step(time.Now()) {
		t.Fatal("second step inside the interval must not poll")
	}
}

func TestForceDue_OverridesInterval(t *testing.T) {
	s := New(Config{Prefix: "v", Interval: time.Hour}, &fakeBus{}, &fakePub{})

	s.Step(time.Now())
	s.ForceDue()

	if !s.Step(time.Now()) {
		t.Fatal("forced step must poll before the interval elapses")
	}
}

func TestPollOnce_GroupErrorIsolation(t *testing.T) {
	temp := mustGroup(t, "temp")
	control := mustGroup(t, "control")

	bus := &fakeBus{failBase: map[uint16]bool{temp.Base: true}}
	pub := &fakePub{}

	s := New(Config{
		Prefix: "ventilation",
		Groups: []catalog.Group{temp, control},
	}, bus, pub)
	s.PollOnce()

	if _, ok := pub.msgs["ventilation/temp/T0_Controller"]; ok {
		t.Fatal("failed group must not publish")
	}
	if _, ok := pub.msgs["ventilation/control/VentSet"]; !ok {
		t.Fatal("group after a failed group must still publish")
	}
	// The failed group was attempted first, in priority order.
	if len(bus.reads) != 2 || bus.reads[0] != temp.Base {
		t.Fatalf("unexpected read order %v", bus.reads)
	}
}

func TestPollOnce_ScaledTempAndHumidityRouting(t *testing.T) {
	temp := mustGroup(t, "temp")

	pub := &fakePub{}
	s := New(Config{
		Prefix: "ventilation",
		Groups: []catalog.Group{temp},
	}, &fakeBus{fill: 2150}, pub)
	s.PollOnce()

	if got := pub.msgs["ventilation/temp/T3_Exhaust"]; got != "21.50" {
		t.Fatalf("temp payload = %q, want 21.50", got)
	}
	if got := pub.msgs["ventilation/humidity/RH"]; got != "21.50" {
		t.Fatal("RH must route to the humidity segment, got", pub.msgs)
	}
	if _, ok := pub.msgs["ventilation/temp/RH"]; ok {
		t.Fatal("RH must not publish under the temp segment")
	}
}

func TestPollOnce_PlainGroupsPublishRawIntegers(t *testing.T) {
	speed := mustGroup(t, "speed")

	pub := &fakePub{}
	s := New(Config{
		Prefix: "ventilation",
		Groups: []catalog.Group{speed},
	}, &fakeBus{fill: 3}, pub)
	s.PollOnce()

	if got := pub.msgs["ventilation/speed/InletSpeed"]; got != "3" {
		t.Fatalf("speed payload = %q, want 3", got)
	}
}

func TestPollOnce_TextGroupsConcatenate(t *testing.T) {
	d1 := mustGroup(t, "display1")

	// Every word decodes to "AB".
	bus := &fakeBus{fill: uint16('B')<<8 | uint16('A')}
	pub := &fakePub{}

	s := New(Config{
		Prefix: "ventilation",
		Groups: []catalog.Group{d1},
	}, bus, pub)
	s.PollOnce()

	topic := "ventilation/text/Text_1_2Text_3_4Text_5_6Text_7_8"
	if got := pub.msgs[topic]; got != "ABABABAB" {
		t.Fatalf("text payload = %q at %q, msgs=%v", got, topic, pub.msgs)
	}
	// One message for the whole group, not one per field.
	if len(pub.msgs) != 1 {
		t.Fatalf("text group must publish exactly one message, got %v", pub.msgs)
	}
}

func TestPollOnce_UnnamedRegistersNotPublished(t *testing.T) {
	temp := mustGroup(t, "temp")

	pub := &fakePub{}
	s := New(Config{
		Prefix: "ventilation",
		Groups: []catalog.Group{temp},
	}, &fakeBus{}, pub)
	s.PollOnce()

	named := 0
	for _, f := range temp.Fields {
		if f != "" {
			named++
		}
	}
	if len(pub.msgs) != named {
		t.Fatalf("published %d messages, want %d", len(pub.msgs), named)
	}
}
