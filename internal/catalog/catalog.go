// Package catalog holds the static Nilan register map.
//
// The catalog is the single source of truth for bus geometry and topic
// routing. It is fully defined at compile time and immutable at runtime.
package catalog

// Bank selects one of the two addressable register spaces on the bus.
type Bank uint8

const (
	// BankInput is the read-only input register bank (function code 4).
	BankInput Bank = iota
	// BankHolding is the read/write holding register bank (function code 3).
	BankHolding
)

// Decode selects how a group's raw 16-bit words map to external values.
type Decode uint8

const (
	// DecodePlain publishes the register as a signed integer, unmodified.
	DecodePlain Decode = iota
	// DecodeScaled publishes hundredths as a decimal with two fraction digits.
	DecodeScaled
	// DecodeText unpacks two 8-bit characters per word, low byte first.
	DecodeText
	// DecodeBitmask publishes the register as an unsigned flag word.
	DecodeBitmask
)

// GroupID is a stable ordinal for every catalog group.
type GroupID uint8

const (
	Temp GroupID = iota
	Alarm
	Time
	Control
	Speed
	Airtemp
	Airflow
	Program
	User
	ActState
	Info
	InputAirtemp
	Output
	Display1
	Display2
)

// MaxTransfer is the largest register count any single group may read.
// It bounds the per-read scratch allocation in the transport.
const MaxTransfer = 26

// AddressSpace is the number of addressable registers per bank.
const AddressSpace = 0x1000 * 4

// Group describes one contiguous, named register range on the bus.
type Group struct {
	ID      GroupID
	Name    string
	Base    uint16
	Count   uint8
	Bank    Bank
	Decode  Decode
	Segment string // topic routing segment, resolved here once

	// Fields are ordered by register offset. An empty name means the
	// register is fetched with the group but never published.
	Fields []string
}

// Text reports whether the group carries packed display text.
func (g Group) Text() bool { return g.Decode == DecodeText }
