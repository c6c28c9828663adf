// Package bus implements the field-bus transport against the Nilan
// controller's Modbus register space.
package bus

import (
	"errors"

	"github.com/carlsendk/nilan-gateway/internal/catalog"
)

// Transport is the contract callers use to reach the bus.
// Implementations do not retry; retry policy belongs to callers.
type Transport interface {
	// Read fetches count registers from the given bank starting at addr.
	Read(bank catalog.Bank, addr uint16, count uint8) ([]uint16, error)

	// Write stages one 16-bit value and issues a multi-register write of
	// length 1. Length 1 is kept for protocol uniformity with the
	// controller's documented write behavior.
	Write(addr uint16, value int16) error
}

// Transport failure causes. Exactly one of these wraps every error a
// Client returns. None of them is fatal to the process.
var (
	// ErrTimeout means the controller did not answer within the
	// per-transaction deadline.
	ErrTimeout = errors.New("bus: timeout")

	// ErrMalformed means the response could not be parsed or did not
	// match the request geometry.
	ErrMalformed = errors.New("bus: malformed response")

	// ErrException means the controller answered with a protocol
	// exception of its own.
	ErrException = errors.New("bus: device exception")
)
