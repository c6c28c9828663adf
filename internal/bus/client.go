package bus

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/carlsendk/nilan-gateway/internal/catalog"
)

// Client is the single shared connection to the controller.
//
// The bus is half-duplex and single-owner: only one transaction may be in
// flight at a time. The firmware guaranteed that through cooperative
// scheduling; here broker handlers and query connections run on their own
// goroutines, so the mutex is the explicit mutual-exclusion boundary
// around the transport.
type Client struct {
	mu      sync.Mutex
	handler handler
	client  modbus.Client
}

// handler is the subset of the goburrow handler lifecycle the client owns.
type handler interface {
	Connect() error
	Close() error
}

// Config selects the transport flavor. Mode "rtu" is the controller's real
// wiring (RS-485); "tcp" goes through a Modbus gateway or bench simulator.
type Config struct {
	Mode string

	// rtu
	Device   string
	Baud     int
	DataBits int
	Parity   string
	StopBits int

	// tcp
	Endpoint string

	SlaveID byte
	Timeout time.Duration
}

// New opens the bus connection. Failure here is a startup failure; the
// caller treats it as fatal.
func New(cfg Config) (*Client, error) {
	var (
		h handler
		c modbus.Client
	)

	switch cfg.Mode {
	case "rtu":
		if cfg.Device == "" {
			return nil, errors.New("bus: rtu mode requires a serial device")
		}
		rh := modbus.NewRTUClientHandler(cfg.Device)
		rh.BaudRate = cfg.Baud
		rh.DataBits = cfg.DataBits
		rh.Parity = cfg.Parity
		rh.StopBits = cfg.StopBits
		rh.SlaveId = cfg.SlaveID
		rh.Timeout = cfg.Timeout
		h = rh
		c = modbus.NewClient(rh)

	case "tcp":
		if cfg.Endpoint == "" {
			return nil, errors.New("bus: tcp mode requires an endpoint")
		}
		th := modbus.NewTCPClientHandler(cfg.Endpoint)
		th.SlaveId = cfg.SlaveID
		th.Timeout = cfg.Timeout
		h = th
		c = modbus.NewClient(th)

	default:
		return nil, fmt.Errorf("bus: unknown mode %q", cfg.Mode)
	}

	if err := h.Connect(); err != nil {
		return nil, err
	}

	return &Client{handler: h, client: c}, nil
}

// Close releases the serial port or TCP connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// Read fetches count registers from the given bank. The count is bounded
// by the catalog's maximum transfer size so no group can request more than
// one response frame carries.
func (c *Client) Read(bank catalog.Bank, addr uint16, count uint8) ([]uint16, error) {
	if count == 0 || count > catalog.MaxTransfer {
		return nil, fmt.Errorf("%w: count %d out of range", ErrMalformed, count)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		raw []byte
		err error
	)
	switch bank {
	case catalog.BankInput:
		raw, err = c.client.ReadInputRegisters(addr, uint16(count))
	case catalog.BankHolding:
		raw, err = c.client.ReadHoldingRegisters(addr, uint16(count))
	default:
		return nil, fmt.Errorf("%w: unknown bank %d", ErrMalformed, bank)
	}
	if err != nil {
		return nil, classify(err)
	}

	if len(raw) != 2*int(count) {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformed, len(raw), 2*int(count))
	}

	words := make([]uint16, count)
	for i := range words {
		words[i] = uint16(raw[2*i])<<8 | uint16(raw[2*i+1])
	}
	return words, nil
}

// Write issues a multi-register write of length 1 at addr.
func (c *Client) Write(addr uint16, value int16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf := []byte{byte(uint16(value) >> 8), byte(uint16(value))}
	if _, err := c.client.WriteMultipleRegisters(addr, 1, buf); err != nil {
		return classify(err)
	}
	return nil
}

// classify maps a goburrow-level error onto the transport taxonomy.
func classify(err error) error {
	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return fmt.Errorf("%w: fc=%d code=%d", ErrException, me.FunctionCode, me.ExceptionCode)
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if os.IsTimeout(err) || errors.Is(err, os.ErrDeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	// goburrow's serial layer reports timeouts as a bare sentinel string.
	if strings.Contains(err.Error(), "timeout") {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	return fmt.Errorf("%w: %v", ErrMalformed, err)
}
