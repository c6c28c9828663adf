// Package queryserver carries the line-oriented query protocol over a raw
// TCP socket, one request per connection.
package queryserver

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/carlsendk/nilan-gateway/internal/command"
)

// readTimeout bounds how long a client may take to send its request line.
// The firmware let a slow client stall the whole loop; here it only ties
// up one connection goroutine, and the deadline reclaims even that.
const readTimeout = 30 * time.Second

// Server accepts query connections and dispatches them through the
// command gateway. Connections are served concurrently; the bus client's
// own mutual exclusion keeps transactions sequential.
type Server struct {
	ln net.Listener
	gw *command.Gateway
}

// New opens the listener. addr is host:port.
func New(addr string, gw *command.Gateway) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{ln: ln, gw: gw}, nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Serve accepts until ctx is canceled or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.ln.Close()
	}()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(readTimeout))

	line, ok := command.ReadRequest(bufio.NewReader(conn))
	if !ok {
		// Bare newline or truncated request: abort without response.
		return
	}

	resp := s.gw.Query(command.Parse(line))

	out, err := json.Marshal(resp)
	if err != nil {
		log.WithError(err).Error("query: response encode failed")
		return
	}
	if _, err := conn.Write(append(out, '\n')); err != nil {
		log.WithError(err).Debug("query: response write failed")
	}
}
