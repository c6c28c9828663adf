package command

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/carlsendk/nilan-gateway/internal/catalog"
	"github.com/carlsendk/nilan-gateway/internal/codec"
)

// Query protocol: one line of the form
//
//	<operation>/<group>/<address>/<value><space>
//
// The trailing space terminates the request. A newline before the
// terminator aborts it. The response is always one JSON object.

// Request is the parsed form of one query line. All tokens are optional
// strings; resolution against the catalog happens at dispatch time.
type Request struct {
	Op      string
	Group   string
	Address string
	Value   string
}

const (
	statusOK   = "success"
	statusFail = "Modbus connection failed"
)

// ReadRequest consumes one request line from r. ok is false when the
// client sent a bare newline before the terminating space; the caller
// must close without responding.
func ReadRequest(r *bufio.Reader) (string, bool) {
	var b strings.Builder
	for {
		c, err := r.ReadByte()
		if err != nil {
			return "", false
		}
		switch c {
		case ' ':
			return b.String(), true
		case '\n', '\r':
			return "", false
		default:
			b.WriteByte(c)
		}
	}
}

// Parse splits a request line into its four positional tokens.
// Missing tokens stay empty.
func Parse(line string) Request {
	var req Request
	parts := strings.SplitN(line, "/", 4)
	if len(parts) > 0 {
		req.Op = parts[0]
	}
	if len(parts) > 1 {
		req.Group = parts[1]
	}
	if len(parts) > 2 {
		req.Address = parts[2]
	}
	if len(parts) > 3 {
		req.Value = parts[3]
	}
	return req
}

// Query dispatches one parsed request and builds the response object.
// Unknown operations and requests with missing required tokens answer
// with the echoed operation/group only; that is a no-op, not an error.
func (g *Gateway) Query(req Request) map[string]any {
	resp := map[string]any{
		"operation": req.Op,
		"group":     req.Group,
	}

	switch req.Op {
	case "read":
		g.queryRead(req, resp)
	case "set":
		g.querySet(req, resp)
	case "help":
		g.queryHelp(resp)
	}

	return resp
}

func (g *Gateway) queryRead(req Request, resp map[string]any) {
	grp, ok := catalog.Lookup(req.Group)
	if !ok {
		return
	}

	resp["requestaddress"] = int(grp.Base)
	resp["requestnum"] = len(grp.Fields)

	words, err := g.bus.Read(grp.Bank, grp.Base, grp.Count)
	if err != nil {
		resp["status"] = statusFail
		return
	}

	resp["status"] = statusOK
	for i, name := range grp.Fields {
		if name == "" || i >= len(words) {
			continue
		}
		resp[name] = codec.Word(grp.Decode, words[i])
	}
}

func (g *Gateway) querySet(req Request, resp map[string]any) {
	if req.Address == "" || req.Value == "" {
		return
	}

	addr, err := strconv.ParseUint(req.Address, 10, 16)
	if err != nil {
		return
	}
	value, err := strconv.ParseInt(req.Value, 10, 16)
	if err != nil {
		return
	}

	resp["address"] = int(addr)
	resp["value"] = int(value)

	if err := g.bus.Write(uint16(addr), int16(value)); err != nil {
		resp["result"] = statusFail
		return
	}

	resp["result"] = statusOK
	g.accepted()
}

// queryHelp lists every catalog group with a placeholder value so clients
// can discover the namespace without prior knowledge. No bus access.
func (g *Gateway) queryHelp(resp map[string]any) {
	for _, grp := range catalog.Groups() {
		resp[grp.Name] = 0
	}
}
