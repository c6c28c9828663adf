// Package command is the write ingress of the gateway: broker-originated
// register writes and the line-oriented query protocol.
package command

import (
	"strconv"
)

// Rule maps one inbound broker topic to one fixed bus address, with the
// payload validation that gates the write.
type Rule struct {
	Topic   string
	Address uint16

	// Payload must be exactly Length numeric characters and parse into
	// [Min, Max] inclusive. Anything else is dropped without reply.
	Length int
	Min    int
	Max    int
}

// Rules enumerates the command topics under the given root prefix.
//
// The controller's setpoint registers live in the holding bank's control
// block; tempset carries hundredths of a degree, the rest are small
// enumerations.
func Rules(prefix string) []Rule {
	return []Rule{
		{Topic: prefix + "/runset", Address: 1001, Length: 1, Min: 0, Max: 1},
		{Topic: prefix + "/modeset", Address: 1002, Length: 1, Min: 0, Max: 4},
		{Topic: prefix + "/ventset", Address: 1003, Length: 1, Min: 0, Max: 4},
		{Topic: prefix + "/tempset", Address: 1004, Length: 4, Min: 1000, Max: 3000},
		{Topic: prefix + "/programset", Address: 500, Length: 1, Min: 0, Max: 3},
		{Topic: prefix + "/bypassset", Address: 1101, Length: 1, Min: 0, Max: 1},
		{Topic: prefix + "/keyset", Address: 2000, Length: 4, Min: 0, Max: 9999},
	}
}

// Accept validates a payload against the rule and returns the signed write
// value. ok is false when the payload must be dropped.
func (r Rule) Accept(payload []byte) (int16, bool) {
	if len(payload) != r.Length {
		return 0, false
	}
	for _, b := range payload {
		if b < '0' || b > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(string(payload))
	if err != nil || n < r.Min || n > r.Max {
		return 0, false
	}
	return int16(n), true
}
