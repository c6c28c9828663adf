// Package codec converts raw 16-bit register words to and from their
// external representations. No IO, no side effects.
package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/carlsendk/nilan-gateway/internal/catalog"
)

// sentinel is the controller's encoding of the degree glyph. The display
// character set is otherwise plain ASCII; the sentinel is replaced by a
// space on decode.
const sentinel = 0xDF

// Word decodes a single register word according to the group's decode kind.
func Word(kind catalog.Decode, w uint16) string {
	switch kind {
	case catalog.DecodeScaled:
		return Scaled(w)
	case catalog.DecodeText:
		return pair(w)
	case catalog.DecodeBitmask:
		return strconv.FormatUint(uint64(w), 10)
	default:
		return strconv.Itoa(int(int16(w)))
	}
}

// Scaled renders a hundredths register as a decimal with two fraction
// digits, e.g. raw 2100 -> "21.00".
func Scaled(w uint16) string {
	return strconv.FormatFloat(float64(int16(w))/100, 'f', 2, 64)
}

// Text concatenates the packed characters of an entire group read into one
// display line. It reads exactly the words it is handed, never more.
func Text(words []uint16) string {
	var b strings.Builder
	b.Grow(2 * len(words))
	for _, w := range words {
		b.WriteString(pair(w))
	}
	return b.String()
}

// pair unpacks one word into its two characters, low byte first.
func pair(w uint16) string {
	lo := byte(w)
	hi := byte(w >> 8)
	if lo == sentinel {
		lo = ' '
	}
	if hi == sentinel {
		hi = ' '
	}
	return string([]byte{lo, hi})
}

// Encode converts an external value back to a raw register word. Text
// groups are write-never, so only numeric kinds encode.
func Encode(kind catalog.Decode, value string) (int16, error) {
	switch kind {
	case catalog.DecodeScaled:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("codec: bad scaled value %q: %w", value, err)
		}
		raw := math.Round(f * 100)
		if raw < math.MinInt16 || raw > math.MaxInt16 {
			return 0, fmt.Errorf("codec: scaled value %q out of range", value)
		}
		return int16(raw), nil

	case catalog.DecodePlain, catalog.DecodeBitmask:
		n, err := strconv.ParseInt(value, 10, 16)
		if err != nil {
			return 0, fmt.Errorf("codec: bad integer value %q: %w", value, err)
		}
		return int16(n), nil

	default:
		return 0, fmt.Errorf("codec: kind %d does not encode", kind)
	}
}
