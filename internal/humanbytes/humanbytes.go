// Package humanbytes converts byte counts to and from human-readable sizes
// such as "1.23 MB" or "4 KiB".
//
// Formatting always uses SI (base 1000) prefixes and three significant
// digits. Parsing accepts both SI and IEC (base 1024) prefixes.
package humanbytes

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
)

// A ByteSize is a number of bytes.
type ByteSize uint64

// Common units of data.
const (
	B ByteSize = 1

	KB = 1000 * B
	MB = 1000 * KB
	GB = 1000 * MB
	TB = 1000 * GB
	PB = 1000 * TB
	EB = 1000 * PB

	KiB = 1024 * B
	MiB = 1024 * KiB
	GiB = 1024 * MiB
	TiB = 1024 * GiB
	PiB = 1024 * TiB
	EiB = 1024 * PiB
)

// prefixes is indexed by the number of divisions by 1000 minus one.
const prefixes = "kMGTPE"

var (
	ErrEmpty         = errors.New("cannot parse empty string")
	ErrInvalidNumber = errors.New("string does not start with invalid number")
	ErrInvalidUnits  = errors.New("string has invalid units")
	ErrOverflow      = errors.New("number is too large")
)

// A ParseError records a failed conversion. Err is one of ErrEmpty,
// ErrInvalidNumber, ErrInvalidUnits or ErrOverflow.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return "humanbytes: parsing " + strconv.Quote(e.Input) + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// String formats b like Format.
func (b ByteSize) String() string {
	return Format(uint64(b))
}

// Format returns n using at most three significant digits and an SI prefix,
// e.g. "999 B", "1.00 kB", "18.4 EB". Ties are rounded to even.
func Format(n uint64) string {
	if n < 1000 {
		return strconv.FormatUint(n, 10) + " B"
	}

	// Divide down until units is below 1000. The original value is close to
	// (units + millis/1000) * 1000^(prefix+1).
	var (
		prefix  int
		units   = n
		millis  uint64
		isExact = true
	)
	for {
		millis = units % 1000
		units /= 1000
		if units < 1000 {
			break
		}
		if millis > 0 {
			isExact = false
		}
		prefix++
	}

	switch {
	case units < 10:
		frac := millis / 10
		rem := millis % 10
		if rem > 5 || (rem == 5 && (frac&1 != 0 || !isExact)) {
			frac++
			if frac == 100 {
				frac = 0
				units++
				if units == 10 {
					return fmt.Sprintf("10.0 %cB", prefixes[prefix])
				}
			}
		}
		return fmt.Sprintf("%d.%02d %cB", units, frac, prefixes[prefix])

	case units < 100:
		frac := millis / 100
		rem := millis % 100
		if rem > 50 || (rem == 50 && (frac&1 != 0 || !isExact)) {
			frac++
			if frac == 10 {
				frac = 0
				units++
				if units == 100 {
					return fmt.Sprintf("100 %cB", prefixes[prefix])
				}
			}
		}
		return fmt.Sprintf("%d.%d %cB", units, frac, prefixes[prefix])

	default:
		if millis > 500 || (millis == 500 && (units&1 != 0 || !isExact)) {
			units++
		}
		if units >= 1000 {
			return fmt.Sprintf("1.00 %cB", prefixes[prefix+1])
		}
		return fmt.Sprintf("%d %cB", units, prefixes[prefix])
	}
}

// scaleOf maps a prefix letter to its power of 1000 (or 1024). Case is
// ignored by clearing the ASCII lower-case bit.
func scaleOf(c byte) (int, bool) {
	switch c &^ 0x20 {
	case 'K':
		return 1, true
	case 'M':
		return 2, true
	case 'G':
		return 3, true
	case 'T':
		return 4, true
	case 'P':
		return 5, true
	case 'E':
		return 6, true
	case 'Z':
		return 7, true
	case 'Y':
		return 8, true
	}
	return 0, false
}

// Parse parses a size such as "1.5 GB", "300k", "4KiB" or "12.25pi".
//
// Decimal prefixes (k, M, G, T, P, E, Z, Y) are exact: the result is rounded
// to the nearest byte, ties to even. Binary prefixes (Ki, Mi, ...) are
// computed with float64 and may be off by one in the last bit for values
// beyond 2^53.
//
// The returned error is a *ParseError.
func Parse(s string) (ByteSize, error) {
	n, err := parse(s)
	if err != nil {
		return 0, &ParseError{Input: s, Err: err}
	}
	return n, nil
}

// MustParse is like Parse but panics if s cannot be parsed.
func MustParse(s string) ByteSize {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

func parse(s string) (ByteSize, error) {
	if s == "" {
		return 0, ErrEmpty
	}

	// Split into number and units, remembering the decimal point.
	point := -1
	numEnd := len(s)
	digits := 0
scan:
	for n := 0; n < len(s); n++ {
		switch c := s[n]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			if point >= 0 {
				return 0, ErrInvalidNumber
			}
			point = n
		default:
			numEnd = n
			break scan
		}
	}
	if digits == 0 {
		return 0, ErrInvalidNumber
	}
	num, units := s[:numEnd], s[numEnd:]
	for len(units) > 0 && (units[0] == ' ' || units[0] == '\t') {
		units = units[1:]
	}

	if l := len(units); l > 0 && (units[l-1] == 'b' || units[l-1] == 'B') {
		units = units[:l-1]
	}
	var (
		binary bool
		scale  int
	)
	if units != "" {
		switch units[1:] {
		case "":
		case "i", "I":
			binary = true
		default:
			return 0, ErrInvalidUnits
		}
		var ok bool
		if scale, ok = scaleOf(units[0]); !ok {
			return 0, ErrInvalidUnits
		}
	}

	if binary {
		return parseBinary(num, scale)
	}
	return parseDecimal(num, point, scale)
}

// parseBinary scales num by 1024^scale in floating point. This limits the
// result to 53 bits of precision.
func parseBinary(num string, scale int) (ByteSize, error) {
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, ErrOverflow
		}
		return 0, ErrInvalidNumber
	}
	f = math.Round(f * math.Pow(1024, float64(scale)))
	if f >= 0x1p64 {
		return 0, ErrOverflow
	}
	return ByteSize(f), nil
}

// parseDecimal computes num * 1000^scale exactly, rounding the fractional
// remainder half to even.
func parseDecimal(num string, point, scale int) (ByteSize, error) {
	// Number of digits left of the decimal point once the prefix is applied.
	idigits := len(num)
	if point >= 0 {
		idigits = point
	}
	idigits += 3 * scale

	var (
		v    uint64
		frac string
		ok   bool
	)
	for n := 0; n < len(num); n++ {
		c := num[n]
		if c == '.' {
			continue
		}
		if idigits == 0 {
			frac = num[n:]
			break
		}
		idigits--
		if v, ok = mul10(v); !ok {
			return 0, ErrOverflow
		}
		if v, ok = add(v, uint64(c-'0')); !ok {
			return 0, ErrOverflow
		}
	}
	for ; idigits > 0; idigits-- {
		if v, ok = mul10(v); !ok {
			return 0, ErrOverflow
		}
	}

	if frac != "" && roundUp(v, frac) {
		if v, ok = add(v, 1); !ok {
			return 0, ErrOverflow
		}
	}
	return ByteSize(v), nil
}

// roundUp reports whether v must be incremented given the discarded
// fractional digits frac.
func roundUp(v uint64, frac string) bool {
	switch {
	case frac[0] > '5':
		return true
	case frac[0] < '5':
		return false
	case v&1 != 0:
		return true
	}
	for i := 1; i < len(frac); i++ {
		if frac[i] != '0' {
			return true
		}
	}
	return false
}

func mul10(v uint64) (uint64, bool) {
	hi, lo := bits.Mul64(v, 10)
	return lo, hi == 0
}

func add(v, d uint64) (uint64, bool) {
	sum, carry := bits.Add64(v, d, 0)
	return sum, carry == 0
}
