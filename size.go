package plcache

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tunabay/go-infounit"
)

// ParseSize parses a human-readable size such as "500MB", "1.5 GiB", or a
// bare byte count into a ByteCount. Decimal suffixes (kB, MB, GB, TB) are
// powers of 1000; binary suffixes (KiB, MiB, GiB, TiB) are powers of 1024.
func ParseSize(s string) (infounit.ByteCount, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty size")
	}

	cut := len(trimmed)
	for cut > 0 {
		c := trimmed[cut-1]
		if c >= '0' && c <= '9' || c == '.' {
			break
		}
		cut--
	}
	numPart := strings.TrimSpace(trimmed[:cut])
	unitPart := strings.TrimSpace(trimmed[cut:])

	unit, ok := sizeUnits[strings.ToLower(unitPart)]
	if !ok {
		return 0, fmt.Errorf("unknown size unit %q", unitPart)
	}

	value, err := strconv.ParseFloat(numPart, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return infounit.ByteCount(value * float64(unit)), nil
}

var sizeUnits = map[string]infounit.ByteCount{
	"":    infounit.Byte,
	"b":   infounit.Byte,
	"kb":  infounit.Kilobyte,
	"mb":  infounit.Megabyte,
	"gb":  infounit.Gigabyte,
	"tb":  infounit.Terabyte,
	"kib": infounit.Kibibyte,
	"mib": infounit.Mebibyte,
	"gib": infounit.Gibibyte,
	"tib": infounit.Tebibyte,
}
