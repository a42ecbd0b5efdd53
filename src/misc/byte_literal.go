package misc

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type byteUnit struct {
	suffix string
	scale  uint64
}

// Longer suffixes first so "MIB" is not read as "B".
var byteUnits = []byteUnit{
	{suffix: "GIB", scale: 1 << 30},
	{suffix: "MIB", scale: 1 << 20},
	{suffix: "KIB", scale: 1 << 10},
	{suffix: "GB", scale: 1 << 30},
	{suffix: "MB", scale: 1 << 20},
	{suffix: "KB", scale: 1 << 10},
}

// ParseByteLiteral converts an address or size literal into bytes. Accepted
// forms are hexadecimal with optional '_' separators ("0x1_0000_0000"),
// decimal ("4096", "1_048_576") and decimal with a binary magnitude suffix
// ("16GB", "2MiB", "64kb"). Decimal magnitudes with a leading zero ("010")
// are rejected rather than read as octal.
func ParseByteLiteral(literal string) (uint64, error) {
	s := strings.TrimSpace(literal)
	if s == "" {
		return 0, errors.New("empty byte literal")
	}

	upper := strings.ToUpper(s)
	for _, unit := range byteUnits {
		if !strings.HasSuffix(upper, unit.suffix) {
			continue
		}
		magnitude := strings.TrimSpace(s[:len(s)-len(unit.suffix)])
		value, err := parseInteger(magnitude)
		if err != nil {
			return 0, errors.Wrapf(err, "unable to parse %q as byte literal", literal)
		}
		if value > math.MaxUint64/unit.scale {
			return 0, errors.Errorf("byte literal %q overflows 64 bits", literal)
		}
		return value * unit.scale, nil
	}

	value, err := parseInteger(s)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to parse %q as byte literal", literal)
	}
	return value, nil
}

func parseInteger(s string) (uint64, error) {
	if s == "" {
		return 0, errors.New("missing magnitude")
	}
	digits := strings.ReplaceAll(s, "_", "")
	if len(digits) > 1 && digits[0] == '0' && digits[1] >= '0' && digits[1] <= '9' {
		return 0, errors.Errorf("leading zero in decimal %q", s)
	}
	return strconv.ParseUint(digits, 0, 64)
}
