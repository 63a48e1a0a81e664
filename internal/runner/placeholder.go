package runner

import (
	"fmt"
	"strconv"
	"strings"
)

// ExpandPlaceholders replaces {SEED} with the decimal seed and {SEED04} with
// the seed zero-padded to four digits. Other braced tokens are kept.
func ExpandPlaceholders(s string, seed uint64) string {
	if !strings.Contains(s, "{SEED") {
		return s
	}
	s = strings.ReplaceAll(s, "{SEED}", strconv.FormatUint(seed, 10))
	return strings.ReplaceAll(s, "{SEED04}", fmt.Sprintf("%04d", seed))
}
