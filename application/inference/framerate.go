// Package inference holds the pure heuristics that turn uncertain probe
// data into usable attributes: frame-rate parsing, bit-depth and HDR
// classification, object-audio detection, and bitrate estimation and
// reconciliation. No I/O, no state.
package inference

import (
	"math"
	"strconv"
	"strings"
)

// ParseFrameRate parses an ffprobe frame-rate expression, either a
// rational "num/den" or a plain decimal. "0/0", a zero denominator, and
// unparsable input all report ok=false. The result is rounded to two
// decimal places: "24000/1001" parses to 23.98.
func ParseFrameRate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if num, den, found := strings.Cut(s, "/"); found {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 || n <= 0 {
			return 0, false
		}
		return round2(n / d), true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return round2(f), true
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
