package inference

import (
	"strconv"
	"strings"
)

// StreamSample carries the bitrate-relevant raw fields of one probed
// stream. Numeric fields keep ffprobe's string typing; empty means the
// prober did not report them.
type StreamSample struct {
	BitRate     string            // stream-level bit_rate, bits/s
	DurationSec float64           // stream duration, 0 when unknown
	Tags        map[string]string // container tags for this stream
}

// Tag keys carrying a bitrate in bits/s (Matroska muxers write BPS).
var bitrateTagKeys = []string{"BPS", "BPS-eng", "bit_rate"}

// Tag keys carrying the stream's total byte count.
var byteCountTagKeys = []string{"NUMBER_OF_BYTES", "NUMBER_OF_BYTES-eng"}

// StreamBitrateKbps resolves a stream's bitrate in kbps with the
// precedence: reported bit_rate field, then bitrate tags, then a
// reconstruction from a byte-count tag and the stream (or overall)
// duration. ok=false when none of the sources yield a positive value.
func StreamBitrateKbps(s StreamSample, overallDurationSec float64) (int, bool) {
	if bps := parsePositiveInt64(s.BitRate); bps > 0 {
		return int(bps / 1000), true
	}

	for _, key := range bitrateTagKeys {
		if bps := parsePositiveInt64(s.Tags[key]); bps > 0 {
			return int(bps / 1000), true
		}
	}

	durationSec := s.DurationSec
	if durationSec <= 0 {
		durationSec = overallDurationSec
	}
	if durationSec <= 0 {
		return 0, false
	}
	for _, key := range byteCountTagKeys {
		if bytes := parsePositiveInt64(s.Tags[key]); bytes > 0 {
			kbps := float64(bytes) * 8 / durationSec / 1000
			if kbps >= 1 {
				return int(kbps), true
			}
		}
	}

	return 0, false
}

// ReconcileVideoBitrate resolves the video bitrate against the container
// totals. With file size and duration known it computes the container
// bitrate, caps the summed audio contribution at 30% of that total, and
// subtracts. A directly reported video bitrate survives only when its
// ratio to the computed value lies within [0.5, 1.5]; outside that band
// the reported metadata is treated as unreliable and replaced. With no
// file size but a reported overall bitrate and no video bitrate yet, the
// same capped subtraction is applied to the overall value.
func ReconcileVideoBitrate(reportedKbps, overallKbps int, fileSizeBytes int64, durationSec float64, audioSumKbps int) (int, bool) {
	if fileSizeBytes > 0 && durationSec > 0 {
		total := float64(fileSizeBytes) * 8 / durationSec / 1000
		computed := total - cappedAudio(audioSumKbps, total)
		if computed < 0 {
			computed = 0
		}
		if reportedKbps > 0 && computed > 0 {
			ratio := float64(reportedKbps) / computed
			if ratio >= 0.5 && ratio <= 1.5 {
				return reportedKbps, true
			}
		}
		return int(computed), true
	}

	if reportedKbps > 0 {
		return reportedKbps, true
	}

	if overallKbps > 0 {
		video := float64(overallKbps) - cappedAudio(audioSumKbps, float64(overallKbps))
		if video < 0 {
			video = 0
		}
		return int(video), true
	}

	return 0, false
}

// cappedAudio limits the audio contribution to 30% of the container
// total so a handful of high-bitrate audio tracks cannot starve the
// video estimate.
func cappedAudio(audioSumKbps int, totalKbps float64) float64 {
	capKbps := totalKbps * 0.30
	if float64(audioSumKbps) > capKbps {
		return capKbps
	}
	return float64(audioSumKbps)
}

// Bit-depth suffix tokens in pixel-format names: a planar "p" marker or
// an endianness suffix must accompany the digits, otherwise layout names
// like nv12 or nv21 would be read as depths.
var pixFmtDepthTokens = []struct {
	depth  int
	tokens []string
}{
	{16, []string{"p16", "16le", "16be"}},
	{14, []string{"p14", "14le", "14be"}},
	{12, []string{"p12", "12le", "12be"}},
	{10, []string{"p10", "10le", "10be"}},
}

// BitDepth resolves a stream's bit depth, preferring the explicit
// bits_per_raw_sample field and falling back to pixel-format bit-suffix
// tokens (yuv420p10le, gbrp12le, p016le). Plain format families with no
// depth suffix are 8-bit. ok=false when neither source gives a signal.
func BitDepth(bitsPerRawSample, pixFmt string) (int, bool) {
	if n, err := strconv.Atoi(strings.TrimSpace(bitsPerRawSample)); err == nil && n > 0 {
		return n, true
	}

	pf := strings.ToLower(strings.TrimSpace(pixFmt))
	if pf == "" {
		return 0, false
	}
	for _, d := range pixFmtDepthTokens {
		for _, tok := range d.tokens {
			if strings.Contains(pf, tok) {
				return d.depth, true
			}
		}
	}
	return 8, true
}

func parsePositiveInt64(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
