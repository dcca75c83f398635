package inference

import "strings"

// HasObjectAudio reports whether an audio track carries object-based
// audio: TrueHD or E-AC-3 with an Atmos marker, or DTS with a DTS:X
// profile or title marker.
func HasObjectAudio(codec, profile, title string) bool {
	c := strings.ToLower(codec)
	p := strings.ToLower(profile)
	t := strings.ToLower(title)

	if strings.Contains(c, "truehd") || c == "eac3" || strings.Contains(c, "e-ac-3") {
		return strings.Contains(p, "atmos") || strings.Contains(t, "atmos")
	}

	if strings.Contains(c, "dts") {
		if p == "x" || strings.Contains(p, "dts:x") || strings.Contains(p, "dts-x") {
			return true
		}
		return strings.Contains(t, "dts:x") || strings.Contains(t, "dts-x")
	}

	return false
}

// EstimateAudioBitrateKbps approximates a track's bitrate from its
// codec, channel count, profile, and sample rate. Used only when no
// direct or reconstructed bitrate is available. ok=false for codecs
// with no estimation table.
func EstimateAudioBitrateKbps(codec string, channels int, profile string, sampleRate int) (int, bool) {
	if channels < 1 {
		channels = 1
	}
	if sampleRate <= 0 {
		sampleRate = 48000
	}

	c := strings.ToLower(codec)
	switch {
	case c == "ac3" || strings.Contains(c, "ac-3") && !strings.Contains(c, "e-ac-3"):
		return byChannelBucket(channels, 192, 448, 640, 640), true

	case c == "eac3" || strings.Contains(c, "e-ac-3"):
		return byChannelBucket(channels, 224, 640, 768, 1024), true

	case strings.Contains(c, "truehd"):
		kbps := byChannelBucket(channels, 1200, 3000, 4500, 6000)
		// TrueHD roughly doubles above 48 kHz source rates.
		if sampleRate > 48000 {
			kbps *= 2
		}
		return kbps, true

	case strings.Contains(c, "dts"):
		return estimateDTS(channels, profile), true

	case c == "flac":
		return int(float64(channels) * float64(sampleRate) * 16 * 0.6 / 1000), true

	case strings.HasPrefix(c, "pcm"):
		return channels * sampleRate * 16 / 1000, true
	}

	return 0, false
}

func estimateDTS(channels int, profile string) int {
	p := strings.ToLower(profile)
	switch {
	case strings.Contains(p, "ma"), strings.Contains(p, "master"):
		return byChannelBucket(channels, 1500, 3500, 4500, 5500)
	case strings.Contains(p, "hra"), strings.Contains(p, "high resolution"):
		return byChannelBucket(channels, 1000, 2000, 3000, 3000)
	default:
		// DTS core tops out at 1509 kbps for surround layouts.
		return byChannelBucket(channels, 768, 1509, 1509, 1509)
	}
}

// byChannelBucket picks a rate by channel count: stereo and below,
// up to 5.1, up to 7.1, and larger layouts.
func byChannelBucket(channels, le2, le6, le8, over8 int) int {
	switch {
	case channels <= 2:
		return le2
	case channels <= 6:
		return le6
	case channels <= 8:
		return le8
	default:
		return over8
	}
}
