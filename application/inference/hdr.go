package inference

import (
	"strings"

	"github.com/bbidwell85/Totality-sub002/domain/model"
)

// VideoSignal carries the HDR-relevant fields of a probed video stream.
// SideData lists the side_data_type strings reported by the prober.
type VideoSignal struct {
	ColorTransfer  string
	ColorPrimaries string
	SideData       []string
}

// DetectHDRFormat classifies the HDR signaling of a video stream.
// Side-data markers for Dolby Vision and dynamic HDR10+ metadata take
// precedence over transfer-function heuristics. A PQ transfer with
// BT.2020 primaries counts as HDR10 only when static mastering-display
// or content-light side data is also present; without it the stream is
// classified as generic PQ. HLG transfer maps to HLG. No signal at all
// returns "".
func DetectHDRFormat(sig VideoSignal) model.HDRFormat {
	if sig.hasSideData("dolby vision", "dovi") {
		return model.HDRDolbyVision
	}
	if sig.hasSideData("hdr10+", "hdr dynamic metadata", "smpte2094", "smpte 2094") {
		return model.HDR10Plus
	}

	transfer := strings.ToLower(strings.TrimSpace(sig.ColorTransfer))
	primaries := strings.ToLower(strings.TrimSpace(sig.ColorPrimaries))

	switch transfer {
	case "smpte2084", "smpte st 2084", "pq":
		if strings.HasPrefix(primaries, "bt2020") &&
			sig.hasSideData("mastering display", "content light") {
			return model.HDR10
		}
		return model.HDRPQ
	case "arib-std-b67", "hlg":
		return model.HDRHLG
	}

	return ""
}

func (sig VideoSignal) hasSideData(markers ...string) bool {
	for _, sd := range sig.SideData {
		lower := strings.ToLower(sd)
		for _, m := range markers {
			if strings.Contains(lower, m) {
				return true
			}
		}
	}
	return false
}
