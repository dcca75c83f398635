// Package parser converts raw ffprobe JSON documents into normalized
// FileAnalysisResult records, applying the inference heuristics per
// stream and reconciling bitrates against the container totals.
package parser

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/bbidwell85/Totality-sub002/application/inference"
	"github.com/bbidwell85/Totality-sub002/domain/model"
	pkgerrors "github.com/bbidwell85/Totality-sub002/pkg/errors"
)

// artworkMIME maps attached-picture codec names to MIME types.
var artworkMIME = map[string]string{
	"png":   "image/png",
	"mjpeg": "image/jpeg",
	"jpeg":  "image/jpeg",
	"bmp":   "image/bmp",
	"gif":   "image/gif",
	"webp":  "image/webp",
	"tiff":  "image/tiff",
}

// Parse builds a FileAnalysisResult from one raw ffprobe JSON document.
// fallbackSize substitutes for the format-level size when the prober
// omits it (0 disables the fallback). Streams are classified in
// encounter order; attached pictures route to embedded artwork and are
// excluded from track classification; only the first video stream is
// kept.
func Parse(data []byte, path string, fallbackSize int64) (*model.FileAnalysisResult, error) {
	var raw probeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, pkgerrors.NewProbeParseError(path, "malformed prober output", err)
	}

	res := &model.FileAnalysisResult{
		Success:        true,
		FilePath:       path,
		Container:      raw.Format.FormatName,
		AudioTracks:    []model.AudioAttributes{},
		SubtitleTracks: []model.SubtitleAttributes{},
	}

	durationSec := parseFloat(raw.Format.Duration)
	if durationSec > 0 {
		ms := int64(durationSec * 1000)
		res.DurationMs = &ms
	}

	size := parseInt64(raw.Format.Size)
	if size <= 0 {
		size = fallbackSize
	}
	if size > 0 {
		res.FileSizeBytes = &size
	}

	overallKbps := 0
	if bps := parseInt64(raw.Format.BitRate); bps > 0 {
		overallKbps = int(bps / 1000)
		res.OverallBitrateKbps = &overallKbps
	}

	for i := range raw.Streams {
		s := &raw.Streams[i]

		if s.isAttachedPic() {
			if res.Artwork == nil {
				res.Artwork = &model.EmbeddedArtwork{
					MIMEType:    artworkMIMEType(s.CodecName),
					StreamIndex: s.Index,
				}
			}
			continue
		}

		switch s.CodecType {
		case "video":
			if res.Video == nil {
				res.Video = buildVideo(s, durationSec)
			}
		case "audio":
			res.AudioTracks = append(res.AudioTracks, buildAudio(s, durationSec))
		case "subtitle":
			res.SubtitleTracks = append(res.SubtitleTracks, buildSubtitle(s))
		}
	}

	if tags := extractMetadataTags(raw.Format.Tags); tags != nil {
		res.Metadata = tags
	}

	reconcileVideo(res, overallKbps, durationSec)
	return res, nil
}

func buildVideo(s *probeStream, overallDurationSec float64) *model.VideoAttributes {
	v := &model.VideoAttributes{
		Codec:          s.CodecName,
		Profile:        s.Profile,
		Level:          s.Level,
		Width:          s.Width,
		Height:         s.Height,
		PixelFormat:    s.PixFmt,
		ColorSpace:     s.ColorSpace,
		ColorTransfer:  s.ColorTransfer,
		ColorPrimaries: s.ColorPrimaries,
	}

	if kbps, ok := inference.StreamBitrateKbps(sample(s), overallDurationSec); ok {
		v.BitrateKbps = &kbps
	}

	rate := s.AvgFrameRate
	fps, ok := inference.ParseFrameRate(rate)
	if !ok {
		fps, ok = inference.ParseFrameRate(s.RFrameRate)
	}
	if ok {
		v.FrameRate = &fps
	}

	if depth, ok := inference.BitDepth(s.BitsPerRawSample, s.PixFmt); ok {
		v.BitDepth = &depth
	}

	v.HDRFormat = inference.DetectHDRFormat(inference.VideoSignal{
		ColorTransfer:  s.ColorTransfer,
		ColorPrimaries: s.ColorPrimaries,
		SideData:       s.sideDataTypes(),
	})

	return v
}

func buildAudio(s *probeStream, overallDurationSec float64) model.AudioAttributes {
	channels := s.Channels
	if channels < 1 {
		channels = 1
	}

	a := model.AudioAttributes{
		Codec:     s.CodecName,
		Profile:   s.Profile,
		Channels:  channels,
		Language:  s.Tags["language"],
		Title:     s.Tags["title"],
		IsDefault: s.isDefault(),
	}

	sampleRate := 0
	if sr := parseInt64(s.SampleRate); sr > 0 {
		sampleRate = int(sr)
		a.SampleRate = &sampleRate
	}

	if depth, err := strconv.Atoi(strings.TrimSpace(s.BitsPerRawSample)); err == nil && depth > 0 {
		a.BitDepth = &depth
	}

	a.HasObjectAudio = inference.HasObjectAudio(s.CodecName, s.Profile, a.Title)

	if kbps, ok := inference.StreamBitrateKbps(sample(s), overallDurationSec); ok {
		a.BitrateKbps = &kbps
	} else if kbps, ok := inference.EstimateAudioBitrateKbps(s.CodecName, channels, s.Profile, sampleRate); ok {
		a.BitrateKbps = &kbps
	}

	return a
}

func buildSubtitle(s *probeStream) model.SubtitleAttributes {
	return model.SubtitleAttributes{
		Codec:     s.CodecName,
		Language:  s.Tags["language"],
		Title:     s.Tags["title"],
		IsDefault: s.isDefault(),
		IsForced:  s.isForced(),
	}
}

// reconcileVideo replaces or supplies the video bitrate from the
// container totals when the stream-level value is missing or
// implausible.
func reconcileVideo(res *model.FileAnalysisResult, overallKbps int, durationSec float64) {
	if res.Video == nil {
		return
	}

	audioSum := 0
	for _, a := range res.AudioTracks {
		if a.BitrateKbps != nil {
			audioSum += *a.BitrateKbps
		}
	}

	reported := 0
	if res.Video.BitrateKbps != nil {
		reported = *res.Video.BitrateKbps
	}

	var size int64
	if res.FileSizeBytes != nil {
		size = *res.FileSizeBytes
	}

	if kbps, ok := inference.ReconcileVideoBitrate(reported, overallKbps, size, durationSec, audioSum); ok && kbps > 0 {
		res.Video.BitrateKbps = &kbps
	}
}

func artworkMIMEType(codec string) string {
	if mime, ok := artworkMIME[strings.ToLower(codec)]; ok {
		return mime
	}
	return "image/jpeg"
}

func sample(s *probeStream) inference.StreamSample {
	return inference.StreamSample{
		BitRate:     s.BitRate,
		DurationSec: parseFloat(s.Duration),
		Tags:        s.Tags,
	}
}

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
