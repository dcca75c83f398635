package model

// HDRFormat identifies the HDR signaling standard detected on a video stream.
type HDRFormat string

const (
	HDRDolbyVision HDRFormat = "Dolby Vision"
	HDR10Plus      HDRFormat = "HDR10+"
	HDR10          HDRFormat = "HDR10"
	HDRPQ          HDRFormat = "PQ"
	HDRHLG         HDRFormat = "HLG"
)

// VideoAttributes describes the primary video stream of a file.
// Pointer fields are nil when the probe gave no usable signal; a nil
// field means "unknown", never zero.
type VideoAttributes struct {
	Codec          string     `json:"codec"`
	Profile        string     `json:"profile,omitempty"`
	Level          int        `json:"level,omitempty"`
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	BitrateKbps    *int       `json:"bitrateKbps,omitempty"`
	FrameRate      *float64   `json:"frameRate,omitempty"`
	BitDepth       *int       `json:"bitDepth,omitempty"`
	PixelFormat    string     `json:"pixelFormat,omitempty"`
	ColorSpace     string     `json:"colorSpace,omitempty"`
	ColorTransfer  string     `json:"colorTransfer,omitempty"`
	ColorPrimaries string     `json:"colorPrimaries,omitempty"`
	HDRFormat      HDRFormat  `json:"hdrFormat,omitempty"`
}

// AudioAttributes describes one audio track.
type AudioAttributes struct {
	Codec          string `json:"codec"`
	Profile        string `json:"profile,omitempty"`
	Channels       int    `json:"channels"`
	BitrateKbps    *int   `json:"bitrateKbps,omitempty"`
	SampleRate     *int   `json:"sampleRate,omitempty"`
	BitDepth       *int   `json:"bitDepth,omitempty"`
	Language       string `json:"language,omitempty"`
	Title          string `json:"title,omitempty"`
	IsDefault      bool   `json:"isDefault"`
	HasObjectAudio bool   `json:"hasObjectAudio"`
}

// SubtitleAttributes describes one subtitle track.
type SubtitleAttributes struct {
	Codec     string `json:"codec"`
	Language  string `json:"language,omitempty"`
	Title     string `json:"title,omitempty"`
	IsDefault bool   `json:"isDefault"`
	IsForced  bool   `json:"isForced"`
}

// EmbeddedArtwork records a cover-art stream found in the container.
// Such streams are excluded from video/audio/subtitle classification.
type EmbeddedArtwork struct {
	MIMEType    string `json:"mimeType"`
	StreamIndex int    `json:"streamIndex"`
}

// EmbeddedMetadataTags holds descriptive tags extracted from the
// container, best-effort. Each field comes from an ordered list of
// alternate tag keys; the first key present wins.
type EmbeddedMetadataTags struct {
	Title        string `json:"title,omitempty"`
	Year         *int   `json:"year,omitempty"`
	Description  string `json:"description,omitempty"`
	ShowName     string `json:"showName,omitempty"`
	Season       *int   `json:"season,omitempty"`
	Episode      *int   `json:"episode,omitempty"`
	EpisodeTitle string `json:"episodeTitle,omitempty"`
}

// FileAnalysisResult is the normalized technical-metadata record for one
// media file. It is immutable once produced. At most one video entry is
// kept per file: when a probe reports several video streams only the
// first encountered survives, later ones are dropped.
type FileAnalysisResult struct {
	Success            bool                  `json:"success"`
	Error              string                `json:"error,omitempty"`
	FilePath           string                `json:"filePath"`
	Container          string                `json:"container,omitempty"`
	DurationMs         *int64                `json:"durationMs,omitempty"`
	FileSizeBytes      *int64                `json:"fileSizeBytes,omitempty"`
	OverallBitrateKbps *int                  `json:"overallBitrateKbps,omitempty"`
	Video              *VideoAttributes      `json:"video,omitempty"`
	AudioTracks        []AudioAttributes     `json:"audioTracks"`
	SubtitleTracks     []SubtitleAttributes  `json:"subtitleTracks"`
	Artwork            *EmbeddedArtwork      `json:"embeddedArtwork,omitempty"`
	Metadata           *EmbeddedMetadataTags `json:"embeddedMetadata,omitempty"`
}

// FailedResult builds a success=false record carrying a readable error.
func FailedResult(path, errMsg string) *FileAnalysisResult {
	return &FileAnalysisResult{
		Success:  false,
		Error:    errMsg,
		FilePath: path,
	}
}

// PoolStats is a point-in-time snapshot of the worker pool, recomputed
// on every request.
type PoolStats struct {
	MaxWorkers    int `json:"maxWorkers"`
	ActiveWorkers int `json:"activeWorkers"`
	QueuedTasks   int `json:"queuedTasks"`
}
