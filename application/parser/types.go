package parser

// ffprobe JSON wire types. Numeric fields in ffprobe output arrive as
// strings; conversion happens during result building.

type probeOutput struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeFormat struct {
	Filename   string            `json:"filename"`
	NbStreams  int               `json:"nb_streams"`
	FormatName string            `json:"format_name"`
	Duration   string            `json:"duration"`
	Size       string            `json:"size"`
	BitRate    string            `json:"bit_rate"`
	Tags       map[string]string `json:"tags"`
}

type probeStream struct {
	Index            int               `json:"index"`
	CodecName        string            `json:"codec_name"`
	CodecType        string            `json:"codec_type"`
	Profile          string            `json:"profile"`
	Level            int               `json:"level"`
	PixFmt           string            `json:"pix_fmt"`
	Width            int               `json:"width"`
	Height           int               `json:"height"`
	BitRate          string            `json:"bit_rate"`
	BitsPerRawSample string            `json:"bits_per_raw_sample"`
	ColorTransfer    string            `json:"color_transfer"`
	ColorPrimaries   string            `json:"color_primaries"`
	ColorSpace       string            `json:"color_space"`
	AvgFrameRate     string            `json:"avg_frame_rate"`
	RFrameRate       string            `json:"r_frame_rate"`
	Channels         int               `json:"channels"`
	SampleRate       string            `json:"sample_rate"`
	Duration         string            `json:"duration"`
	Disposition      map[string]int    `json:"disposition"`
	Tags             map[string]string `json:"tags"`
	SideDataList     []probeSideData   `json:"side_data_list"`
}

type probeSideData struct {
	SideDataType string `json:"side_data_type"`
}

func (s *probeStream) isAttachedPic() bool {
	return s.Disposition["attached_pic"] == 1
}

func (s *probeStream) isDefault() bool {
	return s.Disposition["default"] == 1
}

func (s *probeStream) isForced() bool {
	return s.Disposition["forced"] == 1
}

func (s *probeStream) sideDataTypes() []string {
	if len(s.SideDataList) == 0 {
		return nil
	}
	types := make([]string, 0, len(s.SideDataList))
	for _, sd := range s.SideDataList {
		types = append(types, sd.SideDataType)
	}
	return types
}
