package inference

import "testing"

func TestHasObjectAudio(t *testing.T) {
	cases := []struct {
		name    string
		codec   string
		profile string
		title   string
		want    bool
	}{
		{"truehd atmos profile", "truehd", "Atmos", "", true},
		{"truehd atmos long profile", "truehd", "Dolby TrueHD + Dolby Atmos", "", true},
		{"truehd atmos title only", "truehd", "", "TrueHD 7.1 Atmos", true},
		{"truehd plain", "truehd", "", "", false},
		{"eac3 atmos", "eac3", "Dolby Digital Plus + Dolby Atmos", "", true},
		{"eac3 plain", "eac3", "Dolby Digital Plus", "", false},
		{"dts x profile", "dts", "DTS:X", "", true},
		{"dts bare x profile", "dts", "X", "", true},
		{"dts x title", "dts", "DTS-HD MA", "DTS:X 7.1", true},
		{"dts hd ma plain", "dts", "DTS-HD MA", "Surround 7.1", false},
		{"aac", "aac", "", "", false},
		{"ac3", "ac3", "", "", false},
		{"flac", "flac", "", "Atmos rip", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := HasObjectAudio(tc.codec, tc.profile, tc.title)
			if got != tc.want {
				t.Errorf("HasObjectAudio(%q,%q,%q): got %v, want %v",
					tc.codec, tc.profile, tc.title, got, tc.want)
			}
		})
	}
}

func TestEstimateAudioBitrateKbps(t *testing.T) {
	cases := []struct {
		name       string
		codec      string
		channels   int
		profile    string
		sampleRate int
		want       int
		ok         bool
	}{
		{"ac3 stereo", "ac3", 2, "", 48000, 192, true},
		{"ac3 5.1", "ac3", 6, "", 48000, 448, true},
		{"ac3 7.1", "ac3", 8, "", 48000, 640, true},
		{"eac3 5.1", "eac3", 6, "", 48000, 640, true},
		{"eac3 7.1", "eac3", 8, "", 48000, 768, true},
		{"truehd 5.1 at 48k", "truehd", 6, "", 48000, 3000, true},
		{"truehd 5.1 at 96k doubles", "truehd", 6, "", 96000, 6000, true},
		{"truehd 7.1", "truehd", 8, "", 48000, 4500, true},
		{"dts ma 5.1", "dts", 6, "DTS-HD MA", 48000, 3500, true},
		{"dts hra 5.1", "dts", 6, "DTS-HD HRA", 48000, 2000, true},
		{"dts core stereo", "dts", 2, "", 48000, 768, true},
		{"dts core 5.1", "dts", 6, "", 48000, 1509, true},
		{"flac stereo 48k", "flac", 2, "", 48000, 921, true},
		{"flac 5.1 96k", "flac", 6, "", 96000, 5529, true},
		{"pcm stereo 48k", "pcm_s16le", 2, "", 48000, 1536, true},
		{"unknown codec", "aac", 2, "", 48000, 0, false},
		{"zero channels clamps to one", "ac3", 0, "", 48000, 192, true},
		{"zero sample rate defaults", "flac", 2, "", 0, 921, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := EstimateAudioBitrateKbps(tc.codec, tc.channels, tc.profile, tc.sampleRate)
			if ok != tc.ok {
				t.Fatalf("ok: got %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}
