package mocks

import (
	"context"
	"sync"
)

// MockProbeExecutor is a test double for ports.ProbeExecutor
type MockProbeExecutor struct {
	ProbeFunc func(ctx context.Context, path string) ([]byte, error)

	mu     sync.Mutex
	probed []string
}

func (m *MockProbeExecutor) Probe(ctx context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	m.probed = append(m.probed, path)
	m.mu.Unlock()

	if m.ProbeFunc != nil {
		return m.ProbeFunc(ctx, path)
	}
	return DefaultProbeResponse(), nil
}

// Probed returns the paths probed so far, in call order.
func (m *MockProbeExecutor) Probed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.probed...)
}

// DefaultProbeResponse is a realistic ffprobe document for a small
// h264/aac MP4.
func DefaultProbeResponse() []byte {
	return []byte(`{
		"streams": [
			{
				"index": 0,
				"codec_name": "h264",
				"codec_type": "video",
				"profile": "High",
				"level": 40,
				"pix_fmt": "yuv420p",
				"width": 1920,
				"height": 1080,
				"bit_rate": "4500000",
				"avg_frame_rate": "24000/1001",
				"disposition": { "default": 1, "attached_pic": 0 }
			},
			{
				"index": 1,
				"codec_name": "aac",
				"codec_type": "audio",
				"profile": "LC",
				"channels": 2,
				"sample_rate": "48000",
				"bit_rate": "192000",
				"disposition": { "default": 1, "attached_pic": 0 },
				"tags": { "language": "eng" }
			}
		],
		"format": {
			"filename": "sample.mp4",
			"nb_streams": 2,
			"format_name": "mov,mp4,m4a,3gp,3g2,mj2",
			"duration": "1200.000000",
			"size": "720000000",
			"bit_rate": "4800000",
			"tags": { "title": "Sample" }
		}
	}`)
}

// MockStorageProvider is a test double for ports.StorageProvider
type MockStorageProvider struct {
	ExistsFunc func(ctx context.Context, path string) (bool, error)
	SizeFunc   func(ctx context.Context, path string) (int64, error)
}

func (m *MockStorageProvider) Exists(ctx context.Context, path string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, path)
	}
	return true, nil
}

func (m *MockStorageProvider) Size(ctx context.Context, path string) (int64, error) {
	if m.SizeFunc != nil {
		return m.SizeFunc(ctx, path)
	}
	return 720000000, nil
}
