package core

import "testing"

func TestApplyProcessorOptions(t *testing.T) {
	cfg := ApplyProcessorOptions()
	if cfg.SampleRate != 48000 || cfg.BlockSize != 1024 {
		t.Fatalf("defaults = %+v", cfg)
	}

	cfg = ApplyProcessorOptions(WithSampleRate(44100), WithBlockSize(256))
	if cfg.SampleRate != 44100 || cfg.BlockSize != 256 {
		t.Fatalf("got %+v", cfg)
	}

	// Invalid values keep the defaults.
	cfg = ApplyProcessorOptions(WithSampleRate(-1), WithBlockSize(0), nil)
	if cfg.SampleRate != 48000 || cfg.BlockSize != 1024 {
		t.Fatalf("invalid options applied: %+v", cfg)
	}
}
