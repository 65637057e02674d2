package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gojacktrip/jtcore/pkg/sampleformat"
)

func TestDefaultsAreValid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("Defaults() failed validation: %v", err)
	}
}

func TestLoadFileWithNoFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile(\"\") error = %v", err)
	}
	if cfg.SampleRate != DefaultSampleRate || cfg.FramesPerPacket != DefaultAudioBlockFrames {
		t.Errorf("cfg = %+v, want the built-in defaults", cfg)
	}
	if cfg.SampleFormat != sampleformat.S16 {
		t.Errorf("SampleFormat = %v, want S16", cfg.SampleFormat)
	}
}

func TestLoadFileOverridesFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jtcore.yaml")
	body := "server_ip: 10.0.0.5\nchannels: 1\nsample_format: u32\nvolume: 0.5\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.ServerIP != "10.0.0.5" {
		t.Errorf("ServerIP = %q, want 10.0.0.5", cfg.ServerIP)
	}
	if cfg.Channels != 1 {
		t.Errorf("Channels = %d, want 1", cfg.Channels)
	}
	if cfg.SampleFormat != sampleformat.U32 {
		t.Errorf("SampleFormat = %v, want U32", cfg.SampleFormat)
	}
	if cfg.Volume != 0.5 {
		t.Errorf("Volume = %v, want 0.5", cfg.Volume)
	}
}

func TestLoadFileMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadFile("/nonexistent/path/jtcore.yaml")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.SampleRate != DefaultSampleRate {
		t.Errorf("SampleRate = %d, want default %d", cfg.SampleRate, DefaultSampleRate)
	}
}

func TestValidateRejectsBadChannelCount(t *testing.T) {
	cfg := Defaults()
	cfg.Channels = 3
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for channels=3")
	}
}

func TestValidateRejectsUnsupportedSampleRate(t *testing.T) {
	cfg := Defaults()
	cfg.SampleRate = 12345
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for an unsupported sample rate")
	}
}

func TestValidateRejectsVolumeOutOfRange(t *testing.T) {
	cfg := Defaults()
	cfg.Volume = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for volume > 1")
	}
}

func TestParseSampleFormatUnknown(t *testing.T) {
	if _, err := parseSampleFormat("dsd"); err == nil {
		t.Error("expected an error for an unknown sample format")
	}
}
