package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/gojacktrip/jtcore/internal/negotiate"
	"github.com/gojacktrip/jtcore/pkg/sampleformat"
)

// Defaults for the coherent tuple documented in spec §9's Open Question:
// 48 kHz / 64 frames per packet, matching a standard JackTrip server
// configuration rather than the source's embedded-target defaults.
const (
	DefaultSampleRate       = 48000
	DefaultAudioBlockFrames = 64
	DefaultChannels         = 2
	DefaultSampleFormat     = "s16"
	DefaultVolume           = 1.0
	DefaultReceiveTimeoutS  = 5
	DefaultDiagAddr         = ":8973"
)

// Config is the endpoint's full runtime configuration: the compile-time
// constant set of spec §6, made overridable.
type Config struct {
	ServerIP        string
	TCPPort         int
	Channels        int
	FramesPerPacket int
	SampleRate      int
	SampleFormat    sampleformat.SourceFormat
	Volume          float64
	ReceiveTimeout  time.Duration
	DiagAddr        string
	UseTUI          bool
	LogFile         string
}

// Defaults returns the built-in coherent configuration tuple.
func Defaults() Config {
	return Config{
		TCPPort:         negotiate.JackTripTCPPort,
		Channels:        DefaultChannels,
		FramesPerPacket: DefaultAudioBlockFrames,
		SampleRate:      DefaultSampleRate,
		SampleFormat:    sampleformat.S16,
		Volume:          DefaultVolume,
		ReceiveTimeout:  DefaultReceiveTimeoutS * time.Second,
		DiagAddr:        DefaultDiagAddr,
	}
}

// LoadFile layers a config file (if it exists) and JTCORE_-prefixed
// environment variables over Defaults(). path may be empty, in which case
// only environment overrides apply.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()

	v := viper.New()
	v.SetDefault("server_ip", cfg.ServerIP)
	v.SetDefault("tcp_port", cfg.TCPPort)
	v.SetDefault("channels", cfg.Channels)
	v.SetDefault("frames_per_packet", cfg.FramesPerPacket)
	v.SetDefault("sample_rate", cfg.SampleRate)
	v.SetDefault("sample_format", DefaultSampleFormat)
	v.SetDefault("volume", cfg.Volume)
	v.SetDefault("receive_timeout_sec", DefaultReceiveTimeoutS)
	v.SetDefault("diag_addr", cfg.DiagAddr)
	v.SetDefault("use_tui", false)
	v.SetDefault("log_file", "")

	v.SetEnvPrefix("JTCORE")
	v.AutomaticEnv()

	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return cfg, fmt.Errorf("config: read %s: %w", path, err)
			}
		}
	}

	cfg.ServerIP = v.GetString("server_ip")
	cfg.TCPPort = v.GetInt("tcp_port")
	cfg.Channels = v.GetInt("channels")
	cfg.FramesPerPacket = v.GetInt("frames_per_packet")
	cfg.SampleRate = v.GetInt("sample_rate")
	cfg.Volume = v.GetFloat64("volume")
	cfg.ReceiveTimeout = time.Duration(v.GetInt("receive_timeout_sec")) * time.Second
	cfg.DiagAddr = v.GetString("diag_addr")
	cfg.UseTUI = v.GetBool("use_tui")
	cfg.LogFile = v.GetString("log_file")

	sf, err := parseSampleFormat(v.GetString("sample_format"))
	if err != nil {
		return cfg, err
	}
	cfg.SampleFormat = sf

	return cfg, cfg.Validate()
}

func parseSampleFormat(s string) (sampleformat.SourceFormat, error) {
	switch strings.ToLower(s) {
	case "u8":
		return sampleformat.U8, nil
	case "s16", "":
		return sampleformat.S16, nil
	case "s24":
		return sampleformat.S24, nil
	case "u32":
		return sampleformat.U32, nil
	default:
		return 0, fmt.Errorf("config: unknown sample_format %q", s)
	}
}

// Validate checks the tuple for internal consistency per spec §6's
// constraint domains. ServerIP is allowed to be empty: an empty ServerIP
// tells the caller to fall back to internal/discovery.
func (c Config) Validate() error {
	if c.Channels != 1 && c.Channels != 2 {
		return fmt.Errorf("config: channels must be 1 or 2, got %d", c.Channels)
	}
	switch c.SampleRate {
	case 22050, 32000, 44100, 48000:
	default:
		return fmt.Errorf("config: unsupported sample_rate %d", c.SampleRate)
	}
	if c.FramesPerPacket <= 0 {
		return fmt.Errorf("config: frames_per_packet must be positive, got %d", c.FramesPerPacket)
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("config: volume must be within [0,1], got %f", c.Volume)
	}
	return nil
}
