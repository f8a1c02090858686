// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/user/h264kit/pkg/adapters/openh264"
	"github.com/user/h264kit/pkg/convert"
	"gopkg.in/yaml.v3"
)

// Config represents the full configuration for a codec session pair.
type Config struct {
	// Logging
	LogLevel string `yaml:"log_level"`

	// Color conversion
	Matrix string `yaml:"matrix"`

	Decoder DecoderConfig `yaml:"decoder"`
	Encoder EncoderConfig `yaml:"encoder"`
}

// DecoderConfig represents decode session settings.
type DecoderConfig struct {
	Threads          int  `yaml:"threads"`
	ErrorConcealment bool `yaml:"error_concealment"`
	TraceNative      bool `yaml:"trace_native"`
}

// EncoderConfig represents encode session settings.
type EncoderConfig struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	BitrateBps      int     `yaml:"bitrate_bps"`
	FrameRate       float64 `yaml:"frame_rate"`
	RateControl     string  `yaml:"rate_control"`
	EnableSkipFrame bool    `yaml:"enable_skip_frame"`
	EnableDenoise   bool    `yaml:"enable_denoise"`
	TraceNative     bool    `yaml:"trace_native"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		LogLevel: "info",
		Matrix:   "bt601",

		Decoder: DecoderConfig{
			ErrorConcealment: true,
		},

		Encoder: EncoderConfig{
			Width:           640,
			Height:          480,
			BitrateBps:      120_000,
			FrameRate:       30.0,
			RateControl:     "quality",
			EnableSkipFrame: true,
		},
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ParseMatrix resolves a matrix name to its conversion coefficients.
func ParseMatrix(name string) (convert.Matrix, error) {
	switch strings.ToLower(name) {
	case "bt601", "bt.601", "":
		return convert.BT601, nil
	case "bt709", "bt.709":
		return convert.BT709, nil
	default:
		return convert.Matrix{}, fmt.Errorf("%w: matrix %q", convert.ErrUnsupportedFormat, name)
	}
}

// ParseRateControl resolves a rate control name to its native mode.
func ParseRateControl(name string) (openh264.RateControlMode, error) {
	switch strings.ToLower(name) {
	case "quality", "":
		return openh264.RateControlQuality, nil
	case "bitrate":
		return openh264.RateControlBitrate, nil
	case "buffer":
		return openh264.RateControlBufferBased, nil
	case "timestamp":
		return openh264.RateControlTimestamp, nil
	case "off":
		return openh264.RateControlOff, nil
	default:
		return openh264.RateControlQuality, fmt.Errorf("unknown rate control mode %q", name)
	}
}

// ToDecoderConfig converts Config to an openh264 decode session config.
func (c Config) ToDecoderConfig() openh264.DecoderConfig {
	return openh264.DecoderConfig{
		Threads:          c.Decoder.Threads,
		ErrorConcealment: c.Decoder.ErrorConcealment,
		TraceNative:      c.Decoder.TraceNative,
	}
}

// ToEncoderConfig converts Config to an openh264 encode session config.
func (c Config) ToEncoderConfig() (openh264.EncoderConfig, error) {
	rc, err := ParseRateControl(c.Encoder.RateControl)
	if err != nil {
		return openh264.EncoderConfig{}, err
	}
	return openh264.EncoderConfig{
		Width:           c.Encoder.Width,
		Height:          c.Encoder.Height,
		BitrateBps:      c.Encoder.BitrateBps,
		FrameRate:       c.Encoder.FrameRate,
		RateControl:     rc,
		EnableSkipFrame: c.Encoder.EnableSkipFrame,
		EnableDenoise:   c.Encoder.EnableDenoise,
		TraceNative:     c.Encoder.TraceNative,
	}, nil
}
