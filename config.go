package glstore

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// MaxTextureSizeLimit is the largest accepted texture size override.
const MaxTextureSizeLimit = 16384

// Config describes the capabilities of the GL context a Storage runs on.
//
// The zero value is a bare ES 3.0 context without compression extensions.
// DefaultConfig returns the values used when no Config is given.
type Config struct {
	// DesktopGL selects the desktop profile: single channel luminance
	// formats use swizzled R8/RG8 storage and readback uses GetTexImage.
	DesktopGL bool `toml:"desktop_gl"`

	// S3TC, RGTC, BPTC and ETC2 report compressed format support.
	// Unsupported formats are decompressed on upload.
	S3TC bool `toml:"s3tc"`
	RGTC bool `toml:"rgtc"`
	BPTC bool `toml:"bptc"`
	ETC2 bool `toml:"etc2"`

	// Multiview enables layered render targets for view counts above one.
	Multiview bool `toml:"multiview"`

	// MaxTextureSize bounds texture size overrides. Zero means
	// MaxTextureSizeLimit.
	MaxTextureSize int `toml:"max_texture_size"`
}

// DefaultConfig returns the configuration of an ES 3.0 context, which
// always supports ETC2.
func DefaultConfig() Config {
	return Config{
		ETC2:           true,
		MaxTextureSize: MaxTextureSizeLimit,
	}
}

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("glstore: invalid config")

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.MaxTextureSize < 0 || c.MaxTextureSize > MaxTextureSizeLimit {
		return fmt.Errorf("%w: max_texture_size %d out of range [0, %d]", ErrInvalidConfig, c.MaxTextureSize, MaxTextureSizeLimit)
	}
	return nil
}

func (c Config) maxTextureSize() int {
	if c.MaxTextureSize == 0 {
		return MaxTextureSizeLimit
	}
	return c.MaxTextureSize
}

// ParseConfig decodes a TOML document on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("glstore: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("glstore: load config: %w", err)
	}
	return ParseConfig(data)
}
