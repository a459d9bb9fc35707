package glstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"zero", 0, false},
		{"limit", MaxTextureSizeLimit, false},
		{"negative", -1, true},
		{"over limit", MaxTextureSizeLimit + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Config{MaxTextureSize: tt.size}.Validate()
			if tt.wantErr != errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
	if got := (Config{}).maxTextureSize(); got != MaxTextureSizeLimit {
		t.Errorf("zero maxTextureSize() = %d, want %d", got, MaxTextureSizeLimit)
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
desktop_gl = true
s3tc = true
multiview = true
max_texture_size = 2048
`))
	require.NoError(t, err)
	assert.Equal(t, Config{
		DesktopGL:      true,
		S3TC:           true,
		ETC2:           true,
		Multiview:      true,
		MaxTextureSize: 2048,
	}, cfg)

	cfg, err = ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = ParseConfig([]byte(`etc2 = false` + "\n" + `max_texture_size = 99999`))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ParseConfig([]byte(`s3tc = "yes"`))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glstore.toml")
	require.NoError(t, os.WriteFile(path, []byte("etc2 = false\nrgtc = true\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.ETC2)
	assert.True(t, cfg.RGTC)
	assert.Equal(t, MaxTextureSizeLimit, cfg.MaxTextureSize)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
