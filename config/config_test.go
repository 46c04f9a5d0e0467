package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 5000, cfg.Merge.SharedFloor)
	assert.Equal(t, "Windows 1252", cfg.Merge.Encoding)
	assert.True(t, cfg.Merge.Lights)
	assert.Empty(t, cfg.Merge.Namespaces)

	assert.Equal(t, []string{"placements", "models", "textures"}, cfg.Static.Import)
	assert.Equal(t, 1000, cfg.Static.ModelFloor)
	assert.Equal(t, 0x1000, cfg.Static.InstanceFloor)
	assert.Equal(t, 3000, cfg.Placeable.ModelFloor)
	assert.Equal(t, 2000, cfg.Terrain.ModelFloor)
	assert.Equal(t, 0x4000, cfg.Volume.InstanceFloor)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("LEVELPORT_MERGE_SHARED_FLOOR", "7000")
	t.Setenv("LEVELPORT_TERRAIN_MODEL_FLOOR", "2500")
	t.Setenv("LEVELPORT_LOG_FORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Merge.SharedFloor)
	assert.Equal(t, 2500, cfg.Terrain.ModelFloor)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levelport.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
merge:
  shared_floor: 9000
  namespaces:
    all: [static, placeable, terrain]
    volume: [volume]
static:
  import: [models]
  model_floor: 100
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Merge.SharedFloor)
	assert.Equal(t, []string{"static", "placeable", "terrain"}, cfg.Merge.Namespaces["all"])
	assert.Equal(t, []string{"models"}, cfg.Static.Import)
	assert.Equal(t, 100, cfg.Static.ModelFloor)
	assert.Equal(t, 0x1000, cfg.Static.InstanceFloor)

	c, ok := cfg.Class("static")
	assert.True(t, ok)
	assert.Equal(t, cfg.Static, c)
	_, ok = cfg.Class("decal")
	assert.False(t, ok)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEncodings(t *testing.T) {
	assert.Contains(t, ListEncodings(), "Windows 1252")
	_, err := FindEncoding("Klingon")
	assert.Error(t, err)

	require.NoError(t, SetEncoding("Windows 1251"))
	assert.Equal(t, "Windows 1251", GetEncoding().String())
	require.NoError(t, SetEncoding("Windows 1252"))
}

func TestFormatVersion(t *testing.T) {
	assert.True(t, FormatV1.Supported())
	assert.True(t, FormatCurrent.Supported())
	assert.False(t, FormatUnknown.Supported())
	assert.Equal(t, "v2", FormatV2.String())
}
