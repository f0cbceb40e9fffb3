package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/caucus/internal/caucus"
	"github.com/f3rmion/caucus/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	s, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "caucus.db", s.Database)
	assert.Equal(t, "info", s.Logging.Level)
	assert.Equal(t, "console", s.Logging.Format)
	assert.Equal(t, 1, s.Impro.DefaultPlaces)
	assert.Equal(t, "text", s.Sheet.Format)
	assert.Equal(t, filepath.Join(s.DataDir, "caucus.db"), s.DatabasePath())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "caucus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: `+dir+`
database: /tmp/other.db
logging:
  level: debug
impro:
  default_places: 3
  seed: 99
`), 0644))
	t.Setenv("CAUCUS_SHEET_FORMAT", "markdown")

	v := viper.New()
	v.SetConfigFile(path)
	s, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", s.Logging.Level)
	assert.Equal(t, 3, s.Impro.DefaultPlaces)
	assert.Equal(t, uint64(99), s.Impro.Seed)
	assert.Equal(t, "markdown", s.Sheet.Format)
	assert.Equal(t, "/tmp/other.db", s.DatabasePath())
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := config.Load(v)
	require.NoError(t, err)
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	s := config.Settings{
		Logging: config.LoggingConfig{Level: "loud", Format: "xml"},
		Impro:   config.ImproConfig{DefaultPlaces: 11},
		Sheet:   config.SheetConfig{Format: "pdf"},
	}
	err := s.Validate()
	require.Error(t, err)
	for _, want := range []string{"database", "logging.level", "logging.format", "impro.default_places", "sheet.format"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestPools_RoundTripFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.PoolsFile)
	in := config.Pools{
		Characters: []caucus.Character{{ID: "c1", Name: "Pirate"}},
		Moods:      []caucus.Mood{{Name: "Joyful"}},
		Places:     []caucus.Place{{ID: "p1", Name: "Bakery"}},
	}
	require.NoError(t, config.SavePools(path, in))

	out, err := config.LoadPools(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, 3, out.Len())
}

func TestDefaultPools_Parse(t *testing.T) {
	p, err := config.ParsePools([]byte(config.DefaultPools))
	require.NoError(t, err)
	assert.NotEmpty(t, p.Characters)
	assert.NotEmpty(t, p.Moods)
	assert.NotEmpty(t, p.Places)
	for _, c := range p.Characters {
		assert.Empty(t, c.ID)
		assert.NotEmpty(t, c.Name)
	}
}

func TestLoadPools_Errors(t *testing.T) {
	_, err := config.LoadPools(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading pools file")

	_, err = config.ParsePools([]byte("characters: [unterminated"))
	assert.ErrorContains(t, err, "parsing pools file")
}
