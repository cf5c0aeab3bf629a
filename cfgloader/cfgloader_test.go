package cfgloader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/paycheckout/cfgloader"
)

type testConfig struct {
	ServiceName string `yaml:"service_name" validate:"required"`
	Level       string `yaml:"level"        default:"info"`
	Secret      string `yaml:"secret"                          mask:"true"`
}

func writeConfig(t *testing.T, env, body string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, env+".yaml"), []byte(body), 0o600))
	return dir
}

func TestLoad(t *testing.T) {
	t.Setenv("PAYPAL_SECRET", "s3cr3t")
	dir := writeConfig(t, cfgloader.EnvTest, "service_name: checkout\nsecret: ${PAYPAL_SECRET}\n")

	cfg, err := cfgloader.Load[testConfig](
		cfgloader.WithConfigDir(dir),
		cfgloader.WithEnvironment(cfgloader.EnvTest),
		cfgloader.WithSilent(),
	)
	require.NoError(t, err)

	assert.Equal(t, "checkout", cfg.ServiceName)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "s3cr3t", cfg.Secret)
}

func TestLoadErrors(t *testing.T) {
	t.Run("unknown environment", func(t *testing.T) {
		_, err := cfgloader.Load[testConfig](cfgloader.WithEnvironment("qa"), cfgloader.WithSilent())
		assert.True(t, errx.IsCodeIn(err, cfgloader.CodeInvalidConfig))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := cfgloader.Load[testConfig](
			cfgloader.WithConfigDir(t.TempDir()),
			cfgloader.WithEnvironment(cfgloader.EnvTest),
			cfgloader.WithSilent(),
		)
		assert.True(t, errx.IsCodeIn(err, cfgloader.CodeInvalidConfig))
	})

	t.Run("failed validation", func(t *testing.T) {
		dir := writeConfig(t, cfgloader.EnvTest, "level: debug\n")

		_, err := cfgloader.Load[testConfig](
			cfgloader.WithConfigDir(dir),
			cfgloader.WithEnvironment(cfgloader.EnvTest),
			cfgloader.WithSilent(),
		)
		require.Error(t, err)
		assert.Equal(t, errx.T_Validation, errx.GetType(err))
		assert.Contains(t, err.Error(), "ServiceName: required")
	})

	t.Run("pointer config", func(t *testing.T) {
		_, err := cfgloader.Load[*testConfig](cfgloader.WithSilent())
		assert.True(t, errx.IsCodeIn(err, cfgloader.CodeInvalidConfig))
	})
}
