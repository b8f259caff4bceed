package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvService_Getters(t *testing.T) {
	t.Setenv("T_BOOL_YES", "yes")
	t.Setenv("T_BOOL_OFF", "off")
	t.Setenv("T_BOOL_BAD", "maybe")
	t.Setenv("T_INT", " 42 ")
	t.Setenv("T_INT_BAD", "x")
	t.Setenv("T_FLOAT", "2.5")
	t.Setenv("T_CSV", " a.com, ,b.org ,")

	e := &EnvService{}

	assert.True(t, e.GetBool("T_BOOL_YES", false))
	assert.False(t, e.GetBool("T_BOOL_OFF", true))
	assert.True(t, e.GetBool("T_BOOL_BAD", true))
	assert.False(t, e.GetBool("T_UNSET", false))
	assert.Equal(t, 42, e.GetInt("T_INT", 0))
	assert.Equal(t, 7, e.GetInt("T_INT_BAD", 7))
	assert.Equal(t, 2.5, e.GetFloat("T_FLOAT", 0))
	assert.Equal(t, []string{"a.com", "b.org"}, e.GetCSV("T_CSV"))
	assert.Nil(t, e.GetCSV("T_UNSET"))

	_, err := e.MustGet("T_UNSET")
	assert.ErrorContains(t, err, "T_UNSET")
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "CORS_ORIGINS", "MAX_ITERATIONS", "LANGCHAIN_MAX_ITERATIONS", "TASK_TTL_SECONDS", "BROWSER_HEADLESS", "LLM_PROVIDER"} {
		t.Setenv(k, "")
	}

	cfg := (&EnvService{}).LoadConfig()

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.PolicyEnforcement)
	assert.Equal(t, 5_000_000, cfg.MaxQueryChars)
	assert.Equal(t, 24*time.Hour, cfg.TaskTTL)
	assert.Equal(t, 200, cfg.RecentTasksMax)
	assert.Equal(t, 100, cfg.MaxIterations)
	assert.True(t, cfg.BrowserHeadless)
	assert.Equal(t, LLMProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
}

func TestLoadConfig_IterationPrecedence(t *testing.T) {
	t.Setenv("MAX_ITERATIONS", "20")
	t.Setenv("LANGCHAIN_MAX_ITERATIONS", "")
	assert.Equal(t, 20, (&EnvService{}).LoadConfig().MaxIterations)

	t.Setenv("LANGCHAIN_MAX_ITERATIONS", "7")
	assert.Equal(t, 7, (&EnvService{}).LoadConfig().MaxIterations)
}

func TestNewEnvService_LoadsDotenvFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("T_LAYER=base\nT_BASE_ONLY=1\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte("T_LAYER=override\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("APP_ENV", "test")
	t.Setenv("T_LAYER", "")
	t.Setenv("T_BASE_ONLY", "")
	os.Unsetenv("T_LAYER")
	os.Unsetenv("T_BASE_ONLY")

	e := NewEnvService()

	assert.Equal(t, []string{".env", ".env.test"}, e.LoadedFiles())
	assert.Equal(t, "override", e.Get("T_LAYER"))
	assert.Equal(t, "1", e.Get("T_BASE_ONLY"))
}
