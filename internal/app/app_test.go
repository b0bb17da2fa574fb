package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/finbot/internal/clients/gemini"
	"github.com/bobmcallan/finbot/internal/models"
)

// writeTestConfig writes catalogs and a config file into a temp dir and
// returns the config path.
func writeTestConfig(t *testing.T, backend string) string {
	t.Helper()
	for _, k := range []string{"GOOGLE_API_KEY", "GEMINI_API_KEY", "FINBOT_GEMINI_API_KEY", "FINBOT_STORAGE_BACKEND", "FINBOT_CATALOG_EN", "FINBOT_CATALOG_HI", "FINBOT_DATA_PATH"} {
		t.Setenv(k, "")
	}

	dir := t.TempDir()
	en := filepath.Join(dir, "en.json")
	require.NoError(t, os.WriteFile(en, []byte(`[
		{"topic": "Tax Saving", "simple_explanation": "Save tax via 80C", "faq": ["What is 80C?"]},
		{"topic": "Mutual Funds", "normal_explanation": "Pooled investments"}
	]`), 0644))

	cfg := `environment = "test"

[storage]
backend = "` + backend + `"
path = "` + filepath.ToSlash(filepath.Join(dir, "profiles")) + `"

[catalog]
default_language = "en"

[catalog.sources]
en = "` + filepath.ToSlash(en) + `"
hi = "` + filepath.ToSlash(filepath.Join(dir, "missing_hi.json")) + `"

[logging]
level = "error"
outputs = ["console"]
`
	path := filepath.Join(dir, "finbot.toml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	return path
}

func TestNewApp_InitializesAllServices(t *testing.T) {
	a, err := NewApp(writeTestConfig(t, "memory"))
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Config)
	assert.NotNil(t, a.Logger)
	assert.NotNil(t, a.Storage)
	assert.NotNil(t, a.GeminiClient)
	assert.NotNil(t, a.PersonalizationService)
	assert.NotNil(t, a.AnswerService)
	assert.False(t, a.StartupTime.IsZero())
	assert.Equal(t, "memory", a.Storage.Backend())
	assert.False(t, a.GeminiClient.Configured())
}

func TestNewApp_LoadsCatalogsPerLanguage(t *testing.T) {
	a, err := NewApp(writeTestConfig(t, "memory"))
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, map[string]int{"en": 2, "hi": 0}, a.TopicCounts())
	assert.Equal(t, []string{"en", "hi"}, a.Languages())
	assert.Equal(t, []string{"Tax Saving", "Mutual Funds"}, a.AnswerService.Topics("en"))
	assert.Empty(t, a.AnswerService.Topics("hi"))
}

func TestNewApp_AnswerWithoutAPIKey(t *testing.T) {
	a, err := NewApp(writeTestConfig(t, "memory"))
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()

	got := a.AnswerService.Answer(ctx, "u1", "tell me about tax saving", "en")
	assert.Equal(t, "Tax Saving", got.Topic())
	assert.Equal(t, gemini.MissingKeyMessage, got.Response)

	refused := a.AnswerService.Answer(ctx, "u1", "tax saving", "hi")
	assert.Nil(t, refused.TopicFound)
	assert.Contains(t, refused.Response, "Maaf karein")
}

func TestNewApp_BadgerBackendPersistsAcrossRestart(t *testing.T) {
	cfgPath := writeTestConfig(t, "badger")
	ctx := context.Background()

	a, err := NewApp(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "badger", a.Storage.Backend())
	_, err = a.PersonalizationService.RecordFeedback(ctx, "alice", models.SignalStruggle)
	require.NoError(t, err)
	a.Close()

	b, err := NewApp(cfgPath)
	require.NoError(t, err)
	defer b.Close()

	mode, err := b.PersonalizationService.GetMode(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.ModeBeginner, mode)
}

func TestNewApp_UnknownBackend(t *testing.T) {
	_, err := NewApp(writeTestConfig(t, "postgres"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize storage")
}

func TestResolveDataFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "c.json")
	require.NoError(t, os.WriteFile(f, []byte("[]"), 0644))

	assert.Equal(t, f, resolveDataFile("/nowhere", f))
	assert.Equal(t, "", resolveDataFile(dir, ""))
	assert.Equal(t, f, resolveDataFile(dir, "c.json"))
	assert.Equal(t, "nope.json", resolveDataFile(dir, "nope.json"))
}

func TestNewApp_FileLoggingClosedOnClose(t *testing.T) {
	cfgPath := writeTestConfig(t, "memory")
	dir := filepath.Dir(cfgPath)
	logPath := filepath.Join(dir, "logs", "finbot.log")

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	cfg := strings.Replace(string(data), `outputs = ["console"]`,
		`outputs = ["file"]`+"\nformat = \"json\"\nfile_path = \""+filepath.ToSlash(logPath)+`"`, 1)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	a, err := NewApp(cfgPath)
	require.NoError(t, err)
	a.Logger.Error().Msg("written before close")
	a.Close()
	a.Close()

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "written before close")
}
