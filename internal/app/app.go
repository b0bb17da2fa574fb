// Package app wires configuration, storage, clients and services into the
// shared core used by cmd/finbot and cmd/finbot-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"github.com/bobmcallan/finbot/internal/clients/gemini"
	"github.com/bobmcallan/finbot/internal/common"
	"github.com/bobmcallan/finbot/internal/interfaces"
	"github.com/bobmcallan/finbot/internal/models"
	"github.com/bobmcallan/finbot/internal/services/answer"
	"github.com/bobmcallan/finbot/internal/services/personalization"
	"github.com/bobmcallan/finbot/internal/storage"
	"github.com/bobmcallan/finbot/internal/storage/catalogfs"
)

// App holds all initialized services and clients.
type App struct {
	Config                 *common.Config
	Logger                 *common.Logger
	Storage                interfaces.StorageManager
	GeminiClient           interfaces.GeminiClient
	Catalogs               *models.CatalogSet
	PersonalizationService interfaces.PersonalizationService
	AnswerService          interfaces.AnswerService
	StartupTime            time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// resolveDataFile prefers a relative path as given (working directory) and
// falls back to the binary directory.
func resolveDataFile(binDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	candidate := filepath.Join(binDir, path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return path
}

// NewApp initializes storage, catalogs, the Gemini client and the services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// .env is optional
	_ = godotenv.Load()

	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Load configuration - check provided path, FINBOT_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("FINBOT_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "finbot.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/finbot.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	// Resolve relative log file path to binary directory
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	catalogs := loadCatalogs(config, binDir, logger)

	ctx := context.Background()
	geminiKey, err := common.ResolveAPIKey(ctx, "gemini_api_key", config.Clients.Gemini.APIKey)
	if err != nil {
		logger.Warn().Msg("Gemini API key not configured - matched questions will report the missing key")
	}

	geminiClient, err := gemini.NewClient(ctx, geminiKey,
		gemini.WithLogger(logger),
		gemini.WithModel(config.Clients.Gemini.Model),
		gemini.WithTimeout(config.Clients.Gemini.GetTimeout()),
		gemini.WithRateLimit(config.Clients.Gemini.RateLimit),
		gemini.WithRetries(config.Clients.Gemini.Retries),
	)
	if err != nil {
		storageManager.Close()
		logger.Close()
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	personalizationService := personalization.NewService(storageManager.ProfileStorage(), logger)
	answerService := answer.NewService(personalizationService, catalogs, geminiClient, logger)

	a := &App{
		Config:                 config,
		Logger:                 logger,
		Storage:                storageManager,
		GeminiClient:           geminiClient,
		Catalogs:               catalogs,
		PersonalizationService: personalizationService,
		AnswerService:          answerService,
		StartupTime:            startupStart,
	}

	logger.Info().
		Dur("startup", time.Since(startupStart)).
		Bool("gemini_configured", geminiClient.Configured()).
		Msg("App initialized")

	return a, nil
}

// loadCatalogs reads one catalog per configured language. Every configured
// language gets an entry, so a missing or malformed file yields an empty
// catalog for that language rather than the default one.
func loadCatalogs(config *common.Config, binDir string, logger *common.Logger) *models.CatalogSet {
	store := catalogfs.NewStore(logger)
	set := models.NewCatalogSet(config.Catalog.DefaultLanguage)

	for lang, path := range config.Catalog.Sources {
		resolved := resolveDataFile(binDir, path)
		catalog, err := store.Load(resolved)
		if err != nil {
			logger.Warn().Err(err).Str("language", lang).Str("path", resolved).Msg("Failed to load catalog")
		}
		set.Set(lang, catalog)
	}
	return set
}

// TopicCounts returns the number of topics loaded per configured language.
func (a *App) TopicCounts() map[string]int {
	counts := make(map[string]int, len(a.Config.Catalog.Sources))
	for lang := range a.Config.Catalog.Sources {
		counts[lang] = len(a.Catalogs.For(lang))
	}
	return counts
}

// Languages returns the configured catalog languages in sorted order.
func (a *App) Languages() []string {
	langs := make([]string, 0, len(a.Config.Catalog.Sources))
	for lang := range a.Config.Catalog.Sources {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.GeminiClient != nil {
		if c, ok := a.GeminiClient.(*gemini.Client); ok {
			c.Close()
		}
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil && a.Logger != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
		a.Storage = nil
	}
	if a.Logger != nil {
		a.Logger.Close()
	}
}
