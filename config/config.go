package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	defaultSimilarityThreshold = 0.3
	defaultEmbedTimeoutMS      = 2000
	defaultRateLimitMaxKeys    = 10000
)

type Config struct {
	config *viper.Viper
}

func Load() (*Config, error) {

	env := os.Getenv(keyEnv)
	if len(env) == 0 {
		env = envLocal
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

func (c *Config) GetPort() string {
	port := c.config.GetString("PORT")
	if len(port) == 0 {
		port = c.config.GetString("server.port")
	}
	if len(port) == 0 {
		port = "8080"
	}

	return port
}

// GetDatabaseURL returns the DSN of the Postgres backend that hosts the
// search procedures.
func (c *Config) GetDatabaseURL() string {
	url := c.config.GetString("DATABASE_URL")
	if len(url) == 0 {
		url = c.config.GetString("database.url")
	}

	return url
}

func (c *Config) GetRedisURL() string {
	url := c.config.GetString("REDIS_URL")
	if len(url) == 0 {
		url = c.config.GetString("redis.url")
	}

	return url
}

func (c *Config) GetAnalyticsQueue() string {
	queue := c.config.GetString("ANALYTICS_QUEUE")
	if len(queue) == 0 {
		queue = c.config.GetString("analytics.queue")
	}
	if len(queue) == 0 {
		queue = "search_analytics"
	}

	return queue
}

func (c *Config) GetEmbeddingHost() string {
	host := c.config.GetString("EMBEDDING_HOST")
	if len(host) == 0 {
		host = c.config.GetString("embedding.host")
	}

	return host
}

func (c *Config) GetEmbeddingModel() string {
	model := c.config.GetString("EMBEDDING_MODEL")
	if len(model) == 0 {
		model = c.config.GetString("embedding.model")
	}
	if len(model) == 0 {
		model = "text-embedding-3-small"
	}

	return model
}

// GetSimilarityThreshold returns the minimum cosine similarity for a
// semantic hit to be kept.
func (c *Config) GetSimilarityThreshold() float64 {
	threshold := c.config.GetFloat64("SIMILARITY_THRESHOLD")
	if threshold == 0 {
		threshold = c.config.GetFloat64("search.similarity_threshold")
	}
	if threshold == 0 {
		threshold = defaultSimilarityThreshold
	}

	return threshold
}

// GetEmbedTimeoutMS bounds the embedding call so a slow embedding host
// degrades to keyword search instead of stalling the request.
func (c *Config) GetEmbedTimeoutMS() int {
	timeout := c.config.GetInt("EMBED_TIMEOUT_MS")
	if timeout == 0 {
		timeout = c.config.GetInt("search.embed_timeout_ms")
	}
	if timeout == 0 {
		timeout = defaultEmbedTimeoutMS
	}

	return timeout
}

func (c *Config) GetRateLimitMaxKeys() int {
	maxKeys := c.config.GetInt("RATE_LIMIT_MAX_KEYS")
	if maxKeys == 0 {
		maxKeys = c.config.GetInt("ratelimit.max_keys")
	}
	if maxKeys == 0 {
		maxKeys = defaultRateLimitMaxKeys
	}

	return maxKeys
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
