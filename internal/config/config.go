package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string
	DBPath         string
	ScrapersFile   string
	ScrapeTimeout  time.Duration
	TelegramToken  string
	TelegramAPIURL string
}

func Load() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		DBPath:         getEnv("DB_PATH", "gigboard.db"),
		ScrapersFile:   getEnv("SCRAPERS_FILE", "scrapers.yaml"),
		ScrapeTimeout:  getEnvDuration("SCRAPE_TIMEOUT", 2*time.Minute),
		TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAPIURL: getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
	}
}

// Scraper describes one external scraper process: the command to run and the
// file it writes its results to. The search topic and minimum price are
// appended as positional arguments at invocation time.
type Scraper struct {
	Name    string   `yaml:"name"`
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Output  string   `yaml:"output"`
}

type scrapersFile struct {
	Scrapers []Scraper `yaml:"scrapers"`
}

// LoadScrapers reads scraper definitions from a YAML file.
func LoadScrapers(path string) ([]Scraper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scrapers file: %w", err)
	}

	var f scrapersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scrapers file: %w", err)
	}

	for i, s := range f.Scrapers {
		if s.Name == "" || s.Command == "" || s.Output == "" {
			return nil, fmt.Errorf("scraper %d: name, command and output are required", i)
		}
	}

	return f.Scrapers, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
