package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"chainpulse/internal/domain"
)

type Config struct {
	Port             string
	DatabaseURL      string
	RedisURL         string
	TelegramBotToken string
	APIKey           string

	SchedulerTickSecs int
	CacheTTLSecs      int
	CoinIDs           []string
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		APIKey:           os.Getenv("API_KEY"),
	}

	cfg.Port = strings.TrimSpace(os.Getenv("PORT"))
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set, metrics sink disabled")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, snapshot mirror disabled")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set, bot disabled")
	}
	if cfg.APIKey == "" {
		log.Println("Warning: API_KEY not set, admin endpoints unprotected")
	}

	cfg.SchedulerTickSecs = 60
	if v := strings.TrimSpace(os.Getenv("SCHEDULER_TICK_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SchedulerTickSecs = n
		}
	}

	cfg.CacheTTLSecs = 3600
	if v := strings.TrimSpace(os.Getenv("CACHE_TTL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheTTLSecs = n
		}
	}

	cfg.CoinIDs = defaultCoinIDs()
	if v := strings.TrimSpace(os.Getenv("COIN_IDS")); v != "" {
		var ids []string
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		if len(ids) > 0 {
			cfg.CoinIDs = ids
		}
	}

	return cfg
}

func defaultCoinIDs() []string {
	ids := make([]string, 0, len(domain.SupportedSymbols))
	for _, sym := range domain.SupportedSymbols {
		ids = append(ids, domain.CoinGeckoID[sym])
	}
	return ids
}
