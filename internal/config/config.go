package config

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	DBDSN    string `envconfig:"DB_DSN" default:"cryptobazaar.db"`
	MediaDir string `envconfig:"MEDIA_DIR" default:"./web/media"`
	LogFile  string `envconfig:"LOG_FILE" default:"./cryptobazaar.log"`

	// Public base URL used to build provider callback and redirect URLs.
	BaseURL string `envconfig:"BASE_URL" default:"http://localhost:8080"`

	PaymentsAPIURL    string `envconfig:"NOWPAYMENTS_API_URL" default:"https://api.nowpayments.io"`
	PaymentsAPIKey    string `envconfig:"NOWPAYMENTS_API_KEY"`
	PaymentsIPNSecret string `envconfig:"NOWPAYMENTS_IPN_SECRET"`
}

func Load() Config {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("[config] %v", err)
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s BASE_URL=%s LOG_FILE=%s",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.BaseURL, cfg.LogFile)
	return cfg
}
