package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config est chargé une fois dans main puis passé explicitement partout —
// pas d'objet global mutable.
type Config struct {
	Server   ServerConfig
	Scylla   ScyllaConfig
	Redis    RedisConfig
	Elastic  ElasticConfig
	MinIO    MinIOConfig
	JWT      JWTConfig
	Session  SessionConfig
	SMTP     SMTPConfig
	Payment  PaymentConfig
	OAuth    OAuthConfig
	BaseURL  string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	Frontend string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
}

type ScyllaConfig struct {
	Hosts    []string      `env:"SCYLLA_HOSTS" envSeparator:"," envDefault:"127.0.0.1"`
	Keyspace string        `env:"SCYLLA_KEYSPACE" envDefault:"trendnest"`
	Username string        `env:"SCYLLA_USERNAME"`
	Password string        `env:"SCYLLA_PASSWORD"`
	Timeout  time.Duration `env:"SCYLLA_TIMEOUT" envDefault:"5s"`
	NumConns int           `env:"SCYLLA_NUM_CONNS" envDefault:"20"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_HOST" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type ElasticConfig struct {
	URL      string `env:"ELASTIC_URL" envDefault:"http://localhost:9200"`
	Username string `env:"ELASTIC_USER"`
	Password string `env:"ELASTIC_PASSWORD"`
}

type MinIOConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET" envDefault:"trendnest"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET" envDefault:"super_secret"`
	Expiry time.Duration `env:"JWT_EXPIRY" envDefault:"30m"`
}

type SessionConfig struct {
	Secret      string        `env:"SESSION_SECRET" envDefault:"session_secret"`
	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"90m"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" envDefault:"noreply@trendnest.shop"`
}

type PaymentConfig struct {
	// "simulated" par défaut ; "stripe" branche la vraie passerelle
	Gateway         string `env:"PAYMENT_GATEWAY" envDefault:"simulated"`
	StripeSecretKey string `env:"STRIPE_SECRET_KEY"`
}

type OAuthConfig struct {
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
}

// Load charge .env puis parse l'environnement dans la Config.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
