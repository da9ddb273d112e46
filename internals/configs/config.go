package configs

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var (
	JWTSecret         string
	InviteTokenSecret string
	RabbitMQURL       string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Warn().Msg("⚠️ .env não encontrado, usando ENV do sistema")
		} else {
			log.Info().Msg("✅ .env carregado")
		}
	} else {
		log.Info().Msg("🚀 Running in Railway, usando ENV do sistema")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	InviteTokenSecret = GetEnv("INVITE_TOKEN_SECRET", JWTSecret)
	RabbitMQURL = GetEnv("RABBITMQ_URL")

	if JWTSecret == "" {
		log.Error().Msg("❌ JWT_SECRET não definido!")
	} else {
		log.Info().Msg("✅ JWT_SECRET carregado.")
	}
	if InviteTokenSecret == "" {
		log.Error().Msg("❌ INVITE_TOKEN_SECRET não definido (nem JWT_SECRET)!")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("valor inteiro inválido, usando padrão")
		return def
	}
	return n
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// =======================
// INVITE SETTINGS
// =======================

// InviteConfig is handed to the invite service; services never read ENV directly.
type InviteConfig struct {
	// MaxAttempts blocks validation once this many previous attempts exist. 0 disables it.
	MaxAttempts int
	TTL         time.Duration
	TokenSecret string
}

func LoadInviteConfig() InviteConfig {
	return InviteConfig{
		MaxAttempts: GetEnvInt("INVITE_MAX_ATTEMPTS", 0),
		TTL:         time.Duration(GetEnvInt("INVITE_TTL_HOURS", 72)) * time.Hour,
		TokenSecret: InviteTokenSecret,
	}
}
