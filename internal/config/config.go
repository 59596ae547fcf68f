package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Config — неизменяемая конфигурация процесса, читается из окружения один раз
// на старте и передаётся зависимым компонентам явно.
type Config struct {
	Port        string
	AdminSecret string
	DataDir     string
	DBPath      string
	DatabaseURL string
	StaticRoot  string

	// Схемы авторизации админ-поверхности, включаются независимо.
	AllowBasic bool
	AllowKey   bool

	// NATSURL пустой — события заказов выключены.
	NATSURL     string
	StanCluster string
	StanClient  string
	StanSubject string
}

func Load() Config {
	dataDir := getEnv("DATA_DIR", ".")
	return Config{
		Port:        getEnv("PORT", "8000"),
		AdminSecret: getEnv("ADMIN_PASSWORD", "admin"),
		DataDir:     dataDir,
		DBPath:      getEnv("DB_PATH", filepath.Join(dataDir, "orders.db")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		StaticRoot:  getEnv("STATIC_ROOT", dataDir),
		AllowBasic:  getBool("ADMIN_AUTH_BASIC", true),
		AllowKey:    getBool("ADMIN_AUTH_KEY", true),
		NATSURL:     os.Getenv("NATS_URL"),
		StanCluster: getEnv("STAN_CLUSTER_ID", "choufli-cluster"),
		StanClient:  os.Getenv("STAN_CLIENT_ID"),
		StanSubject: getEnv("STAN_SUBJECT", "orders.events"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
