package util

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

//nolint:gochecknoglobals // here its ok
var once sync.Once

func init() {
	once.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	})
}

const (
	defaultServerAddr      = "localhost:8080"
	defaultWriteTimeout    = 10 * time.Second
	defaultReadTimeout     = 10 * time.Second
	defaultIdleTimeout     = 30 * time.Second
	defaultGracefulTimeout = 5 * time.Second

	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour

	defaultRoutePrefix = "/auth"
	defaultBcryptCost  = 12

	TokenStorageCookie = "cookie"
	TokenStorageHeader = "header"

	RefreshStorePostgres = "postgres"
	RefreshStoreRedis    = "redis"
	RefreshStoreMemory   = "memory"

	JWTLeeway = 5 * time.Second

	defaultDBMaxOpenConns    = 10
	defaultDBMaxIdleConns    = 5
	defaultDBConnMaxLifetime = 30 * time.Minute
)

type ServerConfig struct {
	ServerAddr      string
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
}

func NewServerConfig() *ServerConfig {
	addr := os.Getenv("SERVER_ADDRESS")
	if addr == "" {
		addr = defaultServerAddr
	}

	return &ServerConfig{
		ServerAddr:      addr,
		WriteTimeout:    parseDurationOrDefault("WRITE_TIMEOUT", defaultWriteTimeout),
		ReadTimeout:     parseDurationOrDefault("READ_TIMEOUT", defaultReadTimeout),
		IdleTimeout:     parseDurationOrDefault("IDLE_TIMEOUT", defaultIdleTimeout),
		GracefulTimeout: parseDurationOrDefault("GRACEFUL_TIMEOUT", defaultGracefulTimeout),
	}
}

type TokenConfig struct {
	JwtSecretKey []byte
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

func NewTokenConfig() *TokenConfig {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	return &TokenConfig{
		JwtSecretKey: []byte(secret),
		AccessTTL:    parseDurationOrDefault("ACCESS_TOKEN_TTL", defaultAccessTTL),
		RefreshTTL:   parseDurationOrDefault("REFRESH_TOKEN_TTL", defaultRefreshTTL),
	}
}

// AuthConfig is fixed at startup; the token transport (cookie vs header)
// is a deployment-wide setting, never a per-request decision.
type AuthConfig struct {
	RoutePrefix  string
	TokenStorage string
	BcryptCost   int
	CookieSecure bool
}

func NewAuthConfig() *AuthConfig {
	prefix := os.Getenv("ROUTE_PREFIX")
	if prefix == "" {
		prefix = defaultRoutePrefix
	}

	storage := os.Getenv("TOKEN_STORAGE")
	switch storage {
	case TokenStorageCookie, TokenStorageHeader:
	case "":
		storage = TokenStorageCookie
	default:
		log.Printf("Invalid TOKEN_STORAGE: %s, using %s", storage, TokenStorageCookie)
		storage = TokenStorageCookie
	}

	return &AuthConfig{
		RoutePrefix:  prefix,
		TokenStorage: storage,
		BcryptCost:   parseIntOrDefault("BCRYPT_COST", defaultBcryptCost),
		CookieSecure: parseBoolOrDefault("COOKIE_SECURE", true),
	}
}

type StorageConfig struct {
	RefreshStore string
}

func NewStorageConfig() *StorageConfig {
	store := os.Getenv("REFRESH_STORE")
	switch store {
	case RefreshStorePostgres, RefreshStoreRedis, RefreshStoreMemory:
	case "":
		store = RefreshStorePostgres
	default:
		log.Printf("Invalid REFRESH_STORE: %s, using %s", store, RefreshStorePostgres)
		store = RefreshStorePostgres
	}

	return &StorageConfig{RefreshStore: store}
}

// DBConfig describes the postgres pool backing the user and session tables.
type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func NewDBConfig() *DBConfig {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	return &DBConfig{
		DSN:             dsn,
		MaxOpenConns:    parseIntOrDefault("DB_MAX_OPEN_CONNS", defaultDBMaxOpenConns),
		MaxIdleConns:    parseIntOrDefault("DB_MAX_IDLE_CONNS", defaultDBMaxIdleConns),
		ConnMaxLifetime: parseDurationOrDefault("DB_CONN_MAX_LIFETIME", defaultDBConnMaxLifetime),
	}
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisConfig() *RedisConfig {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Fatal("REDIS_ADDR is not set")
	}

	return &RedisConfig{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       parseIntOrDefault("REDIS_DB", 0),
	}
}

func GetWebhookURL() string {
	return os.Getenv("WEBHOOK_URL")
}

func parseDurationOrDefault(varName string, def time.Duration) time.Duration {
	v := os.Getenv(varName)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// a bare number is taken as seconds
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	log.Printf("Invalid duration in %s: %q (want \"900\" or \"15m\"), using default %s", varName, v, def)
	return def
}

func parseIntOrDefault(varName string, def int) int {
	if v := os.Getenv(varName); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("Invalid integer in %s: %s, using default %d", varName, v, def)
	}
	return def
}

func parseBoolOrDefault(varName string, def bool) bool {
	if v := os.Getenv(varName); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("Invalid boolean in %s: %s, using default %t", varName, v, def)
	}
	return def
}
