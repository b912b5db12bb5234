package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL int // minutes
	BcryptCost     int
}

// envOr reads the first non-empty variable from names, falling back to def.
// The RDS_* fallbacks cover the Elastic Beanstalk deployment where database
// settings arrive under Amazon's naming.
func envOr(def string, names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return def
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverHost := envOr("localhost", "SERVER_HOST")
	serverPort, err := strconv.Atoi(envOr("8080", "SERVER_PORT"))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid SERVER_PORT: %w", op, err)
	}

	pgHost := envOr("localhost", "POSTGRES_HOST", "RDS_HOSTNAME")
	pgPort, err := strconv.Atoi(envOr("5432", "POSTGRES_PORT", "RDS_PORT"))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid POSTGRES_PORT: %w", op, err)
	}

	pgUser := envOr("", "POSTGRES_USER", "RDS_USERNAME")
	if pgUser == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_USER", op)
	}

	pgPassword := envOr("", "POSTGRES_PASSWORD", "RDS_PASSWORD")
	if pgPassword == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_PASSWORD", op)
	}

	pgName := envOr("flytau", "POSTGRES_DB", "RDS_DB_NAME")
	pgSSLMode := envOr("disable", "POSTGRES_SSLMODE")

	jwtSecret := envOr("", "JWT_SECRET", "SECRET_KEY")
	if jwtSecret == "" {
		return nil, fmt.Errorf("%s: missing JWT_SECRET", op)
	}

	tokenTTL, err := strconv.Atoi(envOr("60", "ACCESS_TOKEN_TTL_MIN"))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid ACCESS_TOKEN_TTL_MIN: %w", op, err)
	}

	bcryptCost, err := strconv.Atoi(envOr("12", "BCRYPT_COST"))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid BCRYPT_COST: %w", op, err)
	}

	redisDB, err := strconv.Atoi(envOr("0", "REDIS_DB"))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid REDIS_DB: %w", op, err)
	}

	return &Config{
		Server: ServerConfig{
			Host: serverHost,
			Port: serverPort,
		},
		Postgres: PostgresConfig{
			User:     pgUser,
			Password: pgPassword,
			Name:     pgName,
			Host:     pgHost,
			Port:     pgPort,
			SSLMode:  pgSSLMode,
		},
		Redis: RedisConfig{
			Addr:     envOr("localhost:6379", "REDIS_ADDR"),
			Password: envOr("", "REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret:      jwtSecret,
			AccessTokenTTL: tokenTTL,
			BcryptCost:     bcryptCost,
		},
	}, nil
}
