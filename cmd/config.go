package cmd

import "time"

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisURL  string
	AmqpURL   string
	JWTSecret string

	DriverStalenessWindow time.Duration
}
