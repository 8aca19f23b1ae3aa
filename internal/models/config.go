package models

import "time"

// Config represents the application configuration
type Config struct {
	Backend  string
	Database DatabaseConfig
	Mongo    MongoConfig
	Server   ServerConfig
	Auth     AuthConfig
	SeedFile string
}

// DatabaseConfig holds SQLite connection settings
type DatabaseConfig struct {
	Path             string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
	ConnMaxIdleTime  time.Duration
	PingTimeout      time.Duration
	BusyTimeout      time.Duration
	OperationTimeout time.Duration
}

// MongoConfig holds document store settings
type MongoConfig struct {
	URI              string
	Database         string
	PingTimeout      time.Duration
	OperationTimeout time.Duration
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// AuthConfig holds credential signing settings
type AuthConfig struct {
	Secret        string
	Issuer        string
	TokenTTL      time.Duration
	IssueEndpoint bool
}
