package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	CORS       CORSConfig       `yaml:"cors"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Push       PushConfig       `yaml:"push"`
	Automation AutomationConfig `yaml:"automation"`
	Approval   ApprovalConfig   `yaml:"approval"`
	Events     EventsConfig     `yaml:"events"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// RateLimitPerMinute caps user API requests per caller. Zero disables it.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute" env:"SERVER_RATE_LIMIT_PER_MINUTE" env-default:"120"`
}

// CORSConfig holds cross-origin settings for browser clients.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"300"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"    env:"DATABASE_CONNECT_TIMEOUT"    env-default:"5s"`
	// ApplicationName shows up in pg_stat_activity.
	ApplicationName string `yaml:"application_name" env:"DATABASE_APPLICATION_NAME" env-default:"notify-backend"`
}

// AuthConfig holds access-token and service-to-service settings.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"notify"`
	// InternalAPIKey guards the endpoints called by the entity store.
	// Empty disables the check.
	InternalAPIKey string `yaml:"internal_api_key" env:"AUTH_INTERNAL_API_KEY"`
}

// PushConfig holds Web Push (VAPID) settings and payload defaults.
type PushConfig struct {
	VAPIDPublicKey  string        `yaml:"vapid_public_key"  env:"PUSH_VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string        `yaml:"vapid_private_key" env:"PUSH_VAPID_PRIVATE_KEY"`
	Subject         string        `yaml:"subject"           env:"PUSH_SUBJECT"           env-default:"mailto:notifications@example.com"`
	TTL             time.Duration `yaml:"ttl"               env:"PUSH_TTL"               env-default:"24h"`
	SendTimeout     time.Duration `yaml:"send_timeout"      env:"PUSH_SEND_TIMEOUT"      env-default:"10s"`
	DeliveryTimeout time.Duration `yaml:"delivery_timeout"  env:"PUSH_DELIVERY_TIMEOUT"  env-default:"60s"`
	MaxConcurrency  int           `yaml:"max_concurrency"   env:"PUSH_MAX_CONCURRENCY"   env-default:"8"`
	PruneMode       string        `yaml:"prune_mode"        env:"PUSH_PRUNE_MODE"        env-default:"delete"`
	Icon            string        `yaml:"icon"              env:"PUSH_ICON"              env-default:"/icons/icon-192.png"`
	Badge           string        `yaml:"badge"             env:"PUSH_BADGE"             env-default:"/icons/badge-72.png"`
	DefaultURL      string        `yaml:"default_url"       env:"PUSH_DEFAULT_URL"       env-default:"/"`
	Direction       string        `yaml:"direction"         env:"PUSH_DIRECTION"         env-default:"auto"`
	Language        string        `yaml:"language"          env:"PUSH_LANGUAGE"          env-default:"en"`
	// InactiveRetentionDays is how long deactivated subscriptions are kept
	// before cmd/cleanup purges them.
	InactiveRetentionDays int `yaml:"inactive_retention_days" env:"PUSH_INACTIVE_RETENTION_DAYS" env-default:"30"`
}

// Configured reports whether both halves of the VAPID key pair are present.
func (c PushConfig) Configured() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

// AutomationConfig holds change-event dispatcher settings.
type AutomationConfig struct {
	AdminRolesRaw     string        `yaml:"admin_roles"         env:"AUTOMATION_ADMIN_ROLES"         env-default:"admin,super_admin"`
	MaxConcurrency    int           `yaml:"max_concurrency"     env:"AUTOMATION_MAX_CONCURRENCY"     env-default:"8"`
	LookupTimeout     time.Duration `yaml:"lookup_timeout"      env:"AUTOMATION_LOOKUP_TIMEOUT"      env-default:"5s"`
	MaxRoleRecipients int           `yaml:"max_role_recipients" env:"AUTOMATION_MAX_ROLE_RECIPIENTS" env-default:"200"`
}

// AdminRoles returns the parsed list of roles notified about platform-wide entities.
func (c AutomationConfig) AdminRoles() []string {
	return splitList(c.AdminRolesRaw)
}

// ApprovalConfig holds approval workflow policy.
type ApprovalConfig struct {
	ElevatedRolesRaw string `yaml:"elevated_roles" env:"APPROVAL_ELEVATED_ROLES" env-default:"admin,super_admin,architect,project_manager"`
}

// ElevatedRoles returns the parsed list of roles allowed to transition any record.
func (c ApprovalConfig) ElevatedRoles() []string {
	return splitList(c.ElevatedRolesRaw)
}

// EventsConfig selects how change events reach the dispatcher.
type EventsConfig struct {
	Transport    string `yaml:"transport"     env:"EVENTS_TRANSPORT"     env-default:"inprocess"`
	RedisAddr    string `yaml:"redis_addr"    env:"EVENTS_REDIS_ADDR"`
	RedisDB      int    `yaml:"redis_db"      env:"EVENTS_REDIS_DB"      env-default:"0"`
	RedisChannel string `yaml:"redis_channel" env:"EVENTS_REDIS_CHANNEL" env-default:"entity-changes"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
