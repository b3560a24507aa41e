package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

type Config struct {
	Env      string `env:"ENV" env-default:"prod"`
	HTTP     HTTPConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Mail     MailConfig
	Metrics  MetricsConfig
}

type HTTPConfig struct {
	Host            string        `env:"HOST" env-default:""`
	Port            string        `env:"PORT" env-required:"true"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// DatabaseConfig selects the store by the scheme of URL:
// mongodb:// and mongodb+srv:// for MongoDB, postgres:// and
// postgresql:// for PostgreSQL, memory:// for the in-process store.
type DatabaseConfig struct {
	URL            string        `env:"DB_CONNECTION_URL" env-required:"true"`
	Name           string        `env:"DB_NAME" env-required:"true"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"DB_PING_TIMEOUT" env-default:"10s"`
}

type JWTConfig struct {
	Secret string `env:"JWT_SECRET" env-required:"true"`
	Issuer string `env:"JWT_ISSUER" env-default:"task-manager"`
}

type MailConfig struct {
	SendGridKey string        `env:"SENDGRID_KEY" env-required:"true"`
	APIHost     string        `env:"MAIL_API_HOST" env-default:""`
	FromAddress string        `env:"MAIL_FROM_ADDRESS" env-default:"no-reply@task-manager.app"`
	FromName    string        `env:"MAIL_FROM_NAME" env-default:"Task Manager"`
	SendTimeout time.Duration `env:"MAIL_SEND_TIMEOUT" env-default:"10s"`
}

type MetricsConfig struct {
	Path string `env:"METRICS_PATH" env-default:"/metrics"`
}
