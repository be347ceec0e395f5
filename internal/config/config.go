package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DatabaseURL builds a postgres:// URL for migration tooling.
func (c DatabaseConfig) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// DSN builds a GORM-style connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// JWTConfig holds token validation settings.
type JWTConfig struct {
	Secret string
}

// KafkaConfig holds broker settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// RedisConfig holds cache settings.
type RedisConfig struct {
	Addr               string
	Password           string
	DB                 int
	SettingsTTLSeconds int
}

// GatesConfig holds the base URLs of the verification and payment services.
type GatesConfig struct {
	VerificationURL string
	PaymentURL      string
}

// SchedulerConfig holds cron expressions for background jobs.
type SchedulerConfig struct {
	ExpireStaleBookings string
	StaleAfterHours     int
}

// ServiceConfig holds all configuration for the rental service.
type ServiceConfig struct {
	Port      string
	AppEnv    string
	DB        DatabaseConfig
	JWT       JWTConfig
	Kafka     KafkaConfig
	Redis     RedisConfig
	Gates     GatesConfig
	Scheduler SchedulerConfig
}

// Load reads configuration from RENTAL_-prefixed environment variables,
// falling back to development defaults.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("RENTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("service_port", ":8084")
	v.SetDefault("app_env", "development")

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_name", "rental")
	v.SetDefault("db_sslmode", "disable")

	v.SetDefault("jwt_secret", "dev-secret-change-me")

	v.SetDefault("kafka_brokers", "localhost:9092")
	v.SetDefault("kafka_group_prefix", "vitesse.")

	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_settings_ttl_seconds", 300)

	v.SetDefault("verification_url", "http://localhost:8085")
	v.SetDefault("payment_url", "http://localhost:8086")

	v.SetDefault("scheduler_expire_stale_bookings", "0 0 * * * *")
	v.SetDefault("scheduler_stale_after_hours", 24)

	cfg := &ServiceConfig{
		Port:   v.GetString("service_port"),
		AppEnv: v.GetString("app_env"),
		DB: DatabaseConfig{
			Host:     v.GetString("db_host"),
			Port:     v.GetInt("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			DBName:   v.GetString("db_name"),
			SSLMode:  v.GetString("db_sslmode"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt_secret"),
		},
		Kafka: KafkaConfig{
			Brokers:     strings.Split(v.GetString("kafka_brokers"), ","),
			GroupPrefix: v.GetString("kafka_group_prefix"),
		},
		Redis: RedisConfig{
			Addr:               v.GetString("redis_addr"),
			Password:           v.GetString("redis_password"),
			DB:                 v.GetInt("redis_db"),
			SettingsTTLSeconds: v.GetInt("redis_settings_ttl_seconds"),
		},
		Gates: GatesConfig{
			VerificationURL: v.GetString("verification_url"),
			PaymentURL:      v.GetString("payment_url"),
		},
		Scheduler: SchedulerConfig{
			ExpireStaleBookings: v.GetString("scheduler_expire_stale_bookings"),
			StaleAfterHours:     v.GetInt("scheduler_stale_after_hours"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return cfg, nil
}
