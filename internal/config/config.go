package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pathakanu/remindmail/internal/scheduler"
	"github.com/spf13/viper"
)

// CronDisabled turns off the in-process trigger when set as CRON_SCHEDULE.
const CronDisabled = "off"

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	Port            string
	DatabaseURL     string
	SQLitePath      string
	DeliveryChannel string
	LocalTimezone   *time.Location
	ShutdownTimeout time.Duration

	SMTP   SMTPConfig
	Twilio TwilioConfig
	Redis  RedisConfig

	APIKey       string
	CronSecret   string
	CronSchedule string

	LogLevel  string
	LogFormat string
}

// CronEnabled reports whether the in-process trigger should run.
func (c *Config) CronEnabled() bool {
	return c.CronSchedule != "" && !strings.EqualFold(c.CronSchedule, CronDisabled)
}

// SMTPConfig describes the outbound mail account.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
}

type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	WhatsAppNumber string
}

// RedisConfig enables per-reminder leases when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LeaseTTL time.Duration
}

// Load reads configuration values and prepares defaults where applicable.
func Load() *Config {
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("SQLITE_PATH", "reminders.db")
	v.SetDefault("DELIVERY_CHANNEL", "email")
	v.SetDefault("LOCAL_TIMEZONE", "Local")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("EMAIL_FROM_NAME", "Reminders")
	v.SetDefault("CRON_SCHEDULE", scheduler.DefaultSpec)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LEASE_TTL", "2m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	timezoneName := v.GetString("LOCAL_TIMEZONE")
	location, err := time.LoadLocation(timezoneName)
	if err != nil {
		log.Printf("config: invalid LOCAL_TIMEZONE %q, defaulting to system local: %v", timezoneName, err)
		location = time.Local
	}

	return &Config{
		Port:            v.GetString("PORT"),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		SQLitePath:      v.GetString("SQLITE_PATH"),
		DeliveryChannel: v.GetString("DELIVERY_CHANNEL"),
		LocalTimezone:   location,
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("EMAIL_USER"),
			Password: v.GetString("EMAIL_PASSWORD"),
			FromName: v.GetString("EMAIL_FROM_NAME"),
		},
		Twilio: TwilioConfig{
			AccountSID:     v.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:      v.GetString("TWILIO_AUTH_TOKEN"),
			WhatsAppNumber: v.GetString("TWILIO_WHATSAPP_NUMBER"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			LeaseTTL: v.GetDuration("LEASE_TTL"),
		},
		APIKey:       v.GetString("API_KEY"),
		CronSecret:   v.GetString("CRON_SECRET"),
		CronSchedule: strings.TrimSpace(v.GetString("CRON_SCHEDULE")),
		LogLevel:     v.GetString("LOG_LEVEL"),
		LogFormat:    v.GetString("LOG_FORMAT"),
	}
}
