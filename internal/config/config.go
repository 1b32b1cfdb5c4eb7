package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"travelbook/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration lets yaml carry values like "60s" or "24h".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type Config struct {
	App        AppConfig        `yaml:"app"`
	Logging    LoggingConfig    `yaml:"logging"`
	Snapshot   SnapshotConfig   `yaml:"snapshot"`
	Redis      RedisConfig      `yaml:"redis"`
	Ledger     LedgerConfig     `yaml:"ledger"`
	Exports    ExportConfig     `yaml:"exports"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Booking    BookingConfig    `yaml:"booking"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type SnapshotConfig struct {
	Path         string        `yaml:"path"`
	RedisEnabled bool          `yaml:"redis_enabled"`
	RedisTTL     Duration `yaml:"redis_ttl"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type LedgerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

// BookingConfig carries the lifecycle policy values. The reference numbers
// (60s tick, 24h lead, 30min tolerance, 2s confirmation delay) are the
// documented defaults; tests shrink them without touching logic.
type BookingConfig struct {
	ReminderTick      Duration `yaml:"reminder_tick"`
	ReminderLead      Duration `yaml:"reminder_lead"`
	ReminderTolerance Duration `yaml:"reminder_tolerance"`
	RebookingDelay    Duration `yaml:"rebooking_delay"`
	RebookingRPS      float64  `yaml:"rebooking_rps"`
	RebookingBurst    int      `yaml:"rebooking_burst"`
	RefundSLADays     int      `yaml:"refund_sla_days"`
}

func Load(configPath string) (*Config, error) {
	// .env переменные подставляются в YAML до разбора
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Snapshot.Path == "" {
		return errors.New("snapshot path is required")
	}
	if c.Snapshot.RedisEnabled && c.Redis.Address == "" {
		return errors.New("redis address is required when snapshot.redis_enabled is set")
	}
	if c.Ledger.Enabled && c.Ledger.Path == "" {
		return errors.New("ledger path is required when ledger is enabled")
	}
	// Тик должен укладываться в окно допуска, иначе напоминание можно пропустить
	if c.Booking.ReminderTick.Std() > c.Booking.ReminderTolerance.Std()*2 {
		return fmt.Errorf("reminder_tick %s exceeds the tolerance band %s",
			c.Booking.ReminderTick.Std(), c.Booking.ReminderTolerance.Std()*2)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "travelbook"
	}
	if c.Booking.ReminderTick == 0 {
		c.Booking.ReminderTick = Duration(models.DefaultReminderTick)
	}
	if c.Booking.ReminderLead == 0 {
		c.Booking.ReminderLead = Duration(models.DefaultReminderLead)
	}
	if c.Booking.ReminderTolerance == 0 {
		c.Booking.ReminderTolerance = Duration(models.DefaultReminderTolerance)
	}
	if c.Booking.RebookingDelay == 0 {
		c.Booking.RebookingDelay = Duration(models.DefaultRebookingDelay)
	}
	if c.Booking.RebookingRPS == 0 {
		c.Booking.RebookingRPS = models.DefaultRebookingRateLimit
	}
	if c.Booking.RebookingBurst == 0 {
		c.Booking.RebookingBurst = models.DefaultRebookingRateBurst
	}
	if c.Booking.RefundSLADays == 0 {
		c.Booking.RefundSLADays = models.DefaultRefundSLADays
	}
	if c.Snapshot.RedisTTL == 0 {
		c.Snapshot.RedisTTL = Duration(models.DefaultSnapshotTTL)
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
}
