package mintdb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	_ "github.com/lib/pq" // Registers the postgres driver.
	"github.com/sirupsen/logrus"
)

type config struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DBName   string `toml:"dbname"`
	SSLMode  string `toml:"sslmode"`
}

func (cfg config) dataSource() string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		sslMode,
	)
}

func loadConfig(configPath string) (config, error) {
	var cfg config
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		return config{}, fmt.Errorf("failed to decode %s: %w", configPath, err)
	}
	return cfg, nil
}

func OpenPostgres(configPath string) (*sql.DB, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return sql.Open("postgres", cfg.dataSource())
}

// OpenPostgresWithRetries blocks until Postgres answers a ping.
func OpenPostgresWithRetries(configPath string) *sql.DB {
	const interval = 5 * time.Second
	log := logrus.StandardLogger().WithField("type", "mintdb")
	for {
		db, err := OpenPostgres(configPath)
		if err == nil {
			err := db.Ping()
			if err == nil {
				return db
			}
			_ = db.Close()
			log.WithError(err).Warn("failed to ping postgres")
		} else {
			log.WithError(err).Warn("failed to open postgres")
		}
		time.Sleep(interval)
	}
}
