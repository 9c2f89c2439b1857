package postgres

import (
	"fmt"

	"github.com/GoSim-25-26J-441/todo-service/config"
)

// DSN returns cfg.DSN when set, otherwise a keyword/value string built from the discrete fields.
// Both lib/pq and pgx accept the keyword/value form.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslMode,
	)
}
