package postgres

import (
	"testing"

	"github.com/GoSim-25-26J-441/todo-service/config"
	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	t.Run("explicit dsn wins", func(t *testing.T) {
		cfg := &config.DatabaseConfig{DSN: "postgres://u:p@db:5432/todos", Host: "ignored"}
		assert.Equal(t, "postgres://u:p@db:5432/todos", DSN(cfg))
	})

	t.Run("built from fields", func(t *testing.T) {
		cfg := &config.DatabaseConfig{Host: "localhost", Port: 5432, User: "todo", Password: "secret", Name: "todos"}
		assert.Equal(t, "host=localhost port=5432 user=todo password=secret dbname=todos sslmode=disable", DSN(cfg))
	})

	t.Run("sslmode kept", func(t *testing.T) {
		cfg := &config.DatabaseConfig{Host: "db", Port: 6543, User: "u", Name: "n", SSLMode: "require"}
		assert.Contains(t, DSN(cfg), "sslmode=require")
	})
}
