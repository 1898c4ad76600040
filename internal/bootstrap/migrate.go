package bootstrap

import (
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/CodeMaverick-143/Project-Manager/config"
)

// Migrate applies pending schema migrations from the given directory.
func Migrate(cfg *config.DatabaseConfig, dir string) error {
	m, err := migrate.New("file://"+dir, cfg.URL())
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("migrations: no change")
			return nil
		}
		return fmt.Errorf("migrate up: %w", err)
	}

	log.Println("migrations: applied")
	return nil
}
