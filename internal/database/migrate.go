package database

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrate applies all pending migrations from the migrations directory.
// A database that is already up to date is not an error.
func Migrate(user, pass, host, port, name, dir string) error {
	auth := url.QueryEscape(user)
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", auth, url.QueryEscape(pass))
	}
	dbURL := fmt.Sprintf("mysql://%s@tcp(%s:%s)/%s?multiStatements=true", auth, host, port, name)

	m, err := migrate.New("file://"+dir, dbURL)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
