package database

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OpenInMemory returns a migrated, private in-memory SQLite database.
// Each call gets its own named database so parallel tests never share rows.
func OpenInMemory() (*gorm.DB, error) {
	db, err := InitDatabase(DatabaseConfig{
		Driver:     "sqlite",
		Path:       fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String()),
		MaxRetries: 1,
	})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
