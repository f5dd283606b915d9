package persistent

import (
	"community-board/internal/model"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema from the GORM models. Production schemas come from the
// goose migrations; this is used in development and tests.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return pkgerrors.Wrap(err, "auto migrate")
	}
	return nil
}
