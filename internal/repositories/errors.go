package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// Sentinel errors returned by every repository implementation. GORM and
// driver errors never leak past this package; callers branch with errors.Is.
var (
	// ErrNotFound means the addressed record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey means a unique constraint was violated.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrForeignKey means a referenced parent record does not exist.
	ErrForeignKey = errors.New("foreign key violation")
)

// translate maps GORM's translated driver errors onto the package sentinels.
// Requires the DB to be opened with gorm.Config{TranslateError: true}.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKey
	}
	return err
}
