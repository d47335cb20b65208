package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrDuplicate indicates a uniqueness rule rejected the write.
var ErrDuplicate = errors.New("duplicate record")

func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}
