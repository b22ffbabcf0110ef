package task

import (
	"errors"

	taskerrors "go-attend/internal/task/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return taskerrors.ErrTaskNotFound
	}

	return err
}
