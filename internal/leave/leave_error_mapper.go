package leave

import (
	"errors"

	leaveerrors "go-attend/internal/leave/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}

	return err
}
