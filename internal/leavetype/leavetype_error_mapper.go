package leavetype

import (
	"errors"
	"strings"

	leavetypeerrors "github.com/techmajster/saas-leave-system/internal/leavetype/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leavetypeerrors.ErrLeaveTypeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_leave_types_org_name" {
		return leavetypeerrors.ErrLeaveTypeNameTaken
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
		return leavetypeerrors.ErrLeaveTypeNameTaken
	}

	return err
}
