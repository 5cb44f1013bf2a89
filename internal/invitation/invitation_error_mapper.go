package invitation

import (
	"errors"
	"strings"

	invitationerrors "github.com/techmajster/saas-leave-system/internal/invitation/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invitationerrors.ErrInvitationNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_invitations_pending_email" {
		return invitationerrors.ErrPendingInvitationExists
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique constraint failed: invitations.") {
		return invitationerrors.ErrPendingInvitationExists
	}

	return err
}
