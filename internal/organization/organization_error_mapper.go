package organization

import (
	"errors"
	"strings"

	organizationerrors "github.com/techmajster/saas-leave-system/internal/organization/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return organizationerrors.ErrOrganizationNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_organizations_slug" {
		return organizationerrors.ErrSlugTaken
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique constraint failed: organizations.slug") {
		return organizationerrors.ErrSlugTaken
	}

	return err
}
