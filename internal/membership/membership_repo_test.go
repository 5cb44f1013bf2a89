package membership_test

import (
	"context"
	"testing"
	"time"

	"github.com/techmajster/saas-leave-system/internal/domain"
	"github.com/techmajster/saas-leave-system/internal/membership"
	"github.com/techmajster/saas-leave-system/internal/shared/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type teamRow struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `gorm:"type:uuid"`
	ManagerID      *uuid.UUID
	DeletedAt      gorm.DeletedAt
}

func (teamRow) TableName() string { return "teams" }

func seedProfile(t *testing.T, db *gorm.DB, role string, orgID, teamID *uuid.UUID, name string) membership.Profile {
	t.Helper()
	p := membership.Profile{
		ID:             uuid.New(),
		Email:          uuid.NewString() + "@example.com",
		FullName:       name,
		Role:           role,
		OrganizationID: orgID,
		TeamID:         teamID,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestMembershipRepository_ListMembers(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenSQLite(t, &membership.Profile{}, &teamRow{})
	repo := membership.NewRepository(db)

	orgID := uuid.New()
	otherOrg := uuid.New()
	teamA := uuid.New()
	teamB := uuid.New()

	seedProfile(t, db, domain.RoleEmployee, &orgID, &teamA, "Anna")
	seedProfile(t, db, domain.RoleEmployee, &orgID, &teamA, "Bartek")
	seedProfile(t, db, domain.RoleEmployee, &orgID, &teamB, "Celina")
	seedProfile(t, db, domain.RoleAdmin, &orgID, nil, "Dorota")
	seedProfile(t, db, domain.RoleEmployee, &otherOrg, &teamA, "Ewa")

	all, err := repo.ListMembers(ctx, domain.OrganizationScope(orgID.String()))
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "Anna", all[0].FullName)

	team, err := repo.ListMembers(ctx, domain.TeamScope(orgID.String(), teamA.String()))
	require.NoError(t, err)
	require.Len(t, team, 2)
	assert.Equal(t, "Anna", team[0].FullName)
	assert.Equal(t, "Bartek", team[1].FullName)

	none, err := repo.ListMembers(ctx, domain.Scope{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMembershipRepository_FindTeam(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenSQLite(t, &membership.Profile{}, &teamRow{})
	repo := membership.NewRepository(db)

	managerID := uuid.New()
	live := teamRow{ID: uuid.New(), OrganizationID: uuid.New(), ManagerID: &managerID}
	gone := teamRow{ID: uuid.New(), OrganizationID: uuid.New(), DeletedAt: gorm.DeletedAt{Time: time.Now(), Valid: true}}
	require.NoError(t, db.Create(&live).Error)
	require.NoError(t, db.Create(&gone).Error)

	ref, err := repo.FindTeam(ctx, live.ID.String())
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, live.OrganizationID, ref.OrganizationID)
	require.NotNil(t, ref.ManagerID)
	assert.Equal(t, managerID, *ref.ManagerID)

	ref, err = repo.FindTeam(ctx, gone.ID.String())
	require.NoError(t, err)
	assert.Nil(t, ref)

	ref, err = repo.FindTeam(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, ref)
}

func TestMembershipRepository_UpdateMembership(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenSQLite(t, &membership.Profile{})
	repo := membership.NewRepository(db)

	p := seedProfile(t, db, domain.RoleEmployee, nil, nil, "Filip")
	orgID := uuid.New()

	require.NoError(t, repo.UpdateMembership(ctx, p.ID.String(), &orgID, domain.RoleManager, nil))

	got, err := repo.FindProfileInOrganization(ctx, orgID.String(), p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, got.Role)

	err = repo.UpdateMembership(ctx, uuid.NewString(), &orgID, domain.RoleEmployee, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	n, err := repo.UpdateRole(ctx, uuid.NewString(), p.ID.String(), domain.RoleAdmin)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMembershipRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenSQLite(t, &membership.Profile{})
	repo := membership.NewRepository(db)

	orgID := uuid.New()
	existing := seedProfile(t, db, domain.RoleManager, &orgID, nil, "Anna Nowak")

	t.Run("missing name keeps the stored one", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, &membership.Profile{
			ID: existing.ID, Email: "anna@acme.test", Role: domain.RoleEmployee,
		}))

		got, err := repo.FindProfile(ctx, existing.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "Anna Nowak", got.FullName)
		assert.Equal(t, "anna@acme.test", got.Email)
		assert.Equal(t, domain.RoleManager, got.Role)
	})

	t.Run("name from the token replaces the stored one", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, &membership.Profile{
			ID: existing.ID, Email: "anna@acme.test", FullName: "Anna Kowalska", Role: domain.RoleEmployee,
		}))

		got, err := repo.FindProfile(ctx, existing.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "Anna Kowalska", got.FullName)
	})

	t.Run("new profile is created", func(t *testing.T) {
		id := uuid.New()
		require.NoError(t, repo.Upsert(ctx, &membership.Profile{ID: id, Email: "new@acme.test", Role: domain.RoleEmployee}))

		got, err := repo.FindProfile(ctx, id.String())
		require.NoError(t, err)
		assert.Equal(t, "new@acme.test", got.Email)
		assert.Nil(t, got.OrganizationID)
	})
}
