package team_test

import (
	"context"
	"testing"

	"github.com/techmajster/saas-leave-system/internal/domain"
	"github.com/techmajster/saas-leave-system/internal/membership"
	"github.com/techmajster/saas-leave-system/internal/shared/testutil"
	"github.com/techmajster/saas-leave-system/internal/team"
	teamerrors "github.com/techmajster/saas-leave-system/internal/team/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAccess struct {
	canManageFn func(ctx context.Context, userID, teamID string) (bool, error)
}

func (f *fakeAccess) CanManageTeam(ctx context.Context, userID, teamID string) (bool, error) {
	if f.canManageFn != nil {
		return f.canManageFn(ctx, userID, teamID)
	}
	return false, nil
}

type teamServiceDeps struct {
	db      *gorm.DB
	service team.Service
	access  *fakeAccess
	orgID   uuid.UUID
	admin   domain.Actor
}

func setupTeamServiceTest(t *testing.T) *teamServiceDeps {
	t.Helper()

	db := testutil.OpenSQLite(t, &membership.Profile{}, &team.Team{})
	access := &fakeAccess{}
	orgID := uuid.New()

	return &teamServiceDeps{
		db:      db,
		service: team.NewService(db, team.NewRepository(db), access),
		access:  access,
		orgID:   orgID,
		admin:   domain.Actor{UserID: uuid.NewString(), OrganizationID: orgID.String(), Role: domain.RoleAdmin},
	}
}

func (d *teamServiceDeps) seedProfile(t *testing.T, orgID uuid.UUID) membership.Profile {
	t.Helper()
	p := membership.Profile{
		ID:             uuid.New(),
		Email:          uuid.NewString() + "@example.com",
		FullName:       "Member " + uuid.NewString()[:4],
		Role:           domain.RoleEmployee,
		OrganizationID: &orgID,
	}
	require.NoError(t, d.db.Create(&p).Error)
	return p
}

func TestTeamService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success with manager", func(t *testing.T) {
		d := setupTeamServiceTest(t)
		manager := d.seedProfile(t, d.orgID)
		managerID := manager.ID.String()

		resp, err := d.service.Create(ctx, d.admin, team.CreateTeamRequest{Name: "Backend", ManagerID: &managerID})
		require.NoError(t, err)
		assert.Equal(t, "Backend", resp.Name)
		require.NotNil(t, resp.ManagerID)
		assert.Equal(t, managerID, *resp.ManagerID)
	})

	t.Run("negative manager from another organization", func(t *testing.T) {
		d := setupTeamServiceTest(t)
		outsider := d.seedProfile(t, uuid.New())
		id := outsider.ID.String()

		_, err := d.service.Create(ctx, d.admin, team.CreateTeamRequest{Name: "Backend", ManagerID: &id})
		assert.ErrorIs(t, err, teamerrors.ErrManagerNotInOrganization)
	})

	t.Run("negative not admin", func(t *testing.T) {
		d := setupTeamServiceTest(t)
		manager := d.admin
		manager.Role = domain.RoleManager

		_, err := d.service.Create(ctx, manager, team.CreateTeamRequest{Name: "Backend"})
		assert.ErrorIs(t, err, teamerrors.ErrAdminOnly)
	})
}

func TestTeamService_AddMembers(t *testing.T) {
	ctx := context.Background()

	t.Run("admin adds members of own organization only", func(t *testing.T) {
		d := setupTeamServiceTest(t)
		created, err := d.service.Create(ctx, d.admin, team.CreateTeamRequest{Name: "Ops"})
		require.NoError(t, err)

		a := d.seedProfile(t, d.orgID)
		b := d.seedProfile(t, d.orgID)
		foreign := d.seedProfile(t, uuid.New())

		resp, err := d.service.AddMembers(ctx, d.admin, created.ID, team.MembersRequest{
			MemberIDs: []string{a.ID.String(), b.ID.String(), foreign.ID.String()},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Count)
		assert.Equal(t, "Successfully added 2 member(s) to team", resp.Message)

		var reloaded membership.Profile
		require.NoError(t, d.db.First(&reloaded, "id = ?", foreign.ID).Error)
		assert.Nil(t, reloaded.TeamID)

		members, err := d.service.ListMembers(ctx, d.admin, created.ID)
		require.NoError(t, err)
		assert.Len(t, members, 2)
	})

	t.Run("manager of the team", func(t *testing.T) {
		d := setupTeamServiceTest(t)
		created, err := d.service.Create(ctx, d.admin, team.CreateTeamRequest{Name: "Ops"})
		require.NoError(t, err)
		member := d.seedProfile(t, d.orgID)

		manager := domain.Actor{UserID: uuid.NewString(), OrganizationID: d.orgID.String(), Role: domain.RoleManager}
		d.access.canManageFn = func(ctx context.Context, userID, teamID string) (bool, error) {
			assert.Equal(t, manager.UserID, userID)
			assert.Equal(t, created.ID, teamID)
			return true, nil
		}

		resp, err := d.service.AddMembers(ctx, manager, created.ID, team.MembersRequest{MemberIDs: []string{member.ID.String()}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Count)
	})

	t.Run("negative manager of another team", func(t *testing.T) {
		d := setupTeamServiceTest(t)
		created, err := d.service.Create(ctx, d.admin, team.CreateTeamRequest{Name: "Ops"})
		require.NoError(t, err)

		manager := domain.Actor{UserID: uuid.NewString(), OrganizationID: d.orgID.String(), Role: domain.RoleManager}
		_, err = d.service.AddMembers(ctx, manager, created.ID, team.MembersRequest{MemberIDs: []string{uuid.NewString()}})
		assert.ErrorIs(t, err, teamerrors.ErrNotTeamManager)
	})

	t.Run("negative employee", func(t *testing.T) {
		d := setupTeamServiceTest(t)
		employee := domain.Actor{UserID: uuid.NewString(), OrganizationID: d.orgID.String(), Role: domain.RoleEmployee}

		_, err := d.service.AddMembers(ctx, employee, uuid.NewString(), team.MembersRequest{MemberIDs: []string{uuid.NewString()}})
		assert.ErrorIs(t, err, teamerrors.ErrRosterForbidden)
	})

	t.Run("negative empty member ids", func(t *testing.T) {
		d := setupTeamServiceTest(t)

		_, err := d.service.AddMembers(ctx, d.admin, uuid.NewString(), team.MembersRequest{})
		assert.ErrorIs(t, err, teamerrors.ErrMemberIDsRequired)
	})

	t.Run("negative team of another organization", func(t *testing.T) {
		d := setupTeamServiceTest(t)
		created, err := d.service.Create(ctx, d.admin, team.CreateTeamRequest{Name: "Ops"})
		require.NoError(t, err)

		otherAdmin := domain.Actor{UserID: uuid.NewString(), OrganizationID: uuid.NewString(), Role: domain.RoleAdmin}
		_, err = d.service.AddMembers(ctx, otherAdmin, created.ID, team.MembersRequest{MemberIDs: []string{uuid.NewString()}})
		assert.ErrorIs(t, err, teamerrors.ErrTeamNotFound)
	})
}

func TestTeamService_RemoveMembersAndDelete(t *testing.T) {
	ctx := context.Background()
	d := setupTeamServiceTest(t)

	created, err := d.service.Create(ctx, d.admin, team.CreateTeamRequest{Name: "Support"})
	require.NoError(t, err)
	a := d.seedProfile(t, d.orgID)
	b := d.seedProfile(t, d.orgID)

	_, err = d.service.AddMembers(ctx, d.admin, created.ID, team.MembersRequest{MemberIDs: []string{a.ID.String(), b.ID.String()}})
	require.NoError(t, err)

	resp, err := d.service.RemoveMembers(ctx, d.admin, created.ID, team.MembersRequest{MemberIDs: []string{a.ID.String()}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Count)
	assert.Equal(t, "Successfully removed 1 member(s) from team", resp.Message)

	require.NoError(t, d.service.Delete(ctx, d.admin, created.ID))

	var reloaded membership.Profile
	require.NoError(t, d.db.First(&reloaded, "id = ?", b.ID).Error)
	assert.Nil(t, reloaded.TeamID)

	_, err = d.service.GetByID(ctx, d.admin, created.ID)
	assert.ErrorIs(t, err, teamerrors.ErrTeamNotFound)

	err = d.service.Delete(ctx, d.admin, created.ID)
	assert.ErrorIs(t, err, teamerrors.ErrTeamNotFound)
}
