package leavetype_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/techmajster/saas-leave-system/internal/domain"
	"github.com/techmajster/saas-leave-system/internal/leavetype"
	leavetypeerrors "github.com/techmajster/saas-leave-system/internal/leavetype/errors"
	"github.com/techmajster/saas-leave-system/internal/membership"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeLeaveTypeRepository struct {
	createFn      func(ctx context.Context, t *leavetype.LeaveType) error
	createBatchFn func(ctx context.Context, types []leavetype.LeaveType) error
	findAllFn     func(ctx context.Context, organizationID string) ([]leavetype.LeaveType, error)
	findByIDFn    func(ctx context.Context, organizationID, id string) (*leavetype.LeaveType, error)
	updateFn      func(ctx context.Context, t *leavetype.LeaveType) error
}

func (f *fakeLeaveTypeRepository) WithTx(tx *gorm.DB) leavetype.Repository { return f }

func (f *fakeLeaveTypeRepository) Create(ctx context.Context, t *leavetype.LeaveType) error {
	if f.createFn != nil {
		return f.createFn(ctx, t)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) CreateBatch(ctx context.Context, types []leavetype.LeaveType) error {
	if f.createBatchFn != nil {
		return f.createBatchFn(ctx, types)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) FindAllByOrganization(ctx context.Context, organizationID string) ([]leavetype.LeaveType, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, organizationID)
	}
	return nil, nil
}

func (f *fakeLeaveTypeRepository) FindByIDAndOrganization(ctx context.Context, organizationID, id string) (*leavetype.LeaveType, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, organizationID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveTypeRepository) Update(ctx context.Context, t *leavetype.LeaveType) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, t)
	}
	return nil
}

type fakeMembers struct {
	profile   *membership.Profile
	canManage bool
}

func (f *fakeMembers) GetMemberProfile(ctx context.Context, actor domain.Actor, userID string) (*membership.Profile, error) {
	if f.profile == nil {
		return nil, errors.New("not found")
	}
	return f.profile, nil
}

func (f *fakeMembers) CanManageUser(ctx context.Context, actor domain.Actor, userID string) (bool, error) {
	return f.canManage, nil
}

type fakeBalances struct {
	balances []leavetype.Balance
}

func (f *fakeBalances) Snapshots(ctx context.Context, organizationID, userID string, year int) ([]leavetype.Balance, error) {
	return f.balances, nil
}

type leaveTypeServiceDeps struct {
	service   leavetype.Service
	repo      *fakeLeaveTypeRepository
	members   *fakeMembers
	balances  *fakeBalances
	redismock redismock.ClientMock
	orgID     uuid.UUID
	admin     domain.Actor
}

func setupLeaveTypeServiceTest(t *testing.T) *leaveTypeServiceDeps {
	t.Helper()

	rdb, redisMock := redismock.NewClientMock()
	repo := &fakeLeaveTypeRepository{}
	members := &fakeMembers{}
	balances := &fakeBalances{}
	orgID := uuid.New()

	return &leaveTypeServiceDeps{
		service:   leavetype.NewService(repo, rdb, members, balances),
		repo:      repo,
		members:   members,
		balances:  balances,
		redismock: redisMock,
		orgID:     orgID,
		admin:     domain.Actor{UserID: uuid.NewString(), OrganizationID: orgID.String(), Role: domain.RoleAdmin},
	}
}

func TestLeaveTypeService_ListForOrganization(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		cached := []leavetype.LeaveType{newType(deps.orgID, "Annual leave", leavetype.CategoryVacation, true)}
		jsonResp, _ := json.Marshal(cached)

		deps.redismock.ExpectGet(leavetype.GetListKey(deps.orgID.String())).SetVal(string(jsonResp))
		deps.repo.findAllFn = func(ctx context.Context, organizationID string) ([]leavetype.LeaveType, error) {
			t.Fatal("repository must not be called on cache hit")
			return nil, nil
		}

		got, err := deps.service.ListForOrganization(ctx, deps.orgID.String())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, cached[0].ID, got[0].ID)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("cache miss fills cache", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		cacheKey := leavetype.GetListKey(deps.orgID.String())
		stored := []leavetype.LeaveType{newType(deps.orgID, "Sick leave", leavetype.CategorySick, false)}
		jsonData, _ := json.Marshal(stored)

		deps.redismock.ExpectGet(cacheKey).RedisNil()
		deps.repo.findAllFn = func(ctx context.Context, organizationID string) ([]leavetype.LeaveType, error) {
			assert.Equal(t, deps.orgID.String(), organizationID)
			return stored, nil
		}
		deps.redismock.ExpectSet(cacheKey, jsonData, 1*time.Hour).SetVal("OK")

		got, err := deps.service.ListForOrganization(ctx, deps.orgID.String())
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("negative repository error", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		deps.redismock.ExpectGet(leavetype.GetListKey(deps.orgID.String())).RedisNil()
		deps.repo.findAllFn = func(ctx context.Context, organizationID string) ([]leavetype.LeaveType, error) {
			return nil, errors.New("db down")
		}

		_, err := deps.service.ListForOrganization(ctx, deps.orgID.String())
		assert.EqualError(t, err, "db down")
	})
}

func TestLeaveTypeService_Create(t *testing.T) {
	ctx := context.Background()
	req := leavetype.CreateLeaveTypeRequest{
		Name:            "Training",
		DaysPerYear:     5,
		Color:           "#000000",
		RequiresBalance: true,
		LeaveCategory:   leavetype.CategoryOther,
	}

	t.Run("success invalidates cache", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		deps.repo.createFn = func(ctx context.Context, lt *leavetype.LeaveType) error {
			assert.Equal(t, deps.orgID, lt.OrganizationID)
			assert.Equal(t, "Training", lt.Name)
			return nil
		}
		deps.redismock.ExpectDel(leavetype.GetListKey(deps.orgID.String())).SetVal(1)

		resp, err := deps.service.Create(ctx, deps.admin, req)
		require.NoError(t, err)
		assert.Equal(t, "Training", resp.Name)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("negative duplicate name", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		deps.repo.createFn = func(ctx context.Context, lt *leavetype.LeaveType) error {
			return gorm.ErrDuplicatedKey
		}

		_, err := deps.service.Create(ctx, deps.admin, req)
		assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeNameTaken)
	})

	t.Run("negative invalid category", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		bad := req
		bad.LeaveCategory = "holiday"

		_, err := deps.service.Create(ctx, deps.admin, bad)
		assert.ErrorIs(t, err, leavetypeerrors.ErrInvalidCategory)
	})

	t.Run("negative manager", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		manager := deps.admin
		manager.Role = domain.RoleManager

		_, err := deps.service.Create(ctx, manager, req)
		assert.ErrorIs(t, err, leavetypeerrors.ErrAdminOnly)
	})
}

func TestLeaveTypeService_SeedDefaults(t *testing.T) {
	deps := setupLeaveTypeServiceTest(t)
	var inserted []leavetype.LeaveType
	deps.repo.createBatchFn = func(ctx context.Context, types []leavetype.LeaveType) error {
		inserted = types
		return nil
	}
	deps.redismock.ExpectDel(leavetype.GetListKey(deps.orgID.String())).SetVal(0)

	types, err := deps.service.SeedDefaults(context.Background(), deps.orgID.String())
	require.NoError(t, err)
	assert.Len(t, types, len(leavetype.DefaultCatalogue()))
	assert.Equal(t, inserted, types)
	for _, lt := range types {
		assert.Equal(t, deps.orgID, lt.OrganizationID)
	}
}

func TestLeaveTypeService_Options(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*leaveTypeServiceDeps, leavetype.LeaveType, leavetype.LeaveType) {
		deps := setupLeaveTypeServiceTest(t)
		annual := newType(deps.orgID, "Annual leave", leavetype.CategoryVacation, true)
		onDemand := newType(deps.orgID, "On-demand leave", leavetype.CategoryOnDemand, true)
		deps.repo.findAllFn = func(ctx context.Context, organizationID string) ([]leavetype.LeaveType, error) {
			return []leavetype.LeaveType{annual, onDemand}, nil
		}
		deps.members.profile = &membership.Profile{ID: uuid.New()}
		deps.balances.balances = []leavetype.Balance{
			{LeaveTypeID: annual.ID.String(), EntitledDays: decimal.NewFromInt(20), UsedDays: decimal.NewFromInt(18)},
		}
		return deps, annual, onDemand
	}

	t.Run("reviewer sees disabled types", func(t *testing.T) {
		deps, annual, onDemand := setup(t)
		deps.members.canManage = true
		deps.redismock.ExpectGet(leavetype.GetListKey(deps.orgID.String())).RedisNil()

		got, err := deps.service.Options(ctx, deps.admin, leavetype.OptionsQuery{UserID: uuid.NewString()})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, annual.ID.String(), got[0].ID)
		require.NotNil(t, got[0].RemainingDays)
		assert.Equal(t, "2", *got[0].RemainingDays)
		assert.False(t, got[0].Disabled)
		assert.Equal(t, onDemand.ID.String(), got[1].ID)
		assert.True(t, got[1].Disabled)
		assert.Equal(t, leavetype.ReasonNoBalance, got[1].DisabledReason)
	})

	t.Run("employee only gets applicable types", func(t *testing.T) {
		deps, annual, _ := setup(t)
		employee := domain.Actor{UserID: uuid.NewString(), OrganizationID: deps.orgID.String(), Role: domain.RoleEmployee}
		deps.redismock.ExpectGet(leavetype.GetListKey(deps.orgID.String())).RedisNil()

		got, err := deps.service.Options(ctx, employee, leavetype.OptionsQuery{})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, annual.ID.String(), got[0].ID)
	})

	t.Run("requested days above remaining disables", func(t *testing.T) {
		deps, _, _ := setup(t)
		employee := domain.Actor{UserID: uuid.NewString(), OrganizationID: deps.orgID.String(), Role: domain.RoleEmployee}
		deps.redismock.ExpectGet(leavetype.GetListKey(deps.orgID.String())).RedisNil()

		got, err := deps.service.Options(ctx, employee, leavetype.OptionsQuery{RequestedDays: "3"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("negative other user not managed", func(t *testing.T) {
		deps, _, _ := setup(t)
		employee := domain.Actor{UserID: uuid.NewString(), OrganizationID: deps.orgID.String(), Role: domain.RoleEmployee}

		_, err := deps.service.Options(ctx, employee, leavetype.OptionsQuery{UserID: uuid.NewString()})
		assert.ErrorIs(t, err, leavetypeerrors.ErrCannotViewUser)
	})
}
