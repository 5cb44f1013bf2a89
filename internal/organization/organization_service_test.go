package organization_test

import (
	"context"
	"errors"
	"testing"

	"github.com/techmajster/saas-leave-system/internal/domain"
	"github.com/techmajster/saas-leave-system/internal/leavetype"
	"github.com/techmajster/saas-leave-system/internal/membership"
	"github.com/techmajster/saas-leave-system/internal/organization"
	organizationerrors "github.com/techmajster/saas-leave-system/internal/organization/errors"
	"github.com/techmajster/saas-leave-system/internal/shared/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTypeSeeder struct {
	err   error
	calls []string
}

func (f *fakeTypeSeeder) SeedDefaults(ctx context.Context, organizationID string) ([]leavetype.LeaveType, error) {
	f.calls = append(f.calls, organizationID)
	if f.err != nil {
		return nil, f.err
	}
	return make([]leavetype.LeaveType, len(leavetype.DefaultCatalogue())), nil
}

type fakeBalanceSeeder struct {
	userIDs []string
}

func (f *fakeBalanceSeeder) SeedForUser(ctx context.Context, organizationID, userID string, year int) (int64, error) {
	f.userIDs = append(f.userIDs, userID)
	return 2, nil
}

type organizationDeps struct {
	db       *gorm.DB
	service  organization.Service
	types    *fakeTypeSeeder
	balances *fakeBalanceSeeder
}

func setupOrganizationTest(t *testing.T) *organizationDeps {
	t.Helper()
	db := testutil.OpenSQLite(t, &organization.Organization{}, &membership.Profile{})
	types := &fakeTypeSeeder{}
	balances := &fakeBalanceSeeder{}
	svc := organization.NewService(db, organization.NewRepository(db), membership.NewRepository(db), types, balances)
	return &organizationDeps{db: db, service: svc, types: types, balances: balances}
}

func (d *organizationDeps) profile(t *testing.T, id string) membership.Profile {
	t.Helper()
	var p membership.Profile
	require.NoError(t, d.db.First(&p, "id = ?", id).Error)
	return p
}

func newIdentity(email string) domain.Identity {
	return domain.Identity{UserID: uuid.NewString(), Email: email, FullName: "Founder"}
}

func TestOrganizationService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		d := setupOrganizationTest(t)
		founder := newIdentity("Founder@Acme.test")

		resp, err := d.service.Create(ctx, founder, organization.CreateOrganizationRequest{Name: " Acme ", Slug: "Acme-HQ"})
		require.NoError(t, err)

		assert.True(t, resp.Success)
		assert.Equal(t, "Acme", resp.Organization.Name)
		assert.Equal(t, "acme-hq", resp.Organization.Slug)
		assert.Equal(t, organization.CountryPL, resp.Organization.CountryCode)
		assert.Equal(t, organization.LocalePL, resp.Organization.Locale)
		assert.Equal(t, 8, resp.SeededLeaveTypes)
		assert.Equal(t, int64(2), resp.SeededBalances)
		assert.Equal(t, []string{founder.UserID}, d.balances.userIDs)

		p := d.profile(t, founder.UserID)
		assert.Equal(t, domain.RoleAdmin, p.Role)
		assert.Equal(t, "founder@acme.test", p.Email)
		require.NotNil(t, p.OrganizationID)
		assert.Equal(t, resp.Organization.ID, p.OrganizationID.String())
	})

	t.Run("non polish organizations default to english", func(t *testing.T) {
		d := setupOrganizationTest(t)
		resp, err := d.service.Create(ctx, newIdentity("a@b.ie"), organization.CreateOrganizationRequest{Name: "Dublin", Slug: "dublin", CountryCode: "IE"})
		require.NoError(t, err)
		assert.Equal(t, organization.LocaleEN, resp.Organization.Locale)
	})

	t.Run("seeding failure keeps the organization", func(t *testing.T) {
		d := setupOrganizationTest(t)
		d.types.err = errors.New("db hiccup")

		resp, err := d.service.Create(ctx, newIdentity("x@acme.test"), organization.CreateOrganizationRequest{Name: "Acme", Slug: "acme"})
		require.NoError(t, err)
		assert.Zero(t, resp.SeededLeaveTypes)
		assert.Empty(t, d.balances.userIDs)

		var n int64
		require.NoError(t, d.db.Model(&organization.Organization{}).Count(&n).Error)
		assert.Equal(t, int64(1), n)
	})

	t.Run("negative slug taken", func(t *testing.T) {
		d := setupOrganizationTest(t)
		_, err := d.service.Create(ctx, newIdentity("one@acme.test"), organization.CreateOrganizationRequest{Name: "Acme", Slug: "acme"})
		require.NoError(t, err)

		second := newIdentity("two@acme.test")
		_, err = d.service.Create(ctx, second, organization.CreateOrganizationRequest{Name: "Acme 2", Slug: "ACME"})
		assert.True(t, errors.Is(err, organizationerrors.ErrSlugTaken))

		var n int64
		require.NoError(t, d.db.Model(&membership.Profile{}).Where("id = ?", second.UserID).Count(&n).Error)
		assert.Zero(t, n)
	})

	t.Run("negative already a member", func(t *testing.T) {
		d := setupOrganizationTest(t)
		founder := newIdentity("one@acme.test")
		_, err := d.service.Create(ctx, founder, organization.CreateOrganizationRequest{Name: "Acme", Slug: "acme"})
		require.NoError(t, err)

		_, err = d.service.Create(ctx, founder, organization.CreateOrganizationRequest{Name: "Other", Slug: "other"})
		assert.True(t, errors.Is(err, organizationerrors.ErrAlreadyMember))
	})

	t.Run("negative validation", func(t *testing.T) {
		d := setupOrganizationTest(t)
		_, err := d.service.Create(ctx, newIdentity("a@acme.test"), organization.CreateOrganizationRequest{Name: "Acme", Slug: "acme hq"})
		assert.True(t, errors.Is(err, organizationerrors.ErrInvalidSlug))

		_, err = d.service.Create(ctx, newIdentity("b@acme.test"), organization.CreateOrganizationRequest{Name: "Acme", Slug: "acme", RequireGoogleDomain: true})
		assert.True(t, errors.Is(err, organizationerrors.ErrGoogleDomainRequired))
	})
}

func TestOrganizationService_UpdateSettings(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*organizationDeps, domain.Actor, string) {
		d := setupOrganizationTest(t)
		founder := newIdentity("admin@acme.test")
		resp, err := d.service.Create(ctx, founder, organization.CreateOrganizationRequest{Name: "Acme", Slug: "acme"})
		require.NoError(t, err)

		actor, err := membership.NewService(membership.NewRepository(d.db)).ResolveActor(ctx, founder.UserID)
		require.NoError(t, err)
		return d, actor, resp.Organization.ID
	}

	t.Run("success", func(t *testing.T) {
		d, admin, _ := setup(t)
		domainName := "acme.test"
		restrict := true

		resp, err := d.service.UpdateSettings(ctx, admin, organization.UpdateSettingsRequest{
			Name: "Acme Corp", Slug: "acme", Locale: "en", GoogleDomain: &domainName, RequireGoogleDomain: &restrict,
		})
		assert.NoError(t, err)
		assert.Equal(t, "Acme Corp", resp.Name)
		assert.Equal(t, "en", resp.Locale)
		assert.True(t, resp.RequireGoogleDomain)

		got, err := d.service.GetSettings(ctx, admin)
		assert.NoError(t, err)
		assert.Equal(t, "Acme Corp", got.Name)
	})

	t.Run("admin transfer", func(t *testing.T) {
		d, admin, orgID := setup(t)
		orgUUID := uuid.MustParse(orgID)
		successor := membership.Profile{ID: uuid.New(), Email: "next@acme.test", Role: domain.RoleManager, OrganizationID: &orgUUID}
		require.NoError(t, d.db.Create(&successor).Error)

		next := successor.ID.String()
		_, err := d.service.UpdateSettings(ctx, admin, organization.UpdateSettingsRequest{Name: "Acme", Slug: "acme", AdminID: &next})
		require.NoError(t, err)

		assert.Equal(t, domain.RoleAdmin, d.profile(t, next).Role)
		assert.Equal(t, domain.RoleEmployee, d.profile(t, admin.UserID).Role)
	})

	t.Run("negative transfer to an outsider rolls back", func(t *testing.T) {
		d, admin, _ := setup(t)
		outsider := uuid.NewString()

		_, err := d.service.UpdateSettings(ctx, admin, organization.UpdateSettingsRequest{Name: "Renamed", Slug: "acme", AdminID: &outsider})
		assert.True(t, errors.Is(err, organizationerrors.ErrAdminNotFound))

		got, err := d.service.GetSettings(ctx, admin)
		require.NoError(t, err)
		assert.Equal(t, "Acme", got.Name)
	})

	t.Run("negative slug of another organization", func(t *testing.T) {
		d, admin, _ := setup(t)
		_, err := d.service.Create(ctx, newIdentity("rival@rival.test"), organization.CreateOrganizationRequest{Name: "Rival", Slug: "rival"})
		require.NoError(t, err)

		_, err = d.service.UpdateSettings(ctx, admin, organization.UpdateSettingsRequest{Name: "Acme", Slug: "rival"})
		assert.True(t, errors.Is(err, organizationerrors.ErrSlugTaken))
	})

	t.Run("negative guards", func(t *testing.T) {
		d, admin, _ := setup(t)

		employee := admin
		employee.Role = domain.RoleEmployee
		_, err := d.service.UpdateSettings(ctx, employee, organization.UpdateSettingsRequest{Name: "Acme", Slug: "acme"})
		assert.True(t, errors.Is(err, organizationerrors.ErrAdminOnly))

		_, err = d.service.UpdateSettings(ctx, admin, organization.UpdateSettingsRequest{Name: " ", Slug: "acme"})
		assert.True(t, errors.Is(err, organizationerrors.ErrNameSlugRequired))
	})
}

func TestOrganization_AllowsEmail(t *testing.T) {
	domainName := "acme.test"
	tests := []struct {
		name  string
		org   organization.Organization
		email string
		want  bool
	}{
		{"no restriction", organization.Organization{}, "a@elsewhere.test", true},
		{"matching domain", organization.Organization{RequireGoogleDomain: true, GoogleDomain: &domainName}, "a@ACME.test", true},
		{"other domain", organization.Organization{RequireGoogleDomain: true, GoogleDomain: &domainName}, "a@elsewhere.test", false},
		{"subdomain is not the domain", organization.Organization{RequireGoogleDomain: true, GoogleDomain: &domainName}, "a@mail.acme.test", false},
		{"domain set but not required", organization.Organization{GoogleDomain: &domainName}, "a@elsewhere.test", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.org.AllowsEmail(tt.email))
		})
	}
}
