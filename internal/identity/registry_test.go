package identity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/identity"
)

func sampleTechnician(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewTechnician("Ada Smith", "ada@example.com", "+15550100", "hash",
		"7 Workshop Lane", "12 years HVAC installation")
	require.NoError(t, err)
	user.JobsCompleted = 341
	user.TotalIncome = 85250.75
	user.CreatedAt = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	user.UpdatedAt = time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	return user
}

func TestRegistry_LookupPerRole(t *testing.T) {
	registry := identity.DefaultRegistry()

	for _, role := range []domain.UserRole{domain.RoleAdmin, domain.RoleCustomer, domain.RoleTechnician} {
		mapper, ok := registry.Lookup(role)
		require.True(t, ok, "missing mapper for %s", role)
		assert.Equal(t, role, mapper.Role())
	}
}

func TestRegistry_UnregisteredRole(t *testing.T) {
	registry := identity.NewRegistry(identity.AdminMapper{}, identity.CustomerMapper{})

	mapper, ok := registry.Lookup(domain.RoleTechnician)
	assert.False(t, ok)
	assert.Nil(t, mapper)
}

func TestRegistry_DuplicateRegistrationLastWins(t *testing.T) {
	first := identity.TechnicianMapper{}
	registry := identity.NewRegistry(first, overridingTechnicianMapper{})

	mapper, ok := registry.Lookup(domain.RoleTechnician)
	require.True(t, ok)
	assert.IsType(t, overridingTechnicianMapper{}, mapper)
}

// overridingTechnicianMapper stands in for a replacement registration.
type overridingTechnicianMapper struct {
	identity.TechnicianMapper
}

func TestAdminProfile_Empty(t *testing.T) {
	admin, err := domain.NewAdmin("Root Admin", "admin@example.com", "", "hash")
	require.NoError(t, err)

	data, ok := identity.DefaultRegistry().UserData(admin, true)
	require.True(t, ok)
	require.NotNil(t, data.Profile)
	assert.Equal(t, identity.UserProfile{}, *data.Profile)
	assert.Equal(t, domain.RoleAdmin, data.Identity.Role)
}

func TestCustomerProfile_AddressOnly(t *testing.T) {
	customer, err := domain.NewCustomer("Bob Jones", "bob@example.com", "", "hash", "22 Elm St")
	require.NoError(t, err)
	customer.JobsCompleted = 99 // stray data must not leak into a customer profile

	data, ok := identity.DefaultRegistry().UserData(customer, true)
	require.True(t, ok)
	require.NotNil(t, data.Profile)
	assert.Equal(t, "22 Elm St", data.Profile.Address)
	assert.Empty(t, data.Profile.Experience)
	assert.Zero(t, data.Profile.JobsCompleted)
	assert.Zero(t, data.Profile.TotalIncome)
}

func TestTechnicianProfile_RoundTrip(t *testing.T) {
	technician := sampleTechnician(t)

	data, ok := identity.DefaultRegistry().UserData(technician, true)
	require.True(t, ok)

	assert.Equal(t, technician.ID, data.Identity.ID)
	assert.Equal(t, "Ada Smith", data.Identity.FullName)
	assert.Equal(t, "ada@example.com", data.Identity.Email)
	assert.Equal(t, technician.CreatedAt, data.Identity.CreatedAt)

	require.NotNil(t, data.Profile)
	assert.Equal(t, "7 Workshop Lane", data.Profile.Address)
	assert.Equal(t, "12 years HVAC installation", data.Profile.Experience)
	assert.Equal(t, int64(341), data.Profile.JobsCompleted)
	assert.Equal(t, 85250.75, data.Profile.TotalIncome)
}

func TestUserData_ProfileOmitted(t *testing.T) {
	technician := sampleTechnician(t)

	data, ok := identity.DefaultRegistry().UserData(technician, false)
	require.True(t, ok)
	assert.Nil(t, data.Profile)
	assert.Equal(t, domain.RoleTechnician, data.Identity.Role)
}

func TestUserData_UnmappedRole(t *testing.T) {
	technician := sampleTechnician(t)
	registry := identity.NewRegistry(identity.AdminMapper{}, identity.CustomerMapper{})

	_, ok := registry.UserData(technician, true)
	assert.False(t, ok)
}
