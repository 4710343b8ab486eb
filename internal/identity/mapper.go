package identity

import (
	"github.com/spec-kit/account-service/internal/domain"
)

// Mapper projects a user record into its wire-facing identity and profile.
// One variant exists per role.
type Mapper interface {
	Role() domain.UserRole
	Identity(user *domain.User) UserIdentity
	Profile(user *domain.User) UserProfile
}

func sharedIdentity(user *domain.User) UserIdentity {
	return UserIdentity{
		ID:        user.ID,
		Role:      user.Role,
		FullName:  user.FullName,
		Email:     user.Email,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// AdminMapper projects admins; their profile is empty.
type AdminMapper struct{}

func (AdminMapper) Role() domain.UserRole { return domain.RoleAdmin }

func (AdminMapper) Identity(user *domain.User) UserIdentity {
	return sharedIdentity(user)
}

func (AdminMapper) Profile(_ *domain.User) UserProfile {
	return UserProfile{}
}

// CustomerMapper projects customers; the profile holds the service address.
type CustomerMapper struct{}

func (CustomerMapper) Role() domain.UserRole { return domain.RoleCustomer }

func (CustomerMapper) Identity(user *domain.User) UserIdentity {
	return sharedIdentity(user)
}

func (CustomerMapper) Profile(user *domain.User) UserProfile {
	return UserProfile{Address: user.Address}
}

// TechnicianMapper projects technicians; the profile carries address,
// experience text and the cumulative job/income counters.
type TechnicianMapper struct{}

func (TechnicianMapper) Role() domain.UserRole { return domain.RoleTechnician }

func (TechnicianMapper) Identity(user *domain.User) UserIdentity {
	return sharedIdentity(user)
}

func (TechnicianMapper) Profile(user *domain.User) UserProfile {
	return UserProfile{
		Address:       user.Address,
		Experience:    user.Experience,
		JobsCompleted: user.JobsCompleted,
		TotalIncome:   user.TotalIncome,
	}
}
