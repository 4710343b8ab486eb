package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// UserRole discriminates the three account types the service knows about.
type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleCustomer   UserRole = "CUSTOMER"
	RoleTechnician UserRole = "TECHNICIAN"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleCustomer, RoleTechnician:
		return true
	}
	return false
}

// User is the persisted account aggregate. Role-specific fields stay zero
// for roles that do not use them.
type User struct {
	ID            string
	FullName      string
	Email         string
	Phone         string
	PasswordHash  string
	Role          UserRole
	Address       string
	Experience    string
	JobsCompleted int64
	TotalIncome   float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func newUser(role UserRole, fullName, email, phone, passwordHash string) (*User, error) {
	if fullName == "" {
		return nil, errors.New("full name required")
	}
	if email == "" {
		return nil, errors.New("email required")
	}
	if passwordHash == "" {
		return nil, errors.New("password hash required")
	}
	return &User{
		ID:           uuid.NewString(),
		FullName:     fullName,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		Role:         role,
	}, nil
}

// NewAdmin builds an admin account.
func NewAdmin(fullName, email, phone, passwordHash string) (*User, error) {
	return newUser(RoleAdmin, fullName, email, phone, passwordHash)
}

// NewCustomer builds a customer account with a service address.
func NewCustomer(fullName, email, phone, passwordHash, address string) (*User, error) {
	user, err := newUser(RoleCustomer, fullName, email, phone, passwordHash)
	if err != nil {
		return nil, err
	}
	user.Address = address
	return user, nil
}

// NewTechnician builds a technician account. Experience text is mandatory
// for technicians.
func NewTechnician(fullName, email, phone, passwordHash, address, experience string) (*User, error) {
	if experience == "" {
		return nil, errors.New("experience required for technicians")
	}
	user, err := newUser(RoleTechnician, fullName, email, phone, passwordHash)
	if err != nil {
		return nil, err
	}
	user.Address = address
	user.Experience = experience
	return user, nil
}
