package identity

import (
	"time"

	"github.com/spec-kit/account-service/internal/domain"
)

// UserIdentity carries the fields every role shares.
type UserIdentity struct {
	ID        string          `json:"id"`
	Role      domain.UserRole `json:"role"`
	FullName  string          `json:"full_name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UserProfile carries role-specific fields. Which ones are populated
// depends on the mapper that built it: admins get none, customers an
// address, technicians the full set.
type UserProfile struct {
	Address       string  `json:"address,omitempty"`
	Experience    string  `json:"experience,omitempty"`
	JobsCompleted int64   `json:"jobs_completed"`
	TotalIncome   float64 `json:"total_income"`
}

// UserData is the identity/profile pair returned to lookup callers.
// Profile is nil when the caller asked for identity only.
type UserData struct {
	Identity UserIdentity `json:"identity"`
	Profile  *UserProfile `json:"profile,omitempty"`
}
