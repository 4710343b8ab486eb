package identity

import (
	"github.com/spec-kit/account-service/internal/domain"
)

// Registry resolves the mapper variant for a role. It is built once at
// startup and read-only afterwards.
type Registry struct {
	mappers map[domain.UserRole]Mapper
}

// NewRegistry indexes mappers by role. When two mappers claim the same
// role the later registration wins.
func NewRegistry(mappers ...Mapper) *Registry {
	indexed := make(map[domain.UserRole]Mapper, len(mappers))
	for _, mapper := range mappers {
		indexed[mapper.Role()] = mapper
	}
	return &Registry{mappers: indexed}
}

// DefaultRegistry registers the built-in mapper for every known role.
func DefaultRegistry() *Registry {
	return NewRegistry(AdminMapper{}, CustomerMapper{}, TechnicianMapper{})
}

// Lookup returns the mapper for the role. A miss is reported, not raised;
// callers decide how to handle an unmapped role.
func (r *Registry) Lookup(role domain.UserRole) (Mapper, bool) {
	mapper, ok := r.mappers[role]
	return mapper, ok
}

// UserData projects the user through its role's mapper. The profile is
// omitted when includeProfile is false. The second return is false when no
// mapper is registered for the user's role.
func (r *Registry) UserData(user *domain.User, includeProfile bool) (UserData, bool) {
	mapper, ok := r.Lookup(user.Role)
	if !ok {
		return UserData{}, false
	}

	data := UserData{Identity: mapper.Identity(user)}
	if includeProfile {
		profile := mapper.Profile(user)
		data.Profile = &profile
	}
	return data, true
}
