package security

import (
	"github.com/go-home-io/garage/utils"
	"github.com/gobwas/glob"
)

// Helper type for pre-baked role.
type bakedRole struct {
	Name    string
	Users   []glob.Glob
	Garages []glob.Glob
	Get     bool
	Command bool
	Admin   bool
}

// AuthenticatedUser has data with authenticated user and matched roles.
type AuthenticatedUser struct {
	Username string
	roles    []*bakedRole
	allowAll bool
}

// Name returns the user name.
func (u *AuthenticatedUser) Name() string {
	return u.Username
}

// GarageGet verifies whether user is allowed to see a garage.
func (u *AuthenticatedUser) GarageGet(garageID string) bool {
	return u.verify(garageID, func(r *bakedRole) bool {
		return r.Get || r.Command
	})
}

// GarageCommand verifies whether user is allowed to operate a garage.
func (u *AuthenticatedUser) GarageCommand(garageID string) bool {
	return u.verify(garageID, func(r *bakedRole) bool {
		return r.Command
	})
}

// Admin verifies whether user is allowed to manage session, discovery and claiming.
func (u *AuthenticatedUser) Admin() bool {
	if u.allowAll {
		return true
	}

	for _, v := range u.roles {
		if v.Admin {
			return true
		}
	}

	return false
}

// Verifies access.
func (u *AuthenticatedUser) verify(garageID string, verb func(r *bakedRole) bool) bool {
	if u.allowAll {
		return true
	}

	for _, v := range u.roles {
		if verb(v) && utils.MatchAny(v.Garages, garageID) {
			return true
		}
	}

	return false
}
