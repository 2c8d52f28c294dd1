// Package security contains basic auth security provider.
package security

import (
	"sync"
	"time"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/providers"
	"github.com/go-home-io/garage/systems/logger"
	"github.com/go-home-io/garage/utils"
	"github.com/patrickmn/go-cache"
)

const (
	logSystem = "security"

	// AnonymousUser describes user name used when security is disabled.
	AnonymousUser = "anonymous"
)

// Implements security provider.
type provider struct {
	sync.Mutex

	userStorage *basicAuthProvider
	logger      common.ILoggerProvider
	roles       []*bakedRole
	cache       *cache.Cache
}

// ConstructSecurityProvider has all data required for a new security provider.
type ConstructSecurityProvider struct {
	Logger    common.ILoggerProvider
	Settings  *providers.SecuritySettings
	UsersFile string
}

// NewSecurityProvider constructs new security provider.
// Security is disabled if no users are known.
func NewSecurityProvider(ctor *ConstructSecurityProvider) providers.ISecurityProvider {
	log := logger.NewSystemLogger(&logger.ConstructSystemLogger{
		Logger: ctor.Logger,
		System: logSystem,
	})

	settings := ctor.Settings
	if nil == settings {
		settings = &providers.SecuritySettings{}
	}

	prov := &provider{
		userStorage: newBasicAuthProvider(log, settings.Users, ctor.UsersFile),
		logger:      log,
		cache:       cache.New(5*time.Minute, 10*time.Minute),
	}

	prov.processRoles(settings.Roles)
	if !prov.IsEnabled() {
		log.Warn("No users are configured, API is not protected")
	}

	return prov
}

// IsEnabled returns whether requests have to be authenticated.
func (p *provider) IsEnabled() bool {
	return p.userStorage.count() > 0
}

// GetUser returns found user with allowed roles if any.
func (p *provider) GetUser(headers map[string][]string) (providers.IAuthenticatedUser, error) {
	if !p.IsEnabled() {
		return &AuthenticatedUser{Username: AnonymousUser, allowAll: true}, nil
	}

	p.Lock()
	defer p.Unlock()

	key := authKey(headers)
	if authData, ok := p.cache.Get(key); "" != key && ok {
		return authData.(*AuthenticatedUser), nil
	}

	usr, err := p.userStorage.Authorize(headers)
	if err != nil {
		return nil, err
	}

	authUser := &AuthenticatedUser{
		Username: usr,
		roles:    make([]*bakedRole, 0),
	}

	for _, v := range p.roles {
		if utils.MatchAny(v.Users, usr) {
			authUser.roles = append(authUser.roles, v)
		}
	}

	p.cache.Set(key, authUser, cache.DefaultExpiration)
	return authUser, nil
}

// Processes configured roles and pre-complies globs.
func (p *provider) processRoles(roles []*providers.SecRole) {
	p.roles = make([]*bakedRole, 0)
	for _, v := range roles {
		users, err := utils.CompileGlobs(v.Users)
		if err != nil || 0 == len(users) {
			p.logger.Warn("Skipping role since users are incorrect", common.LogNameToken, v.Name)
			continue
		}

		garages, err := utils.CompileGlobs(v.Garages)
		if err != nil || 0 == len(garages) {
			p.logger.Warn("Skipping role since garages are incorrect", common.LogNameToken, v.Name)
			continue
		}

		role := &bakedRole{
			Name:    v.Name,
			Users:   users,
			Garages: garages,
		}

		for _, o := range v.Verbs {
			verb, err := providers.SecVerbString(o)
			if err != nil {
				p.logger.Warn("Unknown role verb", common.LogNameToken, v.Name, common.LogFieldToken, o)
				continue
			}

			switch verb {
			case providers.SecVerbAll:
				role.Get, role.Command, role.Admin = true, true, true
			case providers.SecVerbGet:
				role.Get = true
			case providers.SecVerbCommand:
				role.Command = true
			case providers.SecVerbAdmin:
				role.Admin = true
			}
		}

		p.roles = append(p.roles, role)
	}
}

// Returns cache key for the authorization header.
func authKey(headers map[string][]string) string {
	v, ok := headers["Authorization"]
	if !ok || 1 != len(v) {
		return ""
	}

	return v[0]
}
