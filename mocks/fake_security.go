//+build !release

package mocks

import (
	"errors"

	"github.com/go-home-io/garage/providers"
)

type fakeUser struct {
	allow bool
	admin bool
}

func (f *fakeUser) Name() string {
	return "fake"
}

func (f *fakeUser) GarageGet(string) bool {
	return f.allow
}

func (f *fakeUser) GarageCommand(string) bool {
	return f.allow
}

func (f *fakeUser) Admin() bool {
	return f.admin
}

type fakeSecurity struct {
	enabled bool
	user    *fakeUser
}

func (f *fakeSecurity) GetUser(map[string][]string) (providers.IAuthenticatedUser, error) {
	if nil == f.user {
		return nil, errors.New("unauthorized")
	}

	return f.user, nil
}

func (f *fakeSecurity) IsEnabled() bool {
	return f.enabled
}

// FakeNewSecurityProvider creates a new fake security provider.
// If authenticate is false every request is rejected.
func FakeNewSecurityProvider(authenticate bool, allow bool, admin bool) providers.ISecurityProvider {
	s := &fakeSecurity{enabled: true}
	if authenticate {
		s.user = &fakeUser{allow: allow, admin: admin}
	}

	return s
}
