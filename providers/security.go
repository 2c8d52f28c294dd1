package providers

import (
	"fmt"
	"strings"
)

// ISecurityProvider defines security provider.
type ISecurityProvider interface {
	GetUser(map[string][]string) (IAuthenticatedUser, error)
	IsEnabled() bool
}

// IAuthenticatedUser describes authenticated user.
type IAuthenticatedUser interface {
	Name() string
	GarageGet(string) bool
	GarageCommand(string) bool
	Admin() bool
}

// SecVerb describes allowed rules for the role.
type SecVerb int

const (
	// SecVerbAll describes all allowed operation rules.
	SecVerbAll SecVerb = iota
	// SecVerbGet describes get operation rule.
	SecVerbGet
	// SecVerbCommand describes execute command rule.
	SecVerbCommand
	// SecVerbAdmin describes session management rule: login, logout, discovery and claiming.
	SecVerbAdmin
)

// SecVerbString converts string into the verb.
func SecVerbString(s string) (SecVerb, error) {
	switch strings.ToLower(s) {
	case "*":
		return SecVerbAll, nil
	case "get":
		return SecVerbGet, nil
	case "command":
		return SecVerbCommand, nil
	case "admin":
		return SecVerbAdmin, nil
	}

	return SecVerbAll, fmt.Errorf("%s does not belong to SecVerb values", s)
}

// SecUser has data describing a single basic auth user.
// Password must be a bcrypt hash.
type SecUser struct {
	Name     string `yaml:"name" validate:"required"`
	Password string `yaml:"password" validate:"required"`
}

// SecRole has data, describing single security role.
type SecRole struct {
	Name    string   `yaml:"name" validate:"required"`
	Users   []string `yaml:"users" validate:"unique,min=1"`
	Garages []string `yaml:"garages" validate:"unique,min=1"`
	Verbs   []string `yaml:"verbs" validate:"unique,min=1,dive,oneof=* get command admin"`
}

// SecuritySettings has configured users and roles.
type SecuritySettings struct {
	Users []*SecUser `yaml:"users" validate:"dive"`
	Roles []*SecRole `yaml:"roles" validate:"dive"`
}
