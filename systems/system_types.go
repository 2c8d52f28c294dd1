// Package systems contains known config systems.
package systems

import (
	"fmt"
	"strings"
)

// SystemType is an enum describing known system types.
type SystemType int

const (
	// SysGoHome describes garage node system.
	SysGoHome SystemType = iota
	// SysInventory describes garage inventory system.
	SysInventory
	// SysSDK describes lock SDK system.
	SysSDK
	// SysBus describes state bus system.
	SysBus
	// SysSecurity describes security provider system.
	SysSecurity
)

var systemTypeNames = map[SystemType]string{
	SysGoHome:    "go-home",
	SysInventory: "inventory",
	SysSDK:       "sdk",
	SysBus:       "bus",
	SysSecurity:  "security",
}

// String returns kebab-case name of the system.
func (i SystemType) String() string {
	if s, ok := systemTypeNames[i]; ok {
		return s
	}

	return fmt.Sprintf("SystemType(%d)", int(i))
}

// SystemTypeString converts string into the system type.
func SystemTypeString(s string) (SystemType, error) {
	s = strings.ToLower(s)
	for k, v := range systemTypeNames {
		if v == s {
			return k, nil
		}
	}

	return SysGoHome, fmt.Errorf("%s does not belong to SystemType values", s)
}
