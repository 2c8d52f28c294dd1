package bus

import (
	"fmt"
	"strings"

	"github.com/go-home-io/garage/utils"
)

// StatusTopic returns node availability topic.
func StatusTopic(prefix string) string {
	return fmt.Sprintf("%s/status", trim(prefix))
}

// StateTopic returns session snapshot topic.
func StateTopic(prefix string) string {
	return fmt.Sprintf("%s/state", trim(prefix))
}

// GarageTopic returns single garage topic.
func GarageTopic(prefix string, garageID string) string {
	return fmt.Sprintf("%s/garage/%s", trim(prefix), utils.NormalizeName(garageID))
}

func trim(prefix string) string {
	return strings.TrimRight(prefix, "/")
}
