package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	inactivityWindowKey = "SESSION_INACTIVITY_WINDOW"
	activityCoalesceKey = "ACTIVITY_COALESCE"
)

type Session struct {
	v *viper.Viper
}

var _ SessionConfig = Session{}

// GetInactivityWindow is how long a session stays valid without user activity.
func (s Session) GetInactivityWindow() time.Duration {
	return s.v.GetDuration(inactivityWindowKey)
}

// GetActivityCoalesce is the minimum gap between two persisted activity stamps.
// Zero disables coalescing.
func (s Session) GetActivityCoalesce() time.Duration {
	return s.v.GetDuration(activityCoalesceKey)
}
