package user

import (
	"time"

	log "github.com/sirupsen/logrus"
)

type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	Settings    Settings
}

type Settings struct {
	// Timezone is an IANA name used to group a user's reports into calendar days.
	Timezone string
	// DefaultHourlyRateCents is the last fallback of rate resolution, nil when not configured.
	DefaultHourlyRateCents *int64
}

// Location returns the user's timezone, or fallback when it is empty or unknown.
func (u User) Location(fallback *time.Location) *time.Location {
	if u.Settings.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(u.Settings.Timezone)
	if err != nil {
		log.Warnf("unknown timezone %q of user %d, using %s", u.Settings.Timezone, u.Id, fallback)
		return fallback
	}
	return loc
}
