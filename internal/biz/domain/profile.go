package domain

import (
	"fmt"
	"strings"
	"time"
)

// UserStatus is the coarse presence of a user
type UserStatus string

const (
	UserStatusOnline    UserStatus = "online"
	UserStatusOffline   UserStatus = "offline"
	UserStatusRecently  UserStatus = "recently"
	UserStatusLastWeek  UserStatus = "last_week"
	UserStatusLastMonth UserStatus = "last_month"
	UserStatusLongAgo   UserStatus = "long_ago"
)

// UserProfile represents the public profile of a counterpart
type UserProfile struct {
	ID         int64
	Username   string
	FirstName  string
	LastName   string
	Status     UserStatus
	LastOnline time.Time // zero when hidden
	Bio        string
	Verified   bool
	Scam       bool
	Fake       bool
	Premium    bool
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

// Summary formats the profile for the operator
func (p *UserProfile) Summary() string {
	lastOnline := "Hidden"
	if !p.LastOnline.IsZero() {
		lastOnline = p.LastOnline.Format(TimestampLayout)
	}

	var sb strings.Builder
	sb.WriteString("👤 User Info:\n\n")
	fmt.Fprintf(&sb, "ID: %d\n", p.ID)
	fmt.Fprintf(&sb, "Username: @%s\n", orNone(p.Username))
	fmt.Fprintf(&sb, "First Name: %s\n", p.FirstName)
	fmt.Fprintf(&sb, "Last Name: %s\n", orNone(p.LastName))
	fmt.Fprintf(&sb, "Status: %s\n", p.Status)
	fmt.Fprintf(&sb, "Last Online: %s\n", lastOnline)
	fmt.Fprintf(&sb, "Bio: %s\n", orNone(p.Bio))
	fmt.Fprintf(&sb, "Is Verified: %t\n", p.Verified)
	fmt.Fprintf(&sb, "Is Scam: %t\n", p.Scam)
	fmt.Fprintf(&sb, "Is Fake: %t\n", p.Fake)
	fmt.Fprintf(&sb, "Has Premium: %t\n", p.Premium)
	return sb.String()
}
