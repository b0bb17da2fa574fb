package models

import (
	"errors"
	"strings"
	"time"
)

// Mode is the explanation depth used for a user.
type Mode string

const (
	ModeBeginner Mode = "beginner"
	ModeNormal   Mode = "normal"
)

// DefaultMode applies to users with no stored profile.
const DefaultMode = ModeNormal

// ErrProfileNotFound is returned by profile storage when no profile exists for a user.
var ErrProfileNotFound = errors.New("profile not found")

// UserProfile holds the adaptive state for one user.
type UserProfile struct {
	UserID        string    `json:"user_id"`
	Mode          Mode      `json:"mode"`
	StruggleCount int       `json:"struggle_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewUserProfile returns a profile with default mode and a zero struggle count.
func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID: userID,
		Mode:   DefaultMode,
	}
}

// Signal is a feedback event that drives mode transitions.
type Signal string

const (
	SignalStruggle  Signal = "struggle"
	SignalConfident Signal = "confident"
	SignalUnknown   Signal = ""
)

// signalAliases maps every accepted spelling onto its signal.
var signalAliases = map[string]Signal{
	"struggle":        SignalStruggle,
	"switch_beginner": SignalStruggle,
	"too_hard":        SignalStruggle,
	"confident":       SignalConfident,
	"switch_normal":   SignalConfident,
	"too_easy":        SignalConfident,
}

// ParseSignal resolves a raw feedback value. Unrecognised values yield SignalUnknown.
func ParseSignal(raw string) Signal {
	if s, ok := signalAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return SignalUnknown
}

// Apply performs the transition for s on the profile. It reports whether the
// profile changed; SignalUnknown never changes it.
func (p *UserProfile) Apply(s Signal) bool {
	switch s {
	case SignalStruggle:
		p.Mode = ModeBeginner
		p.StruggleCount++
	case SignalConfident:
		p.Mode = ModeNormal
		p.StruggleCount = 0
	default:
		return false
	}
	return true
}
