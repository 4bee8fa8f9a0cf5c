package app

import (
	"fmt"
	"time"
)

// Profile selects how the enemy threatens the player once it gets close.
type Profile string

const (
	// ProfileCollision lets the enemy approach without bound; crossing the collision
	// distance deals a small hit and pushes the enemy back.
	ProfileCollision Profile = "collision"
	// ProfileStopAndAttack halts the enemy at StopDistance, from where it fires
	// ranged attacks at an interval that shrinks with difficulty.
	ProfileStopAndAttack Profile = "stop-and-attack"
)

// ParseProfile maps a config value to a Profile. Empty selects the collision profile.
func ParseProfile(raw string) (Profile, error) {
	switch Profile(raw) {
	case "", ProfileCollision:
		return ProfileCollision, nil
	case ProfileStopAndAttack:
		return ProfileStopAndAttack, nil
	}
	return "", fmt.Errorf("unknown enemy profile %q", raw)
}

// Rules holds the tuning constants of a session.
type Rules struct {
	Profile Profile

	MaxHealth    int
	DangerHealth int

	WrongDamage     int
	CollisionDamage int
	AttackDamage    int

	// ApproachRate is distance units per millisecond at difficulty 1.
	ApproachRate      float64
	CollisionDistance float64
	PushbackDistance  float64
	StopDistance      float64
	AttackInterval    time.Duration

	DifficultyStep float64
	MaxAward       int
	MinAward       int

	NextQuestionDelay time.Duration
	ReloadDuration    time.Duration
	ReloadStep        time.Duration
	EffectDuration    time.Duration
	FrameInterval     time.Duration

	Narrate bool
}

// DefaultRules returns the standard game tuning.
func DefaultRules() Rules {
	return Rules{
		Profile:           ProfileCollision,
		MaxHealth:         100,
		DangerHealth:      30,
		WrongDamage:       10,
		CollisionDamage:   1,
		AttackDamage:      15,
		ApproachRate:      0.005,
		CollisionDistance: 100,
		PushbackDistance:  80,
		StopDistance:      75,
		AttackInterval:    2000 * time.Millisecond,
		DifficultyStep:    0.05,
		MaxAward:          100,
		MinAward:          10,
		NextQuestionDelay: 500 * time.Millisecond,
		ReloadDuration:    2000 * time.Millisecond,
		ReloadStep:        20 * time.Millisecond,
		EffectDuration:    500 * time.Millisecond,
		FrameInterval:     16 * time.Millisecond,
	}
}

func (r Rules) reloadSteps() int {
	if r.ReloadStep <= 0 {
		return 1
	}
	steps := int(r.ReloadDuration / r.ReloadStep)
	if steps < 1 {
		return 1
	}
	return steps
}
