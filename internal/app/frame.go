package app

import (
	"time"

	"lingo-shooter/internal/domain"
)

// Tick advances the enemy by the time elapsed since the previous frame. It reports
// whether the frame loop should keep running.
func (s *Session) Tick(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickLocked(now)
}

func (s *Session) tickLocked(now time.Time) bool {
	if !s.active {
		return false
	}

	deltaMS := float64(now.Sub(s.lastFrameTime)) / float64(time.Millisecond)
	if deltaMS < 0 {
		deltaMS = 0
	}
	s.lastFrameTime = now
	approach := s.rules.ApproachRate * s.difficulty * deltaMS

	switch s.rules.Profile {
	case ProfileStopAndAttack:
		s.stopAndAttackLocked(now, approach)
	default:
		s.collideLocked(approach)
	}
	return s.active
}

func (s *Session) collideLocked(approach float64) {
	s.enemyDistance += approach
	s.positionEnemyLocked()

	if s.enemyDistance > s.rules.CollisionDistance {
		s.sound.Play(domain.SoundWrong)
		s.applyDamageLocked(s.rules.CollisionDamage)
		s.enemyDistance = s.rules.PushbackDistance
	}
}

func (s *Session) stopAndAttackLocked(now time.Time, approach float64) {
	if s.enemyDistance < s.rules.StopDistance {
		s.enemyDistance += approach
	}
	s.positionEnemyLocked()

	if s.enemyDistance < s.rules.StopDistance {
		return
	}
	if now.Sub(s.lastAttackTime) > s.attackIntervalLocked() {
		s.presenter.Effect(domain.EffectBeam, s.rules.EffectDuration)
		s.sound.Play(domain.SoundExplosion)
		s.applyDamageLocked(s.rules.AttackDamage)
		s.lastAttackTime = now
	}
}

func (s *Session) attackIntervalLocked() time.Duration {
	return time.Duration(float64(s.rules.AttackInterval) / s.difficulty)
}

func (s *Session) positionEnemyLocked() {
	scale, offset := enemyTransform(s.enemyDistance)
	s.presenter.PositionEnemy(scale, offset)
}

// enemyTransform maps distance to the enemy's display scale and vertical offset.
func enemyTransform(distance float64) (scale, offset float64) {
	return 1 + distance/100*3, distance / 100 * 200
}

func (s *Session) scheduleFrameLocked() {
	epoch := s.epoch
	s.frameTimer = s.clock.AfterFunc(s.rules.FrameInterval, func() {
		s.frame(epoch)
	})
}

func (s *Session) frame(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return
	}
	if s.tickLocked(s.clock.Now()) {
		s.scheduleFrameLocked()
		return
	}
	s.frameTimer = nil
}
