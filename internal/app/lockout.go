package app

import "lingo-shooter/internal/domain"

// triggerReloadLocked arms the post-wrong-answer lockout. Arming while a countdown is
// already running is a no-op.
func (s *Session) triggerReloadLocked() {
	if s.reloading {
		return
	}
	s.reloading = true
	s.reloadStep = 0
	s.sound.Play(domain.SoundReload)
	s.presenter.ShowReload(true, 0)
	s.scheduleReloadStepLocked(s.epoch)
}

func (s *Session) scheduleReloadStepLocked(epoch uint64) {
	s.reloadTimer = s.clock.AfterFunc(s.rules.ReloadStep, func() {
		s.advanceReload(epoch)
	})
}

func (s *Session) advanceReload(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch || !s.active || !s.reloading {
		return
	}

	s.reloadStep++
	if s.reloadStep >= s.rules.reloadSteps() {
		s.reloading = false
		s.reloadStep = 0
		s.reloadTimer = nil
		s.presenter.ShowReload(false, 0)
		return
	}
	s.presenter.ShowReload(true, s.reloadPercentLocked())
	s.scheduleReloadStepLocked(epoch)
}

func (s *Session) reloadPercentLocked() float64 {
	if !s.reloading {
		return 0
	}
	return float64(s.reloadStep) * 100 / float64(s.rules.reloadSteps())
}
