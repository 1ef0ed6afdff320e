package minter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitlab.com/scpcorp/candy-minter/mintflow"
)

func (s *Server) runInALoop(ctx context.Context, name string, interval time.Duration, callback func(ctx context.Context) error) {
	s.stopWg.Add(1)
	ticker := time.NewTicker(interval)

	go func() {
		defer func() {
			ticker.Stop()
			s.stopWg.Done()
		}()
		log := s.log.WithField("loop", name)
		for {
			select {
			case <-ctx.Done():
				log.Debug("loop done by context")
				return
			case <-ticker.C:
				if err := callback(ctx); err != nil {
					log.WithError(err).Warn("callback failed")
				}
			}
		}
	}()
}

// tick flips the active flag at go-live and hides expired notifications.
func (s *Server) tick(ctx context.Context) error {
	s.ctrl.Tick()
	return nil
}

func (s *Server) refresh(ctx context.Context) error {
	var errs []error
	if err := s.ctrl.RefreshBalance(ctx); errors.Is(err, mintflow.ErrNoWallet) {
		return nil
	} else if err != nil {
		errs = append(errs, fmt.Errorf("balance: %w", err))
	}
	if err := s.ctrl.Refresh(ctx); err != nil {
		errs = append(errs, fmt.Errorf("candy machine: %w", err))
	}
	return errors.Join(errs...)
}
