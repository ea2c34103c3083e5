// Package process starts client programs detached from the tab manager.
package process

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/bryanchriswhite/FocusTabs/internal/logger"
)

// Spawner starts programs in their own session with extra environment
// variables, and reaps them when they exit.
type Spawner struct {
	env []string
	log *zerolog.Logger
}

// NewSpawner creates a spawner that adds env ("KEY=value") to the
// environment of every child.
func NewSpawner(env ...string) *Spawner {
	return &Spawner{
		env: env,
		log: logger.WithComponent("spawner"),
	}
}

// Spawn starts argv and returns without waiting for it.
func (s *Spawner) Spawn(argv []string) error {
	if len(argv) == 0 {
		return errors.New("empty command")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), s.env...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", argv[0], err)
	}

	pid := cmd.Process.Pid
	s.log.Info().Int("pid", pid).Strs("argv", argv).Msg("Client started")

	go func() {
		err := cmd.Wait()
		if err != nil {
			s.log.Debug().Int("pid", pid).Err(err).Msg("Client exited")
		} else {
			s.log.Debug().Int("pid", pid).Msg("Client exited")
		}
	}()
	return nil
}
