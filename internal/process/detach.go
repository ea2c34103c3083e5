package process

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

// DetachEnv marks a process started by Detach.
const DetachEnv = "FOCUSTABS_DETACHED"

// Detached reports whether this process was started by Detach, and clears
// the marker so that children do not inherit it.
func Detached() bool {
	if os.Getenv(DetachEnv) == "" {
		return false
	}
	os.Unsetenv(DetachEnv)
	return true
}

// Detach starts argv in its own session with the detach marker set and
// returns the first line it prints. The child keeps running.
func Detach(argv []string) (string, error) {
	if len(argv) == 0 {
		return "", errors.New("empty command")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), DetachEnv+"=1")
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", err
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to start %s: %w", argv[0], err)
	}

	line, err := bufio.NewReader(stdout).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		// The child exited before printing; its status says why.
		if werr := cmd.Wait(); werr != nil {
			return "", fmt.Errorf("detached process failed: %w", werr)
		}
		return "", fmt.Errorf("detached process printed nothing: %w", err)
	}
	cmd.Process.Release()
	return strings.TrimRight(line, "\n"), nil
}

// ReleaseStdout points standard output at /dev/null once the detached
// parent has read what it needs, so later writes cannot hit a closed pipe.
func ReleaseStdout() error {
	null, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer null.Close()
	return unix.Dup2(int(null.Fd()), int(os.Stdout.Fd()))
}
