// Package launch readies the nanobot binary and hands the process over to
// it. The handoff replaces the launcher's process image, so nanobot's exit
// code becomes the container's exit code with no supervision in between.
package launch

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"

	"github.com/nidus-labs/nanobot-launcher/internal/config"
)

// Resolve locates the nanobot binary: a path is checked directly, a bare
// name is searched on PATH.
func Resolve(bin string) (string, error) {
	if strings.ContainsRune(bin, os.PathSeparator) {
		if _, err := os.Stat(bin); err != nil {
			return "", fmt.Errorf("nanobot binary %s: %w", bin, err)
		}
		return bin, nil
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("nanobot binary %q not on PATH: %w", bin, err)
	}
	return path, nil
}

// Ensure returns the path to a runnable nanobot binary, bootstrapping it
// from cfg.BinaryURL when it is missing and a URL is configured. The
// version probe is best effort and only feeds the startup log.
func Ensure(cfg *config.Config, log *slog.Logger) (string, error) {
	path, err := Resolve(cfg.Bin)
	if err != nil {
		if cfg.BinaryURL == "" {
			return "", err
		}
		log.Info("nanobot binary missing, bootstrapping", "url", cfg.BinaryURL)
		path, err = bootstrap(cfg)
		if err != nil {
			return "", err
		}
	}

	if v := probeVersion(path); v != "" {
		log.Info("nanobot binary ready", "path", path, "version", v)
	} else {
		log.Info("nanobot binary ready", "path", path)
	}
	return path, nil
}

// Args builds the argv for the handoff. The config file is picked up by
// nanobot from its well-known path; only the earliest deployments also
// passed the port explicitly.
func Args(cfg *config.Config, binPath string) []string {
	argv := []string{binPath}
	if cfg.PassPortFlag {
		argv = append(argv, "--port", strconv.Itoa(cfg.GatewayPort))
	}
	return argv
}

// Exec replaces the current process image with nanobot. On success it
// never returns.
func Exec(cfg *config.Config, binPath string) error {
	argv := Args(cfg, binPath)
	if err := syscall.Exec(binPath, argv, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", binPath, err)
	}
	return nil // unreachable
}

// SpawnSidecar starts this same executable as a detached "sidecar" child
// (health endpoint, optional leads watcher). The child gets its own
// session so the exec'd nanobot cannot reap or signal it by accident.
func SpawnSidecar(log *slog.Logger) error {
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate own executable: %w", err)
	}

	cmd := exec.Command(self, "sidecar")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start sidecar: %w", err)
	}
	log.Info("sidecar started", "pid", cmd.Process.Pid)
	// Deliberately not waited on: it lives as long as the container.
	return cmd.Process.Release()
}

// probeVersion asks the binary for its version, first line only.
func probeVersion(binPath string) string {
	out, err := exec.Command(binPath, "--version").Output()
	if err != nil {
		return ""
	}
	lines := strings.SplitN(string(bytes.TrimSpace(out)), "\n", 2)
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[0])
}
