package launch

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nidus-labs/nanobot-launcher/internal/config"
)

const (
	downloadTimeout = 5 * time.Minute

	// defaultInstallPath is used when cfg.Bin is a bare name that is not
	// on PATH yet.
	defaultInstallPath = "/usr/local/bin/nanobot"
)

// bootstrap downloads the nanobot binary, verifies it when a checksum is
// configured, and installs it executable. Download and verification happen
// against a staging path so a bad transfer never leaves a half-written
// binary where the handoff would exec it.
func bootstrap(cfg *config.Config) (string, error) {
	dest := installPath(cfg.Bin)
	staging := dest + ".download"

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create install dir: %w", err)
	}
	if err := download(cfg.BinaryURL, staging); err != nil {
		return "", fmt.Errorf("download nanobot: %w", err)
	}
	defer os.Remove(staging)

	if cfg.BinarySHA256 != "" {
		if err := verifySHA256(staging, cfg.BinarySHA256); err != nil {
			return "", fmt.Errorf("verify nanobot: %w", err)
		}
	}
	if err := os.Chmod(staging, 0o755); err != nil {
		return "", fmt.Errorf("chmod nanobot: %w", err)
	}
	if err := os.Rename(staging, dest); err != nil {
		return "", fmt.Errorf("install nanobot: %w", err)
	}
	return dest, nil
}

func installPath(bin string) string {
	if strings.ContainsRune(bin, os.PathSeparator) {
		return bin
	}
	return defaultInstallPath
}

func download(url, dest string) error {
	client := &http.Client{Timeout: downloadTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, resp.Body)
	return err
}

func verifySHA256(path, expected string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return err
	}
	got := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(got, expected) {
		return fmt.Errorf("checksum mismatch: got %s, want %s", got, expected)
	}
	return nil
}
