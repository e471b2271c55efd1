// Package toolchain drives the system assembler and linker.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/raymyers/ecc/pkg/config"
)

var (
	// ErrLinkFailed is returned when the linker runs but does not succeed
	ErrLinkFailed = errors.New("link failed")
	// ErrLinkerNotFound is returned when the linker binary is not on PATH
	ErrLinkerNotFound = errors.New("linker not found")
)

// Command returns the linker invocation for asmPath without running it
func Command(ctx context.Context, cfg *config.Config, asmPath, outPath string) *exec.Cmd {
	args := append([]string{"-o", outPath, asmPath}, cfg.LinkerArgs...)
	return exec.CommandContext(ctx, cfg.Linker, args...)
}

// Link assembles and links asmPath into an executable at outPath
func Link(ctx context.Context, cfg *config.Config, asmPath, outPath string, stdout, stderr io.Writer) error {
	if _, err := exec.LookPath(cfg.Linker); err != nil {
		return fmt.Errorf("%w: %s", ErrLinkerNotFound, cfg.Linker)
	}

	cmd := Command(ctx, cfg, asmPath, outPath)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s exited with status %d", ErrLinkFailed, cfg.Linker, exitErr.ExitCode())
		}
		return fmt.Errorf("%w: %v", ErrLinkFailed, err)
	}
	return nil
}
