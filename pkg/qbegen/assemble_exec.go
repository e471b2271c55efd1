//go:build windows

package qbegen

import (
	"fmt"
	"io"
	"os"
	"os/exec"
)

// DefaultTarget returns the QBE target for the given host
func DefaultTarget(goos, goarch string) string {
	if goarch == "arm64" {
		return "arm64"
	}
	return "amd64_sysv"
}

// Assemble runs the system qbe binary on il and writes the assembly to w
func Assemble(il, target string, w io.Writer) error {
	if _, err := exec.LookPath("qbe"); err != nil {
		return fmt.Errorf("qbe not found in PATH: %w", err)
	}

	input, err := os.CreateTemp("", "ecc-qbe-*.ssa")
	if err != nil {
		return err
	}
	defer os.Remove(input.Name())
	if _, err := input.WriteString(il); err != nil {
		input.Close()
		return err
	}
	if err := input.Close(); err != nil {
		return err
	}

	cmd := exec.Command("qbe", "-t", target, input.Name())
	cmd.Stdout = w
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("qbe: %w", err)
	}
	return nil
}
