//go:build !windows

package qbegen

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"modernc.org/libqbe"
)

// DefaultTarget returns the QBE target for the given host
func DefaultTarget(goos, goarch string) string {
	return libqbe.DefaultTarget(goos, goarch)
}

// Assemble runs QBE in-process on il and writes the assembly to w
func Assemble(il, target string, w io.Writer) error {
	var asmBuf bytes.Buffer
	if err := libqbe.Main(target, "input.ssa", strings.NewReader(il), &asmBuf, nil); err != nil {
		return fmt.Errorf("qbe: %w", err)
	}
	_, err := io.Copy(w, &asmBuf)
	return err
}
