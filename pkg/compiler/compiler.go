// Package compiler wires the lexer, parser and back ends into the
// file-level operations the driver needs.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/raymyers/ecc/pkg/asmgen"
	"github.com/raymyers/ecc/pkg/ast"
	"github.com/raymyers/ecc/pkg/config"
	"github.com/raymyers/ecc/pkg/lexer"
	"github.com/raymyers/ecc/pkg/llvmgen"
	"github.com/raymyers/ecc/pkg/parser"
	"github.com/raymyers/ecc/pkg/qbegen"
	"github.com/raymyers/ecc/pkg/toolchain"
)

// SourceError is a parse error together with the text it refers to
type SourceError struct {
	Filename string
	Source   string
	*parser.ParseError
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Filename, e.ParseError.Error())
}

func (e *SourceError) Unwrap() error {
	return e.ParseError
}

// Unit is one parsed source file
type Unit struct {
	Filename string
	Source   string
	Program  *ast.Program
}

// Parse tokenizes and parses source. Parse failures are *SourceError.
func Parse(filename, source string) (*Unit, error) {
	prog, err := parser.Parse(lexer.Tokenize(source))
	if err != nil {
		var perr *parser.ParseError
		if errors.As(err, &perr) {
			return nil, &SourceError{Filename: filename, Source: source, ParseError: perr}
		}
		return nil, err
	}
	return &Unit{Filename: filename, Source: source, Program: prog}, nil
}

// ReadFile reads and parses the file at path
func ReadFile(path string) (*Unit, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(path, string(content))
}

// Assembly generates native assembly for the configured target
func (u *Unit) Assembly(cfg *config.Config) (string, error) {
	switch cfg.Target {
	case config.TargetX86_64:
		return asmgen.Generate(u.Program), nil
	case config.TargetQBE:
		var sb strings.Builder
		if err := qbegen.Assemble(qbegen.GenerateIL(u.Program), cfg.QbeTarget, &sb); err != nil {
			return "", fmt.Errorf("%s: %w", u.Filename, err)
		}
		return sb.String(), nil
	}
	return "", fmt.Errorf("%w: %q", config.ErrUnknownTarget, cfg.Target)
}

// LLVM returns the LLVM IR for the unit
func (u *Unit) LLVM() string {
	return llvmgen.Generate(u.Program)
}

// C returns the parsed program printed back as C
func (u *Unit) C() string {
	var sb strings.Builder
	ast.NewPrinter(&sb).PrintProgram(u.Program)
	return sb.String()
}

// CompileSource compiles source text to assembly
func CompileSource(source string, cfg *config.Config) (string, error) {
	u, err := Parse("<input>", source)
	if err != nil {
		return "", err
	}
	return u.Assembly(cfg)
}

// CompileFile compiles the file at path to assembly
func CompileFile(path string, cfg *config.Config) (string, error) {
	u, err := ReadFile(path)
	if err != nil {
		return "", err
	}
	return u.Assembly(cfg)
}

// WriteFile writes content to path and also copies it to echo when non-nil
func WriteFile(path, content string, echo io.Writer) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if echo != nil {
		_, err := io.WriteString(echo, content)
		return err
	}
	return nil
}

// Build compiles the file at src into an executable at out
func Build(ctx context.Context, cfg *config.Config, src, out string, stdout, stderr io.Writer) error {
	u, err := ReadFile(src)
	if err != nil {
		return err
	}
	return u.Link(ctx, cfg, out, stdout, stderr)
}

// Link writes the unit's assembly next to its source and links it into
// an executable at out. The assembly is removed unless cfg.KeepAsm is set.
func (u *Unit) Link(ctx context.Context, cfg *config.Config, out string, stdout, stderr io.Writer) error {
	asmText, err := u.Assembly(cfg)
	if err != nil {
		return err
	}

	asmPath := AsmPath(u.Filename)
	if err := WriteFile(asmPath, asmText, nil); err != nil {
		return err
	}
	if !cfg.KeepAsm {
		defer os.Remove(asmPath)
	}

	return toolchain.Link(ctx, cfg, asmPath, out, stdout, stderr)
}

// replaceExt swaps the extension of path for ext, or appends ext when
// path has none
func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// siblingPath is replaceExt that never returns src itself, so a source
// already carrying ext is not overwritten (prog.s -> prog.s.s)
func siblingPath(src, ext string) string {
	if p := replaceExt(src, ext); p != src {
		return p
	}
	return src + ext
}

// AsmPath returns the assembly file written next to src
func AsmPath(src string) string {
	return siblingPath(src, ".s")
}

// LLVMPath returns the LLVM IR file written next to src
func LLVMPath(src string) string {
	return siblingPath(src, ".ll")
}

// ParsedPath returns the file the parsed C is dumped to
// (input.c -> input.parsed.c)
func ParsedPath(src string) string {
	return siblingPath(src, ".parsed.c")
}

// OutputPath returns the default executable path for src
func OutputPath(src string) string {
	out := replaceExt(src, "")
	if out == src || out == "" {
		return filepath.Join(filepath.Dir(src), "a.out")
	}
	return out
}
