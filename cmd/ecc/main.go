package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/raymyers/ecc/pkg/compiler"
	"github.com/raymyers/ecc/pkg/config"
	"github.com/raymyers/ecc/pkg/diag"
)

var version = "0.1.0"

// options holds the parsed command-line flags
type options struct {
	output     string
	dParse     bool
	dAsm       bool
	emitLLVM   bool
	configPath string
	verbose    bool

	// overrides for config.Config, applied only when set on the command line
	target     string
	qbeTarget  string
	linker     string
	linkerArgs []string
	keepAsm    bool
	color      string
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	// Normalize CompCert-style single-dash flags to double-dash for pflag compatibility
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// debugFlagNames lists the flags that also accept a single dash
var debugFlagNames = []string{"dparse", "dasm"}

// normalizeFlags converts CompCert-style single-dash flags like -dparse to --dparse
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		result[i] = arg
		for _, flagName := range debugFlagNames {
			if arg == "-"+flagName {
				result[i] = "--" + flagName
				break
			}
		}
	}
	return result
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "ecc [file]",
		Short: "ecc compiles a tiny subset of C to x86-64 assembly",
		Long: `ecc compiles a single "int NAME(void) { return EXPR; }" function,
where EXPR uses integer literals, unary ! - ~ and binary + - * /, to
x86-64 assembly and links it with the system C toolchain.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}

			cfg, err := loadConfig(cmd.Flags(), opts)
			if err != nil {
				fmt.Fprintf(errOut, "ecc: error: %v\n", err)
				return err
			}

			err = compile(cmd.Context(), args[0], cfg, opts, out, errOut)
			if err != nil {
				report(errOut, err, useColor(cfg.Color, errOut))
			}
			return err
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	addFlags(rootCmd.Flags(), opts)
	return rootCmd
}

func addFlags(fs *pflag.FlagSet, opts *options) {
	fs.StringVarP(&opts.output, "output", "o", "", "Write the executable to `file`")
	fs.BoolVar(&opts.dParse, "dparse", false, "Dump the parsed program as C")
	fs.BoolVarP(&opts.dAsm, "dasm", "S", false, "Dump assembly and do not link")
	fs.BoolVar(&opts.emitLLVM, "emit-llvm", false, "Dump LLVM IR and do not link")
	fs.StringVar(&opts.configPath, "config", "", "Read settings from a YAML `file`")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Report each stage on stderr")

	fs.StringVar(&opts.target, "target", config.TargetX86_64, "Code generator: x86-64 or qbe")
	fs.StringVar(&opts.qbeTarget, "qbe-target", "", "QBE target for --target=qbe (default: host)")
	fs.StringVar(&opts.linker, "linker", "cc", "C toolchain driver used to assemble and link")
	fs.StringArrayVarP(&opts.linkerArgs, "linker-arg", "L", nil, "Extra argument passed to the linker")
	fs.BoolVar(&opts.keepAsm, "keep-asm", false, "Keep the .s file after linking")
	fs.StringVar(&opts.color, "color", config.ColorAuto, "Colour diagnostics: auto, always or never")
}

// loadConfig builds the effective configuration: defaults, then the
// config file, then flags that were set explicitly
func loadConfig(fs *pflag.FlagSet, opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}

	if fs.Changed("target") {
		cfg.Target = opts.target
	}
	if fs.Changed("qbe-target") {
		cfg.QbeTarget = opts.qbeTarget
	}
	if fs.Changed("linker") {
		cfg.Linker = opts.linker
	}
	if fs.Changed("linker-arg") {
		cfg.LinkerArgs = append(cfg.LinkerArgs, opts.linkerArgs...)
	}
	if fs.Changed("keep-asm") {
		cfg.KeepAsm = opts.keepAsm
	}
	if fs.Changed("color") {
		cfg.Color = opts.color
	}
	return cfg, cfg.Validate()
}

func compile(ctx context.Context, filename string, cfg *config.Config, opts *options, out, errOut io.Writer) error {
	if opts.verbose {
		fmt.Fprintf(errOut, "ecc: compiling %s\n", filename)
	}
	unit, err := compiler.ReadFile(filename)
	if err != nil {
		return err
	}

	dumped := false
	if opts.dParse {
		dumped = true
		if err := compiler.WriteFile(compiler.ParsedPath(filename), unit.C(), out); err != nil {
			return err
		}
	}
	if opts.emitLLVM {
		dumped = true
		if err := compiler.WriteFile(compiler.LLVMPath(filename), unit.LLVM(), out); err != nil {
			return err
		}
	}
	if opts.dAsm {
		dumped = true
		text, err := unit.Assembly(cfg)
		if err != nil {
			return err
		}
		if err := compiler.WriteFile(compiler.AsmPath(filename), text, out); err != nil {
			return err
		}
	}
	if dumped {
		return nil
	}

	outPath := opts.output
	if outPath == "" {
		outPath = compiler.OutputPath(filename)
	}
	if opts.verbose {
		fmt.Fprintf(errOut, "ecc: linking %s\n", outPath)
	}
	return unit.Link(ctx, cfg, outPath, out, errOut)
}

// report prints err, rendering parse errors against their source
func report(errOut io.Writer, err error, color bool) {
	var srcErr *compiler.SourceError
	if errors.As(err, &srcErr) {
		diag.Render(errOut, srcErr.Filename, srcErr.Source, srcErr.ParseError, color)
		return
	}
	fmt.Fprintf(errOut, "ecc: error: %v\n", err)
}

// useColor resolves a colour mode against the diagnostic stream
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
