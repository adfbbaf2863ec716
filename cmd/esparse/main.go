package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nooga/esfront/pkg/ast"
	"github.com/nooga/esfront/pkg/batch"
	"github.com/nooga/esfront/pkg/errors"
	"github.com/nooga/esfront/pkg/interner"
	"github.com/nooga/esfront/pkg/lexer"
	"github.com/nooga/esfront/pkg/parser"
	"github.com/nooga/esfront/pkg/source"
)

// Exit codes follow sysexits.h.
const (
	exitUsage   = 64
	exitDataErr = 65
	exitNoInput = 66
)

// exitError carries the process exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	cmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		code := exitUsage
		if ee, ok := err.(*exitError); ok {
			code = ee.code
		}
		// Syntax errors have already been displayed with their source line.
		if code != exitDataErr {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(code)
	}
}

type parseFlags struct {
	strict     bool
	expression bool
	format     string
	trace      bool
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "esparse",
		Short:         "Parse ECMAScript source and report syntax and early errors",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(newParseCmd(), newTokensCmd(), newCheckCmd())
	return root
}

func newParseCmd() *cobra.Command {
	var flags parseFlags
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a script and print its syntax tree",
		Long: "Parse a script, or stdin when no file or '-' is given, and print\n" +
			"the tree as an outline (--format tree) or as JavaScript (--format js).",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.format != "tree" && flags.format != "js" {
				return fmt.Errorf("unknown format %q", flags.format)
			}
			src, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			return runParse(cmd, src, flags)
		},
	}
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "parse as strict mode code")
	cmd.Flags().BoolVarP(&flags.expression, "expression", "e", false, "parse the input as a single expression")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "tree", "output format: tree or js")
	cmd.Flags().BoolVar(&flags.trace, "trace", false, "log parser decisions to stderr")
	return cmd
}

func runParse(cmd *cobra.Command, src *source.SourceFile, flags parseFlags) error {
	log := zap.NewNop()
	if flags.trace {
		log = traceLogger(cmd.ErrOrStderr())
		defer func() { _ = log.Sync() }()
	}
	p := parser.New(src, parser.WithStrict(flags.strict), parser.WithLogger(log))

	var (
		node ast.Node
		err  error
	)
	if flags.expression {
		node, err = p.ParseExpression()
	} else {
		node, err = p.ParseScript()
	}
	if err != nil {
		errors.Display(cmd.ErrOrStderr(), err)
		return &exitError{code: exitDataErr, err: err}
	}

	out := cmd.OutOrStdout()
	if flags.format == "js" {
		_, err := io.WriteString(out, ast.Print(node, p.Interner()))
		if err == nil && flags.expression {
			_, err = io.WriteString(out, "\n")
		}
		return err
	}
	return ast.Dump(out, node, p.Interner())
}

func newTokensCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a script",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			return runTokens(cmd, src, strict)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "lex as strict mode code")
	return cmd
}

// runTokens prints one token per line. A slash is read as division or as a
// regular expression depending on the token before it.
func runTokens(cmd *cobra.Command, src *source.SourceFile, strict bool) error {
	in := interner.New()
	l := lexer.New(src, in)
	l.SetStrict(strict)
	c := parser.NewCursor(l)
	out := cmd.OutOrStdout()
	for {
		tok, err := c.Advance()
		if err != nil {
			errors.Display(cmd.ErrOrStderr(), err)
			return &exitError{code: exitDataErr, err: err}
		}
		if tok.Type == lexer.EOF {
			return nil
		}
		fmt.Fprintf(out, "%d:%d-%d:%d\t%s\t%s\n",
			tok.Span.Start.Line, tok.Span.Start.Column,
			tok.Span.End.Line, tok.Span.End.Column,
			tok.Type, tok.Describe(in))
	}
}

func newCheckCmd() *cobra.Command {
	var (
		strict  bool
		workers int
		trace   bool
	)
	cmd := &cobra.Command{
		Use:   "check file...",
		Short: "Parse several scripts in parallel and report the first error of each",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sources []*source.SourceFile
			for _, path := range args {
				src, err := source.ReadFile(path)
				if err != nil {
					return &exitError{code: exitNoInput, err: err}
				}
				sources = append(sources, src)
			}
			cfg := batch.Config{Workers: workers}
			if trace {
				cfg.Logger = traceLogger(cmd.ErrOrStderr())
				defer func() { _ = cfg.Logger.Sync() }()
			}
			return runCheck(cmd, sources, strict, cfg)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "parse as strict mode code")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "number of parser workers (default: number of CPUs)")
	cmd.Flags().BoolVar(&trace, "trace", false, "log parser decisions to stderr")
	return cmd
}

func runCheck(cmd *cobra.Command, sources []*source.SourceFile, strict bool, cfg batch.Config) error {
	results, err := batch.ParseAll(cmd.Context(), sources, strict, cfg)
	if err != nil {
		return err
	}
	var failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			errors.Display(cmd.ErrOrStderr(), res.Err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok\t%s\t%s\n", res.Source.DisplayPath(), res.Duration)
	}
	if failed > 0 {
		return &exitError{code: exitDataErr, err: fmt.Errorf("%d of %d files failed to parse", failed, len(results))}
	}
	return nil
}

func readSource(cmd *cobra.Command, args []string) (*source.SourceFile, error) {
	if len(args) == 0 || args[0] == "-" {
		src, err := source.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, &exitError{code: exitNoInput, err: err}
		}
		return src, nil
	}
	src, err := source.ReadFile(args[0])
	if err != nil {
		return nil, &exitError{code: exitNoInput, err: err}
	}
	return src, nil
}

// traceLogger writes debug entries in zap's development console format.
func traceLogger(w io.Writer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zap.DebugLevel,
	)
	return zap.New(core, zap.Development())
}
