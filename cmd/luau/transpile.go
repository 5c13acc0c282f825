package main

import (
	"fmt"
	"io"
	"os"

	godiffpatch "github.com/sourcegraph/go-diff-patch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JohnnyMorganz/luau/internal/errors"
	"github.com/JohnnyMorganz/luau/internal/i18n"
	"github.com/JohnnyMorganz/luau/internal/parser"
	"github.com/JohnnyMorganz/luau/internal/transpiler"
)

// transpileOptions transpile 命令的参数
type transpileOptions struct {
	withTypes bool
	canonical bool
	diff      bool
	output    string
}

func newTranspileCmd(a *app) *cobra.Command {
	opts := transpileOptions{}

	cmd := &cobra.Command{
		Use:   "transpile <file>",
		Short: i18n.T(i18n.CmdTranspileShort),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// 未显式指定时取配置文件中的值
			if !cmd.Flags().Changed("types") {
				opts.withTypes = a.cfg.Transpile.WithTypes
			}
			if !cmd.Flags().Changed("canonical") {
				opts.canonical = a.cfg.Transpile.Canonical
			}
			return a.runTranspile(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.withTypes, "types", true, i18n.T(i18n.FlagTypes))
	cmd.Flags().BoolVar(&opts.canonical, "canonical", false, i18n.T(i18n.FlagCanonical))
	cmd.Flags().BoolVar(&opts.diff, "diff", false, i18n.T(i18n.FlagDiff))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", i18n.T(i18n.FlagOutput))
	return cmd
}

func (a *app) runTranspile(cmd *cobra.Command, path string, opts transpileOptions) error {
	source, err := readSource(path)
	if err != nil {
		return err
	}

	a.logger.Debug("transpiling",
		zap.String("file", path),
		zap.Bool("types", opts.withTypes),
		zap.Bool("canonical", opts.canonical),
	)

	out, err := transpileSource(source, opts)
	if err != nil {
		if perr, ok := err.(parser.Error); ok {
			reporter := errors.NewReporter(cmd.ErrOrStderr())
			reporter.SetSource(path, source)
			reporter.Report(diagnostic(path, perr))
		}
		return err
	}

	if opts.diff {
		if out == source {
			fmt.Fprintln(cmd.ErrOrStderr(), i18n.T(i18n.MsgNoChanges, path))
			return nil
		}
		out = godiffpatch.GeneratePatch(path, source, out)
	}

	return writeOutput(cmd.OutOrStdout(), opts.output, out)
}

// transpileSource 按参数打印源码
//
// canonical 时不记录 CST，输出规范布局；否则逐字节保留排版。
func transpileSource(source string, opts transpileOptions) (string, error) {
	if !opts.canonical {
		return transpiler.Transpile(source, parser.Options{}, opts.withTypes)
	}

	result := parser.Parse(source, parser.Options{})
	if len(result.Errors) > 0 {
		return "", result.Errors[0]
	}
	if opts.withTypes {
		return transpiler.TranspileBlockWithTypes(result.Root, result.Nodes), nil
	}
	return transpiler.TranspileBlock(result.Root, result.Nodes), nil
}

// readSource 读取源文件
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%s", i18n.T(i18n.ErrReadFile, path, err))
	}
	return string(data), nil
}

// writeOutput 写入结果，path 为空时写到 w
func writeOutput(w io.Writer, path, content string) error {
	if path == "" {
		_, err := io.WriteString(w, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("%s", i18n.T(i18n.ErrWriteFile, path, err))
	}
	return nil
}
