package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/JohnnyMorganz/luau/internal/errors"
	"github.com/JohnnyMorganz/luau/internal/i18n"
	"github.com/JohnnyMorganz/luau/internal/parser"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: i18n.T(i18n.CmdCheckShort),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, args)
		},
	}
}

// runCheck 解析每个文件并报告全部语法错误
//
// 读取失败的文件不会中断其余文件的检查，最后一并返回。
func (a *app) runCheck(cmd *cobra.Command, paths []string) error {
	reporter := errors.NewReporter(cmd.ErrOrStderr())

	var err error
	for _, path := range paths {
		source, readErr := readSource(path)
		if readErr != nil {
			err = multierr.Append(err, readErr)
			continue
		}

		result := parser.New(source, path, parser.Options{}).Parse()
		a.logger.Debug("checked", zap.String("file", path), zap.Int("errors", len(result.Errors)))

		if len(result.Errors) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T(i18n.MsgSyntaxOK, path))
			continue
		}

		reporter.SetSource(path, source)
		for _, e := range result.Errors {
			reporter.Report(diagnostic(path, e))
		}
	}

	reporter.Summary()
	if reporter.HasErrors() {
		err = multierr.Append(err, fmt.Errorf("%s", i18n.T(i18n.ErrCheckFailed)))
	}
	return err
}

// diagnostic 把语法错误转换为面向用户的诊断，行列换算为从 1 开始
func diagnostic(file string, e parser.Error) *errors.Diagnostic {
	d := &errors.Diagnostic{
		Code:    e.Code,
		Level:   errors.LevelError,
		Message: e.Message,
		File:    file,
		Line:    e.Location.Begin.Line + 1,
		Column:  e.Location.Begin.Column + 1,
	}
	if info, ok := errors.GetErrorInfo(e.Code); ok {
		d.Level = info.Level
	}
	if e.Location.End.Line == e.Location.Begin.Line && e.Location.End.Column > e.Location.Begin.Column {
		d.EndColumn = e.Location.End.Column + 1
	}
	return d
}
