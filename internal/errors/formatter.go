package errors

import (
	"fmt"
	"strings"

	"github.com/JohnnyMorganz/luau/internal/i18n"
)

// ============================================================================
// 诊断
// ============================================================================

// Diagnostic 一条面向用户的诊断
//
// 行号与列号均从 1 开始，EndColumn 为开区间，0 表示只标注一个字符。
type Diagnostic struct {
	Code      Code     // 错误码 (E0001)
	Level     Level    // 错误级别
	Message   string   // 主消息
	File      string   // 文件路径
	Line      int      // 行号
	Column    int      // 列号
	EndColumn int      // 结束列
	Hints     []string // 修复建议
	Notes     []string // 附加说明
}

// Error 实现 error 接口
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", d.File, d.Line, d.Column, d.Message)
}

// ============================================================================
// 格式化器
// ============================================================================

// Formatter 诊断格式化器
type Formatter struct {
	Colors     bool // 是否使用颜色
	ShowSource bool // 是否显示源代码
	ShowHints  bool // 是否显示修复建议
	TabWidth   int  // Tab 宽度
}

// NewFormatter 创建默认格式化器
func NewFormatter() *Formatter {
	return &Formatter{
		Colors:     ColorsEnabled(),
		ShowSource: true,
		ShowHints:  true,
		TabWidth:   4,
	}
}

// FormatDiagnostic 格式化一条诊断
//
//	error[E0002]: Expected 'end' (to close 'do' at line 1), got <eof>
//	 --> main.luau:3:1
//	  |
//	3 | print(x)
//	  | ^
func (f *Formatter) FormatDiagnostic(d *Diagnostic, sourceLines []string) string {
	var sb strings.Builder

	levelStr := f.colorize(d.Level.String(), f.levelColor(d.Level))
	codeStr := f.colorize(fmt.Sprintf("[%s]", d.Code), f.levelColor(d.Level))
	sb.WriteString(fmt.Sprintf("%s%s: %s\n", levelStr, codeStr, d.Message))

	arrow := f.colorize("-->", ColorCyan)
	location := f.colorize(fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column), ColorCyan)
	sb.WriteString(fmt.Sprintf(" %s %s\n", arrow, location))

	if f.ShowSource && d.Line > 0 && d.Line <= len(sourceLines) {
		sb.WriteString(f.formatSourceContext(sourceLines[d.Line-1], d.Line, d.Column, d.EndColumn))
	}

	if f.ShowHints {
		for _, hint := range d.Hints {
			hintLabel := f.colorize(" = help:", ColorCyan)
			sb.WriteString(fmt.Sprintf("%s %s\n", hintLabel, hint))
		}
	}

	for _, note := range d.Notes {
		noteLabel := f.colorize(" = note:", ColorCyan)
		sb.WriteString(fmt.Sprintf("%s %s\n", noteLabel, note))
	}

	return sb.String()
}

// formatSourceContext 格式化出错行与下划线标注
func (f *Formatter) formatSourceContext(line string, lineNum, startCol, endCol int) string {
	var sb strings.Builder

	lineNumWidth := len(fmt.Sprintf("%d", lineNum))
	separator := f.colorize(strings.Repeat(" ", lineNumWidth)+" |", ColorBlue)
	sb.WriteString(separator + "\n")

	num := f.colorize(fmt.Sprintf("%*d", lineNumWidth, lineNum), ColorBlue)
	pipe := f.colorize(" |", ColorBlue)
	sb.WriteString(fmt.Sprintf("%s%s %s\n", num, pipe, f.expandTabs(line)))

	if endCol <= startCol {
		endCol = startCol + 1
	}
	length := endCol - startCol
	actualCol := f.calculateActualColumn(line, startCol)
	underline := separator + " " + strings.Repeat(" ", actualCol) + f.colorize(strings.Repeat("^", length), ColorRed)
	sb.WriteString(underline + "\n")

	return sb.String()
}

// expandTabs 展开 Tab 为空格
func (f *Formatter) expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", f.TabWidth))
}

// calculateActualColumn 把 1 起始的字节列换算为展开 Tab 后的 0 起始显示列
func (f *Formatter) calculateActualColumn(line string, col int) int {
	if col <= 0 {
		return 0
	}
	actual := 0
	for i := 0; i < col-1 && i < len(line); i++ {
		if line[i] == '\t' {
			actual += f.TabWidth
		} else {
			actual++
		}
	}
	return actual
}

// levelColor 获取错误级别对应的颜色
func (f *Formatter) levelColor(level Level) Color {
	switch level {
	case LevelError:
		return ColorRed
	case LevelWarning:
		return ColorYellow
	case LevelNote:
		return ColorCyan
	case LevelHelp:
		return ColorGreen
	default:
		return ColorWhite
	}
}

// colorize 着色字符串
func (f *Formatter) colorize(s string, color Color) string {
	if !f.Colors {
		return s
	}
	code, ok := ansiCodes[color]
	if !ok {
		return s
	}
	return code + s + ansiCodes[ColorReset]
}

// FormatDiagnostics 格式化多条诊断并附上错误计数
func (f *Formatter) FormatDiagnostics(diags []*Diagnostic, sourceCache map[string][]string) string {
	var sb strings.Builder

	for i, d := range diags {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(f.FormatDiagnostic(d, sourceCache[d.File]))
	}

	if len(diags) > 0 {
		sb.WriteString("\n")
		sb.WriteString(f.colorize(i18n.T(i18n.DiagErrorsFound, len(diags)), ColorBoldRed) + "\n")
	}

	return sb.String()
}
