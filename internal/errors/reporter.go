package errors

import (
	"io"
	"os"
	"strings"

	"github.com/JohnnyMorganz/luau/internal/i18n"
)

// ============================================================================
// 错误报告器
// ============================================================================

// Reporter 收集多个文件的诊断并输出
type Reporter struct {
	out         io.Writer
	formatter   *Formatter
	sourceCache map[string][]string // 源代码缓存
	diagnostics []*Diagnostic
}

// NewReporter 创建错误报告器，out 为 nil 时输出到标准错误
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = os.Stderr
	}
	return &Reporter{
		out:         out,
		formatter:   NewFormatter(),
		sourceCache: make(map[string][]string),
	}
}

// SetFormatter 设置格式化器
func (r *Reporter) SetFormatter(f *Formatter) {
	r.formatter = f
}

// SetSource 设置源代码（文件内容已在内存中时使用）
func (r *Reporter) SetSource(filename string, content string) {
	r.sourceCache[filename] = strings.Split(content, "\n")
}

// Report 记录并立即输出一条诊断
func (r *Reporter) Report(d *Diagnostic) {
	if len(d.Hints) == 0 {
		d.Hints = Hints(d.Code)
	}
	r.diagnostics = append(r.diagnostics, d)
	_, _ = io.WriteString(r.out, r.formatter.FormatDiagnostic(d, r.sourceCache[d.File]))
}

// Summary 输出错误计数，没有错误时不输出
func (r *Reporter) Summary() {
	if len(r.diagnostics) == 0 {
		return
	}
	_, _ = io.WriteString(r.out, "\n"+r.formatter.colorize(i18n.T(i18n.DiagErrorsFound, len(r.diagnostics)), ColorBoldRed)+"\n")
}

// HasErrors 是否报告过错误级别的诊断
func (r *Reporter) HasErrors() bool {
	for _, d := range r.diagnostics {
		if d.Level == LevelError {
			return true
		}
	}
	return false
}

// ErrorCount 错误数量
func (r *Reporter) ErrorCount() int {
	n := 0
	for _, d := range r.diagnostics {
		if d.Level == LevelError {
			n++
		}
	}
	return n
}

// Diagnostics 返回已报告的诊断
func (r *Reporter) Diagnostics() []*Diagnostic {
	return r.diagnostics
}
