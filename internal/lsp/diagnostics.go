package lsp

import (
	"go.lsp.dev/protocol"

	"github.com/JohnnyMorganz/luau/internal/parser"
	"github.com/JohnnyMorganz/luau/internal/token"
)

// diagnosticSource 诊断来源
const diagnosticSource = "luau"

// diagnostics 把文档的全部语法错误转换为 LSP 诊断
//
// 没有错误时返回空切片而不是 nil，客户端据此清除旧的诊断。
func diagnostics(doc *Document) []protocol.Diagnostic {
	errs := doc.Errors()
	result := make([]protocol.Diagnostic, 0, len(errs))
	for _, err := range errs {
		result = append(result, toDiagnostic(err))
	}
	return result
}

// toDiagnostic 转换单个语法错误
func toDiagnostic(err parser.Error) protocol.Diagnostic {
	diag := protocol.Diagnostic{
		Range: protocol.Range{
			Start: toPosition(err.Location.Begin),
			End:   toPosition(err.Location.End),
		},
		Severity: protocol.DiagnosticSeverityError,
		Source:   diagnosticSource,
		Message:  err.Message,
	}
	if err.Code != "" {
		diag.Code = string(err.Code)
	}
	return diag
}

// toPosition 两边都从 0 开始计数，列按字节
func toPosition(pos token.Position) protocol.Position {
	return protocol.Position{
		Line:      uint32(pos.Line),
		Character: uint32(pos.Column),
	}
}
