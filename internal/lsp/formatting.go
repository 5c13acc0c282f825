package lsp

import (
	"fmt"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/protocol"

	"github.com/JohnnyMorganz/luau/internal/i18n"
	"github.com/JohnnyMorganz/luau/internal/parser"
	"github.com/JohnnyMorganz/luau/internal/transpiler"
)

// handleFormatting 处理文档格式化请求
//
// 以规范形式重新打印整篇文档。文档有语法错误或内容没有变化时返回空编辑。
func (s *Server) handleFormatting(params json.RawMessage) (interface{}, error) {
	var p protocol.DocumentFormattingParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParams(err)
	}

	doc := s.documents.Get(string(p.TextDocument.URI))
	if doc == nil {
		return []protocol.TextEdit{}, nil
	}
	if len(doc.Errors()) > 0 {
		s.logger.Debug("skipping formatting of a document with syntax errors")
		return []protocol.TextEdit{}, nil
	}

	var formatted string
	if s.cfg.LSP.FormatWithTypes {
		formatted = transpiler.TranspileBlockWithTypes(doc.Result.Root, nil)
	} else {
		formatted = transpiler.TranspileBlock(doc.Result.Root, nil)
	}

	if formatted == doc.Content {
		return []protocol.TextEdit{}, nil
	}

	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   doc.EndPosition(),
		},
		NewText: formatted,
	}}, nil
}

// TranspileParams luau/transpile 请求参数
type TranspileParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`

	// WithTypes 为空时使用配置中的 transpile.with_types
	WithTypes *bool `json:"withTypes,omitempty"`
}

// TranspileResult luau/transpile 请求结果
type TranspileResult struct {
	Code string `json:"code"`
}

// handleTranspile 以保留排版的方式重新打印已打开的文档
func (s *Server) handleTranspile(params json.RawMessage) (interface{}, error) {
	var p TranspileParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParams(err)
	}

	docURI := string(p.TextDocument.URI)
	doc := s.documents.Get(docURI)
	if doc == nil {
		return nil, invalidParams(fmt.Errorf("%s", i18n.T(i18n.ErrUnknownDocument, docURI)))
	}

	withTypes := s.cfg.Transpile.WithTypes
	if p.WithTypes != nil {
		withTypes = *p.WithTypes
	}

	code, err := transpiler.Transpile(doc.Content, parser.Options{}, withTypes)
	if err != nil {
		return nil, err
	}
	return TranspileResult{Code: code}, nil
}
