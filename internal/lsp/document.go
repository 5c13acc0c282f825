package lsp

import (
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/JohnnyMorganz/luau/internal/errors"
	"github.com/JohnnyMorganz/luau/internal/i18n"
	"github.com/JohnnyMorganz/luau/internal/parser"
	"github.com/JohnnyMorganz/luau/internal/token"
)

// Document 表示一个打开的文档
type Document struct {
	URI     string
	Content string
	Version int
	Lines   []string // 按行分割的内容

	// Result 最近一次解析的结果，不带 CST 装饰
	Result *parser.Result
}

// DocumentManager 文档管理器
type DocumentManager struct {
	documents map[string]*Document
	mu        sync.RWMutex
}

// NewDocumentManager 创建文档管理器
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{
		documents: make(map[string]*Document),
	}
}

// Open 打开文档并立即解析
func (dm *DocumentManager) Open(uri, content string, version int) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc := &Document{
		URI:     uri,
		Content: content,
		Version: version,
		Lines:   splitLines(content),
	}
	doc.parse()

	dm.documents[uri] = doc
	return doc
}

// Close 关闭文档
func (dm *DocumentManager) Close(uri string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	delete(dm.documents, uri)
}

// Get 获取文档，未打开时返回 nil
func (dm *DocumentManager) Get(uri string) *Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.documents[uri]
}

// ApplyChange 应用一次变更
//
// 范围为零值且 RangeLength 为 0 时视为整篇替换。
func (dm *DocumentManager) ApplyChange(uri string, change protocol.TextDocumentContentChangeEvent, version int) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, ok := dm.documents[uri]
	if !ok {
		return
	}

	isFullReplace := change.Range == (protocol.Range{}) && change.RangeLength == 0

	if isFullReplace {
		doc.Content = change.Text
	} else {
		doc.Content = applyTextEdit(doc.Content, change.Range, change.Text)
	}
	doc.Lines = splitLines(doc.Content)
	doc.Version = version
	doc.parse()
}

// Len 打开的文档数量
func (dm *DocumentManager) Len() int {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return len(dm.documents)
}

// maxDocumentSize 文档大小限制（500KB），防止内存暴涨
const maxDocumentSize = 500 * 1024

// parse 解析文档
func (doc *Document) parse() {
	if len(doc.Content) > maxDocumentSize {
		doc.Result = &parser.Result{
			Errors: []parser.Error{{
				Location: token.Loc(token.Pos(0, 0), token.Pos(0, 0)),
				Message:  i18n.T(i18n.ErrDocumentTooLarge, len(doc.Content)),
				Code:     errors.E0001,
			}},
		}
		return
	}

	doc.Result = parser.New(doc.Content, uriToPath(doc.URI), parser.Options{}).Parse()
}

// Errors 最近一次解析的语法错误
func (doc *Document) Errors() []parser.Error {
	if doc.Result == nil {
		return nil
	}
	return doc.Result.Errors
}

// EndPosition 文档末尾位置
func (doc *Document) EndPosition() protocol.Position {
	if len(doc.Lines) == 0 {
		return protocol.Position{}
	}
	last := len(doc.Lines) - 1
	return protocol.Position{
		Line:      uint32(last),
		Character: uint32(len(doc.Lines[last])),
	}
}

// splitLines 将内容按行分割
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(content, "\n")
}

// applyTextEdit 把一段范围内的文本替换为 newText，越界的位置收缩到最近的有效位置
func applyTextEdit(content string, rang protocol.Range, newText string) string {
	lines := splitLines(content)

	clampLine := func(line int) int {
		if line >= len(lines) {
			line = len(lines) - 1
		}
		if line < 0 {
			line = 0
		}
		return line
	}
	clampChar := func(text string, char int) int {
		if char > len(text) {
			return len(text)
		}
		return char
	}

	startLine := clampLine(int(rang.Start.Line))
	endLine := clampLine(int(rang.End.Line))
	startText := lines[startLine]
	endText := lines[endLine]
	startChar := clampChar(startText, int(rang.Start.Character))
	endChar := clampChar(endText, int(rang.End.Character))

	var result strings.Builder
	for i := 0; i < startLine; i++ {
		result.WriteString(lines[i])
		result.WriteString("\n")
	}
	result.WriteString(startText[:startChar])
	result.WriteString(newText)
	result.WriteString(endText[endChar:])
	for i := endLine + 1; i < len(lines); i++ {
		result.WriteString("\n")
		result.WriteString(lines[i])
	}

	return result.String()
}

// uriToPath 将 URI 转换为文件路径，无法解析时原样返回
func uriToPath(docURI string) string {
	// Filename 只接受 file 方案
	if !strings.HasPrefix(docURI, uri.FileScheme+"://") {
		return docURI
	}
	u, err := uri.Parse(docURI)
	if err != nil {
		return docURI
	}
	return u.Filename()
}
