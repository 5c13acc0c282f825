package lsp

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JohnnyMorganz/luau/internal/config"
	"github.com/JohnnyMorganz/luau/internal/errors"
	"github.com/JohnnyMorganz/luau/internal/i18n"
)

const testURI = "file:///tmp/test.luau"

// ============================================================================
// 测试辅助
// ============================================================================

// message 解码后的一条输出消息
type message struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
	Result json.RawMessage `json:"result"`
	Error  *responseError  `json:"error"`
}

// session 累积输入消息，运行服务器后解码全部输出
type session struct {
	t     *testing.T
	input bytes.Buffer
	seq   int
}

func newSession(t *testing.T) *session {
	return &session{t: t}
}

func (s *session) frame(body interface{}) {
	content, err := json.Marshal(body)
	require.NoError(s.t, err)
	fmt.Fprintf(&s.input, "Content-Length: %d\r\n\r\n", len(content))
	s.input.Write(content)
}

// request 追加一个请求，返回其 ID
func (s *session) request(method string, params interface{}) int {
	s.seq++
	s.frame(map[string]interface{}{"jsonrpc": "2.0", "id": s.seq, "method": method, "params": params})
	return s.seq
}

func (s *session) notify(method string, params interface{}) {
	s.frame(map[string]interface{}{"jsonrpc": "2.0", "method": method, "params": params})
}

func (s *session) open(text string) {
	s.notify("textDocument/didOpen", map[string]interface{}{
		"textDocument": map[string]interface{}{
			"uri":        testURI,
			"languageId": "luau",
			"version":    1,
			"text":       text,
		},
	})
}

// run 在给定服务器上处理全部输入
func (s *session) run(server *Server) []message {
	require.NoError(s.t, server.Run(context.Background()))
	return decodeOutput(s.t, server.writer.(*bytes.Buffer).Bytes())
}

func newTestServer(in io.Reader, cfg *config.Config, logger *zap.Logger) *Server {
	return NewServer(cfg, in, &bytes.Buffer{}, logger)
}

func decodeOutput(t *testing.T, out []byte) []message {
	t.Helper()
	reader := &Server{reader: bufio.NewReader(bytes.NewReader(out)), logger: zap.NewNop()}

	var messages []message
	for {
		body, err := reader.readMessage()
		if err == io.EOF {
			return messages
		}
		require.NoError(t, err)

		var m message
		require.NoError(t, json.Unmarshal(body, &m))
		messages = append(messages, m)
	}
}

func response(t *testing.T, messages []message, id int) message {
	t.Helper()
	want := fmt.Sprint(id)
	for _, m := range messages {
		if string(m.ID) == want {
			return m
		}
	}
	t.Fatalf("no response for id %d", id)
	return message{}
}

func notifications(messages []message, method string) []message {
	var result []message
	for _, m := range messages {
		if m.Method == method {
			result = append(result, m)
		}
	}
	return result
}

func lastDiagnostics(t *testing.T, messages []message) protocol.PublishDiagnosticsParams {
	t.Helper()
	published := notifications(messages, "textDocument/publishDiagnostics")
	require.NotEmpty(t, published)

	var p protocol.PublishDiagnosticsParams
	require.NoError(t, json.Unmarshal(published[len(published)-1].Params, &p))
	return p
}

func textEdits(t *testing.T, m message) []protocol.TextEdit {
	t.Helper()
	require.Nil(t, m.Error)
	var edits []protocol.TextEdit
	require.NoError(t, json.Unmarshal(m.Result, &edits))
	return edits
}

// ============================================================================
// 传输层
// ============================================================================

func TestReadMessage(t *testing.T) {
	input := "Content-Length: 2\r\nContent-Type: application/vscode-jsonrpc\r\n\r\n{}"
	s := newTestServer(strings.NewReader(input), nil, nil)

	body, err := s.readMessage()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(body))

	_, err = s.readMessage()
	assert.Equal(t, io.EOF, err)
}

func TestReadMessageBadHeaders(t *testing.T) {
	s := newTestServer(strings.NewReader("Content-Type: x\r\n\r\n"), nil, nil)
	_, err := s.readMessage()
	assert.EqualError(t, err, "missing Content-Length header")

	s = newTestServer(strings.NewReader("Content-Length: abc\r\n\r\n"), nil, nil)
	_, err = s.readMessage()
	assert.EqualError(t, err, "invalid Content-Length: abc")
}

func TestSendMessageFraming(t *testing.T) {
	var out bytes.Buffer
	s := NewServer(nil, strings.NewReader(""), &out, nil)

	s.sendResult(json.RawMessage("7"), "ok")
	header, body, found := strings.Cut(out.String(), "\r\n\r\n")
	require.True(t, found)
	assert.Equal(t, fmt.Sprintf("Content-Length: %d", len(body)), header)

	messages := decodeOutput(t, out.Bytes())
	require.Len(t, messages, 1)
	assert.Equal(t, "7", string(messages[0].ID))
	assert.Equal(t, `"ok"`, string(messages[0].Result))
}

func TestMalformedMessage(t *testing.T) {
	input := "Content-Length: 5\r\n\r\n{oops"
	s := newTestServer(strings.NewReader(input), nil, nil)

	require.NoError(t, s.Run(context.Background()))
	messages := decodeOutput(t, s.writer.(*bytes.Buffer).Bytes())
	require.Len(t, messages, 1)
	require.NotNil(t, messages[0].Error)
	assert.Equal(t, codeParseError, messages[0].Error.Code)
}

// ============================================================================
// 生命周期
// ============================================================================

func TestLifecycle(t *testing.T) {
	sess := newSession(t)
	initID := sess.request("initialize", map[string]interface{}{"processId": 1, "rootUri": "file:///tmp"})
	sess.notify("initialized", map[string]interface{}{})
	shutdownID := sess.request("shutdown", nil)
	sess.notify("exit", nil)
	// exit 之后的消息不再处理
	sess.request("shutdown", nil)

	server := newTestServer(&sess.input, nil, nil)
	messages := sess.run(server)

	assert.True(t, server.initialized)
	assert.True(t, server.shutdown)
	assert.True(t, server.exited)
	require.Len(t, messages, 2)

	var init struct {
		Capabilities struct {
			TextDocumentSync struct {
				OpenClose bool `json:"openClose"`
				Change    int  `json:"change"`
			} `json:"textDocumentSync"`
			DocumentFormattingProvider bool `json:"documentFormattingProvider"`
		} `json:"capabilities"`
		ServerInfo struct {
			Name string `json:"name"`
		} `json:"serverInfo"`
	}
	require.NoError(t, json.Unmarshal(response(t, messages, initID).Result, &init))
	assert.True(t, init.Capabilities.TextDocumentSync.OpenClose)
	assert.Equal(t, 2, init.Capabilities.TextDocumentSync.Change)
	assert.True(t, init.Capabilities.DocumentFormattingProvider)
	assert.Equal(t, "luau-transpile", init.ServerInfo.Name)

	shutdown := response(t, messages, shutdownID)
	assert.Nil(t, shutdown.Error)
	assert.Equal(t, "null", string(shutdown.Result))
}

func TestUnknownMethod(t *testing.T) {
	sess := newSession(t)
	id := sess.request("textDocument/hover", map[string]interface{}{})
	sess.notify("textDocument/didSave", map[string]interface{}{})

	messages := sess.run(newTestServer(&sess.input, nil, nil))
	require.Len(t, messages, 1)

	m := response(t, messages, id)
	require.NotNil(t, m.Error)
	assert.Equal(t, codeMethodNotFound, m.Error.Code)
	assert.Equal(t, "Method not found: textDocument/hover", m.Error.Message)
}

// ============================================================================
// 诊断
// ============================================================================

func TestDidOpenPublishesAllErrors(t *testing.T) {
	sess := newSession(t)
	sess.open("local = 1\nlocal = 2")

	p := lastDiagnostics(t, sess.run(newTestServer(&sess.input, nil, nil)))
	assert.Equal(t, protocol.DocumentURI(testURI), p.URI)
	assert.Equal(t, uint32(1), p.Version)
	require.Len(t, p.Diagnostics, 2)

	first := p.Diagnostics[0]
	assert.Equal(t, protocol.Position{Line: 0, Character: 6}, first.Range.Start)
	assert.Equal(t, protocol.Position{Line: 0, Character: 7}, first.Range.End)
	assert.Equal(t, protocol.DiagnosticSeverityError, first.Severity)
	assert.Equal(t, "luau", first.Source)
	assert.Equal(t, "E0001", first.Code)
	assert.NotEmpty(t, first.Message)

	assert.Equal(t, uint32(1), p.Diagnostics[1].Range.Start.Line)
}

func TestDidChangeClearsDiagnostics(t *testing.T) {
	sess := newSession(t)
	sess.open("local = 1")
	sess.notify("textDocument/didChange", map[string]interface{}{
		"textDocument": map[string]interface{}{"uri": testURI, "version": 2},
		"contentChanges": []interface{}{
			map[string]interface{}{
				"range": map[string]interface{}{
					"start": map[string]interface{}{"line": 0, "character": 6},
					"end":   map[string]interface{}{"line": 0, "character": 6},
				},
				"text": "x ",
			},
		},
	})

	server := newTestServer(&sess.input, nil, nil)
	p := lastDiagnostics(t, sess.run(server))
	assert.Equal(t, uint32(2), p.Version)
	assert.Empty(t, p.Diagnostics)
	assert.Equal(t, "local x = 1", server.documents.Get(testURI).Content)
}

func TestDidCloseClearsDiagnostics(t *testing.T) {
	sess := newSession(t)
	sess.open("local = 1")
	sess.notify("textDocument/didClose", map[string]interface{}{
		"textDocument": map[string]interface{}{"uri": testURI},
	})

	server := newTestServer(&sess.input, nil, nil)
	messages := sess.run(server)
	published := notifications(messages, "textDocument/publishDiagnostics")
	require.Len(t, published, 2)
	assert.Contains(t, string(published[1].Params), `"diagnostics":[]`)
	assert.Equal(t, 0, server.documents.Len())
}

// ============================================================================
// 格式化与转写
// ============================================================================

func formattingParams() map[string]interface{} {
	return map[string]interface{}{
		"textDocument": map[string]interface{}{"uri": testURI},
		"options":      map[string]interface{}{"tabSize": 4, "insertSpaces": true},
	}
}

func TestFormattingCanonicalizes(t *testing.T) {
	sess := newSession(t)
	sess.open("t = {1, 2; 3}")
	id := sess.request("textDocument/formatting", formattingParams())

	edits := textEdits(t, response(t, sess.run(newTestServer(&sess.input, nil, nil)), id))
	require.Len(t, edits, 1)
	assert.Equal(t, "t = {1, 2, 3}", edits[0].NewText)
	assert.Equal(t, protocol.Position{}, edits[0].Range.Start)
	assert.Equal(t, protocol.Position{Line: 0, Character: 13}, edits[0].Range.End)
}

func TestFormattingNoEdits(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"already canonical", "t = {1, 2, 3}"},
		{"syntax errors", "local = 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newSession(t)
			sess.open(tt.source)
			id := sess.request("textDocument/formatting", formattingParams())

			edits := textEdits(t, response(t, sess.run(newTestServer(&sess.input, nil, nil)), id))
			assert.Empty(t, edits)
		})
	}
}

func TestFormattingWithoutTypes(t *testing.T) {
	cfg := config.Default()
	cfg.LSP.FormatWithTypes = false

	sess := newSession(t)
	sess.open("type T = number\nx = 1")
	id := sess.request("textDocument/formatting", formattingParams())

	edits := textEdits(t, response(t, sess.run(newTestServer(&sess.input, cfg, nil)), id))
	require.Len(t, edits, 1)
	assert.NotContains(t, edits[0].NewText, "type")
	assert.Contains(t, edits[0].NewText, "x = 1")
}

func TestTranspileRequest(t *testing.T) {
	sess := newSession(t)
	sess.open("local x: number = 1")
	keep := sess.request("luau/transpile", map[string]interface{}{
		"textDocument": map[string]interface{}{"uri": testURI},
	})
	strip := sess.request("luau/transpile", map[string]interface{}{
		"textDocument": map[string]interface{}{"uri": testURI},
		"withTypes":    false,
	})

	messages := sess.run(newTestServer(&sess.input, nil, nil))

	var result TranspileResult
	require.NoError(t, json.Unmarshal(response(t, messages, keep).Result, &result))
	assert.Equal(t, "local x: number = 1", result.Code)

	require.NoError(t, json.Unmarshal(response(t, messages, strip).Result, &result))
	assert.Equal(t, "local x         = 1", result.Code)
}

func TestTranspileRequestErrors(t *testing.T) {
	i18n.SetLanguage(i18n.LangEnglish)

	sess := newSession(t)
	sess.open("local = 1")
	failing := sess.request("luau/transpile", map[string]interface{}{
		"textDocument": map[string]interface{}{"uri": testURI},
	})
	unknown := sess.request("luau/transpile", map[string]interface{}{
		"textDocument": map[string]interface{}{"uri": "file:///tmp/missing.luau"},
	})

	messages := sess.run(newTestServer(&sess.input, nil, nil))

	m := response(t, messages, failing)
	require.NotNil(t, m.Error)
	assert.Equal(t, codeRequestFailed, m.Error.Code)
	assert.True(t, strings.HasPrefix(m.Error.Message, "1:7: "), m.Error.Message)

	m = response(t, messages, unknown)
	require.NotNil(t, m.Error)
	assert.Equal(t, codeInvalidParams, m.Error.Code)
	assert.Equal(t, "document not open: file:///tmp/missing.luau", m.Error.Message)
}

// ============================================================================
// panic 恢复
// ============================================================================

func TestRequestPanicBecomesInternalError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)

	sess := newSession(t)
	internal := sess.request("test/internal", nil)
	other := sess.request("test/other", nil)
	after := sess.request("shutdown", nil)

	server := newTestServer(&sess.input, nil, zap.New(core))
	server.requests["test/internal"] = func(json.RawMessage) (interface{}, error) {
		errors.Internalf("printer: missing %s", "positions")
		return nil, nil
	}
	server.requests["test/other"] = func(json.RawMessage) (interface{}, error) {
		panic("boom")
	}

	messages := sess.run(server)

	m := response(t, messages, internal)
	require.NotNil(t, m.Error)
	assert.Equal(t, codeInternalError, m.Error.Code)
	assert.Equal(t, "internal error: printer: missing positions", m.Error.Message)

	m = response(t, messages, other)
	require.NotNil(t, m.Error)
	assert.Equal(t, "boom", m.Error.Message)

	// 服务器继续处理后续请求
	assert.Nil(t, response(t, messages, after).Error)

	entries := logs.FilterMessage("request handler panicked").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "test/internal", entries[0].ContextMap()["method"])
}

func TestNotificationPanicIsReported(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)

	sess := newSession(t)
	sess.notify("test/panic", nil)

	server := newTestServer(&sess.input, nil, zap.New(core))
	server.notifications["test/panic"] = func(json.RawMessage) {
		errors.Internalf("broken")
	}

	messages := sess.run(server)
	logged := notifications(messages, "window/logMessage")
	require.Len(t, logged, 1)

	var p protocol.LogMessageParams
	require.NoError(t, json.Unmarshal(logged[0].Params, &p))
	assert.Equal(t, protocol.MessageTypeError, p.Type)
	assert.Equal(t, "internal error: broken", p.Message)
	assert.Equal(t, 1, logs.Len())
}

// ============================================================================
// 文档管理
// ============================================================================

func TestDocumentManager(t *testing.T) {
	dm := NewDocumentManager()

	doc := dm.Open(testURI, "local x = 1\nreturn x", 1)
	require.NotNil(t, doc.Result)
	assert.Empty(t, doc.Errors())
	assert.Equal(t, []string{"local x = 1", "return x"}, doc.Lines)
	assert.Equal(t, protocol.Position{Line: 1, Character: 8}, doc.EndPosition())
	assert.Same(t, doc, dm.Get(testURI))

	// 整篇替换
	dm.ApplyChange(testURI, protocol.TextDocumentContentChangeEvent{Text: "return"}, 2)
	assert.Equal(t, "return", doc.Content)
	assert.Equal(t, 2, doc.Version)

	// 不存在的文档被忽略
	dm.ApplyChange("file:///tmp/other.luau", protocol.TextDocumentContentChangeEvent{Text: "x"}, 1)
	assert.Nil(t, dm.Get("file:///tmp/other.luau"))

	dm.Close(testURI)
	assert.Nil(t, dm.Get(testURI))
	assert.Equal(t, 0, dm.Len())
}

func TestDocumentTooLarge(t *testing.T) {
	dm := NewDocumentManager()
	doc := dm.Open(testURI, strings.Repeat("x", maxDocumentSize+1), 1)

	require.Len(t, doc.Errors(), 1)
	assert.Nil(t, doc.Result.Root)
	assert.Equal(t, errors.E0001, doc.Errors()[0].Code)
}

func TestApplyTextEdit(t *testing.T) {
	rng := func(sl, sc, el, ec uint32) protocol.Range {
		return protocol.Range{
			Start: protocol.Position{Line: sl, Character: sc},
			End:   protocol.Position{Line: el, Character: ec},
		}
	}

	tests := []struct {
		name    string
		content string
		rang    protocol.Range
		text    string
		want    string
	}{
		{"insert", "local x", rng(0, 5, 0, 5), " y,", "local y, x"},
		{"replace across lines", "a\nb\nc", rng(0, 1, 2, 0), " = ", "a = c"},
		{"delete line", "a\nb\nc", rng(1, 0, 2, 0), "", "a\nc"},
		{"clamped past end", "ab", rng(0, 1, 5, 99), "z", "az"},
		{"crlf input", "a\r\nb", rng(1, 0, 1, 1), "c", "a\nc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, applyTextEdit(tt.content, tt.rang, tt.text))
		})
	}
}

func TestURIToPath(t *testing.T) {
	assert.Equal(t, "/tmp/test.luau", uriToPath(testURI))
	assert.Equal(t, "untitled:Untitled-1", uriToPath("untitled:Untitled-1"))
}

// ============================================================================
// 日志
// ============================================================================

func TestNewLoggerWithoutFile(t *testing.T) {
	logger, err := NewLogger(config.Default())
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))

	logger, err = NewLogger(nil)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lsp.log")
	cfg := config.Default()
	cfg.LSP.LogFile = path
	cfg.LSP.LogLevel = "warn"

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger.Info("hidden")
	logger.Warn("visible", zap.String("uri", testURI))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible")
	assert.Contains(t, string(data), testURI)
	assert.NotContains(t, string(data), "hidden")
}
