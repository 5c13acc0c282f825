// Package lsp 实现 Luau 转写工具的语言服务器
//
// 传输层是 stdio 上以 Content-Length 分帧的 JSON-RPC，请求在同一个 goroutine 上串行处理。
package lsp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/JohnnyMorganz/luau/internal/config"
	"github.com/JohnnyMorganz/luau/internal/errors"
)

// JSON-RPC 错误码
const (
	codeParseError     = -32700
	codeInvalidParams  = -32602
	codeMethodNotFound = -32601
	codeInternalError  = -32603
	codeRequestFailed  = -32803
)

// responseError JSON-RPC 错误对象
type responseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *responseError) Error() string {
	return fmt.Sprintf("jsonrpc %d: %s", e.Code, e.Message)
}

// requestHandler 处理带 ID 的请求，返回结果或 *responseError
type requestHandler func(params json.RawMessage) (interface{}, error)

// notificationHandler 处理通知
type notificationHandler func(params json.RawMessage)

// Server LSP 服务器
type Server struct {
	cfg       *config.Config
	documents *DocumentManager
	logger    *zap.Logger

	requests      map[string]requestHandler
	notifications map[string]notificationHandler

	// 输入输出
	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex

	// 服务器状态
	initialized bool
	shutdown    bool
	exited      bool
}

// NewServer 创建 LSP 服务器
//
// 参数:
//   - cfg: 配置，nil 时使用默认配置
//   - in, out: 传输流，通常是标准输入与标准输出
//   - logger: 日志，nil 时不记录
func NewServer(cfg *config.Config, in io.Reader, out io.Writer, logger *zap.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:       cfg,
		documents: NewDocumentManager(),
		logger:    logger,
		reader:    bufio.NewReader(in),
		writer:    out,
	}

	s.requests = map[string]requestHandler{
		"initialize":              s.handleInitialize,
		"shutdown":                s.handleShutdown,
		"textDocument/formatting": s.handleFormatting,
		"luau/transpile":          s.handleTranspile,
	}
	s.notifications = map[string]notificationHandler{
		"initialized":            s.handleInitialized,
		"exit":                   s.handleExit,
		"textDocument/didOpen":   s.handleDidOpen,
		"textDocument/didChange": s.handleDidChange,
		"textDocument/didClose":  s.handleDidClose,
		"$/cancelRequest":        func(json.RawMessage) {},
	}

	return s
}

// Run 启动 LSP 服务器主循环，收到 exit 或输入结束时返回
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("luau language server started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				s.logger.Info("client disconnected")
				return nil
			}
			s.logger.Warn("reading message", zap.Error(err))
			if err == io.ErrUnexpectedEOF {
				return err
			}
			continue
		}

		s.handleMessage(msg)

		if s.exited {
			s.logger.Info("server exited")
			return nil
		}
	}
}

// readMessage 读取一条 LSP 消息
func (s *Server) readMessage() ([]byte, error) {
	var contentLength int
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)

		if line == "" {
			// 头部结束
			break
		}

		if strings.HasPrefix(line, "Content-Length:") {
			lengthStr := strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:"))
			contentLength, err = strconv.Atoi(lengthStr)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %s", lengthStr)
			}
		}
	}

	if contentLength == 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	content := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, content); err != nil {
		return nil, err
	}

	s.logger.Debug("received", zap.ByteString("body", content))
	return content, nil
}

// sendMessage 发送一条 LSP 消息
func (s *Server) sendMessage(msg interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	s.logger.Debug("sending", zap.ByteString("body", content))

	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(content)); err != nil {
		return err
	}
	_, err = s.writer.Write(content)
	return err
}

// handleMessage 解析并分发一条消息
func (s *Server) handleMessage(msg []byte) {
	var baseMsg struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id,omitempty"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}

	if err := json.Unmarshal(msg, &baseMsg); err != nil {
		s.logger.Warn("parsing message", zap.Error(err))
		s.sendError(json.RawMessage("null"), codeParseError, "Parse error")
		return
	}

	if len(baseMsg.ID) == 0 {
		s.dispatchNotification(baseMsg.Method, baseMsg.Params)
		return
	}
	s.dispatchRequest(baseMsg.ID, baseMsg.Method, baseMsg.Params)
}

// dispatchRequest 调用请求处理函数并回复
//
// 处理过程中的 panic 会被记录并以 JSON-RPC 内部错误回复。
func (s *Server) dispatchRequest(id json.RawMessage, method string, params json.RawMessage) {
	handler, ok := s.requests[method]
	if !ok {
		s.logger.Debug("unknown method", zap.String("method", method))
		s.sendError(id, codeMethodNotFound, "Method not found: "+method)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			message := panicMessage(r)
			s.logger.Error("request handler panicked",
				zap.String("method", method),
				zap.String("panic", message),
				zap.Stack("stack"),
			)
			s.sendError(id, codeInternalError, message)
		}
	}()

	result, err := handler(params)
	if err != nil {
		var rpcErr *responseError
		if e, ok := err.(*responseError); ok {
			rpcErr = e
		} else {
			rpcErr = &responseError{Code: codeRequestFailed, Message: err.Error()}
		}
		s.logger.Debug("request failed", zap.String("method", method), zap.Error(err))
		s.sendError(id, rpcErr.Code, rpcErr.Message)
		return
	}
	s.sendResult(id, result)
}

// dispatchNotification 调用通知处理函数，通知没有回复
func (s *Server) dispatchNotification(method string, params json.RawMessage) {
	handler, ok := s.notifications[method]
	if !ok {
		s.logger.Debug("ignoring notification", zap.String("method", method))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("notification handler panicked",
				zap.String("method", method),
				zap.String("panic", panicMessage(r)),
				zap.Stack("stack"),
			)
			s.sendNotification("window/logMessage", protocol.LogMessageParams{
				Type:    protocol.MessageTypeError,
				Message: panicMessage(r),
			})
		}
	}()

	handler(params)
}

func panicMessage(r interface{}) string {
	if e, ok := errors.AsInternal(r); ok {
		return e.Error()
	}
	if err, ok := r.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(r)
}

// invalidParams 构造参数错误
func invalidParams(err error) error {
	return &responseError{Code: codeInvalidParams, Message: err.Error()}
}

// ============================================================================
// 生命周期
// ============================================================================

// handleInitialize 处理初始化请求
func (s *Server) handleInitialize(params json.RawMessage) (interface{}, error) {
	var initParams protocol.InitializeParams
	if err := json.Unmarshal(params, &initParams); err != nil {
		return nil, invalidParams(err)
	}

	s.logger.Info("initialize", zap.String("root", string(initParams.RootURI)))

	return map[string]interface{}{
		"capabilities": map[string]interface{}{
			// 文档同步：增量同步
			"textDocumentSync": map[string]interface{}{
				"openClose": true,
				"change":    protocol.TextDocumentSyncKindIncremental,
			},
			"documentFormattingProvider": true,
			"experimental": map[string]interface{}{
				"transpileProvider": true,
			},
		},
		"serverInfo": map[string]interface{}{
			"name":    "luau-transpile",
			"version": "0.1.0",
		},
	}, nil
}

func (s *Server) handleInitialized(json.RawMessage) {
	s.initialized = true
	s.logger.Info("server initialized")
}

// handleShutdown 处理关闭请求
func (s *Server) handleShutdown(json.RawMessage) (interface{}, error) {
	s.shutdown = true
	s.logger.Info("shutdown requested")
	return nil, nil
}

// handleExit 处理退出通知
func (s *Server) handleExit(json.RawMessage) {
	s.exited = true
	if !s.shutdown {
		s.logger.Warn("exit without shutdown")
	}
}

// ============================================================================
// 文档同步
// ============================================================================

// handleDidOpen 处理文档打开
func (s *Server) handleDidOpen(params json.RawMessage) {
	var p protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Warn("parsing didOpen params", zap.Error(err))
		return
	}

	docURI := string(p.TextDocument.URI)
	s.logger.Debug("document opened", zap.String("uri", docURI))

	s.documents.Open(docURI, p.TextDocument.Text, int(p.TextDocument.Version))
	s.publishDiagnostics(docURI)
}

// handleDidChange 处理文档变更
func (s *Server) handleDidChange(params json.RawMessage) {
	var p protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Warn("parsing didChange params", zap.Error(err))
		return
	}

	docURI := string(p.TextDocument.URI)
	for _, change := range p.ContentChanges {
		s.documents.ApplyChange(docURI, change, int(p.TextDocument.Version))
	}

	s.publishDiagnostics(docURI)
}

// handleDidClose 处理文档关闭
func (s *Server) handleDidClose(params json.RawMessage) {
	var p protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Warn("parsing didClose params", zap.Error(err))
		return
	}

	s.logger.Debug("document closed", zap.String("uri", string(p.TextDocument.URI)))
	s.documents.Close(string(p.TextDocument.URI))

	// 清除诊断
	s.sendNotification("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         p.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
}

// publishDiagnostics 发布文档的全部语法错误
func (s *Server) publishDiagnostics(docURI string) {
	doc := s.documents.Get(docURI)
	if doc == nil {
		return
	}

	s.sendNotification("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(docURI),
		Version:     uint32(doc.Version),
		Diagnostics: diagnostics(doc),
	})
}

// ============================================================================
// 发送
// ============================================================================

// sendResult 发送成功响应
func (s *Server) sendResult(id json.RawMessage, result interface{}) {
	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	}
	if err := s.sendMessage(response); err != nil {
		s.logger.Error("sending result", zap.Error(err))
	}
}

// sendError 发送错误响应
func (s *Server) sendError(id json.RawMessage, code int, message string) {
	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"error":   responseError{Code: code, Message: message},
	}
	if err := s.sendMessage(response); err != nil {
		s.logger.Error("sending error", zap.Error(err))
	}
}

// sendNotification 发送通知
func (s *Server) sendNotification(method string, params interface{}) {
	notification := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	}
	if err := s.sendMessage(notification); err != nil {
		s.logger.Error("sending notification", zap.String("method", method), zap.Error(err))
	}
}
