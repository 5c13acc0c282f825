package lsp

import (
	"go.uber.org/zap"

	"github.com/JohnnyMorganz/luau/internal/config"
)

// NewLogger 按配置创建语言服务器日志
//
// 标准输出承载协议消息，所以日志只能写入 lsp.log_file；未配置时不记录。
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg == nil || cfg.LSP.LogFile == "" {
		return zap.NewNop(), nil
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(cfg.LogLevel())
	zc.OutputPaths = []string{cfg.LSP.LogFile}
	zc.ErrorOutputPaths = []string{cfg.LSP.LogFile}
	zc.Development = false
	zc.DisableStacktrace = true

	return zc.Build(zap.Fields(zap.String("component", "lsp")))
}
