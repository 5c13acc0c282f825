// Package errors 提供 Luau 工具链的诊断与内部一致性断言
package errors

import "github.com/JohnnyMorganz/luau/internal/i18n"

// ============================================================================
// 错误级别
// ============================================================================

// Level 错误级别
type Level int

const (
	LevelError   Level = iota // 错误
	LevelWarning              // 警告
	LevelNote                 // 提示
	LevelHelp                 // 帮助
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelNote:
		return "note"
	case LevelHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ============================================================================
// 语法错误码 (E 开头)
// ============================================================================

// Code 诊断错误码
type Code string

const (
	E0001 Code = "E0001" // 语法错误
	E0002 Code = "E0002" // 块未闭合
	E0003 Code = "E0003" // 畸形字面量（字符串、数字、注释）
	E0004 Code = "E0004" // 非法赋值目标
	E0005 Code = "E0005" // 超出递归深度
)

// ErrorInfo 错误码的元信息
type ErrorInfo struct {
	Code  Code
	Level Level
	Hint  string // i18n 消息 ID，空表示没有建议
}

var codeInfo = map[Code]ErrorInfo{
	E0001: {E0001, LevelError, ""},
	E0002: {E0002, LevelError, i18n.HintUnclosedBlock},
	E0003: {E0003, LevelError, i18n.HintMalformedLiteral},
	E0004: {E0004, LevelError, i18n.HintAssignTarget},
	E0005: {E0005, LevelError, i18n.HintRecursionLimit},
}

// GetErrorInfo 获取错误码信息
func GetErrorInfo(code Code) (ErrorInfo, bool) {
	info, ok := codeInfo[code]
	return info, ok
}

// Hints 返回错误码对应的修复建议（已翻译）
func Hints(code Code) []string {
	info, ok := codeInfo[code]
	if !ok || info.Hint == "" {
		return nil
	}
	return []string{i18n.T(info.Hint)}
}
