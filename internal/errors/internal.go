package errors

import "fmt"

// ============================================================================
// 内部一致性错误
// ============================================================================

// InternalError 表示 AST/CST 生产者或打印器自身的缺陷
//
// 它只通过 panic 传播，调用方不应把它当作用户错误恢复后继续输出。
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Message
}

// Internalf 以 *InternalError 触发 panic
func Internalf(format string, args ...interface{}) {
	panic(&InternalError{Message: fmt.Sprintf(format, args...)})
}

// Assert 条件不成立时以 *InternalError 触发 panic
func Assert(cond bool, format string, args ...interface{}) {
	if !cond {
		Internalf(format, args...)
	}
}

// AsInternal 从 recover() 的返回值中取出 *InternalError
//
// 参数:
//   - r: recover() 的结果
//
// 返回:
//   - *InternalError: r 为内部错误时返回它
//   - bool: 是否为内部错误
func AsInternal(r interface{}) (*InternalError, bool) {
	e, ok := r.(*InternalError)
	return e, ok
}
