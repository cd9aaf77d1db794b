package errors

import (
	"fmt"
	"runtime/debug"
)

// fromPanic 将 recover() 的值转换为 ErrInternal，附带调用栈
func fromPanic(recovered any) *SentinelError {
	return New(ErrInternal, fmt.Sprintf("panic recovered: %v", recovered)).
		WithLevel(LevelFatal).
		AddExtra("stack", string(debug.Stack()))
}

// SafeExecuteWithResult 执行 fn，panic 被转换为错误返回，结果为零值
func SafeExecuteWithResult[T any](fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result, err = zero, fromPanic(r)
		}
	}()
	return fn()
}
