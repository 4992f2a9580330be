package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Err 带 HTTP 状态的业务错误，handler 返回后由 Abort 统一落盘
type Err struct {
	Status int
	Msg    string
	Cause  error // 只进日志，不外泄
}

func (e *Err) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return http.StatusText(e.Status)
}

func (e *Err) Unwrap() error { return e.Cause }

func BadRequest(msg string) *Err {
	return &Err{Status: http.StatusBadRequest, Msg: msg}
}

func NotFound() *Err {
	return &Err{Status: http.StatusNotFound}
}

func TooLarge(msg string) *Err {
	return &Err{Status: http.StatusRequestEntityTooLarge, Msg: msg}
}

func Conflict(msg string) *Err {
	return &Err{Status: http.StatusConflict, Msg: msg}
}

func Internal(msg string, cause error) *Err {
	return &Err{Status: http.StatusInternalServerError, Msg: msg, Cause: cause}
}

// Abort 统一出错出口：404 空体（null），其余 {"error": msg}；
// 非 *Err 一律按 500 处理，不把底层报错透给客户端
func Abort(c *gin.Context, err error) {
	e, ok := err.(*Err)
	if !ok {
		e = Internal("internal server error", err)
	}
	if e.Cause != nil {
		_ = c.Error(e.Cause) // 交给 access log 输出
	}
	if e.Status == http.StatusNotFound {
		c.JSON(e.Status, nil)
		return
	}
	c.JSON(e.Status, gin.H{"error": e.Error()})
}
