package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"course-api/internal/transport/http/response"
)

// payload 写入端点的请求体二选一：单条对象或数组
type payload[T any] struct {
	One  *T
	Many []T
}

// bindOneOrMany 先看首个非空白字节判别对象/数组，再各自严格解码，
// 每条记录都过 binding 校验
func bindOneOrMany[T any](c *gin.Context, maxBatch int) (payload[T], *response.Err) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		// MaxBytesReader 超限在读的时候才暴露出来
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return payload[T]{}, response.TooLarge("request body too large")
		}
		return payload[T]{}, response.BadRequest("cannot read request body")
	}
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return payload[T]{}, response.BadRequest("request body is required")
	}

	if trimmed[0] == '[' {
		var many []T
		if err := json.Unmarshal(raw, &many); err != nil {
			return payload[T]{}, response.BadRequest("invalid JSON array: " + err.Error())
		}
		if len(many) == 0 {
			return payload[T]{}, response.BadRequest("array must not be empty")
		}
		if len(many) > maxBatch {
			return payload[T]{}, response.BadRequest(fmt.Sprintf("at most %d records per request", maxBatch))
		}
		for i := range many {
			if err := binding.Validator.ValidateStruct(&many[i]); err != nil {
				return payload[T]{}, response.BadRequest(fmt.Sprintf("record %d: %s", i, err.Error()))
			}
		}
		return payload[T]{Many: many}, nil
	}

	var one T
	if err := json.Unmarshal(raw, &one); err != nil {
		return payload[T]{}, response.BadRequest("invalid JSON body: " + err.Error())
	}
	if err := binding.Validator.ValidateStruct(&one); err != nil {
		return payload[T]{}, response.BadRequest(err.Error())
	}
	return payload[T]{One: &one}, nil
}

// parseIDParam 路径 id 必须是十进制正整数
func parseIDParam(s string) (uint, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// positiveIntQuery 等值过滤参数：只有解析为正整数才生效，其余忽略
func positiveIntQuery(s string) uint {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

// orderToken orderBy 优先，兼容历史小写 orderby
func orderToken(c *gin.Context) string {
	if tok := c.Query("orderBy"); tok != "" {
		return tok
	}
	return c.Query("orderby")
}
