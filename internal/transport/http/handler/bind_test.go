package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostCtx(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader(body))
	return c, w
}

// 超出 MaxBytesReader 限额的请求体要回 413，不能混进普通的 400
func TestBindOneOrManyOversizeBody(t *testing.T) {
	body := `{"title":"` + strings.Repeat("x", 80) + `"}`
	c, w := newPostCtx(t, body)
	c.Request.Body = http.MaxBytesReader(w, c.Request.Body, 16)

	_, aerr := bindOneOrMany[courseIn](c, 50)
	require.NotNil(t, aerr)
	assert.Equal(t, http.StatusRequestEntityTooLarge, aerr.Status)
}

func TestBindOneOrManyEmptyBody(t *testing.T) {
	c, _ := newPostCtx(t, "   \n")
	_, aerr := bindOneOrMany[courseIn](c, 50)
	require.NotNil(t, aerr)
	assert.Equal(t, http.StatusBadRequest, aerr.Status)
}

func TestBindOneOrManySingleUnderLimit(t *testing.T) {
	c, w := newPostCtx(t, `{"title":"Go"}`)
	c.Request.Body = http.MaxBytesReader(w, c.Request.Body, 1024)

	p, aerr := bindOneOrMany[courseIn](c, 50)
	require.Nil(t, aerr)
	require.NotNil(t, p.One)
	assert.Equal(t, "Go", p.One.Title)
}
