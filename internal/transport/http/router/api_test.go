package router_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"course-api/internal/testutil"
	"course-api/internal/transport/http/router"
)

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return router.NewAPIEngine(zap.NewNop(), testutil.NewDB(t))
}

func do(t *testing.T, e *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func createCourse(t *testing.T, e *gin.Engine, title string) {
	t.Helper()
	w := do(t, e, http.MethodPost, "/courses", fmt.Sprintf(`{"title":%q}`, title))
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
}

func createUser(t *testing.T, e *gin.Engine, first, last, email string) {
	t.Helper()
	w := do(t, e, http.MethodPost, "/users",
		fmt.Sprintf(`{"first_name":%q,"last_name":%q,"email":%q}`, first, last, email))
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
}

func TestHealth(t *testing.T) {
	e := newEngine(t)
	w := do(t, e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCoursesEmptyList(t *testing.T) {
	e := newEngine(t)
	w := do(t, e, http.MethodGet, "/courses", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Empty(t, body["courses"])
	assert.EqualValues(t, 0, body["totalItems"])
	assert.EqualValues(t, 0, body["totalPages"])
	assert.EqualValues(t, 1, body["currentPage"])
	assert.EqualValues(t, 10, body["perPage"])
}

func TestCourseCreateSingle(t *testing.T) {
	e := newEngine(t)
	w := do(t, e, http.MethodPost, "/courses", `{"title":"Go","description":"systems course"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "Go", data["title"])
	assert.Equal(t, "systems course", data["description"])
	// 时间戳为毫秒数值，不是字符串
	assert.Greater(t, data["created_at"].(float64), float64(0))
}

func TestCourseCreateBatch(t *testing.T) {
	e := newEngine(t)
	w := do(t, e, http.MethodPost, "/courses", `[{"title":"A"},{"title":"B"},{"title":"C"}]`)
	require.Equal(t, http.StatusCreated, w.Code)

	data := decode(t, w)["data"].(map[string]any)
	assert.EqualValues(t, 3, data["total"])
	assert.Len(t, data["courses"], 3)
}

func TestCourseCreateValidation(t *testing.T) {
	e := newEngine(t)

	assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodPost, "/courses", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodPost, "/courses", `{"title":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodPost, "/courses", `[]`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodPost, "/courses", "").Code)

	// 数组上限 50
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < 51; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, `{"title":"c%d"}`, i)
	}
	sb.WriteByte(']')
	assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodPost, "/courses", sb.String()).Code)
}

func TestCourseDuplicateTitleConflict(t *testing.T) {
	e := newEngine(t)
	createCourse(t, e, "Docker")

	w := do(t, e, http.MethodPost, "/courses", `{"title":"Docker"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCoursesSearch(t *testing.T) {
	e := newEngine(t)
	createCourse(t, e, "JavaScript Basics")
	createCourse(t, e, "TypeScript Advanced")
	createCourse(t, e, "Python Fundamentals")

	w := do(t, e, http.MethodGet, "/courses?search=script&orderBy=title", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	courses := body["courses"].([]any)
	require.Len(t, courses, 2)
	assert.Equal(t, "JavaScript Basics", courses[0].(map[string]any)["title"])
	assert.Equal(t, "TypeScript Advanced", courses[1].(map[string]any)["title"])
	assert.EqualValues(t, 2, body["totalItems"])
}

func TestCoursesOrderByTitle(t *testing.T) {
	e := newEngine(t)
	createCourse(t, e, "Zebra Course")
	createCourse(t, e, "Alpha Course")
	createCourse(t, e, "Beta Course")

	for _, q := range []string{"orderBy=title", "orderby=TITLE"} {
		w := do(t, e, http.MethodGet, "/courses?"+q, "")
		require.Equal(t, http.StatusOK, w.Code)
		courses := decode(t, w)["courses"].([]any)
		require.Len(t, courses, 3)
		assert.Equal(t, "Alpha Course", courses[0].(map[string]any)["title"], "query %s", q)
		assert.Equal(t, "Beta Course", courses[1].(map[string]any)["title"])
		assert.Equal(t, "Zebra Course", courses[2].(map[string]any)["title"])
	}
}

func TestCoursesUnknownOrderTokenFallsBack(t *testing.T) {
	e := newEngine(t)
	createCourse(t, e, "B")
	createCourse(t, e, "A")

	w := do(t, e, http.MethodGet, "/courses?orderBy=no_such_column", "")
	require.Equal(t, http.StatusOK, w.Code)
	courses := decode(t, w)["courses"].([]any)
	require.Len(t, courses, 2)
	// 回退 id 升序 = 插入顺序
	assert.Equal(t, "B", courses[0].(map[string]any)["title"])
}

func TestCoursesBadPagination(t *testing.T) {
	e := newEngine(t)
	for _, q := range []string{"page=0", "page=-1", "page=abc", "limit=0", "limit=-5", "limit=x"} {
		w := do(t, e, http.MethodGet, "/courses?"+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "query %s", q)
	}
}

func TestCoursesLimitClamped(t *testing.T) {
	e := newEngine(t)
	w := do(t, e, http.MethodGet, "/courses?limit=9999", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 100, decode(t, w)["perPage"])
}

func TestCoursesPageBeyondLast(t *testing.T) {
	e := newEngine(t)
	createCourse(t, e, "Only One")

	first := decode(t, do(t, e, http.MethodGet, "/courses", ""))
	far := decode(t, do(t, e, http.MethodGet, "/courses?page=50", ""))

	assert.Empty(t, far["courses"])
	assert.Equal(t, first["totalItems"], far["totalItems"])
	assert.Equal(t, first["totalPages"], far["totalPages"])
}

func TestCoursesInjectionStoredAsData(t *testing.T) {
	e := newEngine(t)
	hostile := `'; DROP TABLE courses; --`
	w := do(t, e, http.MethodPost, "/courses", fmt.Sprintf(`{"title":%q}`, hostile))
	require.Equal(t, http.StatusCreated, w.Code)
	createCourse(t, e, "Survivor")

	list := decode(t, do(t, e, http.MethodGet, "/courses", ""))
	courses := list["courses"].([]any)
	require.Len(t, courses, 2)
	assert.Equal(t, hostile, courses[0].(map[string]any)["title"])
	assert.Equal(t, "Survivor", courses[1].(map[string]any)["title"])
}

func TestCourseGetByID(t *testing.T) {
	e := newEngine(t)
	createCourse(t, e, "Findable")

	w := do(t, e, http.MethodGet, "/courses/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	c := decode(t, w)["course"].(map[string]any)
	assert.Equal(t, "Findable", c["title"])

	nf := do(t, e, http.MethodGet, "/courses/999", "")
	assert.Equal(t, http.StatusNotFound, nf.Code)
	assert.Equal(t, "null", strings.TrimSpace(nf.Body.String()))

	assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodGet, "/courses/abc", "").Code)
}

func TestUsersCreateAndList(t *testing.T) {
	e := newEngine(t)
	createUser(t, e, "Mariana", "Lima", "mariana@example.com")
	createUser(t, e, "Ana", "Souza", "ana@example.com")

	w := do(t, e, http.MethodGet, "/users?search=ana&orderBy=first_name", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	users := body["users"].([]any)
	require.Len(t, users, 2)
	assert.Equal(t, "Ana", users[0].(map[string]any)["first_name"])
	assert.Equal(t, "Mariana", users[1].(map[string]any)["first_name"])
}

func TestUserValidationAndConflict(t *testing.T) {
	e := newEngine(t)

	bad := do(t, e, http.MethodPost, "/users", `{"first_name":"Ana","last_name":"Souza","email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, bad.Code)

	createUser(t, e, "Ana", "Souza", "dup@example.com")
	dup := do(t, e, http.MethodPost, "/users", `{"first_name":"Outra","last_name":"Pessoa","email":"dup@example.com"}`)
	assert.Equal(t, http.StatusConflict, dup.Code)
}

func TestEnrollmentsFlow(t *testing.T) {
	e := newEngine(t)
	createUser(t, e, "Ana", "Silva", "ana@example.com")
	createUser(t, e, "Bruno", "Costa", "bruno@example.com")
	createCourse(t, e, "Go")
	createCourse(t, e, "Docker")

	w := do(t, e, http.MethodPost, "/enrollments", `{"user_id":1,"course_id":1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	batch := do(t, e, http.MethodPost, "/enrollments", `[{"user_id":1,"course_id":2},{"user_id":2,"course_id":1}]`)
	require.Equal(t, http.StatusCreated, batch.Code)
	assert.EqualValues(t, 2, decode(t, batch)["data"].(map[string]any)["total"])

	// (user, course) 唯一
	dup := do(t, e, http.MethodPost, "/enrollments", `{"user_id":1,"course_id":1}`)
	assert.Equal(t, http.StatusConflict, dup.Code)

	// 引用不存在的用户
	orphan := do(t, e, http.MethodPost, "/enrollments", `{"user_id":999,"course_id":1}`)
	assert.Equal(t, http.StatusConflict, orphan.Code)

	list := decode(t, do(t, e, http.MethodGet, "/enrollments?user_id=1", ""))
	rows := list["enrollments"].([]any)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, "Ana Silva", first["user_name"])
	assert.Equal(t, "Go", first["course_title"])

	one := decode(t, do(t, e, http.MethodGet, "/enrollments/2/1", ""))
	assert.Equal(t, "Bruno Costa", one["enrollment"].(map[string]any)["user_name"])

	nf := do(t, e, http.MethodGet, "/enrollments/2/2", "")
	assert.Equal(t, http.StatusNotFound, nf.Code)
}

func TestCoursesListIncludesEnrollmentCounts(t *testing.T) {
	e := newEngine(t)
	createUser(t, e, "Ana", "Silva", "ana@example.com")
	createCourse(t, e, "Popular")
	createCourse(t, e, "Empty")
	require.Equal(t, http.StatusCreated,
		do(t, e, http.MethodPost, "/enrollments", `{"user_id":1,"course_id":1}`).Code)

	body := decode(t, do(t, e, http.MethodGet, "/courses", ""))
	courses := body["courses"].([]any)
	require.Len(t, courses, 2)
	assert.EqualValues(t, 1, courses[0].(map[string]any)["enrollments"])
	assert.EqualValues(t, 0, courses[1].(map[string]any)["enrollments"])
	assert.EqualValues(t, 1, body["totalEnrollments"])
}

func TestEnrollmentBatchLimit(t *testing.T) {
	e := newEngine(t)
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < 101; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, `{"user_id":%d,"course_id":1}`, i+1)
	}
	sb.WriteByte(']')
	assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodPost, "/enrollments", sb.String()).Code)
}
