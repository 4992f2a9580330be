package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"course-api/internal/repo"
	"course-api/internal/transport/http/handler"
	mdw "course-api/internal/transport/http/middleware"
)

func NewAPIEngine(l *zap.Logger, db *gorm.DB) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
	)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	courseH := handler.NewCourseHandler(repo.NewCourseRepo(db), l)
	userH := handler.NewUserHandler(repo.NewUserRepo(db), l)
	enrollH := handler.NewEnrollmentHandler(repo.NewEnrollmentRepo(db), l)

	// 写端点单独按来源 IP 限速，读不受影响
	write := mdw.RateLimitPerIP(50, 200)

	r.GET("/courses", courseH.List)
	r.GET("/courses/:id", courseH.Get)
	r.POST("/courses", write, courseH.Create)

	r.GET("/users", userH.List)
	r.GET("/users/:id", userH.Get)
	r.POST("/users", write, userH.Create)

	r.GET("/enrollments", enrollH.List)
	r.GET("/enrollments/:user_id/:course_id", enrollH.Get)
	r.POST("/enrollments", write, enrollH.Create)

	return r
}
