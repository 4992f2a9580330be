package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"course-api/internal/feature/enrollment"
	"course-api/internal/query"
	"course-api/internal/repo"
	"course-api/internal/transport/http/response"
)

type EnrollmentHandler struct {
	repo *repo.EnrollmentRepo
	log  *zap.Logger
}

func NewEnrollmentHandler(r *repo.EnrollmentRepo, l *zap.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{repo: r, log: l}
}

// List GET /enrollments?page&limit&user_id&course_id
func (h *EnrollmentHandler) List(c *gin.Context) {
	p, err := query.ParsePage(c.Query("page"), c.Query("limit"))
	if err != nil {
		response.Abort(c, response.BadRequest(err.Error()))
		return
	}

	out, err := h.repo.List(c.Request.Context(), repo.EnrollmentListOpts{
		UserID:   positiveIntQuery(c.Query("user_id")),
		CourseID: positiveIntQuery(c.Query("course_id")),
		Page:     p,
	})
	if err != nil {
		h.log.Error("list enrollments", zap.Error(err))
		response.Abort(c, response.Internal("failed to list enrollments", err))
		return
	}

	items := make([]enrollment.View, 0, len(out.Rows))
	for _, r := range out.Rows {
		items = append(items, r.Public())
	}
	response.OK(c, gin.H{
		"enrollments": items,
		"currentPage": p.Page,
		"perPage":     p.Limit,
		"totalItems":  out.Total,
		"totalPages":  query.TotalPages(out.Total, p.Limit),
	})
}

// Get GET /enrollments/:user_id/:course_id
func (h *EnrollmentHandler) Get(c *gin.Context) {
	userID, ok := parseIDParam(c.Param("user_id"))
	if !ok {
		response.Abort(c, response.BadRequest("user id must be a positive integer"))
		return
	}
	courseID, ok := parseIDParam(c.Param("course_id"))
	if !ok {
		response.Abort(c, response.BadRequest("course id must be a positive integer"))
		return
	}
	row, err := h.repo.FindByIDs(c.Request.Context(), userID, courseID)
	if err != nil {
		h.log.Error("get enrollment", zap.Error(err),
			zap.Uint("user_id", userID), zap.Uint("course_id", courseID))
		response.Abort(c, response.Internal("failed to get enrollment", err))
		return
	}
	if row == nil {
		response.Abort(c, response.NotFound())
		return
	}
	response.OK(c, gin.H{"enrollment": row.Public()})
}

type enrollmentIn struct {
	UserID   uint `json:"user_id" binding:"required,gt=0"`
	CourseID uint `json:"course_id" binding:"required,gt=0"`
}

// Create POST /enrollments：单条对象或数组（≤100）
func (h *EnrollmentHandler) Create(c *gin.Context) {
	in, aerr := bindOneOrMany[enrollmentIn](c, 100)
	if aerr != nil {
		response.Abort(c, aerr)
		return
	}

	if in.One != nil {
		m := enrollment.EnrollmentModel{UserID: in.One.UserID, CourseID: in.One.CourseID}
		if err := h.repo.Create(c.Request.Context(), &m); err != nil {
			h.abortCreate(c, err)
			return
		}
		response.Created(c, m.Public())
		return
	}

	ms := make([]enrollment.EnrollmentModel, 0, len(in.Many))
	for _, rec := range in.Many {
		ms = append(ms, enrollment.EnrollmentModel{UserID: rec.UserID, CourseID: rec.CourseID})
	}
	created, err := h.repo.CreateBatch(c.Request.Context(), ms)
	if err != nil {
		h.abortCreate(c, err)
		return
	}
	views := make([]enrollment.CreatedView, 0, len(created))
	for _, m := range created {
		views = append(views, m.Public())
	}
	response.Created(c, gin.H{"enrollments": views, "total": len(views)})
}

func (h *EnrollmentHandler) abortCreate(c *gin.Context, err error) {
	switch {
	case repo.IsDuplicate(err):
		response.Abort(c, response.Conflict("user already enrolled in this course"))
	case repo.IsFKViolation(err):
		response.Abort(c, response.Conflict("referenced user or course does not exist"))
	default:
		h.log.Error("create enrollment", zap.Error(err))
		response.Abort(c, response.Internal("failed to create enrollment", err))
	}
}
