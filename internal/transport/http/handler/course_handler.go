package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"course-api/internal/feature/course"
	"course-api/internal/query"
	"course-api/internal/repo"
	"course-api/internal/transport/http/response"
)

var courseSort = query.Sort{
	Default: "courses.id",
	Allowed: map[string]string{
		"id":    "courses.id",
		"title": "courses.title",
	},
}

type CourseHandler struct {
	repo *repo.CourseRepo
	log  *zap.Logger
}

func NewCourseHandler(r *repo.CourseRepo, l *zap.Logger) *CourseHandler {
	return &CourseHandler{repo: r, log: l}
}

// List GET /courses?page&limit&search&orderBy
func (h *CourseHandler) List(c *gin.Context) {
	p, err := query.ParsePage(c.Query("page"), c.Query("limit"))
	if err != nil {
		response.Abort(c, response.BadRequest(err.Error()))
		return
	}

	out, err := h.repo.List(c.Request.Context(), repo.CourseListOpts{
		Search:  c.Query("search"),
		OrderBy: courseSort.Resolve(orderToken(c)),
		Page:    p,
	})
	if err != nil {
		h.log.Error("list courses", zap.Error(err))
		response.Abort(c, response.Internal("failed to list courses", err))
		return
	}

	items := make([]course.ListView, 0, len(out.Rows))
	for _, r := range out.Rows {
		items = append(items, r.Public())
	}
	response.OK(c, gin.H{
		"courses":          items,
		"totalEnrollments": out.TotalEnrollments,
		"currentPage":      p.Page,
		"perPage":          p.Limit,
		"totalItems":       out.Total,
		"totalPages":       query.TotalPages(out.Total, p.Limit),
	})
}

// Get GET /courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		response.Abort(c, response.BadRequest("course id must be a positive integer"))
		return
	}
	m, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.log.Error("get course", zap.Error(err), zap.Uint("id", id))
		response.Abort(c, response.Internal("failed to get course", err))
		return
	}
	if m == nil {
		response.Abort(c, response.NotFound())
		return
	}
	response.OK(c, gin.H{"course": m.Public()})
}

type courseIn struct {
	Title       string  `json:"title" binding:"required,min=1,max=100"`
	Description *string `json:"description"`
}

// Create POST /courses：单条对象或数组（≤50）
func (h *CourseHandler) Create(c *gin.Context) {
	in, aerr := bindOneOrMany[courseIn](c, 50)
	if aerr != nil {
		response.Abort(c, aerr)
		return
	}

	if in.One != nil {
		m := course.CourseModel{Title: in.One.Title, Description: in.One.Description}
		if err := h.repo.Create(c.Request.Context(), &m); err != nil {
			h.abortCreate(c, err)
			return
		}
		response.Created(c, m.Public())
		return
	}

	ms := make([]course.CourseModel, 0, len(in.Many))
	for _, rec := range in.Many {
		ms = append(ms, course.CourseModel{Title: rec.Title, Description: rec.Description})
	}
	created, err := h.repo.CreateBatch(c.Request.Context(), ms)
	if err != nil {
		h.abortCreate(c, err)
		return
	}
	views := make([]course.View, 0, len(created))
	for _, m := range created {
		views = append(views, m.Public())
	}
	response.Created(c, gin.H{"courses": views, "total": len(views)})
}

func (h *CourseHandler) abortCreate(c *gin.Context, err error) {
	if repo.IsDuplicate(err) {
		response.Abort(c, response.Conflict("course title already exists"))
		return
	}
	h.log.Error("create course", zap.Error(err))
	response.Abort(c, response.Internal("failed to create course", err))
}
