package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"course-api/internal/feature/user"
	"course-api/internal/query"
	"course-api/internal/repo"
	"course-api/internal/transport/http/response"
)

var userSort = query.Sort{
	Default: "users.id",
	Allowed: map[string]string{
		"id":         "users.id",
		"first_name": "users.first_name",
	},
}

type UserHandler struct {
	repo *repo.UserRepo
	log  *zap.Logger
}

func NewUserHandler(r *repo.UserRepo, l *zap.Logger) *UserHandler {
	return &UserHandler{repo: r, log: l}
}

// List GET /users?page&limit&search&orderBy
func (h *UserHandler) List(c *gin.Context) {
	p, err := query.ParsePage(c.Query("page"), c.Query("limit"))
	if err != nil {
		response.Abort(c, response.BadRequest(err.Error()))
		return
	}

	out, err := h.repo.List(c.Request.Context(), repo.UserListOpts{
		Search:  c.Query("search"),
		OrderBy: userSort.Resolve(orderToken(c)),
		Page:    p,
	})
	if err != nil {
		h.log.Error("list users", zap.Error(err))
		response.Abort(c, response.Internal("failed to list users", err))
		return
	}

	items := make([]user.View, 0, len(out.Rows))
	for _, m := range out.Rows {
		items = append(items, m.Public())
	}
	response.OK(c, gin.H{
		"users":       items,
		"currentPage": p.Page,
		"perPage":     p.Limit,
		"totalItems":  out.Total,
		"totalPages":  query.TotalPages(out.Total, p.Limit),
	})
}

// Get GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		response.Abort(c, response.BadRequest("user id must be a positive integer"))
		return
	}
	m, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.log.Error("get user", zap.Error(err), zap.Uint("id", id))
		response.Abort(c, response.Internal("failed to get user", err))
		return
	}
	if m == nil {
		response.Abort(c, response.NotFound())
		return
	}
	response.OK(c, gin.H{"user": m.Public()})
}

type userIn struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"required,min=1,max=100"`
	Email     string `json:"email" binding:"required,email,max=100"`
}

// Create POST /users：单条对象或数组（≤50）
func (h *UserHandler) Create(c *gin.Context) {
	in, aerr := bindOneOrMany[userIn](c, 50)
	if aerr != nil {
		response.Abort(c, aerr)
		return
	}

	if in.One != nil {
		m := user.UserModel{FirstName: in.One.FirstName, LastName: in.One.LastName, Email: in.One.Email}
		if err := h.repo.Create(c.Request.Context(), &m); err != nil {
			h.abortCreate(c, err)
			return
		}
		response.Created(c, m.Public())
		return
	}

	ms := make([]user.UserModel, 0, len(in.Many))
	for _, rec := range in.Many {
		ms = append(ms, user.UserModel{FirstName: rec.FirstName, LastName: rec.LastName, Email: rec.Email})
	}
	created, err := h.repo.CreateBatch(c.Request.Context(), ms)
	if err != nil {
		h.abortCreate(c, err)
		return
	}
	views := make([]user.View, 0, len(created))
	for _, m := range created {
		views = append(views, m.Public())
	}
	response.Created(c, gin.H{"users": views, "total": len(views)})
}

func (h *UserHandler) abortCreate(c *gin.Context, err error) {
	if repo.IsDuplicate(err) {
		response.Abort(c, response.Conflict("email already registered"))
		return
	}
	h.log.Error("create user", zap.Error(err))
	response.Abort(c, response.Internal("failed to create user", err))
}
