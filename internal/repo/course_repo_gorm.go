package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"course-api/internal/feature/course"
	"course-api/internal/feature/enrollment"
	"course-api/internal/query"
)

type CourseListOpts struct {
	Search  string
	OrderBy string // 已过白名单的列名
	Page    query.Page
}

type CourseList struct {
	Rows             []course.Row
	Total            int64
	TotalEnrollments int64
}

type CourseRepo struct{ db *gorm.DB }

func NewCourseRepo(db *gorm.DB) *CourseRepo { return &CourseRepo{db: db} }

func courseFilter(search string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if s := strings.TrimSpace(search); s != "" {
			// 子串匹配，大小写不敏感；参数绑定，不拼 SQL
			tx = tx.Where("lower(courses.title) LIKE ?", "%"+strings.ToLower(s)+"%")
		}
		return tx
	}
}

// List 页查询（左连接聚合报名数）与两个计数并发执行
func (r *CourseRepo) List(ctx context.Context, opts CourseListOpts) (CourseList, error) {
	var out CourseList
	err := query.Fanout(ctx,
		func(ctx context.Context) error {
			return r.db.WithContext(ctx).Model(&course.CourseModel{}).
				Select("courses.id, courses.title, courses.description, COUNT(enrollments.id) AS enrollments, courses.created_at, courses.updated_at").
				Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id").
				Scopes(courseFilter(opts.Search)).
				Group("courses.id").
				Order(opts.OrderBy + " ASC").
				Limit(opts.Page.Limit).Offset(opts.Page.Offset()).
				Scan(&out.Rows).Error
		},
		func(ctx context.Context) error {
			return r.db.WithContext(ctx).Model(&course.CourseModel{}).
				Scopes(courseFilter(opts.Search)).
				Count(&out.Total).Error
		},
		func(ctx context.Context) error {
			return r.db.WithContext(ctx).Model(&enrollment.EnrollmentModel{}).
				Count(&out.TotalEnrollments).Error
		},
	)
	if out.Rows == nil {
		out.Rows = []course.Row{}
	}
	return out, err
}

func (r *CourseRepo) FindByID(ctx context.Context, id uint) (*course.CourseModel, error) {
	var m course.CourseModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *CourseRepo) Create(ctx context.Context, m *course.CourseModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// CreateBatch 单条多行 INSERT，原子性由存储引擎保证
func (r *CourseRepo) CreateBatch(ctx context.Context, ms []course.CourseModel) ([]course.CourseModel, error) {
	if err := r.db.WithContext(ctx).Create(&ms).Error; err != nil {
		return nil, err
	}
	return ms, nil
}
