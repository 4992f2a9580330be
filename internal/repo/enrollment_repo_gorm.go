package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"course-api/internal/feature/enrollment"
	"course-api/internal/query"
)

type EnrollmentListOpts struct {
	UserID   uint // 0 表示不过滤
	CourseID uint
	Page     query.Page
}

type EnrollmentList struct {
	Rows  []enrollment.Row
	Total int64
}

type EnrollmentRepo struct{ db *gorm.DB }

func NewEnrollmentRepo(db *gorm.DB) *EnrollmentRepo { return &EnrollmentRepo{db: db} }

func enrollmentFilter(userID, courseID uint) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if userID > 0 {
			tx = tx.Where("enrollments.user_id = ?", userID)
		}
		if courseID > 0 {
			tx = tx.Where("enrollments.course_id = ?", courseID)
		}
		return tx
	}
}

const enrollmentSelect = "enrollments.user_id, enrollments.course_id, " +
	"users.first_name AS user_first_name, users.last_name AS user_last_name, " +
	"courses.title AS course_title, enrollments.created_at, enrollments.updated_at"

// List 内连接 users/courses：没有两侧实体的报名行没有意义
func (r *EnrollmentRepo) List(ctx context.Context, opts EnrollmentListOpts) (EnrollmentList, error) {
	var out EnrollmentList
	err := query.Fanout(ctx,
		func(ctx context.Context) error {
			return r.db.WithContext(ctx).Model(&enrollment.EnrollmentModel{}).
				Select(enrollmentSelect).
				Joins("INNER JOIN users ON users.id = enrollments.user_id").
				Joins("INNER JOIN courses ON courses.id = enrollments.course_id").
				Scopes(enrollmentFilter(opts.UserID, opts.CourseID)).
				Order("enrollments.id ASC").
				Limit(opts.Page.Limit).Offset(opts.Page.Offset()).
				Scan(&out.Rows).Error
		},
		func(ctx context.Context) error {
			return r.db.WithContext(ctx).Model(&enrollment.EnrollmentModel{}).
				Scopes(enrollmentFilter(opts.UserID, opts.CourseID)).
				Count(&out.Total).Error
		},
	)
	if out.Rows == nil {
		out.Rows = []enrollment.Row{}
	}
	return out, err
}

func (r *EnrollmentRepo) FindByIDs(ctx context.Context, userID, courseID uint) (*enrollment.Row, error) {
	var row enrollment.Row
	err := r.db.WithContext(ctx).Model(&enrollment.EnrollmentModel{}).
		Select(enrollmentSelect).
		Joins("INNER JOIN users ON users.id = enrollments.user_id").
		Joins("INNER JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.user_id = ? AND enrollments.course_id = ?", userID, courseID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *EnrollmentRepo) Create(ctx context.Context, m *enrollment.EnrollmentModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *EnrollmentRepo) CreateBatch(ctx context.Context, ms []enrollment.EnrollmentModel) ([]enrollment.EnrollmentModel, error) {
	if err := r.db.WithContext(ctx).Create(&ms).Error; err != nil {
		return nil, err
	}
	return ms, nil
}
