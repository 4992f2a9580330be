package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"course-api/internal/feature/user"
	"course-api/internal/query"
)

type UserListOpts struct {
	Search  string
	OrderBy string
	Page    query.Page
}

type UserList struct {
	Rows  []user.UserModel
	Total int64
}

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func userFilter(search string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if s := strings.TrimSpace(search); s != "" {
			tx = tx.Where("lower(users.first_name) LIKE ?", "%"+strings.ToLower(s)+"%")
		}
		return tx
	}
}

func (r *UserRepo) List(ctx context.Context, opts UserListOpts) (UserList, error) {
	var out UserList
	err := query.Fanout(ctx,
		func(ctx context.Context) error {
			return r.db.WithContext(ctx).Model(&user.UserModel{}).
				Scopes(userFilter(opts.Search)).
				Order(opts.OrderBy + " ASC").
				Limit(opts.Page.Limit).Offset(opts.Page.Offset()).
				Find(&out.Rows).Error
		},
		func(ctx context.Context) error {
			return r.db.WithContext(ctx).Model(&user.UserModel{}).
				Scopes(userFilter(opts.Search)).
				Count(&out.Total).Error
		},
	)
	if out.Rows == nil {
		out.Rows = []user.UserModel{}
	}
	return out, err
}

func (r *UserRepo) FindByID(ctx context.Context, id uint) (*user.UserModel, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *UserRepo) Create(ctx context.Context, m *user.UserModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *UserRepo) CreateBatch(ctx context.Context, ms []user.UserModel) ([]user.UserModel, error) {
	if err := r.db.WithContext(ctx).Create(&ms).Error; err != nil {
		return nil, err
	}
	return ms, nil
}
