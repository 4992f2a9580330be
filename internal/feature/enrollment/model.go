package enrollment

import (
	"time"

	"course-api/internal/feature/course"
	"course-api/internal/feature/user"
)

// EnrollmentModel (user_id, course_id) 唯一，两侧外键约束
type EnrollmentModel struct {
	ID       uint `gorm:"primaryKey"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_enrollments_user_course"`
	CourseID uint `gorm:"not null;uniqueIndex:idx_enrollments_user_course"`

	User   *user.UserModel     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Course *course.CourseModel `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (EnrollmentModel) TableName() string { return "enrollments" }

// Row 连接 users/courses 后的查询行
type Row struct {
	UserID        uint
	CourseID      uint
	UserFirstName string
	UserLastName  string
	CourseTitle   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type View struct {
	UserID      uint   `json:"user_id"`
	CourseID    uint   `json:"course_id"`
	UserName    string `json:"user_name"`
	CourseTitle string `json:"course_title"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

func (r Row) Public() View {
	return View{
		UserID:      r.UserID,
		CourseID:    r.CourseID,
		UserName:    r.UserFirstName + " " + r.UserLastName,
		CourseTitle: r.CourseTitle,
		CreatedAt:   r.CreatedAt.UnixMilli(),
		UpdatedAt:   r.UpdatedAt.UnixMilli(),
	}
}

// CreatedView POST 返回形态（无连接字段）
type CreatedView struct {
	UserID    uint  `json:"user_id"`
	CourseID  uint  `json:"course_id"`
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

func (m EnrollmentModel) Public() CreatedView {
	return CreatedView{
		UserID:    m.UserID,
		CourseID:  m.CourseID,
		CreatedAt: m.CreatedAt.UnixMilli(),
		UpdatedAt: m.UpdatedAt.UnixMilli(),
	}
}
