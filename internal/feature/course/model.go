package course

import (
	"time"
)

type CourseModel struct {
	ID          uint    `gorm:"primaryKey"`
	Title       string  `gorm:"uniqueIndex;size:100;not null"`
	Description *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (CourseModel) TableName() string { return "courses" }

type View struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
}

func (m CourseModel) Public() View {
	return View{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		CreatedAt:   m.CreatedAt.UnixMilli(),
		UpdatedAt:   m.UpdatedAt.UnixMilli(),
	}
}

// Row 课程列表行：左连接 enrollments 聚合得到报名数
type Row struct {
	ID          uint
	Title       string
	Description *string
	Enrollments int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListView 列表项，含报名数
type ListView struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Enrollments int64   `json:"enrollments"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
}

func (r Row) Public() ListView {
	return ListView{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Enrollments: r.Enrollments,
		CreatedAt:   r.CreatedAt.UnixMilli(),
		UpdatedAt:   r.UpdatedAt.UnixMilli(),
	}
}
