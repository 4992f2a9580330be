package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"course-api/internal/core/config"
	"course-api/internal/core/database"
	"course-api/internal/core/logger"
	"course-api/internal/feature/course"
	"course-api/internal/feature/enrollment"
	"course-api/internal/feature/user"
	"course-api/internal/query"
)

// 固定课程目录，按 --courses 截断
var catalog = []course.CourseModel{
	{Title: "JavaScript Basics"},
	{Title: "TypeScript Advanced"},
	{Title: "Python Fundamentals"},
	{Title: "Go"},
	{Title: "Docker"},
	{Title: "PostgreSQL"},
	{Title: "React"},
	{Title: "Next.js"},
	{Title: "Git"},
	{Title: "Prompt Engineering"},
	{Title: "Kubernetes", Description: strptr("Container orchestration from scratch")},
	{Title: "REST API Design", Description: strptr("Designing pragmatic HTTP APIs")},
	{Title: "SQL Performance", Description: strptr("Indexes, joins and query plans")},
	{Title: "Soft Skills"},
	{Title: "Accessibility"},
}

var firstNames = []string{
	"Ana", "Bruno", "Carla", "Diego", "Elena", "Felipe", "Gabriela",
	"Hugo", "Isabela", "João", "Karen", "Lucas", "Mariana", "Nicolas",
	"Olivia", "Pedro", "Rafaela", "Sofia", "Thiago", "Valentina",
}

var lastNames = []string{
	"Silva", "Santos", "Oliveira", "Souza", "Costa", "Pereira",
	"Almeida", "Ferreira", "Rodrigues", "Lima", "Gomes", "Martins",
}

func strptr(s string) *string { return &s }

func main() {
	_ = godotenv.Load()

	var (
		usersCount         int
		coursesLimit       int
		enrollmentsPerUser int
		configPath         string
	)

	root := &cobra.Command{
		Use:   "seed",
		Short: "Seed the course database with users, courses and enrollments",
		RunE: func(cmd *cobra.Command, args []string) error {
			if usersCount <= 0 {
				return fmt.Errorf("--users must be a positive integer")
			}
			if enrollmentsPerUser <= 0 {
				return fmt.Errorf("--enrollments must be a positive integer")
			}
			if coursesLimit < 0 {
				return fmt.Errorf("--courses must not be negative")
			}
			return run(cmd.Context(), configPath, usersCount, coursesLimit, enrollmentsPerUser)
		},
	}
	root.Flags().IntVar(&usersCount, "users", 5, "number of random users to create")
	root.Flags().IntVar(&coursesLimit, "courses", 0, "number of catalog courses to insert (0 = all)")
	root.Flags().IntVar(&enrollmentsPerUser, "enrollments", 3, "enrollments drawn per user")
	root.Flags().StringVar(&configPath, "config", "", "config file path (defaults to CONFIG_PATH)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, usersCount, coursesLimit, enrollmentsPerUser int) error {
	cfg := config.Load(configPath)
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	if err := db.AutoMigrate(&user.UserModel{}, &course.CourseModel{}, &enrollment.EnrollmentModel{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	// 用户与课程互不依赖，并发播种
	var (
		users   []user.UserModel
		courses []course.CourseModel
	)
	err = query.Fanout(ctx,
		func(ctx context.Context) error {
			var e error
			users, e = seedUsers(ctx, db, log, usersCount)
			return e
		},
		func(ctx context.Context) error {
			var e error
			courses, e = seedCourses(ctx, db, log, coursesLimit)
			return e
		},
	)
	if err != nil {
		return err
	}

	enrolled, err := seedEnrollments(ctx, db, log, users, courses, enrollmentsPerUser)
	if err != nil {
		return err
	}

	log.Info("seed finished",
		zap.Int("users", len(users)),
		zap.Int("courses", len(courses)),
		zap.Int("enrollments", enrolled),
	)
	return nil
}

func seedUsers(ctx context.Context, db *gorm.DB, log *zap.Logger, count int) ([]user.UserModel, error) {
	ms := make([]user.UserModel, 0, count)
	for i := 0; i < count; i++ {
		first := firstNames[rand.IntN(len(firstNames))]
		last := lastNames[rand.IntN(len(lastNames))]
		ms = append(ms, user.UserModel{
			FirstName: first,
			LastName:  last,
			// 序号入邮箱，保证唯一
			Email: strings.ToLower(fmt.Sprintf("%s.%s.%d@example.com", first, last, rand.IntN(1_000_000))),
		})
	}
	if err := db.WithContext(ctx).Create(&ms).Error; err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	log.Info("users seeded", zap.Int("count", len(ms)))
	return ms, nil
}

func seedCourses(ctx context.Context, db *gorm.DB, log *zap.Logger, limit int) ([]course.CourseModel, error) {
	src := catalog
	if limit > 0 && limit < len(src) {
		src = src[:limit]
	}

	inserted := make([]course.CourseModel, 0, len(src))
	skipped := 0
	for _, c := range src {
		// 目录课程按标题幂等：已存在就跳过
		var exists int64
		if err := db.WithContext(ctx).Model(&course.CourseModel{}).
			Where("title = ?", c.Title).Count(&exists).Error; err != nil {
			return nil, fmt.Errorf("seed courses: %w", err)
		}
		if exists > 0 {
			skipped++
			continue
		}
		m := c
		if err := db.WithContext(ctx).Create(&m).Error; err != nil {
			return nil, fmt.Errorf("seed course %q: %w", c.Title, err)
		}
		inserted = append(inserted, m)
	}
	log.Info("courses seeded", zap.Int("inserted", len(inserted)), zap.Int("skipped", skipped))
	return inserted, nil
}

// seedEnrollments 抽签：每个用户洗牌课程后取前 N 个，跳过已有组合
func seedEnrollments(ctx context.Context, db *gorm.DB, log *zap.Logger,
	users []user.UserModel, courses []course.CourseModel, perUser int) (int, error) {
	if len(users) == 0 || len(courses) == 0 {
		log.Warn("no users or courses, skipping enrollments")
		return 0, nil
	}
	if perUser > len(courses) {
		log.Warn("reducing enrollments per user to available courses",
			zap.Int("requested", perUser), zap.Int("available", len(courses)))
		perUser = len(courses)
	}

	toCreate := make([]enrollment.EnrollmentModel, 0, len(users)*perUser)
	skipped := 0
	for _, u := range users {
		shuffled := make([]course.CourseModel, len(courses))
		copy(shuffled, courses)
		rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		for _, c := range shuffled[:perUser] {
			var exists int64
			if err := db.WithContext(ctx).Model(&enrollment.EnrollmentModel{}).
				Where("user_id = ? AND course_id = ?", u.ID, c.ID).Count(&exists).Error; err != nil {
				return 0, fmt.Errorf("seed enrollments: %w", err)
			}
			if exists > 0 {
				skipped++
				continue
			}
			toCreate = append(toCreate, enrollment.EnrollmentModel{UserID: u.ID, CourseID: c.ID})
		}
	}

	if len(toCreate) > 0 {
		if err := db.WithContext(ctx).Create(&toCreate).Error; err != nil {
			return 0, fmt.Errorf("seed enrollments: %w", err)
		}
	}
	if skipped > 0 {
		log.Warn("existing enrollments skipped", zap.Int("count", skipped))
	}
	return len(toCreate), nil
}
