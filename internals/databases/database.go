// internals/databases/database.go
package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"edumet_backend/internals/configs"
	attendanceModel "edumet_backend/internals/features/school/attendance/model"
	classModel "edumet_backend/internals/features/school/classes/model"
	schoolModel "edumet_backend/internals/features/school/schools/model"
	studentModel "edumet_backend/internals/features/school/students/model"
	teacherModel "edumet_backend/internals/features/school/teachers/model"
	authModel "edumet_backend/internals/features/users/auth/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Connecting to PostgreSQL...")

	sslmode := configs.GetEnv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=edumet&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // PgBouncer-friendly (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate runs the schema migration for every registered model.
// Order matters: users before teachers, attendances before entries.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&authModel.UserModel{},
		&authModel.EmailOTPModel{},
		&teacherModel.TeacherModel{},
		&schoolModel.SchoolModel{},
		&classModel.ClassModel{},
		&classModel.ClassWorkingDayModel{},
		&attendanceModel.AttendanceModel{},
		&attendanceModel.AttendanceEntryModel{},
		&studentModel.StudentModel{},
	)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
