// internals/features/school/attendance/service/attendance_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"edumet_backend/internals/constants"
	attendanceModel "edumet_backend/internals/features/school/attendance/model"
	classModel "edumet_backend/internals/features/school/classes/model"
	schoolModel "edumet_backend/internals/features/school/schools/model"
	studentModel "edumet_backend/internals/features/school/students/model"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&schoolModel.SchoolModel{},
		&classModel.ClassModel{},
		&classModel.ClassWorkingDayModel{},
		&attendanceModel.AttendanceModel{},
		&attendanceModel.AttendanceEntryModel{},
		&studentModel.StudentModel{},
	))
	return db
}

// seedClass creates a school, a class "8" with the given start date,
// and two enrolled students S001 and S002. Returns the school id.
func seedClass(t *testing.T, db *gorm.DB, start time.Time) string {
	t.Helper()
	school := schoolModel.SchoolModel{
		SchoolName:               "Green Valley High",
		SchoolType:               "secondary",
		SchoolBoard:              "CBSE",
		SchoolMedium:             "english",
		SchoolRegistrationNumber: "REG-001",
		SchoolEmail:              "office@greenvalley.example",
		SchoolPhone:              "9999999999",
		SchoolAddress:            "1 School Road",
		SchoolCity:               "Pune",
		SchoolState:              "MH",
		SchoolPincode:            "411001",
	}
	require.NoError(t, db.Create(&school).Error)
	schoolID := school.SchoolID.String()

	require.NoError(t, db.Create(&classModel.ClassModel{
		ClassSchoolID:  schoolID,
		ClassNumber:    "8",
		ClassStartDate: start,
		ClassThreshold: 75,
	}).Error)

	for _, s := range []struct{ id, name string }{
		{"S001", "Asha Rao"},
		{"S002", "Vikram Iyer"},
	} {
		require.NoError(t, db.Create(&studentModel.StudentModel{
			StudentFullName:      s.name,
			StudentID:            s.id,
			StudentEmail:         s.id + "@students.example",
			StudentPhone:         "8888888888",
			StudentClassAssigned: "8",
			StudentSchool:        school.SchoolName,
			StudentSchoolID:      schoolID,
		}).Error)
	}
	return schoolID
}

func entryFor(t *testing.T, db *gorm.DB, att *attendanceModel.AttendanceModel, studentID string) attendanceModel.AttendanceEntryModel {
	t.Helper()
	var entry attendanceModel.AttendanceEntryModel
	require.NoError(t, db.
		Where("entry_attendance_id = ? AND entry_student_id = ?", att.AttendanceID, studentID).
		First(&entry).Error)
	return entry
}

func classTotal(t *testing.T, db *gorm.DB, schoolID string) int {
	t.Helper()
	var class classModel.ClassModel
	require.NoError(t, db.Where("class_school_id = ? AND class_number = ?", schoolID, "8").First(&class).Error)
	return class.ClassTotalWorkingDays
}

func allPresent() []StatusUpdate {
	return []StatusUpdate{
		{StudentID: "S001", Name: "Asha Rao", Status: constants.StatusPresent},
		{StudentID: "S002", Name: "Vikram Iyer", Status: constants.StatusPresent},
	}
}

/* ===================== MARK / AGGREGATES ===================== */

func TestMarkAttendanceFullDayCountsAsWorkingDay(t *testing.T) {
	db := setupDB(t)
	start := Today().AddDate(0, 0, -3)
	schoolID := seedClass(t, db, start)
	svc := NewAttendanceService(db)

	att, err := svc.MarkAttendance(context.Background(), schoolID, "8", start, allPresent())
	require.NoError(t, err)

	assert.Equal(t, 1, classTotal(t, db, schoolID))
	for _, id := range []string{"S001", "S002"} {
		e := entryFor(t, db, att, id)
		assert.Equal(t, 1, e.EntryPresentCount)
		assert.Equal(t, 100.0, e.EntryPercentage)
	}
}

func TestMarkAttendanceAbsentDropsPercentage(t *testing.T) {
	db := setupDB(t)
	start := Today().AddDate(0, 0, -3)
	schoolID := seedClass(t, db, start)
	svc := NewAttendanceService(db)
	ctx := context.Background()

	_, err := svc.MarkAttendance(ctx, schoolID, "8", start, allPresent())
	require.NoError(t, err)

	day2 := start.AddDate(0, 0, 1)
	att, err := svc.MarkAttendance(ctx, schoolID, "8", day2, []StatusUpdate{
		{StudentID: "S001", Status: constants.StatusPresent},
		{StudentID: "S002", Status: constants.StatusAbsent},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, classTotal(t, db, schoolID))
	assert.Equal(t, 2, entryFor(t, db, att, "S001").EntryPresentCount)
	assert.Equal(t, 100.0, entryFor(t, db, att, "S001").EntryPercentage)
	assert.Equal(t, 1, entryFor(t, db, att, "S002").EntryPresentCount)
	assert.Equal(t, 50.0, entryFor(t, db, att, "S002").EntryPercentage)
}

func TestPartialMarkingLeavesWorkingDaysUnchanged(t *testing.T) {
	db := setupDB(t)
	start := Today().AddDate(0, 0, -3)
	schoolID := seedClass(t, db, start)
	svc := NewAttendanceService(db)
	ctx := context.Background()

	_, err := svc.MarkAttendance(ctx, schoolID, "8", start, allPresent())
	require.NoError(t, err)

	day2 := start.AddDate(0, 0, 1)
	att, err := svc.MarkAttendance(ctx, schoolID, "8", day2, []StatusUpdate{
		{StudentID: "S001", Status: constants.StatusPresent},
		{StudentID: "S002", Status: constants.StatusNotMarked},
	})
	require.NoError(t, err)

	// The day stays off the calendar; the unmarked student keeps
	// yesterday's numbers.
	assert.Equal(t, 1, classTotal(t, db, schoolID))
	assert.Equal(t, 1, entryFor(t, db, att, "S002").EntryPresentCount)
	assert.Equal(t, 100.0, entryFor(t, db, att, "S002").EntryPercentage)
}

func TestMarkedFromPayloadIgnoresStoredEntries(t *testing.T) {
	db := setupDB(t)
	start := Today().AddDate(0, 0, -3)
	schoolID := seedClass(t, db, start)
	svc := NewAttendanceService(db)
	ctx := context.Background()

	// First update leaves S002 unmarked, so the day does not count.
	_, err := svc.MarkAttendance(ctx, schoolID, "8", start, []StatusUpdate{
		{StudentID: "S001", Status: constants.StatusPresent},
		{StudentID: "S002", Status: constants.StatusNotMarked},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, classTotal(t, db, schoolID))

	// A second update naming only S001 flips the day to counted even
	// though S002 is still not_marked on the stored record.
	_, err = svc.MarkAttendance(ctx, schoolID, "8", start, []StatusUpdate{
		{StudentID: "S001", Status: constants.StatusPresent},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, classTotal(t, db, schoolID))
}

func TestMarkAttendanceIsIdempotent(t *testing.T) {
	db := setupDB(t)
	start := Today().AddDate(0, 0, -3)
	schoolID := seedClass(t, db, start)
	svc := NewAttendanceService(db)
	ctx := context.Background()

	first, err := svc.MarkAttendance(ctx, schoolID, "8", start, allPresent())
	require.NoError(t, err)
	second, err := svc.MarkAttendance(ctx, schoolID, "8", start, allPresent())
	require.NoError(t, err)

	assert.Equal(t, first.AttendanceID, second.AttendanceID)
	assert.Equal(t, 1, classTotal(t, db, schoolID))
	assert.Equal(t, 1, entryFor(t, db, second, "S001").EntryPresentCount)

	var dayCount int64
	require.NoError(t, db.Model(&attendanceModel.AttendanceModel{}).Count(&dayCount).Error)
	assert.Equal(t, int64(1), dayCount)
}

/* ===================== VALIDATION ===================== */

func TestMarkAttendanceRejectsBadDatesAndStatuses(t *testing.T) {
	db := setupDB(t)
	start := Today().AddDate(0, 0, -3)
	schoolID := seedClass(t, db, start)
	svc := NewAttendanceService(db)
	ctx := context.Background()

	_, err := svc.MarkAttendance(ctx, schoolID, "8", Today().AddDate(0, 0, 1), allPresent())
	assert.ErrorIs(t, err, ErrFutureDate)

	_, err = svc.MarkAttendance(ctx, schoolID, "8", start.AddDate(0, 0, -1), allPresent())
	assert.ErrorIs(t, err, ErrBeforeClassStart)

	_, err = svc.MarkAttendance(ctx, schoolID, "8", start, []StatusUpdate{
		{StudentID: "S001", Status: "late"},
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.MarkAttendance(ctx, schoolID, "8", start, []StatusUpdate{
		{StudentID: "S001"},
	})
	assert.ErrorIs(t, err, ErrMissingStatus)

	_, err = svc.MarkAttendance(ctx, schoolID, "99", start, allPresent())
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestAddAttendanceRejectsBadDates(t *testing.T) {
	db := setupDB(t)
	start := Today().AddDate(0, 0, -3)
	schoolID := seedClass(t, db, start)
	svc := NewAttendanceService(db)
	ctx := context.Background()

	_, _, err := svc.AddAttendance(ctx, schoolID, "8", Today().AddDate(0, 0, 1), allPresent())
	assert.ErrorIs(t, err, ErrFutureDate)

	_, _, err = svc.AddAttendance(ctx, schoolID, "8", start.AddDate(0, 0, -1), allPresent())
	assert.ErrorIs(t, err, ErrBeforeClassStart)

	// no day row or calendar entry was left behind
	var dayCount int64
	require.NoError(t, db.Model(&attendanceModel.AttendanceModel{}).Count(&dayCount).Error)
	assert.Equal(t, int64(0), dayCount)
}

/* ===================== ADD / MERGE ===================== */

func TestAddAttendanceMergesWithoutRemoving(t *testing.T) {
	db := setupDB(t)
	start := Today().AddDate(0, 0, -3)
	schoolID := seedClass(t, db, start)
	svc := NewAttendanceService(db)
	ctx := context.Background()

	att, created, err := svc.AddAttendance(ctx, schoolID, "8", start, []StatusUpdate{
		{StudentID: "S001", Name: "Asha Rao", Email: "old@students.example"},
	})
	require.NoError(t, err)
	assert.True(t, created)

	// Second add updates S001's email and introduces S002; S001 stays.
	att, created, err = svc.AddAttendance(ctx, schoolID, "8", start, []StatusUpdate{
		{StudentID: "S001", Email: "new@students.example"},
		{StudentID: "S002", Name: "Vikram Iyer"},
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, att.Entries, 2)
	assert.Equal(t, "new@students.example", entryFor(t, db, att, "S001").EntryEmail)
	assert.Equal(t, "Asha Rao", entryFor(t, db, att, "S001").EntryName)
}

func TestAddAttendanceRegistersCalendarEntryAsFalse(t *testing.T) {
	db := setupDB(t)
	start := Today().AddDate(0, 0, -3)
	schoolID := seedClass(t, db, start)
	svc := NewAttendanceService(db)

	_, _, err := svc.AddAttendance(context.Background(), schoolID, "8", start, allPresent())
	require.NoError(t, err)

	var cwd classModel.ClassWorkingDayModel
	require.NoError(t, db.Where("working_day_school_id = ?", schoolID).First(&cwd).Error)
	marked, ok := cwd.Days()[start.Format(attendanceModel.DateLayout)]
	assert.True(t, ok)
	assert.False(t, marked)
	assert.Equal(t, 0, classTotal(t, db, schoolID))
}

/* ===================== FETCH ===================== */

func TestFetchAttendanceBackfillsRoster(t *testing.T) {
	db := setupDB(t)
	start := Today().AddDate(0, 0, -3)
	schoolID := seedClass(t, db, start)
	svc := NewAttendanceService(db)
	ctx := context.Background()

	// Day exists with only S001 on it.
	_, _, err := svc.AddAttendance(ctx, schoolID, "8", start, []StatusUpdate{
		{StudentID: "S001", Name: "Asha Rao", Status: constants.StatusPresent},
	})
	require.NoError(t, err)

	att, created, err := svc.FetchAttendance(ctx, schoolID, "8", start)
	require.NoError(t, err)
	assert.False(t, created)
	require.Len(t, att.Entries, 2)
	assert.Equal(t, constants.StatusNotMarked, entryFor(t, db, att, "S002").EntryStatus)

	// The back-filled entry is persisted, not synthesized per read.
	var stored int64
	require.NoError(t, db.Model(&attendanceModel.AttendanceEntryModel{}).
		Where("entry_attendance_id = ?", att.AttendanceID).Count(&stored).Error)
	assert.Equal(t, int64(2), stored)
}

func TestFetchAttendanceCreatesMissingDayWithRosterDefaults(t *testing.T) {
	db := setupDB(t)
	start := Today().AddDate(0, 0, -3)
	schoolID := seedClass(t, db, start)
	svc := NewAttendanceService(db)

	att, created, err := svc.FetchAttendance(context.Background(), schoolID, "8", start)
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, att.Entries, 2)
	for _, e := range att.Entries {
		assert.Equal(t, constants.StatusNotMarked, e.EntryStatus)
		assert.Equal(t, 0, e.EntryPresentCount)
	}
}

func TestFetchAttendancePropagatesRosterReadFailure(t *testing.T) {
	db := setupDB(t)
	start := Today().AddDate(0, 0, -3)
	schoolID := seedClass(t, db, start)
	svc := NewAttendanceService(db)

	require.NoError(t, db.Migrator().DropTable(&studentModel.StudentModel{}))

	_, _, err := svc.FetchAttendance(context.Background(), schoolID, "8", start)
	require.Error(t, err)

	// The failed read must not leave behind an empty day row.
	var dayCount int64
	require.NoError(t, db.Model(&attendanceModel.AttendanceModel{}).Count(&dayCount).Error)
	assert.Equal(t, int64(0), dayCount)
}

/* ===================== ROSTER SIDE EFFECTS ===================== */

func TestPruneStudentRemovesAllEntries(t *testing.T) {
	db := setupDB(t)
	start := Today().AddDate(0, 0, -3)
	schoolID := seedClass(t, db, start)
	svc := NewAttendanceService(db)
	ctx := context.Background()

	_, err := svc.MarkAttendance(ctx, schoolID, "8", start, allPresent())
	require.NoError(t, err)
	_, err = svc.MarkAttendance(ctx, schoolID, "8", start.AddDate(0, 0, 1), allPresent())
	require.NoError(t, err)

	require.NoError(t, svc.PruneStudent(ctx, "S002"))

	var remaining int64
	require.NoError(t, db.Model(&attendanceModel.AttendanceEntryModel{}).
		Where("entry_student_id = ?", "S002").Count(&remaining).Error)
	assert.Equal(t, int64(0), remaining)

	// The other student's history is untouched.
	require.NoError(t, db.Model(&attendanceModel.AttendanceEntryModel{}).
		Where("entry_student_id = ?", "S001").Count(&remaining).Error)
	assert.Equal(t, int64(2), remaining)
}

func TestAppendStudentToToday(t *testing.T) {
	db := setupDB(t)
	start := Today().AddDate(0, 0, -3)
	schoolID := seedClass(t, db, start)
	svc := NewAttendanceService(db)
	ctx := context.Background()

	_, err := svc.MarkAttendance(ctx, schoolID, "8", Today(), allPresent())
	require.NoError(t, err)

	newStudent := studentModel.StudentModel{
		StudentFullName:      "Meera Shah",
		StudentID:            "S003",
		StudentEmail:         "S003@students.example",
		StudentPhone:         "7777777777",
		StudentClassAssigned: "8",
		StudentSchoolID:      schoolID,
	}
	require.NoError(t, db.Create(&newStudent).Error)
	require.NoError(t, svc.AppendStudentToToday(ctx, &newStudent))
	// Second call is a no-op, not a duplicate.
	require.NoError(t, svc.AppendStudentToToday(ctx, &newStudent))

	var count int64
	require.NoError(t, db.Model(&attendanceModel.AttendanceEntryModel{}).
		Where("entry_student_id = ?", "S003").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

/* ===================== MATH ===================== */

func TestPercentageRounding(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(5, 0))
	assert.Equal(t, 100.0, Percentage(2, 2))
	assert.Equal(t, 33.33, Percentage(1, 3))
	assert.Equal(t, 66.67, Percentage(2, 3))
	assert.Equal(t, 50.0, Percentage(1, 2))
}

func TestCountTrueInRange(t *testing.T) {
	var cwd classModel.ClassWorkingDayModel
	cwd.SetDays(map[string]bool{
		"2024-01-01": true,
		"2024-01-02": false,
		"2024-01-03": true,
		"2024-02-01": true,
	})
	assert.Equal(t, 3, cwd.CountTrue())
	assert.Equal(t, 2, cwd.CountTrueInRange("2024-01-01", "2024-01-31"))
	assert.Equal(t, 1, cwd.CountTrueInRange("2024-01-02", "2024-01-31"))
}
