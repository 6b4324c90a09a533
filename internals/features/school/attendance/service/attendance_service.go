// internals/features/school/attendance/service/attendance_service.go
package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"edumet_backend/internals/constants"
	attendanceModel "edumet_backend/internals/features/school/attendance/model"
	classModel "edumet_backend/internals/features/school/classes/model"
	schoolModel "edumet_backend/internals/features/school/schools/model"
	studentModel "edumet_backend/internals/features/school/students/model"
	helper "edumet_backend/internals/helpers"
)

/* ===================== ERRORS & TYPES ===================== */

var (
	ErrClassNotFound      = errors.New("class not found")
	ErrSchoolNotFound     = errors.New("school not found")
	ErrAttendanceNotFound = errors.New("attendance not found")
	ErrFutureDate         = errors.New("attendance date is in the future")
	ErrBeforeClassStart   = errors.New("attendance date is before the class start date")
	ErrMissingStatus      = errors.New("student_id and status are required for each student")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrMarkConflict       = errors.New("attendance update failed after repeated write conflicts")
)

const (
	maxMarkAttempts = 3
	markBackoff     = 150 * time.Millisecond
)

// StatusUpdate is one student line of an add/mark payload.
type StatusUpdate struct {
	StudentID string
	Name      string
	Email     string
	Phone     string
	Status    string
}

// AttendanceService keeps the working-day calendar, the per-student
// present counts, and the percentages consistent after any write.
type AttendanceService struct {
	DB *gorm.DB
}

func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{DB: db}
}

/* ===================== ADD / MERGE ===================== */

// AddAttendance merges a set of student updates into the day's record,
// creating the row and the calendar entry (false) lazily. New values
// override old fields; students already present are never removed.
// Returns created=true when the day row did not exist yet.
func (s *AttendanceService) AddAttendance(ctx context.Context, schoolID, classNumber string, date time.Time, updates []StatusUpdate) (*attendanceModel.AttendanceModel, bool, error) {
	date = Truncate(date)
	class, err := s.findClass(ctx, schoolID, classNumber)
	if err != nil {
		return nil, false, err
	}
	if err := checkDateRange(date, class.ClassStartDate); err != nil {
		return nil, false, err
	}

	schoolName, err := s.schoolName(ctx, schoolID)
	if err != nil {
		return nil, false, err
	}

	var (
		att     *attendanceModel.AttendanceModel
		created bool
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Calendar entry defaults to "not fully marked" for a new date.
		cwd, err := getOrCreateWorkingDays(tx, schoolID, classNumber, schoolName)
		if err != nil {
			return err
		}
		days := cwd.Days()
		if _, ok := days[date.Format(attendanceModel.DateLayout)]; !ok {
			days[date.Format(attendanceModel.DateLayout)] = false
			cwd.SetDays(days)
			if err := tx.Save(cwd).Error; err != nil {
				return err
			}
		}

		att, created, err = getOrCreateDay(tx, schoolID, classNumber, schoolName, date)
		if err != nil {
			return err
		}

		return mergeEntries(tx, att, updates, false)
	})
	if err != nil {
		return nil, false, err
	}

	if err := s.reloadEntries(ctx, att); err != nil {
		return nil, false, err
	}
	return att, created, nil
}

/* ===================== UPDATE / MARK ===================== */

// MarkAttendance applies the statuses for a date and reconciles the
// three aggregates (working days, present counts, percentages) in one
// transaction. Write conflicts retry the whole transaction up to
// maxMarkAttempts with constant backoff; exhaustion surfaces
// ErrMarkConflict.
func (s *AttendanceService) MarkAttendance(ctx context.Context, schoolID, classNumber string, date time.Time, updates []StatusUpdate) (*attendanceModel.AttendanceModel, error) {
	date = Truncate(date)

	// Reject bad payloads before touching the row lock.
	for _, u := range updates {
		if u.StudentID == "" || u.Status == "" {
			return nil, ErrMissingStatus
		}
		if !constants.ValidStatus(u.Status) {
			return nil, ErrInvalidStatus
		}
	}

	class, err := s.findClass(ctx, schoolID, classNumber)
	if err != nil {
		return nil, err
	}
	if err := checkDateRange(date, class.ClassStartDate); err != nil {
		return nil, err
	}
	schoolName, err := s.schoolName(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	var att *attendanceModel.AttendanceModel
	for attempt := 1; attempt <= maxMarkAttempts; attempt++ {
		att, err = s.markOnce(ctx, class, schoolID, classNumber, schoolName, date, updates)
		if err == nil {
			break
		}
		if helper.IsSerializationFailure(err) || helper.IsUniqueViolation(err) {
			time.Sleep(markBackoff)
			continue
		}
		return nil, err
	}
	if err != nil {
		return nil, ErrMarkConflict
	}

	if err := s.reloadEntries(ctx, att); err != nil {
		return nil, err
	}
	return att, nil
}

// markOnce is a single attempt of the mark transaction (steps 1-7).
func (s *AttendanceService) markOnce(ctx context.Context, class *classModel.ClassModel, schoolID, classNumber, schoolName string, date time.Time, updates []StatusUpdate) (*attendanceModel.AttendanceModel, error) {
	var att *attendanceModel.AttendanceModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) Exclusive lock on the day row, creating it if absent.
		var err error
		att, _, err = getOrCreateDayLocked(tx, schoolID, classNumber, schoolName, date)
		if err != nil {
			return err
		}

		// 2) Apply each student's new status.
		if err := mergeEntries(tx, att, updates, true); err != nil {
			return err
		}

		// 3) "Fully marked" is derived from the update payload only.
		allMarked := markedFromPayload(updates)

		// 4) Write the flag into the calendar.
		cwd, err := getOrCreateWorkingDays(tx, schoolID, classNumber, schoolName)
		if err != nil {
			return err
		}
		days := cwd.Days()
		days[date.Format(attendanceModel.DateLayout)] = allMarked
		cwd.SetDays(days)
		if err := tx.Save(cwd).Error; err != nil {
			return err
		}

		// 5) Recompute the class total from the calendar.
		total := cwd.CountTrue()
		if err := tx.Model(&classModel.ClassModel{}).
			Where("class_id = ?", class.ClassID).
			Update("class_total_working_days", total).Error; err != nil {
			return err
		}
		class.ClassTotalWorkingDays = total

		// 6-7) Recompute present counts & percentages for the roster.
		return recomputeAggregates(tx, schoolID, classNumber, class.ClassStartDate, total)
	})
	if err != nil {
		return nil, err
	}
	return att, nil
}

// markedFromPayload: true iff no student in this update carries
// "not_marked". A payload that omits a still-unmarked student can flip
// the day to fully marked; intentionally preserved.
func markedFromPayload(updates []StatusUpdate) bool {
	for _, u := range updates {
		if u.Status == constants.StatusNotMarked {
			return false
		}
	}
	return true
}

/* ===================== FETCH ===================== */

// FetchAttendance returns the day's record, lazily back-filling any
// enrolled student missing from the day's list with a persisted
// not_marked entry. A missing day row is created with the full roster
// defaulted to not_marked (the add path).
func (s *AttendanceService) FetchAttendance(ctx context.Context, schoolID, classNumber string, date time.Time) (*attendanceModel.AttendanceModel, bool, error) {
	date = Truncate(date)

	var att attendanceModel.AttendanceModel
	err := s.DB.WithContext(ctx).
		Where("attendance_school_id = ? AND attendance_class_number = ? AND attendance_date = ?", schoolID, classNumber, date).
		First(&att).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults, err := s.rosterDefaults(ctx, schoolID, classNumber)
		if err != nil {
			return nil, false, err
		}
		fresh, _, err := s.AddAttendance(ctx, schoolID, classNumber, date, defaults)
		if err != nil {
			return nil, false, err
		}
		return fresh, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	// Back-fill newly enrolled students.
	if err := s.backfillRoster(ctx, &att); err != nil {
		return nil, false, err
	}
	if err := s.reloadEntries(ctx, &att); err != nil {
		return nil, false, err
	}
	return &att, false, nil
}

func (s *AttendanceService) rosterDefaults(ctx context.Context, schoolID, classNumber string) ([]StatusUpdate, error) {
	var students []studentModel.StudentModel
	if err := s.DB.WithContext(ctx).
		Where("student_school_id = ? AND student_class_assigned = ?", schoolID, classNumber).
		Find(&students).Error; err != nil {
		return nil, err
	}
	out := make([]StatusUpdate, 0, len(students))
	for _, st := range students {
		out = append(out, StatusUpdate{
			StudentID: st.StudentID,
			Name:      st.StudentFullName,
			Email:     st.StudentEmail,
			Phone:     st.StudentPhone,
			Status:    constants.StatusNotMarked,
		})
	}
	return out, nil
}

func (s *AttendanceService) backfillRoster(ctx context.Context, att *attendanceModel.AttendanceModel) error {
	var students []studentModel.StudentModel
	if err := s.DB.WithContext(ctx).
		Where("student_school_id = ? AND student_class_assigned = ?", att.AttendanceSchoolID, att.AttendanceClass).
		Find(&students).Error; err != nil {
		return err
	}

	var existing []string
	if err := s.DB.WithContext(ctx).Model(&attendanceModel.AttendanceEntryModel{}).
		Where("entry_attendance_id = ?", att.AttendanceID).
		Pluck("entry_student_id", &existing).Error; err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		seen[id] = struct{}{}
	}

	for _, st := range students {
		if _, ok := seen[st.StudentID]; ok {
			continue
		}
		entry := attendanceModel.AttendanceEntryModel{
			EntryAttendanceID: att.AttendanceID,
			EntryStudentID:    st.StudentID,
			EntryName:         st.StudentFullName,
			EntryEmail:        st.StudentEmail,
			EntryPhone:        st.StudentPhone,
			EntryStatus:       constants.StatusNotMarked,
		}
		if err := s.DB.WithContext(ctx).Create(&entry).Error; err != nil {
			return err
		}
	}
	return nil
}

/* ===================== READ-PATH RECOMPUTE ===================== */

// RefreshWorkingDays recomputes class_total_working_days strictly from
// the calendar entries in [class start date, today]. Used by the class
// read endpoints; never touches attendance rows.
func (s *AttendanceService) RefreshWorkingDays(ctx context.Context, class *classModel.ClassModel) error {
	var cwd classModel.ClassWorkingDayModel
	err := s.DB.WithContext(ctx).
		Where("working_day_school_id = ? AND working_day_class_number = ?", class.ClassSchoolID, class.ClassNumber).
		First(&cwd).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil // no attendance action yet; keep the zero
	}
	if err != nil {
		return err
	}

	from := Truncate(class.ClassStartDate).Format(attendanceModel.DateLayout)
	to := Today().Format(attendanceModel.DateLayout)
	total := cwd.CountTrueInRange(from, to)
	if total == class.ClassTotalWorkingDays {
		return nil
	}
	class.ClassTotalWorkingDays = total
	return s.DB.WithContext(ctx).Model(&classModel.ClassModel{}).
		Where("class_id = ?", class.ClassID).
		Update("class_total_working_days", total).Error
}

/* ===================== ROSTER SIDE EFFECTS ===================== */

// AppendStudentToToday adds a not_marked entry for a newly created
// student to today's existing day row, if any. A missing day row is
// left alone; it will be back-filled on the next fetch.
func (s *AttendanceService) AppendStudentToToday(ctx context.Context, st *studentModel.StudentModel) error {
	var att attendanceModel.AttendanceModel
	err := s.DB.WithContext(ctx).
		Where("attendance_school_id = ? AND attendance_class_number = ? AND attendance_date = ?",
			st.StudentSchoolID, st.StudentClassAssigned, Today()).
		First(&att).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	entry := attendanceModel.AttendanceEntryModel{
		EntryAttendanceID: att.AttendanceID,
		EntryStudentID:    st.StudentID,
		EntryName:         st.StudentFullName,
		EntryEmail:        st.StudentEmail,
		EntryPhone:        st.StudentPhone,
		EntryStatus:       constants.StatusNotMarked,
	}
	err = s.DB.WithContext(ctx).Create(&entry).Error
	if helper.IsUniqueViolation(err) {
		return nil // already on the day's list
	}
	return err
}

// PruneStudent removes a student's entries from every historical day.
// Other students' counts are untouched.
func (s *AttendanceService) PruneStudent(ctx context.Context, studentID string) error {
	return s.DB.WithContext(ctx).
		Where("entry_student_id = ?", studentID).
		Delete(&attendanceModel.AttendanceEntryModel{}).Error
}

/* ===================== INTERNALS ===================== */

func (s *AttendanceService) findClass(ctx context.Context, schoolID, classNumber string) (*classModel.ClassModel, error) {
	var class classModel.ClassModel
	err := s.DB.WithContext(ctx).
		Where("class_school_id = ? AND class_number = ?", schoolID, classNumber).
		First(&class).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (s *AttendanceService) schoolName(ctx context.Context, schoolID string) (string, error) {
	id, err := uuid.Parse(schoolID)
	if err != nil {
		return "", ErrSchoolNotFound
	}
	var school schoolModel.SchoolModel
	err = s.DB.WithContext(ctx).Where("school_id = ?", id).First(&school).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrSchoolNotFound
	}
	if err != nil {
		return "", err
	}
	return school.SchoolName, nil
}

func (s *AttendanceService) reloadEntries(ctx context.Context, att *attendanceModel.AttendanceModel) error {
	return s.DB.WithContext(ctx).
		Where("entry_attendance_id = ?", att.AttendanceID).
		Order("created_at").
		Find(&att.Entries).Error
}

func checkDateRange(date, startDate time.Time) error {
	if date.After(Today()) {
		return ErrFutureDate
	}
	if date.Before(Truncate(startDate)) {
		return ErrBeforeClassStart
	}
	return nil
}

// lockForUpdate takes a row lock where the dialect supports one.
// SQLite serializes writers on its own and rejects FOR UPDATE.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func getOrCreateWorkingDays(tx *gorm.DB, schoolID, classNumber, schoolName string) (*classModel.ClassWorkingDayModel, error) {
	var cwd classModel.ClassWorkingDayModel
	err := lockForUpdate(tx).
		Where("working_day_school_id = ? AND working_day_class_number = ?", schoolID, classNumber).
		First(&cwd).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cwd = classModel.ClassWorkingDayModel{
			WorkingDaySchoolID: schoolID,
			WorkingDayClass:    classNumber,
			WorkingDaySchool:   schoolName,
		}
		cwd.SetDays(map[string]bool{})
		if err := tx.Create(&cwd).Error; err != nil {
			return nil, err
		}
		return &cwd, nil
	}
	if err != nil {
		return nil, err
	}
	return &cwd, nil
}

func getOrCreateDay(tx *gorm.DB, schoolID, classNumber, schoolName string, date time.Time) (*attendanceModel.AttendanceModel, bool, error) {
	return findOrCreateDay(tx, schoolID, classNumber, schoolName, date, false)
}

func getOrCreateDayLocked(tx *gorm.DB, schoolID, classNumber, schoolName string, date time.Time) (*attendanceModel.AttendanceModel, bool, error) {
	return findOrCreateDay(tx, schoolID, classNumber, schoolName, date, true)
}

func findOrCreateDay(tx *gorm.DB, schoolID, classNumber, schoolName string, date time.Time, lock bool) (*attendanceModel.AttendanceModel, bool, error) {
	q := tx
	if lock {
		q = lockForUpdate(tx)
	}
	var att attendanceModel.AttendanceModel
	err := q.
		Where("attendance_school_id = ? AND attendance_class_number = ? AND attendance_date = ?", schoolID, classNumber, date).
		First(&att).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		att = attendanceModel.AttendanceModel{
			AttendanceSchool:   schoolName,
			AttendanceSchoolID: schoolID,
			AttendanceClass:    classNumber,
			AttendanceDate:     date,
		}
		if err := tx.Create(&att).Error; err != nil {
			return nil, false, err
		}
		return &att, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &att, false, nil
}

// mergeEntries upserts the payload into the day's entry rows. With
// overrideStatus=false (add path) only non-empty fields override; the
// mark path always writes the status.
func mergeEntries(tx *gorm.DB, att *attendanceModel.AttendanceModel, updates []StatusUpdate, overrideStatus bool) error {
	for _, u := range updates {
		if u.StudentID == "" {
			continue
		}
		var entry attendanceModel.AttendanceEntryModel
		err := tx.
			Where("entry_attendance_id = ? AND entry_student_id = ?", att.AttendanceID, u.StudentID).
			First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			entry = attendanceModel.AttendanceEntryModel{
				EntryAttendanceID: att.AttendanceID,
				EntryStudentID:    u.StudentID,
				EntryName:         u.Name,
				EntryEmail:        u.Email,
				EntryPhone:        u.Phone,
				EntryStatus:       constants.StatusNotMarked,
			}
			if u.Status != "" {
				entry.EntryStatus = u.Status
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		if u.Name != "" {
			entry.EntryName = u.Name
		}
		if u.Email != "" {
			entry.EntryEmail = u.Email
		}
		if u.Phone != "" {
			entry.EntryPhone = u.Phone
		}
		if overrideStatus || u.Status != "" {
			entry.EntryStatus = u.Status
		}
		if err := tx.Save(&entry).Error; err != nil {
			return err
		}
	}
	return nil
}

type presentCount struct {
	EntryStudentID string
	N              int
}

// recomputeAggregates rewrites present_count and percentage for every
// enrolled student's entries over [startDate, today], set-based via the
// child-table index. Entries of students no longer on the roster are
// zeroed, matching the inherited behavior before such entries are
// pruned by deletion.
func recomputeAggregates(tx *gorm.DB, schoolID, classNumber string, startDate time.Time, totalWorkingDays int) error {
	from := Truncate(startDate)
	to := Today()

	var counts []presentCount
	if err := tx.Raw(`
		SELECT e.entry_student_id, COUNT(*) AS n
		FROM attendance_entries e
		JOIN attendances a ON a.attendance_id = e.entry_attendance_id
		WHERE a.attendance_school_id = ?
		  AND a.attendance_class_number = ?
		  AND a.attendance_date BETWEEN ? AND ?
		  AND e.entry_status = ?
		GROUP BY e.entry_student_id`,
		schoolID, classNumber, from, to, constants.StatusPresent,
	).Scan(&counts).Error; err != nil {
		return err
	}

	byStudent := make(map[string]int, len(counts))
	for _, ct := range counts {
		byStudent[ct.EntryStudentID] = ct.N
	}

	var roster []string
	if err := tx.Model(&studentModel.StudentModel{}).
		Where("student_school_id = ? AND student_class_assigned = ?", schoolID, classNumber).
		Pluck("student_id", &roster).Error; err != nil {
		return err
	}
	enrolled := make(map[string]struct{}, len(roster))
	for _, id := range roster {
		enrolled[id] = struct{}{}
	}

	// Every student appearing on any day in range.
	var touched []string
	if err := tx.Raw(`
		SELECT DISTINCT e.entry_student_id
		FROM attendance_entries e
		JOIN attendances a ON a.attendance_id = e.entry_attendance_id
		WHERE a.attendance_school_id = ?
		  AND a.attendance_class_number = ?
		  AND a.attendance_date BETWEEN ? AND ?`,
		schoolID, classNumber, from, to,
	).Scan(&touched).Error; err != nil {
		return err
	}

	for _, studentID := range touched {
		count := 0
		if _, ok := enrolled[studentID]; ok {
			count = byStudent[studentID]
		}
		pct := Percentage(count, totalWorkingDays)

		if err := tx.Exec(`
			UPDATE attendance_entries
			SET entry_present_count = ?, entry_percentage = ?
			WHERE entry_student_id = ?
			  AND (entry_present_count <> ? OR entry_percentage <> ?)
			  AND entry_attendance_id IN (
			    SELECT attendance_id FROM attendances
			    WHERE attendance_school_id = ?
			      AND attendance_class_number = ?
			      AND attendance_date BETWEEN ? AND ?
			  )`,
			count, pct, studentID, count, pct,
			schoolID, classNumber, from, to,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

/* ===================== DATE & MATH HELPERS ===================== */

// Truncate normalizes t to midnight UTC so date columns compare
// consistently across drivers.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func Today() time.Time {
	return Truncate(time.Now().UTC())
}

// Percentage is present/total × 100 rounded to 2 decimals, defined as
// 0 when there are no working days yet.
func Percentage(presentCount, totalWorkingDays int) float64 {
	if totalWorkingDays <= 0 {
		return 0.0
	}
	pct := float64(presentCount) / float64(totalWorkingDays) * 100
	return math.Round(pct*100) / 100
}
