package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"github.com/justkurama/django2024-tsis2/internal/authz"
	"github.com/justkurama/django2024-tsis2/internal/model"
	"github.com/justkurama/django2024-tsis2/internal/repository"
)

// ── Mock AccountRepository ──

type mockAccountRepo struct {
	accounts map[string]*model.Account // key: account_id
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{accounts: make(map[string]*model.Account)}
}

func (m *mockAccountRepo) Create(_ context.Context, account *model.Account) error {
	if account.AccountID == "" {
		account.AccountID = "acc-" + account.Username
	}
	m.accounts[account.AccountID] = account
	return nil
}

func (m *mockAccountRepo) GetByID(_ context.Context, id string) (*model.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccountRepo) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccountRepo) GetByUsername(_ context.Context, username string) (*model.Account, error) {
	for _, a := range m.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccountRepo) Update(_ context.Context, account *model.Account) error {
	m.accounts[account.AccountID] = account
	return nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students  map[string]*model.Student // key: student_id
	listCalls int                       // List 被调用次数（缓存测试用）
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	if student.StudentID == "" {
		student.StudentID = "stu-" + student.Name
	}
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByAccountID(_ context.Context, accountID string) (*model.Student, error) {
	for _, s := range m.students {
		if s.AccountID == accountID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	for _, s := range m.students {
		if s.StudentID != student.StudentID && s.Email == student.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id string) error {
	delete(m.students, id)
	return nil
}

func (m *mockStudentRepo) List(_ context.Context, name string, offset, limit int) ([]model.Student, int64, error) {
	m.listCalls++
	var all []model.Student
	for _, s := range m.students {
		if name != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(name)) {
			continue
		}
		all = append(all, *s)
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockStudentRepo) ListAll(_ context.Context) ([]model.Student, error) {
	var all []model.Student
	for _, s := range m.students {
		all = append(all, *s)
	}
	return all, nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses   map[string]*model.Course
	listCalls int
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		course.CourseID = "course-" + course.Name
	}
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.courses, id)
	return nil
}

func (m *mockCourseRepo) List(_ context.Context, name, description string, offset, limit int) ([]model.Course, int64, error) {
	m.listCalls++
	var all []model.Course
	for _, c := range m.courses {
		if name != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
			continue
		}
		if description != "" && !strings.Contains(strings.ToLower(c.Description), strings.ToLower(description)) {
			continue
		}
		all = append(all, *c)
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

// ── Mock EnrollmentRepository ──

// mock 无法执行 GORM scope 的 SQL 谓词，改为按测试注入的 scopeIdent
// 还原三种角色的可见性语义；SQL 谓词本身由集成测试覆盖
type mockEnrollmentRepo struct {
	enrollments map[string]*model.Enrollment
	scopeIdent  *authz.Identity // 测试前注入，List/GetByIDScoped 按它过滤
}

func newMockEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{enrollments: make(map[string]*model.Enrollment)}
}

func (m *mockEnrollmentRepo) visible(e *model.Enrollment) bool {
	if m.scopeIdent == nil {
		return true
	}
	switch m.scopeIdent.Role {
	case model.RoleAdmin:
		return true
	case model.RoleTeacher:
		return e.Course != nil && e.Course.InstructorID == m.scopeIdent.AccountID
	case model.RoleStudent:
		return m.scopeIdent.StudentID != "" && e.StudentID == m.scopeIdent.StudentID
	default:
		return false
	}
}

func (m *mockEnrollmentRepo) Create(_ context.Context, enrollment *model.Enrollment) error {
	if enrollment.EnrollmentID == "" {
		enrollment.EnrollmentID = fmt.Sprintf("enr-%d", len(m.enrollments)+1)
	}
	m.enrollments[enrollment.EnrollmentID] = enrollment
	return nil
}

func (m *mockEnrollmentRepo) GetByID(_ context.Context, id string) (*model.Enrollment, error) {
	if e, ok := m.enrollments[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) GetByIDScoped(_ context.Context, id string, _ authz.DBScope) (*model.Enrollment, error) {
	e, ok := m.enrollments[id]
	if !ok || !m.visible(e) {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (m *mockEnrollmentRepo) Delete(_ context.Context, id string) error {
	delete(m.enrollments, id)
	return nil
}

func (m *mockEnrollmentRepo) List(_ context.Context, _ authz.DBScope, offset, limit int) ([]model.Enrollment, int64, error) {
	var all []model.Enrollment
	for _, e := range m.enrollments {
		if m.visible(e) {
			all = append(all, *e)
		}
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

// ── Mock GradeRepository ──

type mockGradeRepo struct {
	grades map[string]*model.Grade
}

func newMockGradeRepo() *mockGradeRepo {
	return &mockGradeRepo{grades: make(map[string]*model.Grade)}
}

func (m *mockGradeRepo) Create(_ context.Context, grade *model.Grade) error {
	for _, g := range m.grades {
		if g.StudentID == grade.StudentID && g.CourseID == grade.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}
	if grade.GradeID == "" {
		grade.GradeID = fmt.Sprintf("grade-%d", len(m.grades)+1)
	}
	m.grades[grade.GradeID] = grade
	return nil
}

func (m *mockGradeRepo) GetByID(_ context.Context, id string) (*model.Grade, error) {
	if g, ok := m.grades[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) GetByStudentCourse(_ context.Context, studentID, courseID string) (*model.Grade, error) {
	for _, g := range m.grades {
		if g.StudentID == studentID && g.CourseID == courseID {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) Update(_ context.Context, grade *model.Grade) error {
	m.grades[grade.GradeID] = grade
	return nil
}

func (m *mockGradeRepo) Delete(_ context.Context, id string) error {
	delete(m.grades, id)
	return nil
}

func (m *mockGradeRepo) List(_ context.Context, _ authz.DBScope, offset, limit int) ([]model.Grade, int64, error) {
	var all []model.Grade
	for _, g := range m.grades {
		all = append(all, *g)
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockGradeRepo) ListByStudent(_ context.Context, studentID string) ([]model.Grade, error) {
	var result []model.Grade
	for _, g := range m.grades {
		if g.StudentID == studentID {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockGradeRepo) ListByCourse(_ context.Context, courseID string) ([]model.Grade, error) {
	var result []model.Grade
	for _, g := range m.grades {
		if g.CourseID == courseID {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockGradeRepo) CountByDate(_ context.Context, date time.Time) (int64, error) {
	var count int64
	day := date.Format("2006-01-02")
	for _, g := range m.grades {
		if g.Date.Format("2006-01-02") == day {
			count++
		}
	}
	return count, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	attendances map[string]*model.Attendance
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{attendances: make(map[string]*model.Attendance)}
}

func (m *mockAttendanceRepo) Create(_ context.Context, attendance *model.Attendance) error {
	if attendance.AttendanceID == "" {
		attendance.AttendanceID = fmt.Sprintf("att-%d", len(m.attendances)+1)
	}
	m.attendances[attendance.AttendanceID] = attendance
	return nil
}

func (m *mockAttendanceRepo) GetOpenByStudentCourse(_ context.Context, studentID, courseID string) (*model.Attendance, error) {
	for _, a := range m.attendances {
		if a.StudentID == studentID && a.CourseID == courseID && a.Status == model.AttendanceAbsent {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) Update(_ context.Context, attendance *model.Attendance) error {
	m.attendances[attendance.AttendanceID] = attendance
	return nil
}

func (m *mockAttendanceRepo) List(_ context.Context, offset, limit int) ([]model.Attendance, int64, error) {
	var all []model.Attendance
	for _, a := range m.attendances {
		all = append(all, *a)
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockAttendanceRepo) CountByDate(_ context.Context, date time.Time) (int64, error) {
	var count int64
	day := date.Format("2006-01-02")
	for _, a := range m.attendances {
		if a.Date.Format("2006-01-02") == day {
			count++
		}
	}
	return count, nil
}

// ── Mock AnalyticsRepository ──

type mockAnalyticsRepo struct {
	requestLogs []*model.ApiRequestLog
	viewLogs    []*model.CourseViewLog
	perUser     []repository.UserRequestCount // 预设的聚合结果
	viewCounts  []repository.CourseViewCount
}

func newMockAnalyticsRepo() *mockAnalyticsRepo {
	return &mockAnalyticsRepo{}
}

func (m *mockAnalyticsRepo) InsertRequestLog(_ context.Context, log *model.ApiRequestLog) error {
	m.requestLogs = append(m.requestLogs, log)
	return nil
}

func (m *mockAnalyticsRepo) InsertCourseViewLog(_ context.Context, log *model.CourseViewLog) error {
	m.viewLogs = append(m.viewLogs, log)
	return nil
}

func (m *mockAnalyticsRepo) CountRequests(_ context.Context) (int64, error) {
	var total int64
	for _, u := range m.perUser {
		total += u.Count
	}
	return total, nil
}

func (m *mockAnalyticsRepo) RequestsPerUser(_ context.Context) ([]repository.UserRequestCount, error) {
	return m.perUser, nil
}

func (m *mockAnalyticsRepo) CountActiveUsers(_ context.Context) (int64, error) {
	var count int64
	for _, u := range m.perUser {
		if u.Username != "" {
			count++
		}
	}
	return count, nil
}

func (m *mockAnalyticsRepo) CourseViewCounts(_ context.Context, ascending bool, limit int) ([]repository.CourseViewCount, error) {
	result := make([]repository.CourseViewCount, len(m.viewCounts))
	copy(result, m.viewCounts)
	if ascending {
		for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
			result[i], result[j] = result[j], result[i]
		}
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ── Mock ListCache ──

type mockCache struct {
	entries     map[string]string // key: resource + "|" + rawQuery
	invalidated []string          // InvalidateResource 调用记录
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]string)}
}

func (m *mockCache) GetList(_ context.Context, resource, rawQuery string) (string, bool) {
	payload, ok := m.entries[resource+"|"+rawQuery]
	return payload, ok
}

func (m *mockCache) SetList(_ context.Context, resource, rawQuery, payload string, _ time.Duration) {
	m.entries[resource+"|"+rawQuery] = payload
}

func (m *mockCache) InvalidateResource(_ context.Context, resource string) {
	m.invalidated = append(m.invalidated, resource)
	for key := range m.entries {
		if strings.HasPrefix(key, resource+"|") {
			delete(m.entries, key)
		}
	}
}

// ── Mock TokenStore ──

type mockTokenStore struct {
	blacklisted map[string]bool
}

func newMockTokenStore() *mockTokenStore {
	return &mockTokenStore{blacklisted: make(map[string]bool)}
}

func (m *mockTokenStore) BlacklistToken(_ context.Context, jti string, _ time.Duration) error {
	m.blacklisted[jti] = true
	return nil
}

func (m *mockTokenStore) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return m.blacklisted[jti], nil
}

// ── Mock Enqueuer ──

type mockEnqueuer struct {
	tasks []*asynq.Task
}

func (m *mockEnqueuer) Enqueue(_ context.Context, t *asynq.Task) error {
	m.tasks = append(m.tasks, t)
	return nil
}

// typesEnqueued 按顺序返回已入队任务的类型名
func (m *mockEnqueuer) typesEnqueued() []string {
	var types []string
	for _, t := range m.tasks {
		types = append(types, t.Type())
	}
	return types
}

// ── 共用辅助 ──

func paginate[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func newMockRepository() *repository.Repository {
	return &repository.Repository{
		Account:    newMockAccountRepo(),
		Student:    newMockStudentRepo(),
		Course:     newMockCourseRepo(),
		Enrollment: newMockEnrollmentRepo(),
		Grade:      newMockGradeRepo(),
		Attendance: newMockAttendanceRepo(),
		Analytics:  newMockAnalyticsRepo(),
	}
}
