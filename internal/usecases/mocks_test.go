package usecases_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"vendor-hub.backend/internal/domain/entities"
	"vendor-hub.backend/internal/domain/repositories"
)

// Mock UnitOfWork. Do runs the function so transactional usecases execute
// their body in tests.
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, fn func(context.Context) error) error {
	m.Called(ctx, fn)
	return fn(ctx)
}

// Mock ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *entities.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetByOwnerUserID(ctx context.Context, ownerUserID uuid.UUID) (*entities.Profile, error) {
	args := m.Called(ctx, ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

func (m *MockProfileRepository) ListUnassigned(ctx context.Context, category entities.TaskCategory, limit, offset int) ([]*entities.Profile, int, error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Profile), args.Int(1), args.Error(2)
}

func (m *MockProfileRepository) ListAssignedTo(ctx context.Context, category entities.TaskCategory, ownerID uuid.UUID, limit, offset int) ([]*entities.Profile, int, error) {
	args := m.Called(ctx, category, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Profile), args.Int(1), args.Error(2)
}

func (m *MockProfileRepository) ListEscalatedTo(ctx context.Context, managerID uuid.UUID, limit, offset int) ([]*entities.Profile, int, error) {
	args := m.Called(ctx, managerID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Profile), args.Int(1), args.Error(2)
}

func (m *MockProfileRepository) ClaimOwner(ctx context.Context, category entities.TaskCategory, id uuid.UUID, actor entities.Actor) error {
	args := m.Called(ctx, category, id, actor)
	return args.Error(0)
}

func (m *MockProfileRepository) SetOwner(ctx context.Context, category entities.TaskCategory, id uuid.UUID, actor entities.Actor) error {
	args := m.Called(ctx, category, id, actor)
	return args.Error(0)
}

func (m *MockProfileRepository) ReleaseOwner(ctx context.Context, category entities.TaskCategory, id uuid.UUID) error {
	args := m.Called(ctx, category, id)
	return args.Error(0)
}

func (m *MockProfileRepository) SetEscalation(ctx context.Context, category entities.TaskCategory, id uuid.UUID, manager, escalatedBy entities.Actor, reason string) error {
	args := m.Called(ctx, category, id, manager, escalatedBy, reason)
	return args.Error(0)
}

func (m *MockProfileRepository) ApplyApprovalTransition(ctx context.Context, id uuid.UUID, tr repositories.ApprovalTransition) error {
	args := m.Called(ctx, id, tr)
	return args.Error(0)
}

func (m *MockProfileRepository) Suspend(ctx context.Context, id uuid.UUID, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *MockProfileRepository) Reinstate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProfileRepository) SubmitAppeal(ctx context.Context, id uuid.UUID, message string) error {
	args := m.Called(ctx, id, message)
	return args.Error(0)
}

func (m *MockProfileRepository) ResolveAppeal(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, approved bool, denialReason string) error {
	args := m.Called(ctx, id, ownerID, approved, denialReason)
	return args.Error(0)
}

func (m *MockProfileRepository) SetRiskAssessment(ctx context.Context, id uuid.UUID, assessment *entities.RiskAssessment) error {
	args := m.Called(ctx, id, assessment)
	return args.Error(0)
}

func (m *MockProfileRepository) ClearRiskReview(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *MockProfileRepository) ListAwaitingAssessment(ctx context.Context, limit int) ([]*entities.Profile, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Profile), args.Error(1)
}

func (m *MockProfileRepository) ListStaleAssessments(ctx context.Context, olderThan time.Time) ([]*entities.Profile, error) {
	args := m.Called(ctx, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Profile), args.Error(1)
}

func (m *MockProfileRepository) DeleteByOwnerUserID(ctx context.Context, ownerUserID uuid.UUID) error {
	args := m.Called(ctx, ownerUserID)
	return args.Error(0)
}

// Mock AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, entry *entities.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) Query(ctx context.Context, q entities.AuditQuery) ([]*entities.AuditEntry, int, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.AuditEntry), args.Int(1), args.Error(2)
}

// Mock VerificationRepository
type MockVerificationRepository struct {
	mock.Mock
}

func (m *MockVerificationRepository) Create(ctx context.Context, req *entities.VerificationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockVerificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.VerificationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VerificationRequest), args.Error(1)
}

func (m *MockVerificationRepository) GetLatestByProfile(ctx context.Context, profileID uuid.UUID) (*entities.VerificationRequest, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VerificationRequest), args.Error(1)
}

func (m *MockVerificationRepository) MarkResponded(ctx context.Context, id uuid.UUID, response string, files []entities.UserFile) error {
	args := m.Called(ctx, id, response, files)
	return args.Error(0)
}

func (m *MockVerificationRepository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*entities.VerificationRequest, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.VerificationRequest), args.Error(1)
}

func (m *MockVerificationRepository) DeleteByProfile(ctx context.Context, profileID uuid.UUID) error {
	args := m.Called(ctx, profileID)
	return args.Error(0)
}

// Mock NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	args := m.Called(ctx, id, lastError)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListPendingRetry(ctx context.Context, cutoff time.Time, limit int) ([]*entities.Notification, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Notification, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Notification), args.Int(1), args.Error(2)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role entities.UserRole) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, search string) ([]*entities.User, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

// recordingSink captures notifications without delivering anything
type recordingSink struct {
	mu   sync.Mutex
	sent []sentNotification
}

type sentNotification struct {
	UserID      uuid.UUID
	Type        entities.NotificationType
	Title       string
	Message     string
	ReferenceID *uuid.UUID
}

func (s *recordingSink) Notify(_ context.Context, userID uuid.UUID, ntype entities.NotificationType, title, message string, referenceID *uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentNotification{
		UserID:      userID,
		Type:        ntype,
		Title:       title,
		Message:     message,
		ReferenceID: referenceID,
	})
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

// fakeAssessor returns a fixed verdict or error
type fakeAssessor struct {
	assessment *entities.RiskAssessment
	err        error
	calls      int
}

func (f *fakeAssessor) Assess(_ context.Context, _ *entities.Profile) (*entities.RiskAssessment, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.assessment, nil
}

// fakeDispatcher fails deliveries on demand
type fakeDispatcher struct {
	err   error
	calls int
}

func (f *fakeDispatcher) Dispatch(_ context.Context, _ *entities.Notification) error {
	f.calls++
	return f.err
}
