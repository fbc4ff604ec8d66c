package usecases_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"vendor-hub.backend/internal/domain/entities"
	domainerrors "vendor-hub.backend/internal/domain/errors"
	"vendor-hub.backend/internal/domain/repositories"
	"vendor-hub.backend/internal/usecases"
)

func newVerificationFixture() (*usecases.VerificationUsecase, *MockProfileRepository, *MockVerificationRepository, *MockAuditRepository, *MockUnitOfWork) {
	profiles := new(MockProfileRepository)
	verifications := new(MockVerificationRepository)
	audits := new(MockAuditRepository)
	uow := new(MockUnitOfWork)
	u := usecases.NewVerificationUsecase(profiles, verifications, audits, uow)
	return u, profiles, verifications, audits, uow
}

func TestVerification_SubmitResponseRequiresMessage(t *testing.T) {
	u, profiles, _, _, _ := newVerificationFixture()

	_, err := u.SubmitUserResponse(context.Background(), uuid.New(), "  ", nil)
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	profiles.AssertNotCalled(t, "GetByOwnerUserID", mock.Anything, mock.Anything)
}

func TestVerification_SubmitResponseReturnsTaskToPool(t *testing.T) {
	u, profiles, verifications, audits, uow := newVerificationFixture()
	ownerUserID := uuid.New()
	moderatorID := uuid.New()
	p := &entities.Profile{
		ID:              uuid.New(),
		OwnerUserID:     ownerUserID,
		DisplayName:     "Studio Nine",
		ApprovalStatus:  entities.ApprovalStatusActionRequired,
		ApprovalOwnerID: &moderatorID,
	}
	request := &entities.VerificationRequest{ID: uuid.New(), ProfileID: p.ID}
	files := []entities.UserFile{{Name: "license.pdf", URL: "https://files.example/license.pdf"}}

	after := *p
	after.ApprovalStatus = entities.ApprovalStatusUserSubmittedInfo
	after.ApprovalOwnerID = nil

	profiles.On("GetByOwnerUserID", mock.Anything, ownerUserID).Return(p, nil).Once()
	verifications.On("GetLatestByProfile", mock.Anything, p.ID).Return(request, nil).Once()
	uow.On("Do", mock.Anything, mock.Anything).Return(nil).Once()
	verifications.On("MarkResponded", mock.Anything, request.ID, "here it is", files).Return(nil).Once()
	profiles.On("ApplyApprovalTransition", mock.Anything, p.ID, mock.MatchedBy(func(tr repositories.ApprovalTransition) bool {
		ownerCleared, hasOwner := tr.Apply["approval_owner_id"]
		return tr.To == entities.ApprovalStatusUserSubmittedInfo && hasOwner && ownerCleared == nil
	})).Return(nil).Once()
	audits.On("Append", mock.Anything, mock.MatchedBy(func(e *entities.AuditEntry) bool {
		return e.Action == entities.AuditInfoSubmitted && e.Notes.String == "here it is"
	})).Return(nil).Once()
	profiles.On("GetByID", mock.Anything, p.ID).Return(&after, nil).Once()

	snap, err := u.SubmitUserResponse(context.Background(), ownerUserID, "here it is", files)
	require.NoError(t, err)
	require.Equal(t, entities.ApprovalStatusUserSubmittedInfo, snap.Profile.ApprovalStatus)
	require.Nil(t, snap.Profile.ApprovalOwnerID)
	require.Equal(t, entities.EffectiveStatusInReview, snap.EffectiveStatus)

	profiles.AssertExpectations(t)
	verifications.AssertExpectations(t)
	audits.AssertExpectations(t)
}

func TestVerification_SecondResponseInSameCycleFails(t *testing.T) {
	u, profiles, verifications, audits, uow := newVerificationFixture()
	ownerUserID := uuid.New()
	p := &entities.Profile{
		ID:             uuid.New(),
		OwnerUserID:    ownerUserID,
		DisplayName:    "Studio Nine",
		ApprovalStatus: entities.ApprovalStatusUserSubmittedInfo,
	}
	request := &entities.VerificationRequest{ID: uuid.New(), ProfileID: p.ID}

	profiles.On("GetByOwnerUserID", mock.Anything, ownerUserID).Return(p, nil).Once()
	verifications.On("GetLatestByProfile", mock.Anything, p.ID).Return(request, nil).Once()
	uow.On("Do", mock.Anything, mock.Anything).Return(nil).Once()
	verifications.On("MarkResponded", mock.Anything, request.ID, "again", mock.Anything).Return(domainerrors.ErrPreconditionFailed).Once()

	_, err := u.SubmitUserResponse(context.Background(), ownerUserID, "again", nil)
	require.ErrorIs(t, err, domainerrors.ErrPreconditionFailed)
	profiles.AssertNotCalled(t, "ApplyApprovalTransition", mock.Anything, mock.Anything, mock.Anything)
	audits.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestVerification_HistoryPassThrough(t *testing.T) {
	u, _, verifications, _, _ := newVerificationFixture()
	profileID := uuid.New()
	history := []*entities.VerificationRequest{
		{ID: uuid.New(), ProfileID: profileID},
		{ID: uuid.New(), ProfileID: profileID},
	}
	verifications.On("ListByProfile", mock.Anything, profileID).Return(history, nil).Once()

	got, err := u.History(context.Background(), profileID)
	require.NoError(t, err)
	require.Len(t, got, 2)
}
