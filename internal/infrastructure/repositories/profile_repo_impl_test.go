package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"vendor-hub.backend/internal/domain/entities"
	domainerrors "vendor-hub.backend/internal/domain/errors"
	domainRepos "vendor-hub.backend/internal/domain/repositories"
)

func newProfileRepo(t *testing.T) (*ProfileRepository, context.Context) {
	db := newTestDB(t)
	mustExec(t, db, "PRAGMA busy_timeout = 5000")
	createProfileTable(t, db)
	return NewProfileRepository(db), context.Background()
}

func seedProfile(t *testing.T, repo *ProfileRepository, ctx context.Context) *entities.Profile {
	t.Helper()
	p := &entities.Profile{
		OwnerUserID: uuid.New(),
		DisplayName: "Studio Nine",
	}
	require.NoError(t, repo.Create(ctx, p))
	return p
}

func actor(name string) entities.Actor {
	return entities.Actor{ID: uuid.New(), Name: name, Role: entities.UserRoleModerator}
}

func TestProfileRepository_CreateDefaultsAndGet(t *testing.T) {
	repo, ctx := newProfileRepo(t)
	p := seedProfile(t, repo, ctx)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, entities.ApprovalStatusPending, got.ApprovalStatus)
	require.Equal(t, entities.AppealStatusNone, got.AppealStatus)
	require.False(t, got.Suspended)
	require.False(t, got.NeedsRiskReview)
	require.Nil(t, got.ApprovalOwnerID)
	require.Nil(t, got.RiskOwnerID)

	byOwner, err := repo.GetByOwnerUserID(ctx, p.OwnerUserID)
	require.NoError(t, err)
	require.Equal(t, p.ID, byOwner.ID)

	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestProfileRepository_ClaimOwnerIsCompareAndSwap(t *testing.T) {
	repo, ctx := newProfileRepo(t)
	p := seedProfile(t, repo, ctx)

	a := actor("Alice")
	b := actor("Bob")

	require.NoError(t, repo.ClaimOwner(ctx, entities.TaskCategoryApproval, p.ID, a))
	require.ErrorIs(t, repo.ClaimOwner(ctx, entities.TaskCategoryApproval, p.ID, b), domainerrors.ErrOwnershipConflict)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, a.ID, *got.ApprovalOwnerID)
	require.Equal(t, "Alice", got.ApprovalOwnerName.String)

	// the two ownership slots are independent
	require.NoError(t, repo.ClaimOwner(ctx, entities.TaskCategoryRisk, p.ID, b))
	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, a.ID, *got.ApprovalOwnerID)
	require.Equal(t, b.ID, *got.RiskOwnerID)

	require.ErrorIs(t, repo.ClaimOwner(ctx, entities.TaskCategoryApproval, uuid.New(), a), domainerrors.ErrNotFound)
}

func TestProfileRepository_ConcurrentClaimsSingleWinner(t *testing.T) {
	repo, ctx := newProfileRepo(t)
	p := seedProfile(t, repo, ctx)

	const claimers = 8
	var wg sync.WaitGroup
	results := make(chan error, claimers)
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results <- repo.ClaimOwner(ctx, entities.TaskCategoryApproval, p.ID, actor("mod"))
		}(i)
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else {
			require.ErrorIs(t, err, domainerrors.ErrOwnershipConflict)
		}
	}
	require.Equal(t, 1, wins, "exactly one concurrent claim must win")
}

func TestProfileRepository_ReleaseClearsOwnerAndEscalation(t *testing.T) {
	repo, ctx := newProfileRepo(t)
	p := seedProfile(t, repo, ctx)

	mod := actor("Mona")
	mgr := actor("Marta")
	require.NoError(t, repo.ClaimOwner(ctx, entities.TaskCategoryApproval, p.ID, mod))
	require.NoError(t, repo.SetEscalation(ctx, entities.TaskCategoryApproval, p.ID, mgr, mod, "unsure about policy"))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, mgr.ID, *got.ApprovalOwnerID)
	require.Equal(t, mgr.ID, *got.EscalatedTo)
	require.Equal(t, mod.ID, *got.EscalatedByID)
	require.Equal(t, "unsure about policy", got.EscalationReason.String)

	require.NoError(t, repo.ReleaseOwner(ctx, entities.TaskCategoryApproval, p.ID))
	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Nil(t, got.ApprovalOwnerID)
	require.Nil(t, got.EscalatedTo)
	require.Nil(t, got.EscalatedByID)
	require.False(t, got.EscalationReason.Valid)
}

func TestProfileRepository_SetEscalationRequiresCurrentOwner(t *testing.T) {
	repo, ctx := newProfileRepo(t)
	p := seedProfile(t, repo, ctx)

	mod := actor("Mona")
	mgr := actor("Marta")
	err := repo.SetEscalation(ctx, entities.TaskCategoryApproval, p.ID, mgr, mod, "reason")
	require.ErrorIs(t, err, domainerrors.ErrPreconditionFailed)
}

func TestProfileRepository_TakeOverAlwaysWinsAndClearsEscalation(t *testing.T) {
	repo, ctx := newProfileRepo(t)
	p := seedProfile(t, repo, ctx)

	mod := actor("Mona")
	mgr := actor("Marta")
	other := actor("Omar")
	require.NoError(t, repo.ClaimOwner(ctx, entities.TaskCategoryApproval, p.ID, mod))
	require.NoError(t, repo.SetEscalation(ctx, entities.TaskCategoryApproval, p.ID, mgr, mod, "handover"))

	require.NoError(t, repo.SetOwner(ctx, entities.TaskCategoryApproval, p.ID, other))
	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, other.ID, *got.ApprovalOwnerID)
	require.Nil(t, got.EscalatedTo)
	require.Nil(t, got.EscalatedCategory)
}

func TestProfileRepository_ApplyApprovalTransitionGuardsSourceState(t *testing.T) {
	repo, ctx := newProfileRepo(t)
	p := seedProfile(t, repo, ctx)

	tr := domainRepos.ApprovalTransition{
		FromStatuses: []entities.ApprovalStatus{entities.ApprovalStatusPending, entities.ApprovalStatusUserSubmittedInfo},
		To:           entities.ApprovalStatusRejected,
		Apply:        map[string]interface{}{"rejection_reason": "incomplete portfolio"},
	}
	require.NoError(t, repo.ApplyApprovalTransition(ctx, p.ID, tr))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, entities.ApprovalStatusRejected, got.ApprovalStatus)
	require.Equal(t, "incomplete portfolio", got.RejectionReason.String)

	// rejected is not a valid source for the same transition
	require.ErrorIs(t, repo.ApplyApprovalTransition(ctx, p.ID, tr), domainerrors.ErrPreconditionFailed)
	require.ErrorIs(t, repo.ApplyApprovalTransition(ctx, uuid.New(), tr), domainerrors.ErrNotFound)
}

func TestProfileRepository_ApprovalTransitionVoidedByTakeOver(t *testing.T) {
	repo, ctx := newProfileRepo(t)
	p := seedProfile(t, repo, ctx)

	mona := actor("Mona")
	omar := actor("Omar")
	require.NoError(t, repo.ClaimOwner(ctx, entities.TaskCategoryApproval, p.ID, mona))
	require.NoError(t, repo.SetOwner(ctx, entities.TaskCategoryApproval, p.ID, omar))

	// Mona lost the slot between her ownership check and her write,
	// so her decision must not land
	tr := domainRepos.ApprovalTransition{
		FromStatuses: []entities.ApprovalStatus{entities.ApprovalStatusPending},
		To:           entities.ApprovalStatusRejected,
		OwnerID:      &mona.ID,
		Apply:        map[string]interface{}{"rejection_reason": "stale decision"},
	}
	require.ErrorIs(t, repo.ApplyApprovalTransition(ctx, p.ID, tr), domainerrors.ErrPreconditionFailed)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, entities.ApprovalStatusPending, got.ApprovalStatus)
	require.False(t, got.RejectionReason.Valid)
	require.Equal(t, omar.ID, *got.ApprovalOwnerID)

	// the current holder's write goes through
	tr.OwnerID = &omar.ID
	require.NoError(t, repo.ApplyApprovalTransition(ctx, p.ID, tr))
	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, entities.ApprovalStatusRejected, got.ApprovalStatus)
}

func TestProfileRepository_AppealResolutionVoidedByTakeOver(t *testing.T) {
	repo, ctx := newProfileRepo(t)
	p := seedProfile(t, repo, ctx)

	require.NoError(t, repo.Suspend(ctx, p.ID, "chargebacks"))
	require.NoError(t, repo.SubmitAppeal(ctx, p.ID, "resolved with the bank"))

	mona := actor("Mona")
	omar := actor("Omar")
	require.NoError(t, repo.ClaimOwner(ctx, entities.TaskCategoryApproval, p.ID, mona))
	require.NoError(t, repo.SetOwner(ctx, entities.TaskCategoryApproval, p.ID, omar))

	require.ErrorIs(t, repo.ResolveAppeal(ctx, p.ID, mona.ID, true, ""), domainerrors.ErrPreconditionFailed)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, entities.AppealStatusPending, got.AppealStatus)
	require.True(t, got.Suspended)

	require.NoError(t, repo.ResolveAppeal(ctx, p.ID, omar.ID, true, ""))
	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, entities.AppealStatusApproved, got.AppealStatus)
	require.False(t, got.Suspended)
}

func TestProfileRepository_SuspendAndReinstate(t *testing.T) {
	repo, ctx := newProfileRepo(t)
	p := seedProfile(t, repo, ctx)

	require.NoError(t, repo.Suspend(ctx, p.ID, "fraud indicators"))
	require.ErrorIs(t, repo.Suspend(ctx, p.ID, "again"), domainerrors.ErrPreconditionFailed)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, got.Suspended)
	require.Equal(t, "fraud indicators", got.SuspensionReason.String)

	require.NoError(t, repo.Reinstate(ctx, p.ID))
	require.ErrorIs(t, repo.Reinstate(ctx, p.ID), domainerrors.ErrPreconditionFailed)

	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.False(t, got.Suspended)
	require.False(t, got.SuspensionReason.Valid)
}

func TestProfileRepository_AppealLifecycle(t *testing.T) {
	repo, ctx := newProfileRepo(t)
	p := seedProfile(t, repo, ctx)

	// not eligible while pending and not suspended
	require.ErrorIs(t, repo.SubmitAppeal(ctx, p.ID, "please"), domainerrors.ErrAppealNotEligible)

	tr := domainRepos.ApprovalTransition{
		FromStatuses: []entities.ApprovalStatus{entities.ApprovalStatusPending},
		To:           entities.ApprovalStatusRejected,
		Apply:        map[string]interface{}{"rejection_reason": "low quality photos"},
	}
	require.NoError(t, repo.ApplyApprovalTransition(ctx, p.ID, tr))
	require.NoError(t, repo.SubmitAppeal(ctx, p.ID, "I added new photos"))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, entities.AppealStatusPending, got.AppealStatus)
	require.Equal(t, "I added new photos", got.AppealMessage.String)
	require.NotNil(t, got.AppealSubmittedAt)

	// approving the appeal reverses the rejection
	mod := actor("Mona")
	require.NoError(t, repo.ClaimOwner(ctx, entities.TaskCategoryApproval, p.ID, mod))
	require.NoError(t, repo.ResolveAppeal(ctx, p.ID, mod.ID, true, ""))
	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, entities.AppealStatusApproved, got.AppealStatus)
	require.Equal(t, entities.ApprovalStatusApproved, got.ApprovalStatus)
	require.False(t, got.AppealMessage.Valid)
	require.False(t, got.RejectionReason.Valid)

	// no pending appeal left to resolve
	require.ErrorIs(t, repo.ResolveAppeal(ctx, p.ID, mod.ID, true, ""), domainerrors.ErrPreconditionFailed)
}

func TestProfileRepository_AppealAgainstSuspensionLiftsIt(t *testing.T) {
	repo, ctx := newProfileRepo(t)
	p := seedProfile(t, repo, ctx)

	require.NoError(t, repo.Suspend(ctx, p.ID, "chargebacks"))
	require.NoError(t, repo.SubmitAppeal(ctx, p.ID, "resolved with the bank"))
	mod := actor("Mona")
	require.NoError(t, repo.ClaimOwner(ctx, entities.TaskCategoryApproval, p.ID, mod))
	require.NoError(t, repo.ResolveAppeal(ctx, p.ID, mod.ID, true, ""))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.False(t, got.Suspended)
	require.False(t, got.SuspensionReason.Valid)
	require.Equal(t, entities.AppealStatusApproved, got.AppealStatus)
	// the approval dimension is untouched by a suspension appeal
	require.Equal(t, entities.ApprovalStatusPending, got.ApprovalStatus)
}

func TestProfileRepository_DenyAppealIsTerminal(t *testing.T) {
	repo, ctx := newProfileRepo(t)
	p := seedProfile(t, repo, ctx)

	require.NoError(t, repo.Suspend(ctx, p.ID, "spam"))
	require.NoError(t, repo.SubmitAppeal(ctx, p.ID, "was not spam"))
	mod := actor("Mona")
	require.NoError(t, repo.ClaimOwner(ctx, entities.TaskCategoryApproval, p.ID, mod))
	require.NoError(t, repo.ResolveAppeal(ctx, p.ID, mod.ID, false, "clear policy violation"))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, entities.AppealStatusDenied, got.AppealStatus)
	require.Equal(t, "clear policy violation", got.AppealDenialReason.String)
	require.True(t, got.Suspended)

	// denied is terminal until a new rejection/suspension cycle resets it
	require.ErrorIs(t, repo.SubmitAppeal(ctx, p.ID, "retry"), domainerrors.ErrAppealNotEligible)
}

func TestProfileRepository_RiskAssessmentAndClearReview(t *testing.T) {
	repo, ctx := newProfileRepo(t)
	p := seedProfile(t, repo, ctx)

	ra := &entities.RiskAssessment{
		Score:      80,
		Label:      "high",
		Summary:    "multiple fraud indicators",
		GreenFlags: []string{"verified email"},
		RedFlags:   []string{"disposable phone", "mismatched address"},
	}
	require.NoError(t, repo.SetRiskAssessment(ctx, p.ID, ra))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, got.NeedsRiskReview)
	require.NotNil(t, got.RiskAssessment)
	require.Equal(t, 80, got.RiskAssessment.Score)
	require.Equal(t, []string{"disposable phone", "mismatched address"}, got.RiskAssessment.RedFlags)

	mod := actor("Dana")
	require.NoError(t, repo.ClaimOwner(ctx, entities.TaskCategoryRisk, p.ID, mod))

	// only the owner can close the review
	require.ErrorIs(t, repo.ClearRiskReview(ctx, p.ID, uuid.New()), domainerrors.ErrPreconditionFailed)
	require.NoError(t, repo.ClearRiskReview(ctx, p.ID, mod.ID))

	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.False(t, got.NeedsRiskReview)
	require.Nil(t, got.RiskOwnerID)

	// closing twice is a precondition failure, state unchanged
	require.ErrorIs(t, repo.ClearRiskReview(ctx, p.ID, mod.ID), domainerrors.ErrPreconditionFailed)
}

func TestProfileRepository_QueueListings(t *testing.T) {
	repo, ctx := newProfileRepo(t)

	unclaimed := seedProfile(t, repo, ctx)
	claimed := &entities.Profile{OwnerUserID: uuid.New(), DisplayName: "Claimed Studio"}
	require.NoError(t, repo.Create(ctx, claimed))
	escalated := &entities.Profile{OwnerUserID: uuid.New(), DisplayName: "Escalated Studio"}
	require.NoError(t, repo.Create(ctx, escalated))

	mod := actor("Mona")
	mgr := actor("Marta")
	require.NoError(t, repo.ClaimOwner(ctx, entities.TaskCategoryApproval, claimed.ID, mod))
	require.NoError(t, repo.ClaimOwner(ctx, entities.TaskCategoryApproval, escalated.ID, mod))
	require.NoError(t, repo.SetEscalation(ctx, entities.TaskCategoryApproval, escalated.ID, mgr, mod, "policy question"))

	pool, total, err := repo.ListUnassigned(ctx, entities.TaskCategoryApproval, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, unclaimed.ID, pool[0].ID)

	// escalated task is not in the original owner's queue
	mine, total, err := repo.ListAssignedTo(ctx, entities.TaskCategoryApproval, mod.ID, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, claimed.ID, mine[0].ID)

	// it appears only in the escalation target's queue
	theirs, total, err := repo.ListEscalatedTo(ctx, mgr.ID, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, escalated.ID, theirs[0].ID)
}

func TestProfileRepository_PendingAppealRejoinsApprovalPool(t *testing.T) {
	repo, ctx := newProfileRepo(t)
	p := seedProfile(t, repo, ctx)

	tr := domainRepos.ApprovalTransition{
		FromStatuses: []entities.ApprovalStatus{entities.ApprovalStatusPending},
		To:           entities.ApprovalStatusRejected,
		Apply:        map[string]interface{}{"rejection_reason": "low quality photos"},
	}
	require.NoError(t, repo.ApplyApprovalTransition(ctx, p.ID, tr))

	// a rejected profile has left the pool
	pool, total, err := repo.ListUnassigned(ctx, entities.TaskCategoryApproval, 10, 0)
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, pool)

	// its pending appeal puts it back so a moderator can pick it up
	require.NoError(t, repo.SubmitAppeal(ctx, p.ID, "I added new photos"))
	pool, total, err = repo.ListUnassigned(ctx, entities.TaskCategoryApproval, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, p.ID, pool[0].ID)

	// claiming it removes it again
	require.NoError(t, repo.ClaimOwner(ctx, entities.TaskCategoryApproval, p.ID, actor("Mona")))
	_, total, err = repo.ListUnassigned(ctx, entities.TaskCategoryApproval, 10, 0)
	require.NoError(t, err)
	require.Zero(t, total)

	// same for an approved-then-suspended profile appealing its suspension
	susp := seedProfile(t, repo, ctx)
	require.NoError(t, repo.ApplyApprovalTransition(ctx, susp.ID, domainRepos.ApprovalTransition{
		FromStatuses: []entities.ApprovalStatus{entities.ApprovalStatusPending},
		To:           entities.ApprovalStatusApproved,
	}))
	require.NoError(t, repo.Suspend(ctx, susp.ID, "chargebacks"))
	_, total, err = repo.ListUnassigned(ctx, entities.TaskCategoryApproval, 10, 0)
	require.NoError(t, err)
	require.Zero(t, total)

	require.NoError(t, repo.SubmitAppeal(ctx, susp.ID, "resolved with the bank"))
	pool, total, err = repo.ListUnassigned(ctx, entities.TaskCategoryApproval, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, susp.ID, pool[0].ID)
}

func TestProfileRepository_RiskQueueIndependentOfApproval(t *testing.T) {
	repo, ctx := newProfileRepo(t)

	p := seedProfile(t, repo, ctx)
	mod := actor("Mona")
	require.NoError(t, repo.ClaimOwner(ctx, entities.TaskCategoryApproval, p.ID, mod))
	require.NoError(t, repo.SetRiskAssessment(ctx, p.ID, &entities.RiskAssessment{Score: 65, Label: "medium"}))

	// owned on the approval side, still unassigned on the risk side
	riskPool, total, err := repo.ListUnassigned(ctx, entities.TaskCategoryRisk, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, p.ID, riskPool[0].ID)

	approvalPool, total, err := repo.ListUnassigned(ctx, entities.TaskCategoryApproval, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 0, total)
	require.Empty(t, approvalPool)
}

func TestProfileRepository_AwaitingAndStaleAssessments(t *testing.T) {
	repo, ctx := newProfileRepo(t)

	fresh := seedProfile(t, repo, ctx)
	scored := &entities.Profile{OwnerUserID: uuid.New(), DisplayName: "Scored"}
	require.NoError(t, repo.Create(ctx, scored))
	require.NoError(t, repo.SetRiskAssessment(ctx, scored.ID, &entities.RiskAssessment{Score: 10, Label: "low"}))

	waiting, err := repo.ListAwaitingAssessment(ctx, 10)
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	require.Equal(t, fresh.ID, waiting[0].ID)

	// flag a profile for review without a verdict, then age it past the window
	mustExec(t, repo.db, "UPDATE profiles SET needs_risk_review = 1, updated_at = ? WHERE id = ?",
		time.Now().Add(-time.Hour), fresh.ID)

	stale, err := repo.ListStaleAssessments(ctx, time.Now().Add(-30*time.Minute))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	require.Equal(t, fresh.ID, stale[0].ID)
}

func TestProfileRepository_DeleteByOwnerUserID(t *testing.T) {
	repo, ctx := newProfileRepo(t)
	p := seedProfile(t, repo, ctx)

	require.NoError(t, repo.DeleteByOwnerUserID(ctx, p.OwnerUserID))
	_, err := repo.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
