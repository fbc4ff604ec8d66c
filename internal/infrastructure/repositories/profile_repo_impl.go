package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"vendor-hub.backend/internal/domain/entities"
	domainerrors "vendor-hub.backend/internal/domain/errors"
	domainRepos "vendor-hub.backend/internal/domain/repositories"
	"vendor-hub.backend/internal/infrastructure/models"
	"vendor-hub.backend/pkg/utils"
)

// Statuses that put a profile in the approval review pool. ACTION_REQUIRED
// is excluded: that task is waiting on the user, not on a moderator.
var approvalPoolStatuses = []string{
	string(entities.ApprovalStatusPending),
	string(entities.ApprovalStatusUserSubmittedInfo),
}

// ProfileRepository implements vendor profile data operations
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func ownerColumns(category entities.TaskCategory) (idCol, nameCol string) {
	if category == entities.TaskCategoryRisk {
		return "risk_owner_id", "risk_owner_name"
	}
	return "approval_owner_id", "approval_owner_name"
}

// Create creates a new profile in the PENDING state
func (r *ProfileRepository) Create(ctx context.Context, profile *entities.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = utils.GenerateUUIDv7()
	}
	if profile.ApprovalStatus == "" {
		profile.ApprovalStatus = entities.ApprovalStatusPending
	}
	if profile.AppealStatus == "" {
		profile.AppealStatus = entities.AppealStatusNone
	}
	m := r.toModel(profile)
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	profile.ID = m.ID
	profile.CreatedAt = m.CreatedAt
	return nil
}

// GetByID gets a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Profile, error) {
	var m models.Profile
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByOwnerUserID gets the profile belonging to a vendor account
func (r *ProfileRepository) GetByOwnerUserID(ctx context.Context, ownerUserID uuid.UUID) (*entities.Profile, error) {
	var m models.Profile
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("owner_user_id = ?", ownerUserID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ListUnassigned lists the claimable pool for a task category. Owned and
// escalated tasks are excluded. The approval pool also carries profiles
// with a pending appeal, since resolving one requires claiming the
// approval slot and moderators discover appeals here.
func (r *ProfileRepository) ListUnassigned(ctx context.Context, category entities.TaskCategory, limit, offset int) ([]*entities.Profile, int, error) {
	q := r.db.WithContext(ctx).Model(&models.Profile{})
	idCol, _ := ownerColumns(category)
	q = q.Where(idCol + " IS NULL")
	q = q.Where("NOT (escalated_to IS NOT NULL AND escalated_category = ?)", string(category))
	if category == entities.TaskCategoryRisk {
		q = q.Where("needs_risk_review = ?", true)
	} else {
		q = q.Where("approval_status IN ? OR appeal_status = ?",
			approvalPoolStatuses, string(entities.AppealStatusPending))
	}
	return r.page(q, limit, offset)
}

// ListAssignedTo lists tasks owned by a moderator, excluding tasks that
// have been escalated away from them.
func (r *ProfileRepository) ListAssignedTo(ctx context.Context, category entities.TaskCategory, ownerID uuid.UUID, limit, offset int) ([]*entities.Profile, int, error) {
	idCol, _ := ownerColumns(category)
	q := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where(idCol+" = ?", ownerID).
		Where("NOT (escalated_to IS NOT NULL AND escalated_category = ?)", string(category))
	return r.page(q, limit, offset)
}

// ListEscalatedTo lists tasks routed to a manager
func (r *ProfileRepository) ListEscalatedTo(ctx context.Context, managerID uuid.UUID, limit, offset int) ([]*entities.Profile, int, error) {
	q := r.db.WithContext(ctx).Model(&models.Profile{}).Where("escalated_to = ?", managerID)
	return r.page(q, limit, offset)
}

func (r *ProfileRepository) page(q *gorm.DB, limit, offset int) ([]*entities.Profile, int, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ms []models.Profile
	find := q.Order("created_at ASC")
	if limit > 0 {
		find = find.Limit(limit).Offset(offset)
	}
	if err := find.Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*entities.Profile, 0, len(ms))
	for i := range ms {
		out = append(out, r.toEntity(&ms[i]))
	}
	return out, int(total), nil
}

// ClaimOwner sets the owner slot only if it is currently empty. This is the
// compare-and-swap that makes the single-owner invariant a property of the
// store: two concurrent claims resolve to exactly one winner.
func (r *ProfileRepository) ClaimOwner(ctx context.Context, category entities.TaskCategory, id uuid.UUID, actor entities.Actor) error {
	idCol, nameCol := ownerColumns(category)
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Where(idCol+" IS NULL").
		Updates(map[string]interface{}{
			idCol:        actor.ID,
			nameCol:      actor.Name,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if err := r.exists(ctx, id); err != nil {
			return err
		}
		return domainerrors.ErrOwnershipConflict
	}
	return nil
}

// SetOwner overwrites the owner slot regardless of the current owner and
// clears escalation metadata for the category in the same write.
func (r *ProfileRepository) SetOwner(ctx context.Context, category entities.TaskCategory, id uuid.UUID, actor entities.Actor) error {
	idCol, nameCol := ownerColumns(category)
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			idCol:      actor.ID,
			nameCol:    actor.Name,
			"escalated_to": gorm.Expr(
				"CASE WHEN escalated_category = ? THEN NULL ELSE escalated_to END", string(category)),
			"escalated_by_id": gorm.Expr(
				"CASE WHEN escalated_category = ? THEN NULL ELSE escalated_by_id END", string(category)),
			"escalated_by_name": gorm.Expr(
				"CASE WHEN escalated_category = ? THEN NULL ELSE escalated_by_name END", string(category)),
			"escalation_reason": gorm.Expr(
				"CASE WHEN escalated_category = ? THEN NULL ELSE escalation_reason END", string(category)),
			"escalated_category": gorm.Expr(
				"CASE WHEN escalated_category = ? THEN NULL ELSE escalated_category END", string(category)),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ReleaseOwner clears the owner slot and any escalation metadata tied to
// the category, returning the task to the unassigned pool.
func (r *ProfileRepository) ReleaseOwner(ctx context.Context, category entities.TaskCategory, id uuid.UUID) error {
	idCol, nameCol := ownerColumns(category)
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			idCol:   nil,
			nameCol: nil,
			"escalated_to": gorm.Expr(
				"CASE WHEN escalated_category = ? THEN NULL ELSE escalated_to END", string(category)),
			"escalated_by_id": gorm.Expr(
				"CASE WHEN escalated_category = ? THEN NULL ELSE escalated_by_id END", string(category)),
			"escalated_by_name": gorm.Expr(
				"CASE WHEN escalated_category = ? THEN NULL ELSE escalated_by_name END", string(category)),
			"escalation_reason": gorm.Expr(
				"CASE WHEN escalated_category = ? THEN NULL ELSE escalation_reason END", string(category)),
			"escalated_category": gorm.Expr(
				"CASE WHEN escalated_category = ? THEN NULL ELSE escalated_category END", string(category)),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SetEscalation reassigns the owner slot to the manager and records who
// escalated and why, guarded on the escalating actor still holding the slot.
func (r *ProfileRepository) SetEscalation(ctx context.Context, category entities.TaskCategory, id uuid.UUID, manager, escalatedBy entities.Actor, reason string) error {
	idCol, nameCol := ownerColumns(category)
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Where(idCol+" = ?", escalatedBy.ID).
		Updates(map[string]interface{}{
			idCol:                manager.ID,
			nameCol:              manager.Name,
			"escalated_to":       manager.ID,
			"escalated_category": string(category),
			"escalated_by_id":    escalatedBy.ID,
			"escalated_by_name":  escalatedBy.Name,
			"escalation_reason":  reason,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if err := r.exists(ctx, id); err != nil {
			return err
		}
		return domainerrors.ErrPreconditionFailed
	}
	return nil
}

// ApplyApprovalTransition applies a guarded approval-dimension update. The
// write only lands if the profile is still in one of the expected source
// statuses and, for moderator decisions, the actor still holds the
// approval slot. A lost race on either guard surfaces as
// ErrPreconditionFailed with no partial mutation.
func (r *ProfileRepository) ApplyApprovalTransition(ctx context.Context, id uuid.UUID, tr domainRepos.ApprovalTransition) error {
	updates := map[string]interface{}{
		"approval_status": string(tr.To),
		"updated_at":      time.Now(),
	}
	for k, v := range tr.Apply {
		updates[k] = v
	}
	from := make([]string, 0, len(tr.FromStatuses))
	for _, s := range tr.FromStatuses {
		from = append(from, string(s))
	}
	db := GetDB(ctx, r.db)
	q := db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Where("approval_status IN ?", from)
	if tr.OwnerID != nil {
		q = q.Where("approval_owner_id = ?", *tr.OwnerID)
	}
	result := q.Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if err := r.exists(ctx, id); err != nil {
			return err
		}
		return domainerrors.ErrPreconditionFailed
	}
	return nil
}

// Suspend sets the suspension flag, guarded on the profile not already
// being suspended
func (r *ProfileRepository) Suspend(ctx context.Context, id uuid.UUID, reason string) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Where("suspended = ?", false).
		Updates(map[string]interface{}{
			"suspended":         true,
			"suspension_reason": reason,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if err := r.exists(ctx, id); err != nil {
			return err
		}
		return domainerrors.ErrPreconditionFailed
	}
	return nil
}

// Reinstate clears the suspension flag, guarded on the profile being
// suspended
func (r *ProfileRepository) Reinstate(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Where("suspended = ?", true).
		Updates(map[string]interface{}{
			"suspended":         false,
			"suspension_reason": nil,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if err := r.exists(ctx, id); err != nil {
			return err
		}
		return domainerrors.ErrPreconditionFailed
	}
	return nil
}

// SubmitAppeal opens an appeal, guarded on eligibility: no prior appeal in
// this cycle, and the profile rejected or suspended
func (r *ProfileRepository) SubmitAppeal(ctx context.Context, id uuid.UUID, message string) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Where("appeal_status = ?", string(entities.AppealStatusNone)).
		Where("approval_status = ? OR suspended = ?", string(entities.ApprovalStatusRejected), true).
		Updates(map[string]interface{}{
			"appeal_status":       string(entities.AppealStatusPending),
			"appeal_message":      message,
			"appeal_submitted_at": time.Now(),
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if err := r.exists(ctx, id); err != nil {
			return err
		}
		return domainerrors.ErrAppealNotEligible
	}
	return nil
}

// ResolveAppeal closes a pending appeal, guarded on the resolver still
// holding the approval slot. Approval reverses whichever punishment the
// appeal was against: a suspension is lifted, a rejection becomes an
// approval. The CASE expressions read pre-update values, so both reversals
// ride in the same conditional write.
func (r *ProfileRepository) ResolveAppeal(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, approved bool, denialReason string) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if approved {
		updates["appeal_status"] = string(entities.AppealStatusApproved)
		updates["appeal_message"] = nil
		updates["approval_status"] = gorm.Expr(
			"CASE WHEN approval_status = ? THEN ? ELSE approval_status END",
			string(entities.ApprovalStatusRejected), string(entities.ApprovalStatusApproved))
		updates["rejection_reason"] = gorm.Expr(
			"CASE WHEN approval_status = ? THEN NULL ELSE rejection_reason END",
			string(entities.ApprovalStatusRejected))
		updates["suspended"] = gorm.Expr(
			"CASE WHEN suspended = ? THEN ? ELSE suspended END", true, false)
		updates["suspension_reason"] = gorm.Expr(
			"CASE WHEN suspended = ? THEN NULL ELSE suspension_reason END", true)
	} else {
		updates["appeal_status"] = string(entities.AppealStatusDenied)
		updates["appeal_denial_reason"] = denialReason
	}
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Where("appeal_status = ?", string(entities.AppealStatusPending)).
		Where("approval_owner_id = ?", ownerID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if err := r.exists(ctx, id); err != nil {
			return err
		}
		return domainerrors.ErrPreconditionFailed
	}
	return nil
}

// SetRiskAssessment records the provider verdict and flags the profile for
// risk review in a single write
func (r *ProfileRepository) SetRiskAssessment(ctx context.Context, id uuid.UUID, assessment *entities.RiskAssessment) error {
	raw, err := json.Marshal(assessment)
	if err != nil {
		return err
	}
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"needs_risk_review": true,
			"risk_assessment":   string(raw),
			"risk_assessed_at":  time.Now(),
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ClearRiskReview closes the risk task and releases its owner atomically,
// guarded on the acting moderator still holding the risk slot
func (r *ProfileRepository) ClearRiskReview(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Where("needs_risk_review = ?", true).
		Where("risk_owner_id = ?", ownerID).
		Updates(map[string]interface{}{
			"needs_risk_review": false,
			"risk_owner_id":     nil,
			"risk_owner_name":   nil,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if err := r.exists(ctx, id); err != nil {
			return err
		}
		return domainerrors.ErrPreconditionFailed
	}
	return nil
}

// ListAwaitingAssessment returns profiles the scoring provider has not
// produced a verdict for yet
func (r *ProfileRepository) ListAwaitingAssessment(ctx context.Context, limit int) ([]*entities.Profile, error) {
	var ms []models.Profile
	q := r.db.WithContext(ctx).Where("risk_assessment IS NULL").Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.Profile, 0, len(ms))
	for i := range ms {
		out = append(out, r.toEntity(&ms[i]))
	}
	return out, nil
}

// ListStaleAssessments returns profiles flagged for risk review with no
// verdict past the retry window; these need operator attention
func (r *ProfileRepository) ListStaleAssessments(ctx context.Context, olderThan time.Time) ([]*entities.Profile, error) {
	var ms []models.Profile
	err := r.db.WithContext(ctx).
		Where("needs_risk_review = ?", true).
		Where("risk_assessment IS NULL").
		Where("updated_at < ?", olderThan).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]*entities.Profile, 0, len(ms))
	for i := range ms {
		out = append(out, r.toEntity(&ms[i]))
	}
	return out, nil
}

// DeleteByOwnerUserID hard-deletes a vendor's profile as part of the
// administrative purge
func (r *ProfileRepository) DeleteByOwnerUserID(ctx context.Context, ownerUserID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).Unscoped().
		Where("owner_user_id = ?", ownerUserID).
		Delete(&models.Profile{}).Error
}

func (r *ProfileRepository) exists(ctx context.Context, id uuid.UUID) error {
	var count int64
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) toModel(p *entities.Profile) *models.Profile {
	m := &models.Profile{
		ID:                  p.ID,
		OwnerUserID:         p.OwnerUserID,
		DisplayName:         p.DisplayName,
		ApprovalStatus:      string(p.ApprovalStatus),
		RejectionReason:     p.RejectionReason.Ptr(),
		ActionRequiredNotes: p.ActionRequiredNotes.Ptr(),
		ApprovedByID:        p.ApprovedByID,
		ApprovedByName:      p.ApprovedByName.Ptr(),
		ApprovedAt:          p.ApprovedAt,
		RejectedByID:        p.RejectedByID,
		RejectedByName:      p.RejectedByName.Ptr(),
		RejectedAt:          p.RejectedAt,
		Suspended:           p.Suspended,
		SuspensionReason:    p.SuspensionReason.Ptr(),
		AppealStatus:        string(p.AppealStatus),
		AppealMessage:       p.AppealMessage.Ptr(),
		AppealSubmittedAt:   p.AppealSubmittedAt,
		AppealDenialReason:  p.AppealDenialReason.Ptr(),
		NeedsRiskReview:     p.NeedsRiskReview,
		RiskAssessedAt:      p.RiskAssessedAt,
		ApprovalOwnerID:     p.ApprovalOwnerID,
		ApprovalOwnerName:   p.ApprovalOwnerName.Ptr(),
		RiskOwnerID:         p.RiskOwnerID,
		RiskOwnerName:       p.RiskOwnerName.Ptr(),
		EscalatedTo:         p.EscalatedTo,
		EscalatedByID:       p.EscalatedByID,
		EscalatedByName:     p.EscalatedByName.Ptr(),
		EscalationReason:    p.EscalationReason.Ptr(),
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
	if p.EscalatedCategory != nil {
		cat := string(*p.EscalatedCategory)
		m.EscalatedCategory = &cat
	}
	if p.RiskAssessment != nil {
		if raw, err := json.Marshal(p.RiskAssessment); err == nil {
			s := string(raw)
			m.RiskAssessment = &s
		}
	}
	return m
}

func (r *ProfileRepository) toEntity(m *models.Profile) *entities.Profile {
	p := &entities.Profile{
		ID:                  m.ID,
		OwnerUserID:         m.OwnerUserID,
		DisplayName:         m.DisplayName,
		ApprovalStatus:      entities.ApprovalStatus(m.ApprovalStatus),
		RejectionReason:     null.StringFromPtr(m.RejectionReason),
		ActionRequiredNotes: null.StringFromPtr(m.ActionRequiredNotes),
		ApprovedByID:        m.ApprovedByID,
		ApprovedByName:      null.StringFromPtr(m.ApprovedByName),
		ApprovedAt:          m.ApprovedAt,
		RejectedByID:        m.RejectedByID,
		RejectedByName:      null.StringFromPtr(m.RejectedByName),
		RejectedAt:          m.RejectedAt,
		Suspended:           m.Suspended,
		SuspensionReason:    null.StringFromPtr(m.SuspensionReason),
		AppealStatus:        entities.AppealStatus(m.AppealStatus),
		AppealMessage:       null.StringFromPtr(m.AppealMessage),
		AppealSubmittedAt:   m.AppealSubmittedAt,
		AppealDenialReason:  null.StringFromPtr(m.AppealDenialReason),
		NeedsRiskReview:     m.NeedsRiskReview,
		RiskAssessedAt:      m.RiskAssessedAt,
		ApprovalOwnerID:     m.ApprovalOwnerID,
		ApprovalOwnerName:   null.StringFromPtr(m.ApprovalOwnerName),
		RiskOwnerID:         m.RiskOwnerID,
		RiskOwnerName:       null.StringFromPtr(m.RiskOwnerName),
		EscalatedTo:         m.EscalatedTo,
		EscalatedByID:       m.EscalatedByID,
		EscalatedByName:     null.StringFromPtr(m.EscalatedByName),
		EscalationReason:    null.StringFromPtr(m.EscalationReason),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
	if m.EscalatedCategory != nil {
		cat := entities.TaskCategory(*m.EscalatedCategory)
		p.EscalatedCategory = &cat
	}
	if m.RiskAssessment != nil && *m.RiskAssessment != "" {
		var ra entities.RiskAssessment
		if err := json.Unmarshal([]byte(*m.RiskAssessment), &ra); err == nil {
			p.RiskAssessment = &ra
		}
	}
	return p
}
