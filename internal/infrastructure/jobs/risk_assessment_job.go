package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"vendor-hub.backend/internal/config"
	"vendor-hub.backend/internal/domain/entities"
	domainerrors "vendor-hub.backend/internal/domain/errors"
	"vendor-hub.backend/pkg/logger"
)

const assessmentBatchSize = 100

type riskAssessor interface {
	Assess(ctx context.Context, profile *entities.Profile) (*entities.RiskAssessment, error)
}

// assessmentStore is the slice of the profile repository the job needs
type assessmentStore interface {
	ListAwaitingAssessment(ctx context.Context, limit int) ([]*entities.Profile, error)
	ListStaleAssessments(ctx context.Context, olderThan time.Time) ([]*entities.Profile, error)
	SetRiskAssessment(ctx context.Context, id uuid.UUID, assessment *entities.RiskAssessment) error
}

// RiskAssessmentJob polls for profiles that still lack a risk verdict and
// requests one from the scoring provider. Provider failures are retried
// with backoff inside one tick and picked up again on the next.
type RiskAssessmentJob struct {
	repo        assessmentStore
	assessor    riskAssessor
	interval    time.Duration
	maxRetries  int
	backoff     time.Duration
	staleWindow time.Duration
	stop        chan struct{}
}

func NewRiskAssessmentJob(repo assessmentStore, assessor riskAssessor, cfg config.RiskConfig) *RiskAssessmentJob {
	return &RiskAssessmentJob{
		repo:        repo,
		assessor:    assessor,
		interval:    cfg.PollInterval,
		maxRetries:  cfg.MaxRetries,
		backoff:     cfg.RetryBackoff,
		staleWindow: cfg.StaleWindow,
		stop:        make(chan struct{}),
	}
}

func (j *RiskAssessmentJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting risk assessment job",
		zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "risk assessment job stopped")
			return
		case <-j.stop:
			logger.Info(ctx, "risk assessment job stopped")
			return
		case <-ticker.C:
			j.processAwaiting(ctx)
			j.reportStale(ctx)
		}
	}
}

func (j *RiskAssessmentJob) Stop() {
	close(j.stop)
}

func (j *RiskAssessmentJob) processAwaiting(ctx context.Context) {
	profiles, err := j.repo.ListAwaitingAssessment(ctx, assessmentBatchSize)
	if err != nil {
		logger.Error(ctx, "failed to list profiles awaiting assessment", zap.Error(err))
		return
	}
	if len(profiles) == 0 {
		return
	}

	assessed := 0
	for _, p := range profiles {
		assessment, err := j.assessWithRetry(ctx, p)
		if err != nil {
			logger.Warn(ctx, "risk assessment failed, will retry next tick",
				zap.String("profile_id", p.ID.String()),
				zap.Error(err))
			continue
		}
		if err := j.repo.SetRiskAssessment(ctx, p.ID, assessment); err != nil {
			logger.Error(ctx, "failed to store risk assessment",
				zap.String("profile_id", p.ID.String()),
				zap.Error(err))
			continue
		}
		assessed++
	}
	logger.Info(ctx, "risk assessment batch done",
		zap.Int("pending", len(profiles)),
		zap.Int("assessed", assessed))
}

func (j *RiskAssessmentJob) assessWithRetry(ctx context.Context, p *entities.Profile) (*entities.RiskAssessment, error) {
	var lastErr error
	for attempt := 0; attempt <= j.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(j.backoff):
			}
		}
		assessment, err := j.assessor.Assess(ctx, p)
		if err == nil {
			return assessment, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// reportStale surfaces profiles stuck without a verdict past the stale
// window so an operator can intervene
func (j *RiskAssessmentJob) reportStale(ctx context.Context) {
	stale, err := j.repo.ListStaleAssessments(ctx, time.Now().Add(-j.staleWindow))
	if err != nil {
		logger.Error(ctx, "failed to list stale assessments", zap.Error(err))
		return
	}
	for _, p := range stale {
		logger.Warn(ctx, "risk assessment overdue",
			zap.String("profile_id", p.ID.String()),
			zap.String("display_name", p.DisplayName),
			zap.Duration("stale_window", j.staleWindow),
			zap.Error(domainerrors.ErrStaleAssessment))
	}
}
