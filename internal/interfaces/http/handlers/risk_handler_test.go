package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"vendor-hub.backend/internal/domain/entities"
)

func riskRouter(f *handlerFixture, u *entities.User) *gin.Engine {
	r := gin.New()
	g := r.Group("", asUser(u))
	g.POST("/profiles/:id/risk/assessment", f.riskHandler.IngestAssessment)
	g.POST("/profiles/:id/risk/complete", f.riskHandler.CompleteReview)
	g.POST("/profiles/:id/risk/suspend", f.riskHandler.SuspendFromReview)
	g.POST("/profiles/:id/risk/unassign", f.riskHandler.UnassignReview)
	g.POST("/risk/trigger", f.riskHandler.TriggerAssessments)
	return r
}

func TestRiskHandler_IngestFlagsProfile(t *testing.T) {
	f := newHandlerFixture()
	vendor := f.seedUser("Ana Vendor", entities.UserRoleVendor)
	moderator := f.seedUser("Mia Moderator", entities.UserRoleModerator)
	profile := f.seedProfile(vendor, func(p *entities.Profile) {
		p.ApprovalStatus = entities.ApprovalStatusApproved
	})

	w := doJSON(t, riskRouter(f, moderator), http.MethodPost,
		"/profiles/"+profile.ID.String()+"/risk/assessment", map[string]interface{}{
			"score":    82,
			"label":    "high",
			"summary":  "multiple chargeback reports",
			"redFlags": []string{"chargebacks", "mismatched address"},
		})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	fresh, err := f.profiles.GetByID(context.Background(), profile.ID)
	require.NoError(t, err)
	require.True(t, fresh.NeedsRiskReview)
	require.Equal(t, 82, fresh.RiskAssessment.Score)
	// approval state is untouched by the risk dimension
	require.Equal(t, entities.ApprovalStatusApproved, fresh.ApprovalStatus)
}

func TestRiskHandler_IngestRejectsOutOfRangeScore(t *testing.T) {
	f := newHandlerFixture()
	vendor := f.seedUser("Ana Vendor", entities.UserRoleVendor)
	moderator := f.seedUser("Mia Moderator", entities.UserRoleModerator)
	profile := f.seedProfile(vendor, nil)

	w := doJSON(t, riskRouter(f, moderator), http.MethodPost,
		"/profiles/"+profile.ID.String()+"/risk/assessment",
		map[string]interface{}{"score": 101, "label": "high"})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), "between 0 and 100")
}

func TestRiskHandler_IngestUnknownProfile(t *testing.T) {
	f := newHandlerFixture()
	moderator := f.seedUser("Mia Moderator", entities.UserRoleModerator)

	w := doJSON(t, riskRouter(f, moderator), http.MethodPost,
		"/profiles/8a1ef6ce-25a1-4e38-9f94-0d52616a3b9c/risk/assessment",
		map[string]interface{}{"score": 10, "label": "low"})
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestRiskHandler_CompleteReviewClosesTask(t *testing.T) {
	f := newHandlerFixture()
	vendor := f.seedUser("Ana Vendor", entities.UserRoleVendor)
	moderator := f.seedUser("Mia Moderator", entities.UserRoleModerator)
	profile := f.seedProfile(vendor, func(p *entities.Profile) {
		p.NeedsRiskReview = true
		p.RiskAssessment = &entities.RiskAssessment{Score: 35, Label: "low"}
		mid := moderator.ID
		p.RiskOwnerID = &mid
		p.RiskOwnerName = null.StringFrom(moderator.Name)
	})

	r := riskRouter(f, moderator)
	w := doJSON(t, r, http.MethodPost, "/profiles/"+profile.ID.String()+"/risk/complete", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	snapshot := decodeSnapshot(t, w)
	require.False(t, snapshot.Profile.NeedsRiskReview)
	require.Nil(t, snapshot.Profile.RiskOwnerID)
	require.Contains(t, f.audits.actions(), entities.AuditProfileReviewed)

	// the task is gone; completing again has nothing to close
	w = doJSON(t, r, http.MethodPost, "/profiles/"+profile.ID.String()+"/risk/complete", nil)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

func TestRiskHandler_SuspendFromReview(t *testing.T) {
	f := newHandlerFixture()
	vendor := f.seedUser("Ana Vendor", entities.UserRoleVendor)
	moderator := f.seedUser("Mia Moderator", entities.UserRoleModerator)
	profile := f.seedProfile(vendor, func(p *entities.Profile) {
		p.ApprovalStatus = entities.ApprovalStatusApproved
		p.NeedsRiskReview = true
		mid := moderator.ID
		p.RiskOwnerID = &mid
		p.RiskOwnerName = null.StringFrom(moderator.Name)
	})

	w := doJSON(t, riskRouter(f, moderator), http.MethodPost,
		"/profiles/"+profile.ID.String()+"/risk/suspend",
		map[string]string{"reason": "fraud indicators"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	snapshot := decodeSnapshot(t, w)
	require.Equal(t, entities.EffectiveStatusSuspended, snapshot.EffectiveStatus)
	require.False(t, snapshot.Profile.NeedsRiskReview)

	delivered := f.notifications.byUser(vendor.ID)
	require.Len(t, delivered, 1)
	require.Equal(t, entities.NotificationAccountSuspended, delivered[0].Type)
}

func TestRiskHandler_TriggerAssessments(t *testing.T) {
	f := newHandlerFixture()
	moderator := f.seedUser("Mia Moderator", entities.UserRoleModerator)
	vendorA := f.seedUser("Ana Vendor", entities.UserRoleVendor)
	vendorB := f.seedUser("Ben Vendor", entities.UserRoleVendor)
	f.seedProfile(vendorA, nil)
	f.seedProfile(vendorB, func(p *entities.Profile) {
		p.RiskAssessment = &entities.RiskAssessment{Score: 5, Label: "low"}
	})

	w := doJSON(t, riskRouter(f, moderator), http.MethodPost, "/risk/trigger", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), `"started":1`)
}
