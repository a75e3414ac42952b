package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kaiwacoach/kaiwa-backend/internal/common"
)

func (h *Handler) GetStreak(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	res, err := h.AnalyticsSvc.Streak(c.Request.Context(), uid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50020, "failed to compute streak")
		return
	}
	common.OK(c, res)
}

// GetMonthlyReport recomputes the report for the requested period and
// returns it; rerunning is idempotent.
func (h *Handler) GetMonthlyReport(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10004, "invalid year")
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		common.Fail(c, http.StatusBadRequest, 10005, "invalid month")
		return
	}
	if year < 2000 || year > time.Now().Year()+1 {
		common.Fail(c, http.StatusBadRequest, 10004, "invalid year")
		return
	}

	rep, err := h.AnalyticsSvc.MonthlyReport(c.Request.Context(), uid, year, month)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50021, "failed to build report")
		return
	}
	common.OK(c, rep)
}

func (h *Handler) GetRecommendations(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	recs, err := h.AnalyticsSvc.Recommendations(c.Request.Context(), uid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50022, "failed to rank recommendations")
		return
	}
	common.OK(c, gin.H{"recommendations": recs})
}

type scoreGoalReq struct {
	Target float64 `json:"target" binding:"required"`
}

func (h *Handler) PutScoreGoal(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req scoreGoalReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Target <= 0 {
		common.Fail(c, http.StatusBadRequest, 10006, "invalid target")
		return
	}

	if err := h.AnalyticsSvc.SetScoreGoal(c.Request.Context(), uid, req.Target); err != nil {
		common.Fail(c, http.StatusInternalServerError, 50023, "failed to set score goal")
		return
	}
	common.OK(c, nil)
}

func (h *Handler) GetScoreGoal(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	goal, err := h.AnalyticsSvc.GetScoreGoal(c.Request.Context(), uid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50024, "failed to get score goal")
		return
	}
	common.OK(c, goal)
}
