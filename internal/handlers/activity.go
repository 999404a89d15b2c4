package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/nutradaily/internal/metrics"
	"github.com/localnerve/nutradaily/internal/models"
	"github.com/localnerve/nutradaily/internal/services"
	"github.com/localnerve/nutradaily/internal/utils"
)

// MarkResponse is returned by POST /api/streak
type MarkResponse struct {
	AlreadyMarked bool   `json:"alreadyMarked"`
	Date          string `json:"date"`
	Current       int    `json:"current"`
	Best          int    `json:"best"`
}

// StreakResponse is returned by GET /api/streak
type StreakResponse struct {
	Current int      `json:"current"`
	Best    int      `json:"best"`
	Days    []string `json:"days"`
}

// ActivityHandler handles the daily activity routes
type ActivityHandler struct {
	Ledger *services.ActivityLedger
	Now    func() time.Time // nil means time.Now
}

func (h *ActivityHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// MarkToday handles POST /api/streak
// @Summary Mark today as active
// @Description Record activity for today. Marking the same day again changes nothing.
// @Tags Activity
// @Produce json
// @Security CookieAuth
// @Success 200 {object} MarkResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /streak [post]
func (h *ActivityHandler) MarkToday(c *fiber.Ctx) error {
	email := userEmail(c)
	today := h.now()

	result, err := h.Ledger.MarkToday(c.UserContext(), email, today)
	if err != nil {
		return serviceError(c, err, "markToday")
	}
	if result.AlreadyMarked {
		metrics.DayMarks.WithLabelValues("repeat").Inc()
	} else {
		metrics.DayMarks.WithLabelValues("new").Inc()
	}

	stats, err := h.Ledger.ComputeStreaks(c.UserContext(), email)
	if err != nil {
		return serviceError(c, err, "markToday")
	}

	return utils.SuccessResponse(c, MarkResponse{
		AlreadyMarked: result.AlreadyMarked,
		Date:          models.Day(today),
		Current:       stats.Current,
		Best:          stats.Best,
	}, fiber.StatusOK)
}

// GetStreak handles GET /api/streak
// @Summary Get streak statistics
// @Tags Activity
// @Produce json
// @Security CookieAuth
// @Success 200 {object} StreakResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /streak [get]
func (h *ActivityHandler) GetStreak(c *fiber.Ctx) error {
	email := userEmail(c)

	stats, err := h.Ledger.ComputeStreaks(c.UserContext(), email)
	if err != nil {
		return serviceError(c, err, "getStreak")
	}
	days, err := h.Ledger.Days(c.UserContext(), email)
	if err != nil {
		return serviceError(c, err, "getStreak")
	}
	if days == nil {
		days = []string{}
	}

	return utils.SuccessResponse(c, StreakResponse{
		Current: stats.Current,
		Best:    stats.Best,
		Days:    days,
	}, fiber.StatusOK)
}
