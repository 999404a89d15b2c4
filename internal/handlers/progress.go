package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/nutradaily/internal/metrics"
	"github.com/localnerve/nutradaily/internal/models"
	"github.com/localnerve/nutradaily/internal/nutrition"
	"github.com/localnerve/nutradaily/internal/services"
	"github.com/localnerve/nutradaily/internal/types"
	"github.com/localnerve/nutradaily/internal/utils"
)

// CaloriesRequest is the body of POST /api/progress/calories.
// Without calories, the daily need is computed from age and activity level.
type CaloriesRequest struct {
	Calories      *int   `json:"calories,omitempty"`
	Age           int    `json:"age,omitempty"`
	ActivityLevel string `json:"activity_level,omitempty"`
}

// WaterRequest is the body of POST /api/progress/water
type WaterRequest struct {
	Liters types.FlexFloat64 `json:"liters"`
}

// EntryView is one line of the progress report
type EntryView struct {
	Date         string    `json:"date"`
	Calories     *int      `json:"calories,omitempty"`
	WaterLiters  float64   `json:"water_liters"`
	GoalWeightKG float64   `json:"goal_weight_kg"`
	CreatedAt    time.Time `json:"created_at"`
}

// WaterResponse reports the logged intake against the daily goal
type WaterResponse struct {
	Entry           EntryView `json:"entry"`
	WaterGoalLiters float64   `json:"water_goal_liters"`
	Progress        float64   `json:"progress"`
}

// ReportResponse is returned by GET /api/progress
type ReportResponse struct {
	Entries []EntryView `json:"entries"`
}

// ProgressHandler handles the calorie and water log routes
type ProgressHandler struct {
	Accounts *services.AccountStore
	Progress *services.ProgressLog
	Now      func() time.Time // nil means time.Now
}

func (h *ProgressHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// currentUser loads the signed-in user, writing the error response when it cannot
func (h *ProgressHandler) currentUser(c *fiber.Ctx, errorType string) (*models.User, error) {
	user, err := h.Accounts.GetByEmail(c.UserContext(), userEmail(c))
	if err != nil {
		return nil, serviceError(c, err, errorType)
	}
	if user == nil {
		return nil, utils.NotFoundResponse(c, "account not found")
	}
	return user, nil
}

// LogCalories handles POST /api/progress/calories
// @Summary Log today's calories
// @Description Log a calorie amount, or the computed daily need when only age is given
// @Tags Progress
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body CaloriesRequest true "Calories or age"
// @Success 201 {object} EntryView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /progress/calories [post]
func (h *ProgressHandler) LogCalories(c *fiber.Ctx) error {
	var req CaloriesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "logCalories")
	}

	user, err := h.currentUser(c, "logCalories")
	if user == nil {
		return err
	}

	var kcal int
	if req.Calories != nil {
		kcal = *req.Calories
	} else {
		if req.Age <= 0 {
			return badRequest(c, "logCalories")
		}
		level := user.ActivityLevel
		if req.ActivityLevel != "" {
			if level, err = models.ParseActivityLevel(req.ActivityLevel); err != nil {
				return badRequest(c, "logCalories")
			}
		}
		kcal = nutrition.DailyCalories(user.Gender, user.WeightKG, user.HeightCM, req.Age, level)
	}

	entry, err := h.Progress.LogCalories(c.UserContext(), user.Email, h.now(), kcal, user.WeightKG)
	if err != nil {
		return serviceError(c, err, "logCalories")
	}

	metrics.ProgressEntries.WithLabelValues("calories").Inc()
	return utils.SuccessResponse(c, entryView(*entry), fiber.StatusCreated)
}

// LogWater handles POST /api/progress/water
// @Summary Log water intake
// @Tags Progress
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body WaterRequest true "Liters drunk"
// @Success 201 {object} WaterResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /progress/water [post]
func (h *ProgressHandler) LogWater(c *fiber.Ctx) error {
	var req WaterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "logWater")
	}

	user, err := h.currentUser(c, "logWater")
	if user == nil {
		return err
	}

	liters := req.Liters.Float64()
	entry, err := h.Progress.LogWater(c.UserContext(), user.Email, h.now(), liters, user.WeightKG)
	if err != nil {
		return serviceError(c, err, "logWater")
	}

	metrics.ProgressEntries.WithLabelValues("water").Inc()
	goal := nutrition.WaterGoalLiters(user.WeightKG)
	return utils.SuccessResponse(c, WaterResponse{
		Entry:           entryView(*entry),
		WaterGoalLiters: goal,
		Progress:        nutrition.WaterProgress(liters, goal),
	}, fiber.StatusCreated)
}

// GetReport handles GET /api/progress
// @Summary Get recent progress entries
// @Tags Progress
// @Produce json
// @Security CookieAuth
// @Param limit query int false "Number of entries (default 14)"
// @Success 200 {object} ReportResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /progress [get]
func (h *ProgressHandler) GetReport(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", services.DefaultReportSize)

	entries, err := h.Progress.Recent(c.UserContext(), userEmail(c), limit)
	if err != nil {
		return serviceError(c, err, "getReport")
	}

	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, entryView(e))
	}
	return utils.SuccessResponse(c, ReportResponse{Entries: views}, fiber.StatusOK)
}

func entryView(e models.ProgressEntry) EntryView {
	return EntryView{
		Date:         models.Day(time.Time(e.Date)),
		Calories:     e.Calories,
		WaterLiters:  e.WaterLiters,
		GoalWeightKG: e.GoalWeightKG,
		CreatedAt:    e.CreatedAt,
	}
}
