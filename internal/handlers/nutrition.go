package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/nutradaily/internal/models"
	"github.com/localnerve/nutradaily/internal/nutrition"
	"github.com/localnerve/nutradaily/internal/services"
	"github.com/localnerve/nutradaily/internal/utils"
)

// NutritionResponse is the calculator summary for the signed-in user
type NutritionResponse struct {
	BMR             float64 `json:"bmr,omitempty"`
	DailyCalories   int     `json:"daily_calories,omitempty"`
	WaterGoalLiters float64 `json:"water_goal_liters"`
	WaterProgress   float64 `json:"water_progress"`
	WeeksToGoal     float64 `json:"weeks_to_goal"`
	BMI             float64 `json:"bmi,omitempty"`
	BMICategory     string  `json:"bmi_category,omitempty"`
}

// NutritionHandler serves the calculators over the signed-in profile
type NutritionHandler struct {
	Accounts *services.AccountStore
}

// GetNutrition handles GET /api/nutrition
// @Summary Compute nutrition targets
// @Description Daily calories (needs age), water goal and progress, weeks to goal and BMI
// @Tags Nutrition
// @Produce json
// @Security CookieAuth
// @Param age query int false "Age in years"
// @Param activity query string false "Activity level override (Low, Moderate, High)"
// @Param intake query number false "Water drunk today in liters"
// @Param goalWeight query number false "Goal weight in kg"
// @Param weeklyChange query number false "Planned weight change per week in kg"
// @Success 200 {object} NutritionResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /nutrition [get]
func (h *NutritionHandler) GetNutrition(c *fiber.Ctx) error {
	user, err := h.Accounts.GetByEmail(c.UserContext(), userEmail(c))
	if err != nil {
		return serviceError(c, err, "getNutrition")
	}
	if user == nil {
		return utils.NotFoundResponse(c, "account not found")
	}

	age := c.QueryInt("age", 0)
	intake := c.QueryFloat("intake", 0)
	goalWeight := c.QueryFloat("goalWeight", user.WeightKG)
	weeklyChange := c.QueryFloat("weeklyChange", 0)
	if age < 0 || intake < 0 || goalWeight < 0 || weeklyChange < 0 {
		return badRequest(c, "getNutrition")
	}

	level := user.ActivityLevel
	if q := c.Query("activity"); q != "" {
		if level, err = models.ParseActivityLevel(q); err != nil {
			return badRequest(c, "getNutrition")
		}
	}

	resp := NutritionResponse{
		WaterGoalLiters: nutrition.WaterGoalLiters(user.WeightKG),
		WeeksToGoal:     nutrition.WeeksToGoal(user.WeightKG, goalWeight, weeklyChange),
	}
	resp.WaterProgress = nutrition.WaterProgress(intake, resp.WaterGoalLiters)
	if age > 0 {
		resp.BMR = nutrition.BMR(user.Gender, user.WeightKG, user.HeightCM, age)
		resp.DailyCalories = nutrition.DailyCalories(user.Gender, user.WeightKG, user.HeightCM, age, level)
	}
	if bmi, err := nutrition.BMI(user.HeightCM, user.WeightKG); err == nil {
		resp.BMI = bmi
		resp.BMICategory = nutrition.BMICategory(bmi)
	}

	return utils.SuccessResponse(c, resp, fiber.StatusOK)
}
