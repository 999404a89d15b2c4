// accounts.go
//
// NuTraDaily, a nutrition and daily activity tracking service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of nutradaily.
// nutradaily is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// nutradaily is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with nutradaily.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/nutradaily/internal/metrics"
	"github.com/localnerve/nutradaily/internal/models"
	"github.com/localnerve/nutradaily/internal/nutrition"
	"github.com/localnerve/nutradaily/internal/services"
	"github.com/localnerve/nutradaily/internal/types"
	"github.com/localnerve/nutradaily/internal/utils"
)

// SignupRequest is the body of POST /api/accounts
type SignupRequest struct {
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	Password      string            `json:"password"`
	HeightCM      types.FlexFloat64 `json:"height_cm"`
	WeightKG      types.FlexFloat64 `json:"weight_kg"`
	Gender        string            `json:"gender"`
	ActivityLevel string            `json:"activity_level"`
	Goal          string            `json:"goal"`
}

// LoginRequest is the body of POST /api/session
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateRequest is the body of PATCH /api/account. Omitted fields are left unchanged.
type UpdateRequest struct {
	Email         *string            `json:"email,omitempty"`
	Name          *string            `json:"name,omitempty"`
	Password      *string            `json:"password,omitempty"`
	HeightCM      *types.FlexFloat64 `json:"height_cm,omitempty"`
	WeightKG      *types.FlexFloat64 `json:"weight_kg,omitempty"`
	Gender        *string            `json:"gender,omitempty"`
	ActivityLevel *string            `json:"activity_level,omitempty"`
	Goal          *string            `json:"goal,omitempty"`
}

// AccountResponse is a user profile with its derived body metrics
type AccountResponse struct {
	*models.User
	BMI             float64 `json:"bmi,omitempty"`
	BMICategory     string  `json:"bmi_category,omitempty"`
	WaterGoalLiters float64 `json:"water_goal_liters"`
}

// SessionResponse is returned on login
type SessionResponse struct {
	Ok        bool            `json:"ok"`
	Token     string          `json:"token"`
	ExpiresAt string          `json:"expires_at"`
	User      AccountResponse `json:"user"`
}

// AccountHandler handles signup, login and profile routes
type AccountHandler struct {
	Accounts *services.AccountStore
	Sessions *services.SessionIssuer
}

// Signup handles POST /api/accounts
// @Summary Create an account
// @Description Register a new user. The email must not be registered yet.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param body body SignupRequest true "Signup form"
// @Success 201 {object} AccountResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /accounts [post]
func (h *AccountHandler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		metrics.Signups.WithLabelValues("invalid").Inc()
		return badRequest(c, "signup")
	}

	user, err := h.Accounts.CreateUser(c.UserContext(), services.NewUser{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		HeightCM:      req.HeightCM.Float64(),
		WeightKG:      req.WeightKG.Float64(),
		Gender:        req.Gender,
		ActivityLevel: req.ActivityLevel,
		Goal:          req.Goal,
	})
	if err != nil {
		metrics.Signups.WithLabelValues(signupResult(err)).Inc()
		return serviceError(c, err, "signup")
	}

	metrics.Signups.WithLabelValues("created").Inc()
	return utils.SuccessResponse(c, accountResponse(user), fiber.StatusCreated)
}

// Login handles POST /api/session
// @Summary Log in
// @Description Check the credentials and set the session cookie
// @Tags Accounts
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /session [post]
func (h *AccountHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "login")
	}

	user, err := h.Accounts.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		return serviceError(c, err, "login")
	}
	if user == nil {
		metrics.Logins.WithLabelValues("rejected").Inc()
		return utils.ErrorResponse(c, "invalid credentials", fiber.StatusUnauthorized, "login")
	}

	token, err := h.Sessions.Issue(user.Email)
	if err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		return serviceError(c, err, "login")
	}

	expires := time.Now().Add(h.Sessions.TTL())
	c.Cookie(&fiber.Cookie{
		Name:     services.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	metrics.Logins.WithLabelValues("accepted").Inc()
	return utils.SuccessResponse(c, SessionResponse{
		Ok:        true,
		Token:     token,
		ExpiresAt: expires.UTC().Format(time.RFC3339),
		User:      accountResponse(user),
	}, fiber.StatusOK)
}

// Logout handles DELETE /api/session
// @Summary Log out
// @Description Clear the session cookie
// @Tags Accounts
// @Success 204
// @Router /session [delete]
func (h *AccountHandler) Logout(c *fiber.Ctx) error {
	clearSession(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// GetAccount handles GET /api/account
// @Summary Get the signed-in profile
// @Tags Accounts
// @Produce json
// @Security CookieAuth
// @Success 200 {object} AccountResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /account [get]
func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	user, err := h.Accounts.GetByEmail(c.UserContext(), userEmail(c))
	if err != nil {
		return serviceError(c, err, "getAccount")
	}
	if user == nil {
		return utils.NotFoundResponse(c, "account not found")
	}

	return utils.SuccessResponse(c, accountResponse(user), fiber.StatusOK)
}

// UpdateAccount handles PATCH /api/account
// @Summary Update the signed-in profile
// @Description Merge the given fields into the profile. The email cannot change.
// @Tags Accounts
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body UpdateRequest true "Fields to change"
// @Success 200 {object} AccountResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /account [patch]
func (h *AccountHandler) UpdateAccount(c *fiber.Ctx) error {
	email := userEmail(c)

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "updateAccount")
	}
	if req.Email != nil && *req.Email != email {
		return utils.ErrorResponse(c, "email cannot be changed", fiber.StatusBadRequest, "updateAccount")
	}

	err := h.Accounts.UpdateUser(c.UserContext(), email, services.UserUpdate{
		Name:          req.Name,
		Password:      req.Password,
		HeightCM:      req.HeightCM.Ptr(),
		WeightKG:      req.WeightKG.Ptr(),
		Gender:        req.Gender,
		ActivityLevel: req.ActivityLevel,
		Goal:          req.Goal,
	})
	if err != nil {
		return serviceError(c, err, "updateAccount")
	}

	return h.GetAccount(c)
}

// DeleteAccount handles DELETE /api/account
// @Summary Delete the signed-in account
// @Tags Accounts
// @Security CookieAuth
// @Success 204
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /account [delete]
func (h *AccountHandler) DeleteAccount(c *fiber.Ctx) error {
	if err := h.Accounts.DeleteUser(c.UserContext(), userEmail(c)); err != nil {
		return serviceError(c, err, "deleteAccount")
	}

	clearSession(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func accountResponse(user *models.User) AccountResponse {
	resp := AccountResponse{
		User:            user,
		WaterGoalLiters: nutrition.WaterGoalLiters(user.WeightKG),
	}
	if bmi, err := nutrition.BMI(user.HeightCM, user.WeightKG); err == nil {
		resp.BMI = bmi
		resp.BMICategory = nutrition.BMICategory(bmi)
	}
	return resp
}

func clearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     services.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func signupResult(err error) string {
	switch {
	case errors.Is(err, services.ErrDuplicateEmail):
		return "duplicate"
	case errors.Is(err, services.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
