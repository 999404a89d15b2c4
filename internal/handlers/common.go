// common.go
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
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/nutradaily/internal/middleware"
	"github.com/localnerve/nutradaily/internal/services"
	"github.com/localnerve/nutradaily/internal/store"
	"github.com/localnerve/nutradaily/internal/types"
	"github.com/localnerve/nutradaily/internal/utils"
)

// userEmail returns the email the auth middleware stored for this request
func userEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(middleware.EmailKey).(string)
	return email
}

// serviceError maps a service error onto a short message and status.
// Storage details are logged, never returned to the client.
func serviceError(c *fiber.Ctx, err error, errorType string) error {
	var storageErr *store.StorageError
	switch {
	case errors.Is(err, services.ErrValidation):
		return utils.ErrorResponse(c, services.ErrValidation.Error(), fiber.StatusBadRequest, errorType)
	case errors.Is(err, services.ErrDuplicateEmail):
		return utils.ErrorResponse(c, services.ErrDuplicateEmail.Error(), fiber.StatusConflict, errorType)
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFoundResponse(c, "account not found")
	case errors.As(err, &storageErr):
		log.Printf("%s: %v", errorType, err)
		return utils.ErrorResponse(c, "storage unavailable", fiber.StatusInternalServerError, errorType)
	default:
		log.Printf("%s: %v", errorType, err)
		return utils.ErrorResponse(c, "internal error", fiber.StatusInternalServerError, errorType)
	}
}

// badRequest rejects a body or query that could not be parsed
func badRequest(c *fiber.Ctx, errorType string) error {
	return utils.ErrorResponse(c, services.ErrValidation.Error(), fiber.StatusBadRequest, errorType)
}

// ErrorHandler handles errors globally
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	// Check if it's a Fiber error
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Check for our own errors
	var ce *types.CustomError
	if errors.As(err, &ce) {
		code = ce.Code
		message = ce.Message
		errorType = ce.Type
	}

	if code == fiber.StatusInternalServerError {
		log.Printf("Unhandled error on %s: %v", c.OriginalURL(), err)
		message = "internal error"
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
