package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"chefmarket-booking/types"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// Actor identifies the authenticated caller of an engine operation.
type Actor struct {
	ID   string
	Name string
	Role string
}

// ActorFromContext extracts the authenticated actor from the JWT claims the
// auth middleware attached to the request context.
func ActorFromContext(c *fiber.Ctx) (*Actor, error) {
	claims, ok := c.Locals("user").(map[string]interface{})
	if !ok {
		return nil, errors.New("invalid user claims")
	}

	id, ok := claims["uuid"].(string)
	if !ok || id == "" {
		return nil, errors.New("uuid not found in token")
	}

	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return nil, errors.New("role not found in token")
	}

	name, _ := claims["name"].(string)

	return &Actor{ID: id, Name: name, Role: role}, nil
}

// DaysUntilEvent computes the whole number of calendar days between "now"
// and the event's scheduled date. The result is negative when the event date
// has already passed. Rounding absorbs the odd-length days a DST shift
// produces, so the count always matches the calendar.
func DaysUntilEvent(nowTime, eventDate time.Time) int {
	today := now.With(nowTime).BeginningOfDay()
	eventDay := now.With(eventDate).BeginningOfDay()
	return int(math.Round(eventDay.Sub(today).Hours() / 24))
}

// sanitizeRequestBody truncates oversized request bodies before they are
// persisted to the audit log.
func sanitizeRequestBody(c *fiber.Ctx) string {
	contentType := c.Get("Content-Type")
	if strings.Contains(contentType, "multipart/form-data") {
		formData := make(map[string]interface{})
		if form, err := c.MultipartForm(); err == nil {
			for key, values := range form.Value {
				if len(values) > 0 {
					formData[key] = values[0]
				}
			}
		}
		if jsonBytes, err := json.Marshal(formData); err == nil {
			return string(jsonBytes)
		}
		return "[MULTIPART_FORM_DATA]"
	}

	body := string(c.Body())
	if len(body) > 10000 {
		return fmt.Sprintf("[TRUNCATED_REQUEST_BODY length=%d]", len(body))
	}
	return body
}

// CreateSanitizedLogEntry creates a deep copied and sanitized log entry for
// the async request logger.
func CreateSanitizedLogEntry(c *fiber.Ctx) types.LogEntry {
	// Deep copies prevent fasthttp buffer reuse from corrupting the entry
	// after the handler returns.
	method := string([]byte(c.Method()))
	url := string([]byte(c.OriginalURL()))
	requestBody := sanitizeRequestBody(c)
	responseBody := string(append([]byte(nil), c.Response().Body()...))

	requestHeaders := make([]byte, len(c.Request().Header.Header()))
	copy(requestHeaders, c.Request().Header.Header())

	responseHeaders := make([]byte, len(c.Response().Header.Header()))
	copy(responseHeaders, c.Response().Header.Header())

	return types.LogEntry{
		Method:          method,
		URL:             url,
		RequestBody:     requestBody,
		ResponseBody:    responseBody,
		RequestHeaders:  string(requestHeaders),
		ResponseHeaders: string(responseHeaders),
		StatusCode:      c.Response().StatusCode(),
		CreatedAt:       time.Now(),
	}
}
