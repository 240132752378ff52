package logger

import (
	"time"

	"explorerhub/internal/global"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// AuditAction is one entry of the audit trail.
type AuditAction struct {
	Action       string         `json:"action"`
	UserID       int64          `json:"user_id"`
	ResourceID   int64          `json:"resource_id"`
	ResourceType string         `json:"resource_type"`
	IP           string         `json:"ip"`
	UserAgent    string         `json:"user_agent"`
	Details      map[string]any `json:"details"`
	Timestamp    time.Time      `json:"timestamp"`
}

// LogAction writes an audit entry for the authenticated caller of c.
func LogAction(action string, c fiber.Ctx, details map[string]any) {
	if details == nil {
		details = make(map[string]any)
	}
	audit := AuditAction{
		Action:    action,
		IP:        c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
		Details:   details,
		Timestamp: time.Now(),
	}
	if uid, ok := c.Locals(global.LocalsUserID).(int64); ok {
		audit.UserID = uid
	}
	if rid, ok := details["resource_id"].(int64); ok {
		audit.ResourceID = rid
	}
	if rt, ok := details["resource_type"].(string); ok {
		audit.ResourceType = rt
	}
	if rid := requestID(c); rid != "" {
		audit.Details["request_id"] = rid
	}

	GetAuditLogger().WithFields(logrus.Fields{
		"action":        audit.Action,
		"user_id":       audit.UserID,
		"resource_id":   audit.ResourceID,
		"resource_type": audit.ResourceType,
		"ip":            audit.IP,
		"user_agent":    audit.UserAgent,
		"details":       audit.Details,
		"timestamp":     audit.Timestamp,
	}).Info("Audit log")
}

// LogCRUD records a create/update/delete on an entity.
func LogCRUD(operation string, resourceType string, resourceID int64, c fiber.Ctx, details map[string]any) {
	if details == nil {
		details = make(map[string]any)
	}
	details["operation"] = operation
	details["resource_type"] = resourceType
	details["resource_id"] = resourceID
	LogAction("crud_"+operation, c, details)
}

// LogAuth records signup and login events.
func LogAuth(action string, c fiber.Ctx, details map[string]any) {
	if details == nil {
		details = make(map[string]any)
	}
	details["auth_action"] = action
	LogAction("auth_"+action, c, details)
}
