package services

import (
	"context"
	"strings"

	"github.com/charlesng35/hrms/internal/auditctx"
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

// actorFromContext returns the authenticated caller or ErrUnauthenticated.
func actorFromContext(ctx context.Context) (auditctx.Actor, error) {
	actor, ok := auditctx.FromContext(ctx)
	if !ok || actor.UserID == "" || actor.OrganisationID == "" {
		return auditctx.Actor{}, ErrUnauthenticated
	}
	return actor, nil
}

// trimIDs drops blank entries. Duplicates are kept so callers can compare against the
// number of ids actually requested.
func trimIDs(values []string) []string {
	var out []string
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}

func uniqueIDs(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

// optionalString trims the value and maps blank input to nil so the column is cleared.
func optionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
