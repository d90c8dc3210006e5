package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-bracket/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Имена JWT claims
const (
	jwtClaimUserID = "user_id"
	jwtClaimRole   = "role"
)

var errNoClaims = errors.New("user claims not found in context")

// stringClaim достает строковый claim из токена, сохраненного Authenticate.
func stringClaim(ctx context.Context, name string) (string, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", errNoClaims
	}
	raw, ok := claims[name]
	if !ok {
		return "", fmt.Errorf("missing %q claim in token", name)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("claim %q must be a string, got %T", name, raw)
	}
	return value, nil
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	raw, err := stringClaim(ctx, jwtClaimUserID)
	if err != nil {
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(raw)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("claim %q is not a user ID: %q", jwtClaimUserID, raw)
	}
	return userID, nil
}

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	raw, err := stringClaim(ctx, jwtClaimRole)
	if err != nil {
		return "", err
	}
	switch role := models.UserRole(raw); role {
	case models.RoleAdmin, models.RoleOrganizer, models.RolePlayer:
		return role, nil
	default:
		return "", fmt.Errorf("unknown role %q in token", raw)
	}
}
