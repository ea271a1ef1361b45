package middleware

import (
	"context"

	"github.com/lexleague/lexleague-backend/internal/auth"
	"github.com/lexleague/lexleague-backend/internal/domain"
	"github.com/lexleague/lexleague-backend/pkg/ctxutil"
)

// RequireTeacher returns domain.ErrForbidden unless the context caller is a
// teacher or admin. Use in REST handlers, not as HTTP middleware.
func RequireTeacher(ctx context.Context) error {
	switch ctxutil.RoleFromCtx(ctx) {
	case auth.RoleTeacher, auth.RoleAdmin:
		return nil
	default:
		return domain.ErrForbidden
	}
}
