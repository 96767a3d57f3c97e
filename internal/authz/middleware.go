package authz

import (
	"net/http"
	"strconv"

	"taskteam/internal/auth"
	"taskteam/internal/rbac"
	"taskteam/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Authenticate resolves the caller from the request headers.
// Requests without a resolvable caller are rejected with 401. On success the
// caller and its role are stored in the request context for later gates.
func Authenticate(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := s.ResolveCaller(c.Request.Context(), CredentialsFromHeader(c.Request.Header))
		if err != nil {
			logger.FromGin(c).ErrorContext(c.Request.Context(), "resolve caller failed", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if caller == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrUnauthenticated.Error()})
			return
		}

		ctx := auth.WithCaller(c.Request.Context(), *caller)
		ctx = rbac.WithRole(ctx, caller.Role)
		c.Request = c.Request.WithContext(ctx)
		logger.SetCaller(c, caller.ID, caller.Role.String())

		c.Next()
	}
}

// RequireTaskMutation applies the task ownership rule to the task id in the
// named path parameter. It must run after Authenticate.
//
//   - no caller -> 401
//   - bad id -> 400
//   - not allowed -> 403
func RequireTaskMutation(s *Service, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		caller, err := auth.CallerFromContext(ctx)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrUnauthenticated.Error()})
			return
		}
		taskID, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil || taskID <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
			return
		}

		d, err := s.decideTaskMutation(ctx, &caller, taskID)
		if err != nil {
			logger.FromGin(c).ErrorContext(ctx, "task ownership check failed", "err", err, "task_id", taskID)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if err := d.Err(); err != nil {
			c.AbortWithStatusJSON(HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}
