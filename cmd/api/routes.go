package main

import (
	"context"
	"net/http"

	"taskteam/internal/authz"
	"taskteam/internal/httpapi"
	"taskteam/internal/rbac"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, az *authz.Service, ready func(context.Context) error) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		if ready != nil {
			if err := ready(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/auth/login", h.Login)

	// everything below needs a resolved caller
	api := r.Group("/")
	api.Use(authz.Authenticate(az))
	{
		api.GET("/me", h.Me)

		usersGroup := api.Group("/users")
		{
			usersGroup.POST("", rbac.RequireAnyRole(rbac.RoleAdmin), h.CreateUser)
			usersGroup.GET("/:id", rbac.RequireAnyRole(rbac.RoleAdmin, rbac.RoleManager), h.GetUser)
			usersGroup.PUT("/:id", rbac.RequireAnyRole(rbac.RoleAdmin), h.UpdateUser)
			usersGroup.DELETE("/:id", rbac.RequireAnyRole(rbac.RoleAdmin), h.DeleteUser)
		}

		tasksGroup := api.Group("/tasks")
		{
			tasksGroup.POST("", rbac.RequireAnyRole(rbac.RoleManager, rbac.RoleAdmin), h.CreateTask)
			tasksGroup.GET("/:id", rbac.RequireAnyRole(rbac.AllRoles()...), h.GetTask)
			tasksGroup.PATCH("/:id/status", authz.RequireTaskMutation(az, "id"), h.UpdateTaskStatus)
		}
	}
}
