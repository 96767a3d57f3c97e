package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"taskteam/internal/audit"
	"taskteam/internal/auth"
	"taskteam/internal/rbac"
	"taskteam/internal/tasks"
	"taskteam/internal/users"
	"taskteam/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
// Authentication and role gates run as middleware before these.
type Handlers struct {
	Auth  *auth.Authenticator
	Users *users.Service
	Tasks *tasks.Service
	Audit *audit.Service
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges email and password for a token. Unknown email and wrong
// password produce the same 401.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	ctx := c.Request.Context()
	res, ok, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		internalError(c, "login failed", err)
		return
	}
	if !ok {
		h.Audit.LoginFailed(ctx, c.ClientIP())
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	h.Audit.LoginSucceeded(ctx, res.UserID, res.Role.String(), c.ClientIP())
	c.JSON(http.StatusOK, res)
}

// Me returns the resolved caller.
func (h Handlers) Me(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, caller)
}

// --- Users ---

type createUserRequest struct {
	FullName string     `json:"full_name" binding:"required"`
	Email    string     `json:"email" binding:"required,email"`
	Password string     `json:"password" binding:"required"`
	Role     *rbac.Role `json:"role" binding:"required"`
}

func (h Handlers) CreateUser(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "full_name, email, password and role required"})
		return
	}

	u, err := h.Users.Create(c.Request.Context(), users.NewUser{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     *req.Role,
	})
	switch {
	case errors.Is(err, users.ErrEmailTaken):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	case errors.Is(err, users.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid user"})
		return
	case err != nil:
		internalError(c, "create user failed", err)
		return
	}

	h.Audit.UserCreated(c.Request.Context(), caller.ID, caller.Role.String(), c.ClientIP(), u.ID)
	c.JSON(http.StatusCreated, u)
}

func (h Handlers) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	u, found, err := h.Users.Get(c.Request.Context(), id)
	if err != nil {
		internalError(c, "get user failed", err)
		return
	}
	if !found {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

type updateUserRequest struct {
	FullName *string    `json:"full_name"`
	Email    *string    `json:"email" binding:"omitempty,email"`
	Password *string    `json:"password"`
	Role     *rbac.Role `json:"role"`
}

// UpdateUser changes any subset of name, email, password and role.
// A new password replaces the stored hash.
func (h Handlers) UpdateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid user"})
		return
	}

	u, err := h.Users.Update(c.Request.Context(), id, users.Changes{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if !userWriteOK(c, err, "update user failed") {
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h Handlers) DeleteUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if !userWriteOK(c, h.Users.Delete(c.Request.Context(), id), "delete user failed") {
		return
	}
	c.Status(http.StatusNoContent)
}

func userWriteOK(c *gin.Context, err error, msg string) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, users.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, users.ErrEmailTaken):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "email already registered"})
	case errors.Is(err, users.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid user"})
	default:
		internalError(c, msg, err)
	}
	return false
}

// --- Tasks ---

type createTaskRequest struct {
	Title            string        `json:"title" binding:"required"`
	Description      string        `json:"description" binding:"required"`
	AssignedToUserID int64         `json:"assigned_to_user_id" binding:"required,gt=0"`
	TeamID           int64         `json:"team_id" binding:"required,gt=0"`
	DueDate          time.Time     `json:"due_date" binding:"required"`
	Status           *tasks.Status `json:"status"`
}

func (h Handlers) CreateTask(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid task"})
		return
	}

	ctx := c.Request.Context()
	if _, found, err := h.Users.Get(ctx, req.AssignedToUserID); err != nil {
		internalError(c, "assignee lookup failed", err)
		return
	} else if !found {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "assignee not found"})
		return
	}

	st := tasks.StatusTodo
	if req.Status != nil {
		st = *req.Status
	}
	t, err := h.Tasks.Create(ctx, tasks.Task{
		Title:            req.Title,
		Description:      req.Description,
		Status:           st,
		AssignedToUserID: req.AssignedToUserID,
		CreatedByUserID:  caller.ID,
		TeamID:           req.TeamID,
		DueDate:          req.DueDate,
	})
	if errors.Is(err, tasks.ErrInvalidArgument) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid task"})
		return
	}
	if err != nil {
		internalError(c, "create task failed", err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// GetTask returns a task. Employees only see tasks assigned to them; for them
// a missing task and somebody else's task both answer 403.
func (h Handlers) GetTask(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	t, found, err := h.Tasks.Get(c.Request.Context(), id)
	if err != nil {
		internalError(c, "get task failed", err)
		return
	}
	if caller.Role == rbac.RoleEmployee && (!found || t.AssignedToUserID != caller.ID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if !found {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

type updateStatusRequest struct {
	Status *tasks.Status `json:"status" binding:"required"`
}

// UpdateTaskStatus runs behind the task ownership gate.
func (h Handlers) UpdateTaskStatus(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "status must be one of Todo, InProgress, Done"})
		return
	}

	err := h.Tasks.UpdateStatus(c.Request.Context(), id, *req.Status)
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	case errors.Is(err, tasks.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	case err != nil:
		internalError(c, "update task status failed", err)
		return
	}

	h.Audit.TaskStatusChanged(c.Request.Context(), caller.ID, caller.Role.String(), c.ClientIP(), id, req.Status.String())
	c.JSON(http.StatusOK, gin.H{"id": id, "status": *req.Status})
}

// --- helpers ---

func callerOrAbort(c *gin.Context) (users.User, bool) {
	u, err := auth.CallerFromContext(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return users.User{}, false
	}
	return u, true
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func internalError(c *gin.Context, msg string, err error) {
	logger.FromGin(c).ErrorContext(c.Request.Context(), msg, "err", err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
