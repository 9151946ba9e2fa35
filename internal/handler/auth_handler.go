package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sitecms/internal/service"
)

const (
	sessionAdminID       = "admin_id"
	sessionAdminUsername = "admin_username"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// Login 校验管理员账号并写入会话。
func (a *API) Login(c *gin.Context) {
	var payload loginRequest
	if !bindJSON(c, &payload, "username and password are required") {
		return
	}

	admin, err := a.services.Admins.Authenticate(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "invalid username or password")
			return
		}
		handleServiceError(c, err, "admin not found")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionAdminID, admin.ID)
	session.Set(sessionAdminUsername, admin.Username)
	if err := session.Save(); err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "logged in",
		"admin":   gin.H{"id": admin.ID, "username": admin.Username},
	})
}

// Logout 清空会话。
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		_ = c.Error(err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the admin bound to the current session.
func (a *API) Me(c *gin.Context) {
	id, ok := currentAdminID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not logged in")
		return
	}
	session := sessions.Default(c)
	c.JSON(http.StatusOK, gin.H{
		"admin": gin.H{"id": id, "username": session.Get(sessionAdminUsername)},
	})
}

// ChangePassword 修改当前管理员密码。
func (a *API) ChangePassword(c *gin.Context) {
	id, ok := currentAdminID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not logged in")
		return
	}
	var payload passwordRequest
	if !bindJSON(c, &payload, "current and new password are required") {
		return
	}

	err := a.services.Admins.ChangePassword(c.Request.Context(), id, payload.CurrentPassword, payload.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusBadRequest, "current password is incorrect")
			return
		}
		handleServiceError(c, err, "admin not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// AuthRequired 拦截未登录的后台请求。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentAdminID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

func currentAdminID(c *gin.Context) (uint, bool) {
	switch v := sessions.Default(c).Get(sessionAdminID).(type) {
	case uint:
		return v, v != 0
	case int:
		return uint(v), v > 0
	case int64:
		return uint(v), v > 0
	case float64:
		return uint(v), v > 0
	default:
		return 0, false
	}
}
