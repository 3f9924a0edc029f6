package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sachpatra/internal/access"
	"github.com/sachpatra/internal/db"
	"github.com/sachpatra/internal/service"
	"go.uber.org/zap"
)

const (
	sessionUserKey  = "user_id"
	userContextKey  = "__user"
	capsContextKey  = "__capabilities"
	unauthorizedURL = "/admin/unauthorized"
)

type loginPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type profilePayload struct {
	DisplayName string `json:"displayName" binding:"required"`
}

// Login checks credentials and starts a session.
func (a *API) Login(c *gin.Context) {
	var payload loginPayload
	if !bindJSON(c, &payload, "email and password are required") {
		return
	}

	user, err := a.users.Authenticate(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		a.logger.Error("login failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "login failed")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "capabilities": access.For(user)})
}

// Logout ends the session.
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		c.Error(err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Register creates an account. Only a signed-in admin may hand out the admin role.
func (a *API) Register(c *gin.Context) {
	var payload service.RegisterInput
	if !bindJSON(c, &payload, "invalid registration payload") {
		return
	}

	creator, err := a.sessionUser(c)
	if err != nil {
		a.logger.Warn("session lookup failed", zap.Error(err))
	}

	user, err := a.users.Register(c.Request.Context(), access.For(creator), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			respondError(c, http.StatusConflict, "email already registered")
		case errors.Is(err, service.ErrInvalidEmail),
			errors.Is(err, service.ErrPasswordTooShort),
			errors.Is(err, service.ErrInvalidRole):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			a.logger.Error("registration failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "registration failed")
		}
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Me returns the signed-in profile and its capabilities.
func (a *API) Me(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": user, "capabilities": currentCapabilities(c)})
}

// UpdateMe changes the signed-in user's display name.
func (a *API) UpdateMe(c *gin.Context) {
	var payload profilePayload
	if !bindJSON(c, &payload, "display name is required") {
		return
	}
	user, err := a.users.UpdateDisplayName(c.Request.Context(), currentUser(c).ID, payload.DisplayName)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

// RequireTier rejects anonymous requests with 401 and insufficient roles with
// 403 plus a redirect hint for the admin console.
func (a *API) RequireTier(tier access.Tier) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := a.sessionUser(c)
		if err != nil {
			a.logger.Error("session lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		caps := access.For(user)
		if !caps.Allows(tier) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "insufficient permissions",
				"redirect": unauthorizedURL,
			})
			return
		}
		c.Set(userContextKey, user)
		c.Set(capsContextKey, caps)
		c.Next()
	}
}

// sessionUser resolves the session's profile; nil when signed out or when
// the account no longer exists.
func (a *API) sessionUser(c *gin.Context) (*db.User, error) {
	if cached, ok := c.Get(userContextKey); ok {
		if user, ok := cached.(*db.User); ok {
			return user, nil
		}
	}
	id, _ := sessions.Default(c).Get(sessionUserKey).(string)
	if id == "" {
		return nil, nil
	}
	user, err := a.users.EnsureProfile(c.Request.Context(), id)
	if errors.Is(err, service.ErrUserNotFound) {
		return nil, nil
	}
	return user, err
}

func currentUser(c *gin.Context) *db.User {
	if value, ok := c.Get(userContextKey); ok {
		if user, ok := value.(*db.User); ok {
			return user
		}
	}
	return &db.User{}
}

func currentCapabilities(c *gin.Context) access.Capabilities {
	if value, ok := c.Get(capsContextKey); ok {
		if caps, ok := value.(access.Capabilities); ok {
			return caps
		}
	}
	return access.Capabilities{}
}

// respondServiceError maps shared sentinel errors; it reports false when the
// error was not recognised.
func respondServiceError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions", "redirect": unauthorizedURL})
	default:
		return false
	}
	return true
}
