package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sachpatra/internal/ads"
	"github.com/sachpatra/internal/db"
	"github.com/sachpatra/internal/service"
	"go.uber.org/zap"
)

type rolePayload struct {
	Role string `json:"role" binding:"required"`
}

// AdminListAds returns every advertisement, active or not.
func (a *API) AdminListAds(c *gin.Context) {
	items, err := a.ads.All(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load advertisements")
		return
	}
	c.JSON(http.StatusOK, paginate(c, items))
}

// AdminCreateAd stores a new advertisement.
func (a *API) AdminCreateAd(c *gin.Context) {
	var payload service.AdInput
	if !bindJSON(c, &payload, "invalid advertisement payload") {
		return
	}
	ad, err := a.ads.Create(c.Request.Context(), payload)
	if err != nil {
		a.respondAdError(c, err, "failed to create advertisement")
		return
	}
	c.JSON(http.StatusCreated, ad)
}

// AdminUpdateAd replaces an advertisement.
func (a *API) AdminUpdateAd(c *gin.Context) {
	var payload service.AdInput
	if !bindJSON(c, &payload, "invalid advertisement payload") {
		return
	}
	ad, err := a.ads.Update(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		a.respondAdError(c, err, "failed to update advertisement")
		return
	}
	c.JSON(http.StatusOK, ad)
}

// AdminDeleteAd removes an advertisement.
func (a *API) AdminDeleteAd(c *gin.Context) {
	if err := a.ads.Delete(c.Request.Context(), c.Param("id")); err != nil {
		a.respondAdError(c, err, "failed to delete advertisement")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *API) respondAdError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrAdNotFound):
		respondError(c, http.StatusNotFound, "advertisement not found")
	case errors.Is(err, service.ErrAdFieldsRequired),
		errors.Is(err, service.ErrInvalidAdDate),
		errors.Is(err, service.ErrInvalidAdWindow),
		errors.Is(err, ads.ErrInvalidPosition):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		a.logger.Error(fallback, zap.Error(err))
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

// AdminListUsers returns every profile.
func (a *API) AdminListUsers(c *gin.Context) {
	users, err := a.users.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load users")
		return
	}
	c.JSON(http.StatusOK, paginate(c, users))
}

// AdminCreateUser registers an account with any role.
func (a *API) AdminCreateUser(c *gin.Context) {
	var payload service.RegisterInput
	if !bindJSON(c, &payload, "invalid user payload") {
		return
	}
	user, err := a.users.Register(c.Request.Context(), currentCapabilities(c), payload)
	if err != nil {
		a.respondUserError(c, err, "failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// AdminChangeRole sets another user's role.
func (a *API) AdminChangeRole(c *gin.Context) {
	var payload rolePayload
	if !bindJSON(c, &payload, "role is required") {
		return
	}
	user, err := a.users.ChangeRole(c.Request.Context(), currentCapabilities(c), c.Param("id"), payload.Role)
	if err != nil {
		a.respondUserError(c, err, "failed to change role")
		return
	}
	c.JSON(http.StatusOK, user)
}

// AdminDeleteUser removes another user.
func (a *API) AdminDeleteUser(c *gin.Context) {
	if err := a.users.Delete(c.Request.Context(), currentCapabilities(c), c.Param("id")); err != nil {
		a.respondUserError(c, err, "failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *API) respondUserError(c *gin.Context, err error, fallback string) {
	if respondServiceError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrSelfRoleChange),
		errors.Is(err, service.ErrSelfDelete):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		a.logger.Error(fallback, zap.Error(err))
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

// AdminListComments lists comments; ?approved=true|false narrows the queue.
func (a *API) AdminListComments(c *gin.Context) {
	var approved *bool
	if raw := strings.TrimSpace(c.Query("approved")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "approved must be true or false")
			return
		}
		approved = &parsed
	}
	comments, err := a.comments.All(c.Request.Context(), approved)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load comments")
		return
	}
	c.JSON(http.StatusOK, paginate(c, comments))
}

// AdminApproveComment makes a comment visible.
func (a *API) AdminApproveComment(c *gin.Context) {
	a.setCommentApproval(c, true)
}

// AdminRejectComment hides a comment again.
func (a *API) AdminRejectComment(c *gin.Context) {
	a.setCommentApproval(c, false)
}

func (a *API) setCommentApproval(c *gin.Context, approved bool) {
	comment, err := a.comments.SetApproved(c.Request.Context(), c.Param("id"), approved)
	if err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			respondError(c, http.StatusNotFound, "comment not found")
			return
		}
		a.logger.Error("comment moderation failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to update comment")
		return
	}
	c.JSON(http.StatusOK, comment)
}

// AdminDeleteComment removes a comment.
func (a *API) AdminDeleteComment(c *gin.Context) {
	if err := a.comments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			respondError(c, http.StatusNotFound, "comment not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminListContacts lists contact submissions filtered by ?status= and ?type=.
func (a *API) AdminListContacts(c *gin.Context) {
	items, err := a.contacts.List(c.Request.Context(), service.ContactFilter{
		Status: c.Query("status"),
		Type:   c.Query("type"),
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load contact submissions")
		return
	}
	c.JSON(http.StatusOK, paginate(c, items))
}

// AdminUpdateContact changes status and admin notes.
func (a *API) AdminUpdateContact(c *gin.Context) {
	var payload service.ContactUpdate
	if !bindJSON(c, &payload, "invalid contact update") {
		return
	}
	submission, err := a.contacts.Update(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContactNotFound):
			respondError(c, http.StatusNotFound, "contact submission not found")
		case errors.Is(err, service.ErrContactStatusInvalid):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to update contact submission")
		}
		return
	}
	c.JSON(http.StatusOK, submission)
}

// AdminDeleteContact removes a contact submission.
func (a *API) AdminDeleteContact(c *gin.Context) {
	if err := a.contacts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			respondError(c, http.StatusNotFound, "contact submission not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete contact submission")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminStreamContacts pushes new submissions to the admin inbox as
// server-sent events until the client goes away.
func (a *API) AdminStreamContacts(c *gin.Context) {
	updates, cancel := a.contacts.Subscribe()
	defer cancel()

	// Streams outlive the server WriteTimeout.
	if err := http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		a.logger.Warn("failed to clear stream write deadline", zap.Error(err))
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()
	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case submission, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("contact", contactEvent(submission))
			return true
		}
	})
}

func contactEvent(s db.ContactSubmission) gin.H {
	return gin.H{
		"id":        s.ID,
		"name":      s.Name,
		"email":     s.Email,
		"type":      s.Type,
		"subject":   s.Subject,
		"status":    s.Status,
		"createdAt": s.CreatedAt,
	}
}
