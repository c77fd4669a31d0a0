package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"signup-relay/pkg/models"
	"signup-relay/pkg/pages"
	"signup-relay/pkg/services"
)

const htmlContentType = "text/html; charset=utf-8"

// Handlers contains all HTTP handlers for the relay
type Handlers struct {
	signupService services.SignupService
	pages         *pages.Pages
	logger        *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(signupService services.SignupService, docs *pages.Pages, logger *zap.Logger) *Handlers {
	return &Handlers{
		signupService: signupService,
		pages:         docs,
		logger:        logger,
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// SignupPage serves the signup form
func (h *Handlers) SignupPage(c *gin.Context) {
	c.Data(http.StatusOK, htmlContentType, h.pages.Signup)
}

// SubmitSignup relays the form to the mailing list and answers with the
// success or failure page
func (h *Handlers) SubmitSignup(c *gin.Context) {
	var form models.SignupForm
	if err := c.ShouldBindWith(&form, binding.FormPost); err != nil {
		// PostForm still holds every pair that decoded cleanly, so the
		// submission goes upstream with what could be read
		h.logger.Warn("malformed signup form", zap.Error(err))
		form = models.SignupForm{
			FirstName: c.Request.PostForm.Get("fname"),
			LastName:  c.Request.PostForm.Get("lname"),
			Email:     c.Request.PostForm.Get("email"),
		}
	}

	// The upstream call runs to completion even if the browser goes away
	ctx := context.WithoutCancel(c.Request.Context())

	switch h.signupService.Submit(ctx, form) {
	case services.OutcomeSuccess:
		c.Data(http.StatusOK, htmlContentType, h.pages.Success)
	default:
		c.Data(http.StatusOK, htmlContentType, h.pages.Failure)
	}
}

// RetrySignup sends the visitor from the failure page back to the form
func (h *Handlers) RetrySignup(c *gin.Context) {
	c.Redirect(http.StatusFound, "/")
}
