package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"writers-api/internal/service"
	"writers-api/internal/validation"
)

const registeredMessage = "an email confirmation message have been sent to the email you provide, please click on the link to activate your account"

func (h *Handler) login(c *gin.Context) {
	in, err := readInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_credentials"})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), strings.TrimSpace(stringField(in, "email")), stringField(in, "password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_credentials"})
			return
		}
		h.internalError(c, err, "authenticate")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", user.ID).Error("issue token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could_not_create_token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) register(c *gin.Context) {
	in, err := readInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody.Error()})
		return
	}

	reg, errs := validation.ValidateRegistration(in)
	if _, emailFailed := errs["email"]; !emailFailed {
		taken, err := h.users.EmailTaken(c.Request.Context(), reg.Email)
		if err != nil {
			h.internalError(c, err, "check email uniqueness")
			return
		}
		if taken {
			errs.Add("email", emailTakenMessage)
		}
	}
	if !errs.Empty() {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	user, err := h.users.Register(c.Request.Context(), reg)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, validation.Errors{"email": {emailTakenMessage}})
			return
		}
		h.internalError(c, err, "register user")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", user.ID).Error("issue token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could_not_create_token"})
		return
	}

	h.logger.WithField("user_id", user.ID).Info("user registered")
	c.JSON(http.StatusCreated, gin.H{
		"user":    userToResponse(*user),
		"message": registeredMessage,
		"token":   token,
	})
}

const emailTakenMessage = "The email has already been taken."

func (h *Handler) authenticatedUser(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userToResponse(*user)})
}

// verifyEmail checks the signed link before looking at the user id, so a
// tampered link never reveals whether an id exists.
func (h *Handler) verifyEmail(c *gin.Context) {
	if !h.signer.Valid(c.Request.URL.Path, c.Request.URL.Query(), h.now()) {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Invalid/Expired url provided."})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
		return
	}

	if err := h.users.MarkEmailVerified(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
			return
		}
		h.internalError(c, err, "mark email verified")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) resendVerification(c *gin.Context) {
	err := h.users.ResendVerification(c.Request.Context(), c.GetInt64(ctxUserID))
	var throttled *service.ThrottledError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"msg": "Email verification link sent on your email id"})
	case errors.Is(err, service.ErrAlreadyVerified):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Email already verified."})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
	case errors.As(err, &throttled):
		retryAfter := int(math.Ceil(throttled.RetryAfter.Seconds()))
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.JSON(http.StatusTooManyRequests, gin.H{"msg": "Too many verification requests.", "retry_after": retryAfter})
	default:
		h.internalError(c, err, "resend verification")
	}
}
