package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-dashboard/internal/domain/models"
	"github.com/mamadbah2/inventory-dashboard/internal/server/middleware"
	"github.com/mamadbah2/inventory-dashboard/internal/service/auth"
)

// Authenticator is the account surface used by the auth pages.
type Authenticator interface {
	SignUp(ctx context.Context, username, password string) (models.User, error)
	Login(ctx context.Context, username, password string) (models.User, error)
	IssueToken(user models.User) (string, time.Time, error)
}

// AuthHandler serves sign-up, login and logout.
type AuthHandler struct {
	svc          Authenticator
	secureCookie bool
	logger       *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter.
func NewAuthHandler(svc Authenticator, secureCookie bool, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, secureCookie: secureCookie, logger: logger}
}

// ShowSignup renders the registration form.
func (h *AuthHandler) ShowSignup(c *gin.Context) {
	render(c, http.StatusOK, "signup.html", page{Title: "Sign up"})
}

// SignUp registers the user and starts a session.
func (h *AuthHandler) SignUp(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.svc.SignUp(c.Request.Context(), username, password)
	switch {
	case errors.Is(err, auth.ErrUserExists):
		render(c, http.StatusConflict, "signup.html", page{Title: "Sign up", Username: username, Error: "That username is already taken."})
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		render(c, http.StatusBadRequest, "signup.html", page{Title: "Sign up", Username: username, Error: "Username and password are required."})
		return
	case err != nil:
		h.logger.Error("sign up failed", zap.Error(err))
		render(c, http.StatusInternalServerError, "signup.html", page{Title: "Sign up", Username: username, Error: "Could not create the account."})
		return
	}

	h.startSession(c, user, "signup.html")
}

// ShowLogin renders the login form.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "login.html", page{Title: "Log in"})
}

// Login checks the credentials and starts a session.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")

	user, err := h.svc.Login(c.Request.Context(), username, c.PostForm("password"))
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.logger.Info("login rejected", zap.String("username", username))
		render(c, http.StatusUnauthorized, "login.html", page{Title: "Log in", Username: username, Error: "Invalid username or password."})
		return
	}
	if err != nil {
		h.logger.Error("login failed", zap.Error(err))
		render(c, http.StatusInternalServerError, "login.html", page{Title: "Log in", Username: username, Error: "Could not log in."})
		return
	}

	h.startSession(c, user, "login.html")
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) startSession(c *gin.Context, user models.User, formPage string) {
	token, expires, err := h.svc.IssueToken(user)
	if err != nil {
		h.logger.Error("failed issuing session token", zap.Error(err))
		render(c, http.StatusInternalServerError, formPage, page{Title: "Log in", Error: "Could not start a session."})
		return
	}

	maxAge := int(time.Until(expires).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusFound, "/dashboard")
}
