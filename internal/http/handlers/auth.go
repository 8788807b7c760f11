package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ardian/klinikhub/internal/auth"
	"github.com/ardian/klinikhub/internal/config"
	"github.com/ardian/klinikhub/internal/domain/user"
	"github.com/ardian/klinikhub/internal/http/middlewares"
	"github.com/ardian/klinikhub/internal/security"
	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

type AuthHandler struct {
	users UserReader
	jwt   *auth.Manager
	cfg   config.Config
}

func NewAuthHandler(users UserReader, jwtManager *auth.Manager, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwtManager,
		cfg:   cfg,
	}
}

func (h *AuthHandler) LoginForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login exchanges form credentials for a session cookie. Failures re-render
// the form with a static message; there is no lockout and no attempt
// counting.
func (h *AuthHandler) Login(ctx *gin.Context) {
	username := ctx.PostForm("username")
	password := ctx.PostForm("password")

	// short timeout for the lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByUsername(cctx, username)

	if err != nil {
		h.rejectLogin(ctx)
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, password)

	if err != nil {
		h.rejectLogin(ctx)
		return
	}

	token, err := h.jwt.GenerateToken(foundUser.Username, foundUser.Role)

	if err != nil {
		RenderErrorPage(ctx, http.StatusInternalServerError, "Could not create session")
		return
	}

	h.setSessionCookie(ctx, token)
	ctx.Redirect(http.StatusSeeOther, "/dashboard")
}

// Logout clears the cookie unconditionally; nothing is tracked server-side,
// so there is nothing else to invalidate.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.clearSessionCookie(ctx)
	ctx.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandler) rejectLogin(ctx *gin.Context) {
	// unknown username and wrong password are indistinguishable on purpose
	ctx.HTML(http.StatusOK, "login.html", gin.H{
		"Error": "Invalid username or password",
	})
}

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, token string) {
	secure := h.cfg.Env == "prod"

	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		middlewares.SessionCookie,
		token,
		int(h.jwt.TTL().Seconds()), // cookie max-age matches the token expiry
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearSessionCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		middlewares.SessionCookie,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
