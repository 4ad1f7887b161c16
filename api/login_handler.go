package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikann/photo-gallery/api/common"
	"github.com/mikann/photo-gallery/internal/auth"
	"github.com/mikann/photo-gallery/utils"
)

// LoginHandler serves the session endpoints.
type LoginHandler struct {
	loginService *auth.LoginService
	sessions     *auth.SessionService
	cookieName   string
}

func NewLoginHandler(loginService *auth.LoginService, sessions *auth.SessionService, cookieName string) *LoginHandler {
	return &LoginHandler{
		loginService: loginService,
		sessions:     sessions,
		cookieName:   cookieName,
	}
}

type userAuthRequestBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Create   bool   `json:"create"`
}

// LoginHandlerFunc authenticates a username/password pair and sets the
// session cookie. With create set, an unknown username registers a new
// account instead.
func (h *LoginHandler) LoginHandlerFunc(c *gin.Context) {
	var req userAuthRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.loginService.Login(req.Username, req.Password, req.Create)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			common.RespondError(c, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, auth.ErrUsernameTaken):
			common.RespondError(c, http.StatusConflict, "Username is already taken")
		default:
			log.Printf("Login failed for %s: %v", utils.SanitizeLogUsername(req.Username), err)
			common.RespondError(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	token, expiry, err := h.sessions.Issue(user.ID, user.Username)
	if err != nil {
		log.Printf("Failed to issue session for %s: %v", utils.SanitizeLogUsername(user.Username), err)
		common.RespondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.setSessionCookie(c, token, int(time.Until(expiry).Seconds()))
	common.RespondSuccessMessage(c, "Login successful", gin.H{"username": user.Username})
}

// LogoutHandlerFunc clears the session cookie.
func (h *LoginHandler) LogoutHandlerFunc(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	common.RespondSuccessMessage(c, "Logout successful", nil)
}

func (h *LoginHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	cookie := http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		MaxAge:   maxAge,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(c.Writer, &cookie)
}
