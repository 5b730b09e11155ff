package handlers

import (
	"net/http"
	"strings"
	"time"

	"devicedesk/config"
	"devicedesk/services/session"
	"devicedesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler issues and revokes login tokens against the fixed user list
// from configuration.
type AuthHandler struct {
	Sessions session.Store
}

func NewAuthHandler(sessions session.Store) *AuthHandler {
	return &AuthHandler{Sessions: sessions}
}

// LoginHandler verifies username/password and returns a bearer token. The
// token's hash is stored server-side so logout can revoke it.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	cred, ok := findUser(input.Username)
	if !ok || bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(input.Password)) != nil {
		// Same response for unknown user and bad password.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	ttl := time.Duration(config.AppConfig.SessionTTLHours) * time.Hour
	token, err := utils.GenerateToken(cred.Username, ttl)
	if err != nil {
		utils.GetLogger().Error("Failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed, please try again"})
		return
	}

	sess := session.Session{Username: cred.Username, CreatedAt: time.Now()}
	if err := h.Sessions.Save(c.Request.Context(), utils.HashToken(token), sess, ttl); err != nil {
		utils.GetLogger().Error("Failed to save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed, please try again"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username": cred.Username,
		"token":    token,
	})
}

// LogoutHandler revokes the presented token. It sits behind the auth
// middleware, so the token is known to be valid here.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if err := h.Sessions.Delete(c.Request.Context(), utils.HashToken(tokenString)); err != nil {
		utils.GetLogger().Error("Failed to delete session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed, please try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func findUser(username string) (config.UserCredential, bool) {
	for _, cred := range config.AppConfig.Users {
		if cred.Username == username {
			return cred, true
		}
	}
	return config.UserCredential{}, false
}
