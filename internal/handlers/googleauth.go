package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// RegisterGoogleAuthRoutes wires the Google OAuth consent flow used to
// authorize analytics access.
//
// GET /auth/google          (authed) — returns the consent URL
// GET /auth/google/callback (public) — exchanges the code for tokens
//
// The callback is public because Google redirects the operator's browser
// there without any dashboard credentials.
func RegisterGoogleAuthRoutes(authed gin.IRoutes, public gin.IRoutes, oauthCfg *oauth2.Config) {
	authed.GET("/auth/google", func(c *gin.Context) {
		state := uuid.New().String()
		url := oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
		c.JSON(http.StatusOK, gin.H{"url": url, "state": state})
	})

	public.GET("/auth/google/callback", func(c *gin.Context) {
		code := c.Query("code")
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code required"})
			return
		}

		token, err := oauthCfg.Exchange(c.Request.Context(), code)
		if err != nil {
			log.Printf("google token exchange failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token exchange failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"access_token":  token.AccessToken,
			"refresh_token": token.RefreshToken,
			"expiry":        token.Expiry,
		})
	})
}
