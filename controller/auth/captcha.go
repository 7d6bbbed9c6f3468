package auth

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotelbooking/dto"
	"hotelbooking/services"
)

func CaptchaController(router *gin.Engine, verifier services.CaptchaVerifier) {
	routes := router.Group("/auth")
	{
		routes.POST("/captcha", func(c *gin.Context) {
			VerifyCaptcha(c, verifier)
		})
	}
}

func VerifyCaptcha(c *gin.Context, verifier services.CaptchaVerifier) {
	var req dto.CaptchaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request format",
		})
		return
	}

	result, err := verifier.Assess(c.Request.Context(), req.Token, req.Action, getClientIP(c), c.Request.UserAgent())
	if err != nil {
		log.Printf("verify reCAPTCHA: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error",
		})
		return
	}

	if result == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "reCAPTCHA verification failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"score":   result.Score,
		"action":  result.Action,
		"reasons": result.Reasons,
		"message": "Captcha verified successfully",
	})
}

// getClientIP ถ้ามีหลาย IP ให้ใช้ตัวแรก
func getClientIP(c *gin.Context) string {
	userIPAddress := c.ClientIP()
	if userIPAddress == "" {
		userIPAddress = c.Request.RemoteAddr
	}
	if idx := strings.Index(userIPAddress, ","); idx != -1 {
		userIPAddress = strings.TrimSpace(userIPAddress[:idx])
	}
	return userIPAddress
}
