package resp

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelbooking/services"
)

// messageErrors are returned to the client verbatim.
var messageErrors = []error{
	services.ErrMissingFields,
	services.ErrPasswordMismatch,
	services.ErrInvalidEmail,
	services.ErrEmailInUse,
	services.ErrUserNotFound,
	services.ErrWrongPassword,
}

// Error writes err as a JSON error. Known errors map to a client status;
// anything else is logged with op and answered with a generic message.
func Error(c *gin.Context, op string, err error) {
	for _, known := range messageErrors {
		if errors.Is(err, known) {
			status := http.StatusBadRequest
			switch known {
			case services.ErrUserNotFound, services.ErrWrongPassword:
				status = http.StatusUnauthorized
			case services.ErrEmailInUse:
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"error": known.Error()})
			return
		}
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyVerified):
		c.JSON(http.StatusConflict, gin.H{"error": "Your account is already verified"})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrTokenRevoked):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token is invalid or revoked"})
	default:
		log.Printf("%s: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + op})
	}
}

func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// UserID is the authenticated user set by the access token middleware.
func UserID(c *gin.Context) string {
	return c.GetString("userId")
}
