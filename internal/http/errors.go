package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"eventmate/internal/service"
)

const (
	msgInvalidBody        = "Format data tidak valid"
	msgValidation         = "Data tidak valid"
	msgInvalidEventID     = "ID event tidak valid"
	msgEventNotFound      = "Event tidak ditemukan"
	msgAlreadyRegistered  = "Kamu sudah terdaftar di event ini"
	msgNotRegistered      = "Kamu belum daftar event ini"
	msgEventFull          = "Kuota event sudah penuh"
	msgUsernameTaken      = "Username sudah digunakan"
	msgInvalidCredentials = "Username atau password salah"
	msgUserNotFound       = "User tidak ditemukan"
	msgMissingToken       = "Token tidak ditemukan"
	msgInvalidToken       = "Token tidak valid"
	msgAdminOnly          = "Akses khusus admin"
	msgTooManyRequests    = "Terlalu banyak percobaan, coba lagi nanti"
	msgStorageDisabled    = "Penyimpanan ekspor belum dikonfigurasi"
	msgInternal           = "Terjadi kesalahan pada server"
)

// writeError maps service errors to status codes. Unknown errors are logged
// and answered with a generic 500.
func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"message": msgValidation, "errors": verr.Problems})
	case errors.Is(err, service.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": msgEventNotFound})
	case errors.Is(err, service.ErrAlreadyRegistered):
		c.JSON(http.StatusBadRequest, gin.H{"message": msgAlreadyRegistered})
	case errors.Is(err, service.ErrNotRegistered):
		c.JSON(http.StatusBadRequest, gin.H{"message": msgNotRegistered})
	case errors.Is(err, service.ErrEventFull):
		c.JSON(http.StatusBadRequest, gin.H{"message": msgEventFull})
	case errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"message": msgUsernameTaken})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": msgInvalidCredentials})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": msgUserNotFound})
	case errors.Is(err, service.ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": msgStorageDisabled})
	default:
		h.logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
	}
}
