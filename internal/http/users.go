package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventmate/internal/service"
)

type signUpRequest struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	AdminCode string `json:"adminCode"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// profileRequest leaves email untouched when the field is absent or null.
type profileRequest struct {
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
}

func (h *Handler) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidBody})
		return
	}

	user, err := h.users.SignUp(c.Request.Context(), service.SignUpInput{
		Name:      req.Name,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		AdminCode: req.AdminCode,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.logger.WithField("username", user.Username).WithField("role", user.Role.String()).Info("user signed up")
	c.JSON(http.StatusCreated, gin.H{
		"message": "User berhasil terdaftar",
		"userId":  user.ID,
		"role":    user.Role,
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidBody})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login berhasil",
		"token":   token,
		"user":    userToResponse(user),
	})
}

func (h *Handler) me(c *gin.Context) {
	claims, ok := authClaims(c)
	if !ok {
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userToResponse(user)})
}

func (h *Handler) updateMe(c *gin.Context) {
	claims, ok := authClaims(c)
	if !ok {
		return
	}
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidBody})
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), claims.UserID, service.ProfileInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profil berhasil diperbarui", "user": userToResponse(user)})
}
