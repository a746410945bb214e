package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/my-order-link/restaurant-app/models"
	"github.com/my-order-link/restaurant-app/utils"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Login -> staff credential check, returns the bearer token and role.
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, utils.CodeUnauthenticated,
			errors.New("invalid username or password"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, utils.CodeUnauthenticated,
			errors.New("invalid username or password"))
		return
	}

	token, err := utils.GenerateToken(user.Username, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}

	utils.InfoLogger.Printf("Login: %s (role=%s)", user.Username, user.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"role":  user.Role,
	})
}

// ChangePassword -> admin resets any account after re-proving their own
// password.
func (uc *UserController) ChangePassword(c *gin.Context) {
	var body struct {
		Username        string `json:"username" binding:"required"`
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
		ConfirmPassword string `json:"confirm_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, err)
		return
	}
	if body.NewPassword != body.ConfirmPassword {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation,
			errors.New("new passwords do not match"))
		return
	}
	if len(body.NewPassword) < 6 {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation,
			errors.New("new password must be at least 6 characters"))
		return
	}

	operatorName, _ := c.Get("username")
	var operator models.User
	if err := uc.DB.Where("username = ?", operatorName).First(&operator).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, utils.CodeUnauthenticated, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(body.CurrentPassword)); err != nil {
		utils.RespondError(c, http.StatusForbidden, utils.CodeUnauthorized,
			errors.New("your current password is incorrect"))
		return
	}

	var target models.User
	if err := uc.DB.Where("username = ?", body.Username).First(&target).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.CodeNotFound,
			errors.New("target user not found"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}
	target.PasswordHash = string(hashed)
	if err := uc.DB.Save(&target).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}

	utils.InfoLogger.Printf("Password changed for %s by %v", target.Username, operatorName)
	utils.RespondJSON(c, http.StatusOK, "Password changed", nil)
}
