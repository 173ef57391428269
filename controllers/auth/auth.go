package authController

import (
	"log"
	"time"

	"learnit/database"
	"learnit/middleware"
	"learnit/models"
	"learnit/utils"
	"learnit/validators"
	authValidator "learnit/validators/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	maxFailedLogins   = 3
	failedLoginWindow = 15 * time.Minute
	loginLockDuration = time.Minute
)

func Signup(c *fiber.Ctx) error {
	reqData, ok := validators.Validated[authValidator.SignupRequest](c, "validatedUser")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := utils.HashPassword(reqData.Password)
	if err != nil {
		utils.LogError("hash password", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: hashedPassword,
		Role:     reqData.Role,
	}

	if err := db.Create(&newUser).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
		}
		utils.LogError("create user", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	utils.SendWelcomeEmail(newUser.Email, newUser.Name)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

func Login(c *fiber.Ctx) error {
	reqData, ok := validators.Validated[authValidator.LoginRequest](c, "validatedLogin")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		if !utils.IsNotFound(err) {
			utils.LogError("load user for login", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if user.IsBlocked {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Your account has been blocked!", nil)
	}

	now := time.Now()
	if user.LockedUntil != nil && user.LockedUntil.After(now) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Your account is temporarily locked. Try again later.", nil)
	}

	// Failures older than the window no longer count
	if user.LastFailedLogin != nil && now.Sub(*user.LastFailedLogin) > failedLoginWindow {
		user.FailedLoginAttempts = 0
	}

	if !utils.CheckPassword(user.Password, reqData.Password) {
		updates := map[string]interface{}{
			"failed_login_attempts": user.FailedLoginAttempts + 1,
			"last_failed_login":     now,
		}
		if user.FailedLoginAttempts+1 >= maxFailedLogins {
			updates["failed_login_attempts"] = 0
			updates["locked_until"] = now.Add(loginLockDuration)
			log.Printf("[AUTH] user %d locked after %d failed logins", user.ID, maxFailedLogins)
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			utils.LogError("record failed login", err)
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Updates(map[string]interface{}{
			"failed_login_attempts": 0,
			"last_failed_login":     nil,
			"locked_until":          nil,
			"last_login":            now,
		}).Error; err != nil {
			return err
		}
		return tx.Create(&models.LoginTracking{
			UserID:    user.ID,
			IPAddress: utils.ClientIP(c),
			UserAgent: c.Get(fiber.HeaderUserAgent),
			LoggedAt:  now,
		}).Error
	})
	if err != nil {
		utils.LogError("record login", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		utils.LogError("generate token", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	user.LastLogin = &now
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

func LoginHistory(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	page, limit, offset := validators.Paging(c)

	query := database.Database.Db.Model(&models.LoginTracking{}).Where("user_id = ?", userId).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("count login history", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch login history!", nil)
	}

	var history []models.LoginTracking
	if err := query.Order("logged_at DESC").Offset(offset).Limit(limit).Find(&history).Error; err != nil {
		utils.LogError("fetch login history", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch login history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login history fetched successfully.", fiber.Map{
		"history":    history,
		"pagination": middleware.Pagination(total, page, limit),
	})
}

// Logout revokes the presented token until it would have expired anyway
func Logout(c *fiber.Ctx) error {
	token, _ := c.Locals("token").(string)
	exp, _ := c.Locals("tokenExp").(time.Time)

	if database.Redis != nil && token != "" {
		ttl := time.Until(exp)
		if ttl <= 0 {
			ttl = time.Minute
		}
		if err := database.Redis.Set(c.UserContext(), middleware.BlacklistKey(token), 1, ttl).Err(); err != nil {
			utils.LogError("blacklist token", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to logout!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out successfully.", nil)
}

func ChangePassword(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData, ok := validators.Validated[authValidator.ChangePasswordRequest](c, "validatedPassword")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, userId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if !utils.CheckPassword(user.Password, reqData.OldPassword) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Old password is incorrect!", nil)
	}

	hashed, err := utils.HashPassword(reqData.NewPassword)
	if err != nil {
		utils.LogError("hash password", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	if err := db.Model(&user).Update("password", hashed).Error; err != nil {
		utils.LogError("update password", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to change password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password changed successfully.", nil)
}
