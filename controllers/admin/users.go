package adminController

import (
	"log"
	"strings"

	"learnit/database"
	"learnit/middleware"
	"learnit/models"
	"learnit/utils"
	"learnit/validators"
	adminValidator "learnit/validators/admin"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func UserList(c *fiber.Ctx) error {
	reqData, ok := validators.Validated[adminValidator.UserListQuery](c, "validatedUserList")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	paging := validators.PageQuery{Page: reqData.Page, Limit: reqData.Limit}
	offset := paging.Normalize()

	query := database.Database.Db.Model(&models.User{})
	if reqData.Role != "" {
		query = query.Where("role = ?", reqData.Role)
	}
	if reqData.Search != "" {
		like := "%" + strings.ToLower(reqData.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("count users", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user list!", nil)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Offset(offset).Limit(paging.Limit).Find(&users).Error; err != nil {
		utils.LogError("fetch users", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user list!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User list fetched successfully.", fiber.Map{
		"users":      users,
		"pagination": middleware.Pagination(total, paging.Page, paging.Limit),
	})
}

func findUser(c *fiber.Ctx) (*models.User, int, string) {
	var user models.User
	if err := database.Database.Db.First(&user, validators.ID(c, "id")).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, fiber.StatusNotFound, "User not found!"
		}
		utils.LogError("load user", err)
		return nil, fiber.StatusInternalServerError, "Failed to fetch user!"
	}
	return &user, fiber.StatusOK, ""
}

// BlockUser blocks or unblocks an account. Blocked users cannot log in and their
// live tokens stop working.
func BlockUser(c *fiber.Ctx) error {
	reqData, ok := validators.Validated[adminValidator.BlockUserRequest](c, "validatedBlock")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	user, status, msg := findUser(c)
	if user == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	if err := database.Database.Db.Model(user).Update("is_blocked", *reqData.Blocked).Error; err != nil {
		utils.LogError("block user", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	log.Printf("[ADMIN] user %d blocked=%t by admin %d", user.ID, *reqData.Blocked, c.Locals("userId").(uint))
	message := "User unblocked successfully."
	if *reqData.Blocked {
		message = "User blocked successfully."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, user)
}

func ChangeUserRole(c *fiber.Ctx) error {
	reqData, ok := validators.Validated[adminValidator.ChangeRoleRequest](c, "validatedRole")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	user, status, msg := findUser(c)
	if user == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	if err := database.Database.Db.Model(user).Update("role", reqData.Role).Error; err != nil {
		utils.LogError("change role", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	log.Printf("[ADMIN] user %d role set to %s by admin %d", user.ID, reqData.Role, c.Locals("userId").(uint))
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User role updated successfully.", user)
}

// HideForumPost hides or restores a forum post
func HideForumPost(c *fiber.Ctx) error {
	reqData, ok := validators.Validated[adminValidator.HidePostRequest](c, "validatedHide")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	var post models.ForumPost
	if err := db.First(&post, validators.ID(c, "id")).Error; err != nil {
		if utils.IsNotFound(err) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Post not found!", nil)
		}
		utils.LogError("load forum post", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch post!", nil)
	}

	if err := db.Model(&post).Update("is_hidden", *reqData.Hidden).Error; err != nil {
		utils.LogError("hide forum post", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update post!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Post updated successfully.", post)
}
