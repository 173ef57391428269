package forumController

import (
	"learnit/database"
	"learnit/middleware"
	"learnit/models"
	"learnit/utils"
	"learnit/validators"
	forumValidator "learnit/validators/forum"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func authorSummary(tx *gorm.DB) *gorm.DB {
	return tx.Select("id", "name", "avatar_url", "role")
}

// canParticipate reports whether the caller may post in the course forum:
// enrolled students, the course instructor and admins.
func canParticipate(c *fiber.Ctx, db *gorm.DB, course *models.Course) (bool, error) {
	userId := c.Locals("userId").(uint)
	role, _ := c.Locals("role").(string)
	if role == models.RoleAdmin || course.InstructorID == userId {
		return true, nil
	}
	var count int64
	err := db.Model(&models.Enrollment{}).Where("user_id = ? AND course_id = ?", userId, course.ID).Count(&count).Error
	return count > 0, err
}

func findCourse(db *gorm.DB, id uint) (*models.Course, int, string) {
	var course models.Course
	if err := db.First(&course, id).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, fiber.StatusNotFound, "Course not found!"
		}
		utils.LogError("load course", err)
		return nil, fiber.StatusInternalServerError, "Failed to fetch course!"
	}
	return &course, fiber.StatusOK, ""
}

// findVisiblePost loads a post that is not hidden
func findVisiblePost(db *gorm.DB, id uint) (*models.ForumPost, int, string) {
	var post models.ForumPost
	if err := db.Where("id = ? AND is_hidden = ?", id, false).First(&post).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, fiber.StatusNotFound, "Post not found!"
		}
		utils.LogError("load forum post", err)
		return nil, fiber.StatusInternalServerError, "Failed to fetch post!"
	}
	return &post, fiber.StatusOK, ""
}

// ListPosts returns a course's visible posts, newest first
func ListPosts(c *fiber.Ctx) error {
	courseID := validators.ID(c, "courseId")
	page, limit, offset := validators.Paging(c)

	query := database.Database.Db.Model(&models.ForumPost{}).
		Where("course_id = ? AND is_hidden = ?", courseID, false).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("count forum posts", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch posts!", nil)
	}

	var posts []models.ForumPost
	if err := query.Preload("Author", authorSummary).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error; err != nil {
		utils.LogError("fetch forum posts", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch posts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Posts fetched successfully.", fiber.Map{
		"posts":      posts,
		"pagination": middleware.Pagination(total, page, limit),
	})
}

func CreatePost(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData, ok := validators.Validated[forumValidator.CreatePostRequest](c, "validatedPost")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	course, status, msg := findCourse(db, validators.ID(c, "courseId"))
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	allowed, err := canParticipate(c, db, course)
	if err != nil {
		utils.LogError("check forum access", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create post!", nil)
	}
	if !allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Enroll in the course to join its forum!", nil)
	}

	post := models.ForumPost{CourseID: course.ID, AuthorID: userId, Title: reqData.Title, Body: reqData.Body}
	if err := db.Create(&post).Error; err != nil {
		utils.LogError("create forum post", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create post!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Post created successfully.", post)
}

// GetPost returns a visible post with its replies in posting order
func GetPost(c *fiber.Ctx) error {
	db := database.Database.Db

	var post models.ForumPost
	err := db.Where("id = ? AND is_hidden = ?", validators.ID(c, "id"), false).
		Preload("Author", authorSummary).
		Preload("Replies", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, id ASC")
		}).
		Preload("Replies.Author", authorSummary).
		First(&post).Error
	if err != nil {
		if utils.IsNotFound(err) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Post not found!", nil)
		}
		utils.LogError("fetch forum post", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch post!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Post fetched successfully.", post)
}

func ReplyToPost(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData, ok := validators.Validated[forumValidator.ReplyRequest](c, "validatedReply")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	post, status, msg := findVisiblePost(db, validators.ID(c, "id"))
	if post == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}
	course, status, msg := findCourse(db, post.CourseID)
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	allowed, err := canParticipate(c, db, course)
	if err != nil {
		utils.LogError("check forum access", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reply!", nil)
	}
	if !allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Enroll in the course to join its forum!", nil)
	}

	reply := models.ForumReply{PostID: post.ID, AuthorID: userId, Body: reqData.Body}
	if err := db.Create(&reply).Error; err != nil {
		utils.LogError("create forum reply", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reply!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Reply posted successfully.", reply)
}

// DeletePost removes a post and its replies; only the author or an admin may do it
func DeletePost(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	role, _ := c.Locals("role").(string)
	db := database.Database.Db

	var post models.ForumPost
	if err := db.First(&post, validators.ID(c, "id")).Error; err != nil {
		if utils.IsNotFound(err) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Post not found!", nil)
		}
		utils.LogError("load forum post", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete post!", nil)
	}
	if post.AuthorID != userId && role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only delete your own posts!", nil)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.ForumReply{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		utils.LogError("delete forum post", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete post!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Post deleted successfully.", nil)
}
