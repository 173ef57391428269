package models

import "gorm.io/gorm"

type ForumPost struct {
	gorm.Model
	CourseID uint   `json:"courseId" gorm:"index;not null"`
	AuthorID uint   `json:"authorId" gorm:"index;not null"`
	Title    string `json:"title" gorm:"not null"`
	Body     string `json:"body" gorm:"type:text"`
	IsHidden bool   `json:"isHidden" gorm:"default:false"`

	Author  User         `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Replies []ForumReply `json:"replies,omitempty" gorm:"foreignKey:PostID"`
}

type ForumReply struct {
	gorm.Model
	PostID   uint   `json:"postId" gorm:"index;not null"`
	AuthorID uint   `json:"authorId" gorm:"index;not null"`
	Body     string `json:"body" gorm:"type:text"`

	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}
