package models

import "github.com/google/uuid"

// Feedback is a free-standing message, optionally linked to the user who sent it.
type Feedback struct {
	Base
	Message string     `json:"message"`
	Rating  int        `json:"rating" example:"4"`
	Page    string     `json:"page" example:"/teams"`
	UserID  *uuid.UUID `json:"user_id" gorm:"type:uuid"`
}

type AddFeedback struct {
	Message string `json:"message"`
	Rating  int    `json:"rating"`
	Page    string `json:"page"`
}

type UpdateFeedback AddFeedback
