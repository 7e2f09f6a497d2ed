package models

import (
	"time"
)

// Project is a project listed on the public site
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	Content     *string   `json:"content"`
	ImageURL    *string   `json:"image_url"`
	OrderIndex  int       `json:"order_index"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectSummary is a project as shown in the listing, with a shortened body
type ProjectSummary struct {
	Project
	Summary     string `json:"summary"`
	IsTruncated bool   `json:"is_truncated"`
}

// TeamMember is a person shown in the team section
type TeamMember struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Role       *string   `json:"role"`
	Bio        *string   `json:"bio"`
	ImageURL   *string   `json:"image_url"`
	OrderIndex int       `json:"order_index"`
	Published  bool      `json:"published"`
	CreatedAt  time.Time `json:"created_at"`
}

// Subscriber is a newsletter subscription
type Subscriber struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}
