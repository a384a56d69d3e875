package models

import (
	"time"
)

// SubmissionStatus is the lifecycle status of a submission
type SubmissionStatus string

const (
	StatusNew       SubmissionStatus = "new"
	StatusInArticle SubmissionStatus = "in_article"
	StatusPublished SubmissionStatus = "published"
)

// ValidSubmissionStatuses defines allowed submission statuses
var ValidSubmissionStatuses = map[SubmissionStatus]bool{
	StatusNew:       true,
	StatusInArticle: true,
	StatusPublished: true,
}

// Submission is one customer-sourced question/answer pair plus metadata.
// Category is the category name denormalized into the API shape; CategoryID
// is the owning reference.
type Submission struct {
	ID         string           `json:"id" db:"id"`
	Question   string           `json:"question" db:"question"`
	Answer     string           `json:"answer" db:"answer"`
	Category   string           `json:"category" db:"-"`
	CategoryID string           `json:"categoryId" db:"category_id"`
	ClientID   string           `json:"-" db:"client_id"`
	Source     string           `json:"source,omitempty" db:"source"`
	ImageURL   string           `json:"imageUrl,omitempty" db:"image_url"`
	WordCount  int              `json:"wordCount" db:"word_count"`
	Status     SubmissionStatus `json:"status" db:"status"`
	CreatedAt  time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time        `json:"updatedAt" db:"updated_at"`
}

// SubmissionInput is the request body for creating a single submission.
// CategoryID and CategoryName are mutually substitutable: when only a name
// is given, the category is resolved or created for the caller's client.
// WordCount is supplied by the caller and stored as-is.
type SubmissionInput struct {
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	CategoryID   string `json:"categoryId,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
	Source       string `json:"source,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
	WordCount    int    `json:"wordCount"`
}

// BulkSubmissionInput is one row of a bulk create request. Bulk rows always
// reference categories by name.
type BulkSubmissionInput struct {
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	CategoryName string `json:"categoryName"`
	Source       string `json:"source,omitempty"`
	WordCount    int    `json:"wordCount"`
}

// Stats holds the dashboard counters. All three are submission-status
// counts; there is no server-side article store to count against.
type Stats struct {
	NewSubmissions     int `json:"newSubmissions"`
	ArticlesInProgress int `json:"articlesInProgress"`
	PublishedArticles  int `json:"publishedArticles"`
}
