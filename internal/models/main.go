// Package models defines the core data structures for sessions and reports.
package models

// Report is a user-authored record shown in the report list.
type Report struct {
	// ID is the unique identifier for the report. It is assigned on creation
	// and never changes.
	ID string `json:"id"`
	// Title is the free-text heading used for search.
	Title string `json:"title"`
	// Content holds the report body. It may contain rich-text markup.
	Content string `json:"content"`
	// Index is the zero-based display position of the report.
	Index int `json:"index"`
}

// Role defines the coarse authorization level granted at login.
type Role string

const (
	// RoleNone marks a signed-out session.
	RoleNone Role = ""
	// RoleAdmin may view and mutate reports.
	RoleAdmin Role = "admin"
	// RoleViewer may only view reports.
	RoleViewer Role = "viewer"
)
