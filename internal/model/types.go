package model

import "time"

// User represents an account in the system. Credentials and session
// handling live outside this service.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         *string   `json:"name,omitempty"`
	CreationTime time.Time `json:"creationTime"`
}

// Diary is a dated journal entry. ImageURL, when set, is a relative path
// under the upload root (see internal/assets). Relations are loaded by the
// store together with the diary.
type Diary struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"-"`
	Title        string          `json:"title"`
	Content      string          `json:"content"`
	Date         time.Time       `json:"date"`
	ImageURL     *string         `json:"imageUrl,omitempty"`
	Relations    []DiaryRelation `json:"-"`
	CreationTime time.Time       `json:"creationTime"`
	UpdateTime   *time.Time      `json:"updateTime,omitempty"`
}

// CalendarEvent is an owned scheduling entry, optionally tagged with a category.
type CalendarEvent struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"-"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	AllDay       bool      `json:"allDay"`
	Color        *string   `json:"color,omitempty"`
	CategoryID   *int64    `json:"categoryId,omitempty"`
	CreationTime time.Time `json:"creationTime"`
}

// Todo is an owned task with a progress percentage in [0,100].
type Todo struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"-"`
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	Progress       int        `json:"progress"`
	Completed      bool       `json:"completed"`
	ShowInCalendar bool       `json:"showInCalendar"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	Color          *string    `json:"color,omitempty"`
	CategoryID     *int64     `json:"categoryId,omitempty"`
	CreationTime   time.Time  `json:"creationTime"`
}

// Category is a user-defined grouping label for events and todos.
type Category struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"-"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	CreationTime time.Time `json:"creationTime"`
}

// CategoryVisibility is a per (user, category) flag controlling whether the
// category's items are shown in calendar views. The store carries no
// uniqueness constraint on the pair; duplicate rows are healed on write.
type CategoryVisibility struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"-"`
	CategoryID   int64     `json:"categoryId"`
	Visible      bool      `json:"visible"`
	CreationTime time.Time `json:"creationTime"`
}
