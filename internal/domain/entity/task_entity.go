package entity

import (
	"math"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// PriorityAll is the list filter value meaning "no priority filter"
const PriorityAll = "ALL"

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is owned by exactly one user; UserID never changes after creation.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Priority    Priority  `json:"priority"`
	EndDate     time.Time `json:"endDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskPatch is a partial update. Nil fields keep their stored value.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *Priority
	EndDate     *time.Time
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil && p.EndDate == nil
}

// Apply copies every set field of the patch onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		d := *p.Description
		t.Description = &d
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
}

type SortField string

const (
	SortByEndDate   SortField = "endDate"
	SortByPriority  SortField = "priority"
	SortByCreatedAt SortField = "createdAt"
)

// ParseSortField falls back to createdAt for anything unrecognized.
func ParseSortField(s string) SortField {
	switch SortField(s) {
	case SortByEndDate, SortByPriority:
		return SortField(s)
	}
	return SortByCreatedAt
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder falls back to desc for anything unrecognized.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == SortAsc {
		return SortAsc
	}
	return SortDesc
}

// TaskListQuery selects one page of a user's tasks.
// Priority is nil when the list is not filtered.
type TaskListQuery struct {
	UserID    string
	Page      int
	Limit     int
	SortBy    SortField
	SortOrder SortOrder
	Priority  *Priority
}

func (q TaskListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

type Pagination struct {
	CurrentPage     int   `json:"currentPage"`
	TotalPages      int   `json:"totalPages"`
	TotalCount      int64 `json:"totalCount"`
	Limit           int   `json:"limit"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{
		CurrentPage:     page,
		TotalPages:      totalPages,
		TotalCount:      total,
		Limit:           limit,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

type TaskPage struct {
	Tasks      []Task     `json:"tasks"`
	Pagination Pagination `json:"pagination"`
}
