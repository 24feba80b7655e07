package models

import "time"

// Problem 공개 문제와 대회 문제 공통 (ContestID가 있으면 대회 문제)
type Problem struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	TimeLimit   int    `json:"timeLimit" db:"time_limit"`
	MemoryLimit int    `json:"memoryLimit" db:"memory_limit"`
	TestCaseID  string `json:"-" db:"test_case_id"`
	Visible     bool   `json:"visible" db:"visible"`
	ContestID   *int64 `json:"contestId,omitempty" db:"contest_id"`
}

type Contest struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	CreatedBy int64     `json:"createdBy" db:"created_by"`
	StartTime time.Time `json:"startTime" db:"start_time"`
	EndTime   time.Time `json:"endTime" db:"end_time"`
	Visible   bool      `json:"visible" db:"visible"`
}

// Running 대회 진행 중 여부
func (c *Contest) Running(now time.Time) bool {
	return !now.Before(c.StartTime) && now.Before(c.EndTime)
}
