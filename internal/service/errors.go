package service

import (
	"errors"
	"fmt"
)

// Common service errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrForbidden      = errors.New("forbidden")
	ErrDispatchFailed = errors.New("could not queue for judging")
)

// NotFound errors. 제출의 경우 "없음"과 "권한 없음"을 같은 값으로 돌려준다.
var (
	ErrSubmissionNotFound = &NotFoundError{Resource: "submission"}
	ErrProblemNotFound    = &NotFoundError{Resource: "problem"}
	ErrContestNotFound    = &NotFoundError{Resource: "contest"}
)

// Contest gate errors
var (
	ErrContestNotStarted = errors.New("contest has not started")
	ErrContestEnded      = errors.New("contest has ended")
)

// Rejudge / auth
var (
	ErrRejudgeInProgress  = errors.New("rejudge already in progress")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// NotFoundError 엔티티별 not found
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError 필드별 입력 오류
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %d field(s)", len(e.Fields))
}

// DispatchError 제출은 저장됐지만 채점 큐 전달에 실패
type DispatchError struct {
	SubmissionID int64
	Err          error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch submission %d: %v", e.SubmissionID, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

func (e *DispatchError) Is(target error) bool {
	return target == ErrDispatchFailed
}
