package models

import "time"

// Result 채점 결과 코드 (judge worker가 기록)
type Result int

const (
	ResultAccepted            Result = 0
	ResultRuntimeError        Result = 1
	ResultTimeLimitExceeded   Result = 2
	ResultMemoryLimitExceeded Result = 3
	ResultCompileError        Result = 4
	ResultFormatError         Result = 5
	ResultWrongAnswer         Result = 6
	ResultSystemError         Result = 7
	ResultWaiting             Result = 8
)

var resultNames = map[Result]string{
	ResultAccepted:            "accepted",
	ResultRuntimeError:        "runtime_error",
	ResultTimeLimitExceeded:   "time_limit_exceeded",
	ResultMemoryLimitExceeded: "memory_limit_exceeded",
	ResultCompileError:        "compile_error",
	ResultFormatError:         "format_error",
	ResultWrongAnswer:         "wrong_answer",
	ResultSystemError:         "system_error",
	ResultWaiting:             "waiting",
}

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return "unknown"
}

func (r Result) Valid() bool {
	_, ok := resultNames[r]
	return ok
}

// Language 지원 언어
type Language int

const (
	LanguageC      Language = 1
	LanguageCPP    Language = 2
	LanguageJava   Language = 3
	LanguagePython Language = 4
)

var languageNames = map[Language]string{
	LanguageC:      "c",
	LanguageCPP:    "cpp",
	LanguageJava:   "java",
	LanguagePython: "python",
}

func (l Language) String() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return "unknown"
}

func (l Language) Valid() bool {
	_, ok := languageNames[l]
	return ok
}

// Visibility 제출 열람 등급
type Visibility string

const (
	VisibilityOwnerOrAdmin Visibility = "OWNER_OR_ADMIN"
	VisibilityPublicShared Visibility = "PUBLIC_SHARED"
)

type Submission struct {
	ID                 int64     `json:"id" db:"id"`
	UserID             int64     `json:"userId" db:"user_id"`
	ProblemID          int64     `json:"problemId" db:"problem_id"`
	ContestID          *int64    `json:"contestId,omitempty" db:"contest_id"`
	Language           Language  `json:"language" db:"language"`
	Code               string    `json:"code" db:"code"`
	Result             Result    `json:"result" db:"result"`
	CreateTime         time.Time `json:"createTime" db:"create_time"`
	AcceptedAnswerTime *int      `json:"-" db:"accepted_answer_time"`
	Info               *string   `json:"-" db:"info"`
	Shared             bool      `json:"shared" db:"shared"`
}

// IsContest 대회 제출 여부
func (s *Submission) IsContest() bool {
	return s.ContestID != nil
}

// AcceptedTime 정답일 때만 실행 시간 반환
func (s *Submission) AcceptedTime() *int {
	if s.Result != ResultAccepted {
		return nil
	}
	return s.AcceptedAnswerTime
}

// SubmissionSummary 목록 조회용
type SubmissionSummary struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"userId"`
	ProblemID          int64     `json:"problemId"`
	ProblemTitle       string    `json:"problemTitle"`
	Language           Language  `json:"language"`
	Result             Result    `json:"result"`
	CreateTime         time.Time `json:"createTime"`
	AcceptedAnswerTime *int      `json:"acceptedAnswerTime,omitempty"`
}

// SubmissionFilter 내 제출 목록 필터
type SubmissionFilter struct {
	UserID    int64
	ShowAll   bool
	ProblemID *int64
	Language  *Language
	Result    *Result
	Page      int
	PageSize  int
}

type CreateSubmissionRequest struct {
	ProblemID int64    `json:"problem_id" validate:"required,gt=0"`
	Language  Language `json:"language" validate:"required,language"`
	Code      string   `json:"code" validate:"required"`
}

type CreateContestSubmissionRequest struct {
	ContestID int64    `json:"contest_id" validate:"required,gt=0"`
	ProblemID int64    `json:"problem_id" validate:"required,gt=0"`
	Language  Language `json:"language" validate:"required,language"`
	Code      string   `json:"code" validate:"required"`
}

type SubmissionIDRequest struct {
	SubmissionID int64 `json:"submission_id" validate:"required,gt=0"`
}
