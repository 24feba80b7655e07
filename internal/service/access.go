package service

import (
	"context"
	"fmt"

	"github.com/yankaics/OnlineJudge/internal/models"
)

// Access 접근 허용 결과
type Access struct {
	Submission *models.Submission
	Visibility models.Visibility
}

// CanShare 공유 토글 권한 (소유자급만)
func (a *Access) CanShare() bool {
	return a.Visibility == models.VisibilityOwnerOrAdmin
}

// AccessResolver 제출 열람 권한 판정. 모든 조회/공유 경로가 이 함수를 거친다.
type AccessResolver struct {
	submissions SubmissionStore
	contests    ContestDirectory
}

func NewAccessResolver(submissions SubmissionStore, contests ContestDirectory) *AccessResolver {
	return &AccessResolver{
		submissions: submissions,
		contests:    contests,
	}
}

// Resolve 규칙 순서가 결과를 결정한다 (먼저 맞는 규칙 적용):
// 슈퍼관리자 → 소유자 → 대회 생성자 → 공유된 제출 → 거부.
// 거부는 존재하지 않는 경우와 같은 ErrSubmissionNotFound를 돌려준다.
func (r *AccessResolver) Resolve(ctx context.Context, submissionID int64, requester models.Identity) (*Access, error) {
	submission, err := r.submissions.FindByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return nil, ErrSubmissionNotFound
	}

	full := &Access{Submission: submission, Visibility: models.VisibilityOwnerOrAdmin}

	if requester.IsSuperAdmin() || submission.UserID == requester.UserID {
		return full, nil
	}

	if submission.IsContest() {
		contest, err := r.contests.FindByID(ctx, *submission.ContestID)
		if err != nil {
			return nil, fmt.Errorf("failed to get contest: %w", err)
		}
		if contest != nil && contest.CreatedBy == requester.UserID {
			return full, nil
		}
	}

	if submission.Shared {
		return &Access{Submission: submission, Visibility: models.VisibilityPublicShared}, nil
	}

	return nil, ErrSubmissionNotFound
}
