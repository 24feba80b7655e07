package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yankaics/OnlineJudge/internal/models"
)

// ContestGate 대회 제출 자격 확인 (제출 서비스보다 먼저 실행)
type ContestGate struct {
	contests ContestDirectory
	now      func() time.Time
}

func NewContestGate(contests ContestDirectory) *ContestGate {
	return &ContestGate{contests: contests, now: time.Now}
}

// Check 슈퍼관리자와 대회 생성자는 항상 통과, 그 외에는 공개 + 진행 중이어야 한다
func (g *ContestGate) Check(ctx context.Context, contestID int64, requester models.Identity) error {
	contest, err := g.contests.FindByID(ctx, contestID)
	if err != nil {
		return fmt.Errorf("failed to get contest: %w", err)
	}
	if contest == nil {
		return ErrContestNotFound
	}

	if requester.IsSuperAdmin() || contest.CreatedBy == requester.UserID {
		return nil
	}

	if !contest.Visible {
		return ErrContestNotFound
	}

	now := g.now()
	if now.Before(contest.StartTime) {
		return ErrContestNotStarted
	}
	if !contest.Running(now) {
		return ErrContestEnded
	}

	return nil
}
