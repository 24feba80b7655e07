package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yankaics/OnlineJudge/internal/models"
)

func TestAccessResolver_Rules(t *testing.T) {
	env := newTestEnv(t)
	env.store.AddContest(models.Contest{ID: 6, CreatedBy: 60, Visible: true})
	env.store.PutSubmission(models.Submission{ID: 10, UserID: owner.UserID, ProblemID: 7})
	env.store.PutSubmission(models.Submission{ID: 11, UserID: owner.UserID, ProblemID: 7, Shared: true})
	env.store.PutSubmission(models.Submission{ID: 12, UserID: owner.UserID, ProblemID: 70, ContestID: int64Ptr(5)})
	env.store.PutSubmission(models.Submission{ID: 13, UserID: owner.UserID, ProblemID: 70, ContestID: int64Ptr(6), Shared: true})
	env.store.PutSubmission(models.Submission{ID: 14, UserID: owner.UserID, ProblemID: 70, ContestID: int64Ptr(404)})

	creator := models.Identity{UserID: 50}

	tests := []struct {
		name         string
		submissionID int64
		requester    models.Identity
		want         models.Visibility
		wantErr      error
	}{
		{name: "owner", submissionID: 10, requester: owner, want: models.VisibilityOwnerOrAdmin},
		{name: "super admin", submissionID: 10, requester: super, want: models.VisibilityOwnerOrAdmin},
		{name: "plain admin is a stranger", submissionID: 10, requester: admin, wantErr: ErrSubmissionNotFound},
		{name: "stranger on private", submissionID: 10, requester: stranger, wantErr: ErrSubmissionNotFound},
		{name: "stranger on shared", submissionID: 11, requester: stranger, want: models.VisibilityPublicShared},
		{name: "owner on shared keeps full access", submissionID: 11, requester: owner, want: models.VisibilityOwnerOrAdmin},
		{name: "contest creator", submissionID: 12, requester: creator, want: models.VisibilityOwnerOrAdmin},
		{name: "creator of another contest", submissionID: 13, requester: creator, want: models.VisibilityPublicShared},
		{name: "standalone ignores contest branch", submissionID: 10, requester: creator, wantErr: ErrSubmissionNotFound},
		{name: "missing contest falls through", submissionID: 14, requester: creator, wantErr: ErrSubmissionNotFound},
		{name: "missing submission", submissionID: 404, requester: super, wantErr: ErrSubmissionNotFound},
	}

	resolver := env.svc.Access()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			access, err := resolver.Resolve(context.Background(), tt.submissionID, tt.requester)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.NotErrorIs(t, err, ErrForbidden)
				assert.Nil(t, access)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, access.Visibility)
			assert.Equal(t, tt.submissionID, access.Submission.ID)
		})
	}
}
