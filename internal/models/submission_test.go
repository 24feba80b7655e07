package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmission_AcceptedTime(t *testing.T) {
	elapsed := 120

	tests := []struct {
		name   string
		result Result
		want   *int
	}{
		{name: "accepted exposes time", result: ResultAccepted, want: &elapsed},
		{name: "waiting hides time", result: ResultWaiting, want: nil},
		{name: "wrong answer hides time", result: ResultWrongAnswer, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Submission{Result: tt.result, AcceptedAnswerTime: &elapsed}
			assert.Equal(t, tt.want, s.AcceptedTime())
		})
	}
}

func TestSubmission_IsContest(t *testing.T) {
	contestID := int64(3)

	assert.False(t, (&Submission{}).IsContest())
	assert.True(t, (&Submission{ContestID: &contestID}).IsContest())
}

func TestLanguage_Valid(t *testing.T) {
	assert.True(t, LanguagePython.Valid())
	assert.Equal(t, "cpp", LanguageCPP.String())
	assert.False(t, Language(0).Valid())
	assert.False(t, Language(9).Valid())
	assert.Equal(t, "unknown", Language(9).String())
}

func TestUser_CheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	assert.NoError(t, err)

	u := &User{PasswordHash: hash}
	assert.True(t, u.CheckPassword("s3cret"))
	assert.False(t, u.CheckPassword("wrong"))
}
