package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepo_Sessions(t *testing.T) {
	ctx := context.Background()
	repo := openTestStore(t).EventRepo()

	for i, action := range []string{"start", "end", "start", "restart", "end"} {
		require.NoError(t, repo.AppendSession(ctx, SessionEventData{
			SessionID:  "s",
			LessonSlug: "food",
			Action:     action,
			Questions:  10,
			Answered:   i,
			XPEarned:   i * 10,
		}))
	}

	recent, err := repo.RecentSessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 4, recent[0].Answered, "newest first")
	assert.Equal(t, 1, recent[1].Answered)
	assert.Greater(t, recent[0].Sequence, recent[1].Sequence)
	assert.False(t, recent[0].Timestamp.IsZero())

	one, err := repo.RecentSessions(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestEventRepo_LessonAccuracy(t *testing.T) {
	ctx := context.Background()
	repo := openTestStore(t).EventRepo()

	answers := []AnswerEventData{
		{LessonSlug: "food", QuestionID: "a", Correct: true, XP: 10},
		{LessonSlug: "food", QuestionID: "b", Correct: false, XP: 5},
		{LessonSlug: "food", QuestionID: "c", Skipped: true},
		{LessonSlug: "family", QuestionID: "d", Correct: true, XP: 10},
	}
	for _, a := range answers {
		a.SessionID = "s"
		a.QuestionType = "mcq_en_sq"
		require.NoError(t, repo.AppendAnswer(ctx, a))
	}

	acc, err := repo.LessonAccuracy(ctx, "food")
	require.NoError(t, err)
	assert.Equal(t, Accuracy{Answered: 2, Correct: 1}, acc)
	assert.InDelta(t, 0.5, acc.Ratio(), 1e-9)

	none, err := repo.LessonAccuracy(ctx, "greetings")
	require.NoError(t, err)
	assert.Zero(t, none.Ratio())
}

func TestEventRepo_DailyXP(t *testing.T) {
	ctx := context.Background()
	repo := openTestStore(t).EventRepo()

	require.NoError(t, repo.AppendAnswer(ctx, AnswerEventData{SessionID: "s", LessonSlug: "food", XP: 10}))
	require.NoError(t, repo.AppendAnswer(ctx, AnswerEventData{SessionID: "s", LessonSlug: "food", XP: 12}))

	now := time.Now().UTC()
	days, err := repo.DailyXP(ctx, 3, now)
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, now.AddDate(0, 0, -2).Format(time.DateOnly), days[0].Date)
	assert.Equal(t, 0, days[0].XP)
	assert.Equal(t, now.Format(time.DateOnly), days[2].Date)
	assert.Equal(t, 22, days[2].XP)
}

func TestEventRepo_LLMRequest(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{
		Provider:    "mock",
		Model:       "mock-1",
		Purpose:     "tips",
		InputTokens: 12,
		LatencyMs:   40,
		Success:     true,
	}))

	require.NoError(t, s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{
		Provider:     "mock",
		Model:        "mock-1",
		Purpose:      "tips",
		InputTokens:  8,
		OutputTokens: 30,
	}))

	var n int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM llm_request_events WHERE purpose = 'tips'").Scan(&n))
	assert.Equal(t, 2, n)

	usage, err := s.EventRepo().LLMUsage(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ModelUsage{{Model: "mock-1", Requests: 2, InputTokens: 20, OutputTokens: 30}}, usage)
}
