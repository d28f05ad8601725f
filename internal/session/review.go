package session

import (
	"sort"
	"time"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/questions"
	"github.com/abhisek/fjala/internal/spacedrep"
)

// ReviewItem is one practiced question with its review state.
type ReviewItem struct {
	ID      string           `json:"id"`
	Type    questions.Type   `json:"type,omitempty"`
	Prompt  string           `json:"prompt,omitempty"`
	Answer  string           `json:"answer,omitempty"`
	Status  spacedrep.Status `json:"status"`
	Ease    spacedrep.Ease   `json:"ease"`
	NextDue time.Time        `json:"next_due"`
	Correct int              `json:"correct"`
	Wrong   int              `json:"wrong"`
}

// Review lists the items of rec with the question they belong to, due
// items first and then by next due time. Items whose question is no
// longer produced by the lesson keep an empty prompt.
func Review(gen *questions.Generator, lesson *content.Lesson, dialect content.Dialect, rec spacedrep.Record, now time.Time, dueOnly bool) []ReviewItem {
	byID := make(map[string]questions.Question)
	if gen != nil && lesson != nil {
		for _, q := range gen.Generate(lesson.Vocab, lesson.QuizItems(), dialect, maxPlanSize(lesson)) {
			byID[q.ID] = q
		}
	}

	out := make([]ReviewItem, 0, len(rec))
	for id, item := range rec {
		status := item.Status(now)
		if dueOnly && status != spacedrep.StatusDue {
			continue
		}
		ri := ReviewItem{
			ID:      id,
			Status:  status,
			Ease:    item.Ease,
			NextDue: item.NextDue,
			Correct: item.CorrectCount,
			Wrong:   item.WrongCount,
		}
		if q, ok := byID[id]; ok {
			ri.Type = q.Type
			ri.Prompt = q.Prompt
			ri.Answer = q.CorrectAnswer
		}
		out = append(out, ri)
	}

	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].Status == spacedrep.StatusDue, out[j].Status == spacedrep.StatusDue
		if di != dj {
			return di
		}
		if !out[i].NextDue.Equal(out[j].NextDue) {
			return out[i].NextDue.Before(out[j].NextDue)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
