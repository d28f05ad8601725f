package session

import (
	"context"
	"time"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/questions"
	"github.com/abhisek/fjala/internal/spacedrep"
	"github.com/abhisek/fjala/internal/store"
)

// LessonLoader fetches a lesson with its vocabulary and quiz.
type LessonLoader interface {
	LoadPractice(ctx context.Context, slug string) (*content.Lesson, error)
}

// Recorder receives answer and session events. store.EventRepo satisfies it.
type Recorder interface {
	AppendAnswer(ctx context.Context, data store.AnswerEventData) error
	AppendSession(ctx context.Context, data store.SessionEventData) error
}

// TipSource hands out cultural tips.
type TipSource interface {
	Tip(ctx context.Context) string
}

// Plan builds the question list for a lesson. With dueOnly set, questions
// whose practice item is not yet due are dropped.
func Plan(gen *questions.Generator, lesson *content.Lesson, dialect content.Dialect, count int, rec spacedrep.Record, dueOnly bool, now time.Time) []questions.Question {
	if !dueOnly {
		return gen.Generate(lesson.Vocab, lesson.QuizItems(), dialect, count)
	}

	// Generate everything, then filter, so a mostly-known lesson still
	// fills the session with what is due.
	all := gen.Generate(lesson.Vocab, lesson.QuizItems(), dialect, maxPlanSize(lesson))
	var due []questions.Question
	for _, q := range all {
		if rec.IsDue(q.ID, now) {
			due = append(due, q)
		}
		if len(due) == count {
			break
		}
	}
	return due
}

// maxPlanSize bounds the number of questions a lesson can produce: four
// per vocab item, one per quiz item and one match board.
func maxPlanSize(lesson *content.Lesson) int {
	return len(lesson.Vocab)*4 + len(lesson.QuizItems()) + 1
}
