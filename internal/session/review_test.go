package session

import (
	"testing"
	"time"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/questions"
	"github.com/abhisek/fjala/internal/spacedrep"
)

func TestReview(t *testing.T) {
	lesson := testLesson(4)
	gen := questions.New(questions.DefaultConfig())
	all := gen.Generate(lesson.Vocab, nil, content.Tosk, maxPlanSize(lesson))

	var typed questions.Question
	for _, q := range all {
		if q.Type == questions.TypeTypeWord {
			typed = q
			break
		}
	}
	if typed.ID == "" {
		t.Fatal("lesson produced no typing question")
	}

	rec := spacedrep.Record{}
	// One item scheduled days ahead, one already due whose question is gone.
	rec.Apply(typed.ID, true, testNow)
	rec.Apply("gone_question", false, testNow.Add(-time.Hour))

	items := Review(gen, lesson, content.Tosk, rec, testNow, false)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != "gone_question" || items[0].Status != spacedrep.StatusDue {
		t.Errorf("first item = %+v, want the due one", items[0])
	}
	if items[0].Prompt != "" {
		t.Errorf("unknown question got prompt %q", items[0].Prompt)
	}
	if items[1].Prompt != typed.Prompt || items[1].Answer != typed.CorrectAnswer {
		t.Errorf("second item = %+v, want prompt of %s", items[1], typed.ID)
	}
	if items[1].Correct != 1 {
		t.Errorf("correct = %d, want 1", items[1].Correct)
	}

	due := Review(gen, lesson, content.Tosk, rec, testNow, true)
	if len(due) != 1 || due[0].ID != "gone_question" {
		t.Errorf("dueOnly = %+v", due)
	}
}

func TestLessonKey(t *testing.T) {
	if got := LessonKey(&content.Lesson{ID: "id", Slug: "s"}); got != "id" {
		t.Errorf("LessonKey = %q", got)
	}
	if got := LessonKey(&content.Lesson{Slug: "s"}); got != "s" {
		t.Errorf("LessonKey = %q", got)
	}
}
