package spacedrep

import (
	"encoding/json"
	"testing"
	"time"
)

func TestRecord_ApplyFirstAnswer(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	r := Record{}

	item := r.Apply("w_en_sq", true, now)
	if item.Ease != 3 {
		t.Errorf("Ease = %d, want 3", item.Ease)
	}
	if !item.NextDue.Equal(now.Add(72 * time.Hour)) {
		t.Errorf("NextDue = %v, want now+3d", item.NextDue)
	}
	if item.CorrectCount != 1 || item.WrongCount != 0 {
		t.Errorf("counts = %d/%d, want 1/0", item.CorrectCount, item.WrongCount)
	}
	if _, ok := r["w_en_sq"]; !ok {
		t.Error("item not stored in record")
	}
}

func TestRecord_ApplySequence(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	r := Record{}

	r.Apply("q", false, now) // 2 -> 1
	r.Apply("q", false, now) // 1 -> 0
	r.Apply("q", false, now) // floor
	item := r.Apply("q", true, now)

	if item.Ease != 1 {
		t.Errorf("Ease = %d, want 1", item.Ease)
	}
	if item.WrongCount != 3 || item.CorrectCount != 1 {
		t.Errorf("counts = %d/%d, want 1/3", item.CorrectCount, item.WrongCount)
	}
	if !item.NextDue.Equal(now.Add(10 * time.Minute)) {
		t.Errorf("NextDue = %v, want now+10m", item.NextDue)
	}

	wrong := r.Apply("q", false, now)
	if !wrong.NextDue.Equal(now.Add(RetryDelay)) {
		t.Errorf("NextDue after wrong = %v, want now+60s", wrong.NextDue)
	}
}

func TestRecord_IsDueAndDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	r := Record{
		"a": {ID: "a", Ease: 1, NextDue: now.Add(-time.Hour)},
		"b": {ID: "b", Ease: 4, NextDue: now.Add(time.Hour)},
		"c": {ID: "c", Ease: 0, NextDue: now.Add(-2 * time.Hour)},
		"d": {ID: "d", Ease: 2, NextDue: now},
	}

	if !r.IsDue("never-seen", now) {
		t.Error("unseen question should be due")
	}
	if r.IsDue("b", now) {
		t.Error("b is not due until later")
	}

	due := r.Due(now)
	want := []string{"c", "a", "d"}
	if len(due) != len(want) {
		t.Fatalf("Due() = %d items, want %d", len(due), len(want))
	}
	for i, id := range want {
		if due[i].ID != id {
			t.Errorf("Due()[%d] = %s, want %s", i, due[i].ID, id)
		}
	}
}

func TestRecord_Stats(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	r := Record{
		"a": {ID: "a", Ease: 1, NextDue: now.Add(-time.Hour), CorrectCount: 1, WrongCount: 2},
		"b": {ID: "b", Ease: 5, NextDue: now.Add(time.Hour), CorrectCount: 4},
		"c": {ID: "c", Ease: 3, NextDue: now.Add(time.Hour), CorrectCount: 2, WrongCount: 1},
	}
	s := r.Stats(now)
	if s.Items != 3 || s.Due != 1 || s.Known != 1 {
		t.Errorf("Stats = %+v", s)
	}
	if s.Correct != 7 || s.Wrong != 3 {
		t.Errorf("Correct/Wrong = %d/%d, want 7/3", s.Correct, s.Wrong)
	}
	if s.MeanEase != 3 {
		t.Errorf("MeanEase = %v, want 3", s.MeanEase)
	}
}

func TestPracticeItem_JSON(t *testing.T) {
	due := time.UnixMilli(1767225600000)
	r := Record{"x_type": {ID: "x_type", Ease: 4, NextDue: due, CorrectCount: 3, WrongCount: 1}}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"x_type":{"id":"x_type","ease":4,"nextDue":1767225600000,"correctCount":3,"wrongCount":1}}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got := back["x_type"]; !got.NextDue.Equal(due) || got.Ease != 4 {
		t.Errorf("round trip = %+v", got)
	}
}

func TestPracticeItem_UnmarshalClampsEase(t *testing.T) {
	var p PracticeItem
	if err := json.Unmarshal([]byte(`{"id":"q","ease":9,"nextDue":0}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.Ease != MaxEase {
		t.Errorf("Ease = %d, want %d", p.Ease, MaxEase)
	}
}
