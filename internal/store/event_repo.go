package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo backed by the event tables and the
// global sequence counter.
type eventRepo struct {
	db      *sql.DB
	dialect string
	seq     *sequenceCounter
}

func (r *eventRepo) insert(ctx context.Context, table string, columns []string, values ...any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(r.dialect).
		Insert(table).
		Columns(append([]string{"sequence", "timestamp"}, columns...)...).
		Values(append([]any{seqNum, time.Now().UTC()}, values...)...).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	err := r.insert(ctx, AnswerEventsTable.Name,
		[]string{"session_id", "lesson_slug", "question_id", "question_type", "answer", "correct", "skipped", "xp", "ease"},
		data.SessionID, data.LessonSlug, data.QuestionID, data.QuestionType, data.Answer, data.Correct, data.Skipped, data.XP, data.Ease,
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendSession(ctx context.Context, data SessionEventData) error {
	err := r.insert(ctx, SessionEventsTable.Name,
		[]string{"session_id", "lesson_slug", "action", "questions", "answered", "correct", "xp_earned", "game_over", "duration_secs"},
		data.SessionID, data.LessonSlug, data.Action, data.Questions, data.Answered, data.Correct, data.XPEarned, data.GameOver, data.DurationSecs,
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	err := r.insert(ctx, LlmRequestEventsTable.Name,
		[]string{"provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms", "success", "error_message"},
		data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentSessions(ctx context.Context, n int) ([]SessionRecord, error) {
	b := entsql.Dialect(r.dialect)
	sel := b.Select("sequence", "timestamp", "session_id", "lesson_slug", "action", "questions", "answered", "correct", "xp_earned", "game_over", "duration_secs").
		From(b.Table(SessionEventsTable.Name)).
		Where(entsql.EQ("action", "end")).
		OrderBy(entsql.Desc("sequence"))
	if n > 0 {
		sel = sel.Limit(n)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		d := &rec.SessionEventData
		if err := rows.Scan(&rec.Sequence, &rec.Timestamp, &d.SessionID, &d.LessonSlug, &d.Action,
			&d.Questions, &d.Answered, &d.Correct, &d.XPEarned, &d.GameOver, &d.DurationSecs); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) LessonAccuracy(ctx context.Context, slug string) (Accuracy, error) {
	b := entsql.Dialect(r.dialect)
	query, args := b.Select("correct").
		From(b.Table(AnswerEventsTable.Name)).
		Where(entsql.And(
			entsql.EQ("lesson_slug", slug),
			entsql.EQ("skipped", false),
		)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Accuracy{}, fmt.Errorf("query lesson accuracy: %w", err)
	}
	defer rows.Close()

	var acc Accuracy
	for rows.Next() {
		var correct bool
		if err := rows.Scan(&correct); err != nil {
			return Accuracy{}, fmt.Errorf("scan answer event: %w", err)
		}
		acc.Answered++
		if correct {
			acc.Correct++
		}
	}
	return acc, rows.Err()
}

// DailyXP buckets answer XP by the local calendar day of now.
func (r *eventRepo) DailyXP(ctx context.Context, days int, now time.Time) ([]DayXP, error) {
	if days <= 0 {
		return nil, nil
	}
	loc := now.Location()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -(days - 1))

	b := entsql.Dialect(r.dialect)
	query, args := b.Select("timestamp", "xp").
		From(b.Table(AnswerEventsTable.Name)).
		Where(entsql.GTE("timestamp", start.UTC())).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily xp: %w", err)
	}
	defer rows.Close()

	out := make([]DayXP, days)
	index := make(map[string]int, days)
	for i := range out {
		d := start.AddDate(0, 0, i).Format(time.DateOnly)
		out[i].Date = d
		index[d] = i
	}
	for rows.Next() {
		var ts time.Time
		var xp int
		if err := rows.Scan(&ts, &xp); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		if i, ok := index[ts.In(loc).Format(time.DateOnly)]; ok {
			out[i].XP += xp
		}
	}
	return out, rows.Err()
}

func (r *eventRepo) LLMUsage(ctx context.Context) ([]ModelUsage, error) {
	b := entsql.Dialect(r.dialect)
	query, args := b.Select(
		"model",
		entsql.Count("*"),
		entsql.Sum("input_tokens"),
		entsql.Sum("output_tokens"),
	).
		From(b.Table(LlmRequestEventsTable.Name)).
		GroupBy("model").
		OrderBy("model").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query llm usage: %w", err)
	}
	defer rows.Close()

	var out []ModelUsage
	for rows.Next() {
		var u ModelUsage
		if err := rows.Scan(&u.Model, &u.Requests, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan llm usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
