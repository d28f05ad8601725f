package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/fjala/internal/content"
)

// KeyPackVersion is the kv entry holding the last imported pack version.
const KeyPackVersion = "content:version"

// idSpace namespaces the ids derived for rows a pack does not name.
var idSpace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("fjala"))

func deriveID(parts ...string) string {
	key := ""
	for _, p := range parts {
		key += p + "\x00"
	}
	return uuid.NewSHA1(idSpace, []byte(key)).String()
}

var lessonColumns = []string{"id", "slug", "title", "level", "summary", "body_markdown", "published"}

// contentRepo implements ContentRepo.
type contentRepo struct {
	db      *sql.DB
	dialect string
	kv      *kvRepo
	log     logrus.FieldLogger
}

func (r *contentRepo) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.dialect)
}

func (r *contentRepo) PackVersion(ctx context.Context) (string, error) {
	v, _, err := r.kv.Get(ctx, KeyPackVersion)
	return v, err
}

func (r *contentRepo) ImportPack(ctx context.Context, pack *content.Pack, force bool) (*ImportResult, error) {
	res := &ImportResult{Version: pack.Version}

	problems, err := pack.Validate()
	res.Problems = problems
	if err != nil {
		return res, err
	}

	current, err := r.PackVersion(ctx)
	if err != nil {
		return res, err
	}
	if err := content.CheckVersion(current, pack.Version, force); err != nil {
		return res, err
	}

	now := time.Now().UTC()
	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		for i := range pack.Lessons {
			created, err := r.importLesson(ctx, tx, i, &pack.Lessons[i], now)
			if err != nil {
				return fmt.Errorf("import lesson %s: %w", pack.Lessons[i].Slug, err)
			}
			if created {
				res.Created = append(res.Created, pack.Lessons[i].Slug)
			} else {
				res.Updated = append(res.Updated, pack.Lessons[i].Slug)
			}
		}
		return r.kv.set(ctx, tx, KeyPackVersion, pack.Version)
	})
	if err != nil {
		return res, err
	}

	r.log.WithFields(logrus.Fields{
		"version": pack.Version,
		"created": len(res.Created),
		"updated": len(res.Updated),
	}).Info("content pack imported")
	return res, nil
}

func (r *contentRepo) importLesson(ctx context.Context, tx *sql.Tx, position int, l *content.Lesson, now time.Time) (bool, error) {
	b := r.builder()
	level, _ := content.NormalizeLevel(string(l.Level))

	query, args := b.Select("id").
		From(b.Table(LessonsTable.Name)).
		Where(entsql.EQ("slug", l.Slug)).
		Query()
	var id string
	err := tx.QueryRowContext(ctx, query, args...).Scan(&id)
	created := errors.Is(err, sql.ErrNoRows)
	switch {
	case created:
		id = lo.Ternary(l.ID != "", l.ID, deriveID("lesson", l.Slug))
		query, args = b.Insert(LessonsTable.Name).
			Columns("id", "slug", "title", "level", "summary", "body_markdown", "published", "position", "created_at", "updated_at").
			Values(id, l.Slug, l.Title, string(level), l.Summary, l.BodyMarkdown, l.Published, position, now, now).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("insert lesson: %w", err)
		}
	case err != nil:
		return false, fmt.Errorf("find lesson: %w", err)
	default:
		query, args = b.Update(LessonsTable.Name).
			Set("title", l.Title).
			Set("level", string(level)).
			Set("summary", l.Summary).
			Set("body_markdown", l.BodyMarkdown).
			Set("published", l.Published).
			Set("position", position).
			Set("updated_at", now).
			Where(entsql.EQ("id", id)).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("update lesson: %w", err)
		}
		if err := r.deleteChildren(ctx, tx, id); err != nil {
			return false, err
		}
	}

	if err := r.insertVocab(ctx, tx, id, l.Vocab); err != nil {
		return false, err
	}
	if l.Quiz != nil {
		if err := r.insertQuiz(ctx, tx, id, l.Quiz); err != nil {
			return false, err
		}
	}
	return created, nil
}

// deleteChildren removes the vocabulary and quiz of a lesson. Rows are
// deleted explicitly so the result does not depend on cascade support.
func (r *contentRepo) deleteChildren(ctx context.Context, tx *sql.Tx, lessonID string) error {
	b := r.builder()

	vocabIDs, err := selectIDs(ctx, tx, b.Select("id").From(b.Table(VocabTable.Name)).Where(entsql.EQ("lesson_id", lessonID)))
	if err != nil {
		return fmt.Errorf("list vocab: %w", err)
	}
	quizIDs, err := selectIDs(ctx, tx, b.Select("id").From(b.Table(QuizzesTable.Name)).Where(entsql.EQ("lesson_id", lessonID)))
	if err != nil {
		return fmt.Errorf("list quizzes: %w", err)
	}
	var questionIDs []any
	if len(quizIDs) > 0 {
		questionIDs, err = selectIDs(ctx, tx, b.Select("id").From(b.Table(QuizQuestionsTable.Name)).Where(entsql.In("quiz_id", quizIDs...)))
		if err != nil {
			return fmt.Errorf("list quiz questions: %w", err)
		}
	}

	steps := []struct {
		table  string
		column string
		ids    []any
	}{
		{VocabVariantsTable.Name, "vocab_id", vocabIDs},
		{VocabTable.Name, "id", vocabIDs},
		{QuizAnswersTable.Name, "question_id", questionIDs},
		{QuizQuestionsTable.Name, "id", questionIDs},
		{QuizzesTable.Name, "id", quizIDs},
	}
	for _, st := range steps {
		if len(st.ids) == 0 {
			continue
		}
		query, args := b.Delete(st.table).Where(entsql.In(st.column, st.ids...)).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete %s: %w", st.table, err)
		}
	}
	return nil
}

func (r *contentRepo) insertVocab(ctx context.Context, tx *sql.Tx, lessonID string, vocab []content.VocabItem) error {
	b := r.builder()
	seen := make(map[string]bool)
	for i, v := range vocab {
		id := v.ID
		if id == "" {
			id = deriveID("vocab", lessonID, v.BaseTerm, v.Gloss)
			if seen[id] {
				id = deriveID("vocab", lessonID, v.BaseTerm, v.Gloss, fmt.Sprint(i))
			}
		}
		seen[id] = true

		query, args := b.Insert(VocabTable.Name).
			Columns("id", "position", "base_term", "eng_gloss", "notes", "lesson_id").
			Values(id, i, v.BaseTerm, v.Gloss, v.Notes, lessonID).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert vocab %q: %w", v.Gloss, err)
		}

		for j, vr := range v.Variants {
			query, args := b.Insert(VocabVariantsTable.Name).
				Columns("position", "dialect", "phrase", "ipa", "audio_url", "vocab_id").
				Values(j, string(vr.Dialect), vr.Phrase, vr.IPA, vr.AudioURL, id).
				Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert variant %q: %w", vr.Phrase, err)
			}
		}
	}
	return nil
}

func (r *contentRepo) insertQuiz(ctx context.Context, tx *sql.Tx, lessonID string, quiz *content.Quiz) error {
	b := r.builder()
	quizID := lo.Ternary(quiz.ID != "", quiz.ID, deriveID("quiz", lessonID))

	query, args := b.Insert(QuizzesTable.Name).
		Columns("id", "title", "lesson_id").
		Values(quizID, quiz.Title, lessonID).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}

	seen := make(map[string]bool)
	for i, q := range quiz.Questions {
		id := q.ID
		if id == "" {
			id = deriveID("question", quizID, q.Prompt)
			if seen[id] {
				id = deriveID("question", quizID, q.Prompt, fmt.Sprint(i))
			}
		}
		seen[id] = true

		query, args := b.Insert(QuizQuestionsTable.Name).
			Columns("id", "position", "kind", "prompt", "explanation", "quiz_id").
			Values(id, i, string(q.Kind), q.Prompt, q.Explanation, quizID).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert quiz question: %w", err)
		}
		for j, a := range q.Answers {
			query, args := b.Insert(QuizAnswersTable.Name).
				Columns("position", "label", "is_correct", "question_id").
				Values(j, a.Label, a.Correct, id).
				Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert quiz answer: %w", err)
			}
		}
	}
	return nil
}

func (r *contentRepo) ListLessons(ctx context.Context, publishedOnly bool) ([]LessonInfo, error) {
	b := r.builder()
	sel := b.Select(lessonColumns...).From(b.Table(LessonsTable.Name))
	if publishedOnly {
		sel = sel.Where(entsql.EQ("published", true))
	}
	query, args := sel.OrderBy("position", "slug").Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	var out []LessonInfo
	for rows.Next() {
		var info LessonInfo
		if err := scanLesson(rows, &info.Lesson); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}
	rows.Close()

	vocab, err := r.countBy(ctx, b.Select("lesson_id", entsql.Count("*")).
		From(b.Table(VocabTable.Name)).
		GroupBy("lesson_id"))
	if err != nil {
		return nil, fmt.Errorf("count vocab: %w", err)
	}

	qt := b.Table(QuizQuestionsTable.Name).As("qq")
	zt := b.Table(QuizzesTable.Name).As("qz")
	quiz, err := r.countBy(ctx, b.Select(zt.C("lesson_id"), entsql.Count("*")).
		From(qt).
		Join(zt).On(qt.C("quiz_id"), zt.C("id")).
		GroupBy(zt.C("lesson_id")))
	if err != nil {
		return nil, fmt.Errorf("count quiz questions: %w", err)
	}

	for i := range out {
		out[i].VocabCount = vocab[out[i].ID]
		out[i].QuizCount = quiz[out[i].ID]
	}
	return out, nil
}

func (r *contentRepo) countBy(ctx context.Context, sel *entsql.Selector) (map[string]int, error) {
	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

func (r *contentRepo) LessonBySlug(ctx context.Context, slug string) (*content.Lesson, error) {
	b := r.builder()
	query, args := b.Select(lessonColumns...).
		From(b.Table(LessonsTable.Name)).
		Where(entsql.EQ("slug", slug)).
		Query()

	var l content.Lesson
	err := scanLesson(r.db.QueryRowContext(ctx, query, args...), &l)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lesson %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// LoadPractice loads the lesson row, then its vocabulary and quiz
// concurrently.
func (r *contentRepo) LoadPractice(ctx context.Context, slug string) (*content.Lesson, error) {
	l, err := r.LessonBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vocab, err := r.loadVocab(gctx, l.ID)
		if err != nil {
			return fmt.Errorf("load vocab: %w", err)
		}
		l.Vocab = vocab
		return nil
	})
	g.Go(func() error {
		quiz, err := r.loadQuiz(gctx, l.ID)
		if err != nil {
			return fmt.Errorf("load quiz: %w", err)
		}
		l.Quiz = quiz
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *contentRepo) loadVocab(ctx context.Context, lessonID string) ([]content.VocabItem, error) {
	b := r.builder()
	query, args := b.Select("id", "base_term", "eng_gloss", "notes").
		From(b.Table(VocabTable.Name)).
		Where(entsql.EQ("lesson_id", lessonID)).
		OrderBy("position").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var items []content.VocabItem
	byID := make(map[string]int)
	for rows.Next() {
		var v content.VocabItem
		if err := rows.Scan(&v.ID, &v.BaseTerm, &v.Gloss, &v.Notes); err != nil {
			rows.Close()
			return nil, err
		}
		byID[v.ID] = len(items)
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	if len(items) == 0 {
		return nil, nil
	}

	ids := lo.Map(items, func(v content.VocabItem, _ int) any { return v.ID })
	query, args = b.Select("vocab_id", "dialect", "phrase", "ipa", "audio_url").
		From(b.Table(VocabVariantsTable.Name)).
		Where(entsql.In("vocab_id", ids...)).
		OrderBy("vocab_id", "position").
		Query()
	rows, err = r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var vocabID, dialect string
		var vr content.Variant
		if err := rows.Scan(&vocabID, &dialect, &vr.Phrase, &vr.IPA, &vr.AudioURL); err != nil {
			return nil, err
		}
		vr.Dialect = content.Dialect(dialect)
		i := byID[vocabID]
		items[i].Variants = append(items[i].Variants, vr)
	}
	return items, rows.Err()
}

func (r *contentRepo) loadQuiz(ctx context.Context, lessonID string) (*content.Quiz, error) {
	b := r.builder()
	query, args := b.Select("id", "title").
		From(b.Table(QuizzesTable.Name)).
		Where(entsql.EQ("lesson_id", lessonID)).
		Query()

	var quiz content.Quiz
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&quiz.ID, &quiz.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	query, args = b.Select("id", "kind", "prompt", "explanation").
		From(b.Table(QuizQuestionsTable.Name)).
		Where(entsql.EQ("quiz_id", quiz.ID)).
		OrderBy("position").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]int)
	for rows.Next() {
		var q content.QuizItem
		var kind string
		if err := rows.Scan(&q.ID, &kind, &q.Prompt, &q.Explanation); err != nil {
			rows.Close()
			return nil, err
		}
		q.Kind = content.QuizKind(kind)
		byID[q.ID] = len(quiz.Questions)
		quiz.Questions = append(quiz.Questions, q)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	if len(quiz.Questions) == 0 {
		return &quiz, nil
	}

	ids := lo.Map(quiz.Questions, func(q content.QuizItem, _ int) any { return q.ID })
	query, args = b.Select("question_id", "label", "is_correct").
		From(b.Table(QuizAnswersTable.Name)).
		Where(entsql.In("question_id", ids...)).
		OrderBy("question_id", "position").
		Query()
	rows, err = r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var questionID string
		var a content.Answer
		if err := rows.Scan(&questionID, &a.Label, &a.Correct); err != nil {
			return nil, err
		}
		i := byID[questionID]
		quiz.Questions[i].Answers = append(quiz.Questions[i].Answers, a)
	}
	return &quiz, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLesson(row rowScanner, l *content.Lesson) error {
	var level string
	if err := row.Scan(&l.ID, &l.Slug, &l.Title, &level, &l.Summary, &l.BodyMarkdown, &l.Published); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("scan lesson: %w", err)
	}
	l.Level = content.Level(level)
	return nil
}

func selectIDs(ctx context.Context, q execQuerier, sel *entsql.Selector) ([]any, error) {
	query, args := sel.Query()
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []any
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
