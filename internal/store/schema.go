package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// textSize makes a string column unbounded (TEXT) on every dialect.
const textSize = 2147483647

var (
	// LessonsColumns holds the columns for the "lessons" table.
	LessonsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "slug", Type: field.TypeString, Unique: true},
		{Name: "title", Type: field.TypeString},
		{Name: "level", Type: field.TypeString, Default: ""},
		{Name: "summary", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "body_markdown", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "published", Type: field.TypeBool, Default: false},
		{Name: "position", Type: field.TypeInt, Default: 0},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// LessonsTable holds the schema information for the "lessons" table.
	LessonsTable = &schema.Table{
		Name:       "lessons",
		Columns:    LessonsColumns,
		PrimaryKey: []*schema.Column{LessonsColumns[0]},
	}

	// VocabColumns holds the columns for the "vocab" table.
	VocabColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt},
		{Name: "base_term", Type: field.TypeString, Default: ""},
		{Name: "eng_gloss", Type: field.TypeString},
		{Name: "notes", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "lesson_id", Type: field.TypeString},
	}
	// VocabTable holds the schema information for the "vocab" table.
	VocabTable = &schema.Table{
		Name:       "vocab",
		Columns:    VocabColumns,
		PrimaryKey: []*schema.Column{VocabColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "vocab_lessons_vocab",
				Columns:    []*schema.Column{VocabColumns[5]},
				RefColumns: []*schema.Column{LessonsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "vocab_lesson_id_position",
				Unique:  false,
				Columns: []*schema.Column{VocabColumns[5], VocabColumns[1]},
			},
		},
	}

	// VocabVariantsColumns holds the columns for the "vocab_variants" table.
	VocabVariantsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "position", Type: field.TypeInt},
		{Name: "dialect", Type: field.TypeString},
		{Name: "phrase", Type: field.TypeString},
		{Name: "ipa", Type: field.TypeString, Default: ""},
		{Name: "audio_url", Type: field.TypeString, Default: ""},
		{Name: "vocab_id", Type: field.TypeString},
	}
	// VocabVariantsTable holds the schema information for the "vocab_variants" table.
	VocabVariantsTable = &schema.Table{
		Name:       "vocab_variants",
		Columns:    VocabVariantsColumns,
		PrimaryKey: []*schema.Column{VocabVariantsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "vocab_variants_vocab_variants",
				Columns:    []*schema.Column{VocabVariantsColumns[6]},
				RefColumns: []*schema.Column{VocabColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// QuizzesColumns holds the columns for the "quizzes" table.
	QuizzesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString, Default: ""},
		{Name: "lesson_id", Type: field.TypeString, Unique: true},
	}
	// QuizzesTable holds the schema information for the "quizzes" table.
	QuizzesTable = &schema.Table{
		Name:       "quizzes",
		Columns:    QuizzesColumns,
		PrimaryKey: []*schema.Column{QuizzesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "quizzes_lessons_quiz",
				Columns:    []*schema.Column{QuizzesColumns[2]},
				RefColumns: []*schema.Column{LessonsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// QuizQuestionsColumns holds the columns for the "quiz_questions" table.
	QuizQuestionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt},
		{Name: "kind", Type: field.TypeString},
		{Name: "prompt", Type: field.TypeString, Size: textSize},
		{Name: "explanation", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "quiz_id", Type: field.TypeString},
	}
	// QuizQuestionsTable holds the schema information for the "quiz_questions" table.
	QuizQuestionsTable = &schema.Table{
		Name:       "quiz_questions",
		Columns:    QuizQuestionsColumns,
		PrimaryKey: []*schema.Column{QuizQuestionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "quiz_questions_quizzes_questions",
				Columns:    []*schema.Column{QuizQuestionsColumns[5]},
				RefColumns: []*schema.Column{QuizzesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// QuizAnswersColumns holds the columns for the "quiz_answers" table.
	QuizAnswersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "position", Type: field.TypeInt},
		{Name: "label", Type: field.TypeString},
		{Name: "is_correct", Type: field.TypeBool, Default: false},
		{Name: "question_id", Type: field.TypeString},
	}
	// QuizAnswersTable holds the schema information for the "quiz_answers" table.
	QuizAnswersTable = &schema.Table{
		Name:       "quiz_answers",
		Columns:    QuizAnswersColumns,
		PrimaryKey: []*schema.Column{QuizAnswersColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "quiz_answers_quiz_questions_answers",
				Columns:    []*schema.Column{QuizAnswersColumns[4]},
				RefColumns: []*schema.Column{QuizQuestionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// KvEntriesColumns holds the columns for the "kv_entries" table.
	KvEntriesColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeString, Size: textSize},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// KvEntriesTable holds the schema information for the "kv_entries" table.
	KvEntriesTable = &schema.Table{
		Name:       "kv_entries",
		Columns:    KvEntriesColumns,
		PrimaryKey: []*schema.Column{KvEntriesColumns[0]},
	}

	// GlobalSequenceColumns holds the columns for the "global_sequence" table.
	GlobalSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	// GlobalSequenceTable holds the single row of the event sequence counter.
	GlobalSequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    GlobalSequenceColumns,
		PrimaryKey: []*schema.Column{GlobalSequenceColumns[0]},
	}

	// AnswerEventsColumns holds the columns for the "answer_events" table.
	AnswerEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "lesson_slug", Type: field.TypeString},
		{Name: "question_id", Type: field.TypeString},
		{Name: "question_type", Type: field.TypeString},
		{Name: "answer", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "correct", Type: field.TypeBool},
		{Name: "skipped", Type: field.TypeBool},
		{Name: "xp", Type: field.TypeInt},
		{Name: "ease", Type: field.TypeInt},
	}
	// AnswerEventsTable holds the schema information for the "answer_events" table.
	AnswerEventsTable = &schema.Table{
		Name:       "answer_events",
		Columns:    AnswerEventsColumns,
		PrimaryKey: []*schema.Column{AnswerEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "answerevent_lesson_slug",
				Unique:  false,
				Columns: []*schema.Column{AnswerEventsColumns[4]},
			},
			{
				Name:    "answerevent_timestamp",
				Unique:  false,
				Columns: []*schema.Column{AnswerEventsColumns[2]},
			},
		},
	}

	// SessionEventsColumns holds the columns for the "session_events" table.
	SessionEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "lesson_slug", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
		{Name: "questions", Type: field.TypeInt},
		{Name: "answered", Type: field.TypeInt},
		{Name: "correct", Type: field.TypeInt},
		{Name: "xp_earned", Type: field.TypeInt},
		{Name: "game_over", Type: field.TypeBool},
		{Name: "duration_secs", Type: field.TypeInt},
	}
	// SessionEventsTable holds the schema information for the "session_events" table.
	SessionEventsTable = &schema.Table{
		Name:       "session_events",
		Columns:    SessionEventsColumns,
		PrimaryKey: []*schema.Column{SessionEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "sessionevent_session_id",
				Unique:  false,
				Columns: []*schema.Column{SessionEventsColumns[3]},
			},
		},
	}

	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: textSize, Default: ""},
	}
	// LlmRequestEventsTable holds the schema information for the "llm_request_events" table.
	LlmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		LessonsTable,
		VocabTable,
		VocabVariantsTable,
		QuizzesTable,
		QuizQuestionsTable,
		QuizAnswersTable,
		KvEntriesTable,
		GlobalSequenceTable,
		AnswerEventsTable,
		SessionEventsTable,
		LlmRequestEventsTable,
	}
)

func init() {
	VocabTable.ForeignKeys[0].RefTable = LessonsTable
	VocabVariantsTable.ForeignKeys[0].RefTable = VocabTable
	QuizzesTable.ForeignKeys[0].RefTable = LessonsTable
	QuizQuestionsTable.ForeignKeys[0].RefTable = QuizzesTable
	QuizAnswersTable.ForeignKeys[0].RefTable = QuizQuestionsTable
}

// migrate creates or updates every table.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
