package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/fjala/internal/app"
	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/logging"
)

var practiceCmd = &cobra.Command{
	Use:   "practice [slug]",
	Short: "Start the practice app, optionally straight into a lesson",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := ""
		if len(args) == 1 {
			slug = args[0]
		}
		return runPractice(cmd, slug)
	},
}

func init() {
	practiceCmd.Flags().String("dialect", "", "Dialect to practice (gheg or tosk)")
	practiceCmd.Flags().Int("count", 0, "Questions per session")
	practiceCmd.Flags().Bool("hearts", false, "Enable hearts")
	practiceCmd.Flags().Bool("due-only", false, "Only ask questions that are due for review")
	practiceCmd.Flags().Bool("llm-tips", false, "Generate tips with the configured LLM")
}

// runPractice opens the store, builds dependencies, and launches the TUI.
func runPractice(cmd *cobra.Command, slug string) error {
	ctx := cmd.Context()
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	// Log lines would tear the full-screen UI.
	f, err := logging.ToFile(e.log, e.dataDir())
	if err != nil {
		return err
	}
	defer f.Close()

	rules := e.cfg.Rules()
	flags := cmd.Flags()
	if flags.Changed("count") {
		n, _ := flags.GetInt("count")
		if n <= 0 {
			return fmt.Errorf("--count must be positive")
		}
		rules.QuestionCount = n
	}
	if flags.Changed("hearts") {
		rules.HeartsEnabled, _ = flags.GetBool("hearts")
	}
	if flags.Changed("due-only") {
		rules.DueOnly, _ = flags.GetBool("due-only")
	}

	ps := e.progress()
	dialect := e.cfg.Dialect()
	askDialect := true
	if s, _ := flags.GetString("dialect"); s != "" {
		d, ok := content.ParseDialect(s)
		if !ok {
			return fmt.Errorf("unknown dialect %q", s)
		}
		if err := ps.SetDialect(ctx, d); err != nil {
			return fmt.Errorf("save dialect: %w", err)
		}
		dialect, askDialect = d, false
	}

	useLLM := e.cfg.Practice.LLMTips
	if flags.Changed("llm-tips") {
		useLLM, _ = flags.GetBool("llm-tips")
	}

	e.log.WithFields(logrus.Fields{
		"lesson":   slug,
		"dialect":  dialect,
		"count":    rules.QuestionCount,
		"hearts":   rules.HeartsEnabled,
		"due_only": rules.DueOnly,
	}).Info("starting practice app")

	return app.Run(ctx, app.Deps{
		Content:     e.store.ContentRepo(),
		Progress:    ps,
		Events:      e.store.EventRepo(),
		Tips:        e.tipSource(ctx, useLLM),
		Rules:       rules,
		Dialect:     dialect,
		AskDialect:  askDialect,
		StartLesson: slug,
		Logger:      e.log,
		Rand:        newRand(),
	})
}
