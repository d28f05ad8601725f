package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/fjala/internal/questions"
	"github.com/abhisek/fjala/internal/session"
)

var reviewCmd = &cobra.Command{
	Use:   "review <slug>",
	Short: "Show the spaced repetition state of a lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		dueOnly, _ := cmd.Flags().GetBool("due")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		lesson, err := e.store.ContentRepo().LoadPractice(ctx, args[0])
		if err != nil {
			return err
		}
		snap, err := loadSnapshot(cmd, e)
		if err != nil {
			return err
		}
		rec, err := e.progress().PracticeRecord(ctx, session.LessonKey(lesson))
		if err != nil {
			return fmt.Errorf("load practice record: %w", err)
		}

		now := time.Now()
		items := session.Review(questions.New(questions.DefaultConfig()), lesson, snap.Dialect, rec, now, dueOnly)
		if len(items) == 0 {
			if dueOnly {
				fmt.Println("Nothing due. Come back later.")
			} else {
				fmt.Printf("No practice yet for %q.\n", lesson.Title)
			}
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STATUS\tDUE\tEASE\tOK\tMISS\tPROMPT")
		for _, it := range items {
			prompt := it.Prompt
			if prompt == "" {
				prompt = "(" + it.ID + ")"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
				it.Status, dueLabel(it.NextDue, now), it.Ease, it.Correct, it.Wrong, truncate(prompt, 48))
		}
		return w.Flush()
	},
}

func dueLabel(due, now time.Time) string {
	d := due.Sub(now)
	switch {
	case d <= 0:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("in %dm", int(d.Minutes())+1)
	case d < 48*time.Hour:
		return fmt.Sprintf("in %dh", int(d.Hours()))
	default:
		return fmt.Sprintf("in %dd", int(d.Hours()/24))
	}
}

func init() {
	reviewCmd.Flags().Bool("due", false, "Only show items that are due")
}
