package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/markdown"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "Browse installed lessons",
}

var lessonsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		lessons, err := e.store.ContentRepo().ListLessons(cmd.Context(), !all)
		if err != nil {
			return fmt.Errorf("list lessons: %w", err)
		}
		if len(lessons) == 0 {
			fmt.Println("No lessons installed. Run `fjala seed --starter` to add the starter pack.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tTITLE\tLEVEL\tWORDS\tQUIZ\tPUBLISHED")
		for _, l := range lessons {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%v\n", l.Slug, l.Title, l.Level, l.VocabCount, l.QuizCount, l.Published)
		}
		return w.Flush()
	},
}

var lessonsShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Show a lesson with its vocabulary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		l, err := e.store.ContentRepo().LoadPractice(ctx, args[0])
		if err != nil {
			return err
		}
		snap, err := loadSnapshot(cmd, e)
		if err != nil {
			return err
		}
		d := snap.Dialect
		if s, _ := cmd.Flags().GetString("dialect"); s != "" {
			var ok bool
			if d, ok = content.ParseDialect(s); !ok {
				return fmt.Errorf("unknown dialect %q", s)
			}
		}

		fmt.Printf("%s (%s, %s)\n", l.Title, l.Level, d.DisplayName())
		fmt.Println(strings.Repeat("─", 60))
		if l.Summary != "" {
			fmt.Println(l.Summary)
			fmt.Println()
		}
		if l.BodyMarkdown != "" {
			fmt.Println(markdown.Render([]byte(l.BodyMarkdown), 72))
			fmt.Println()
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PHRASE\tMEANING\tIPA")
		for _, v := range l.Vocab {
			p := v.Pick(d)
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.Phrase, v.Gloss, p.IPA)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if n := len(l.QuizItems()); n > 0 {
			fmt.Printf("\nQuiz: %d questions\n", n)
		}
		return nil
	},
}

func init() {
	lessonsListCmd.Flags().Bool("all", false, "Include unpublished lessons")
	lessonsShowCmd.Flags().String("dialect", "", "Dialect to show (defaults to your setting)")

	lessonsCmd.AddCommand(lessonsListCmd)
	lessonsCmd.AddCommand(lessonsShowCmd)
}
