package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/fjala/internal/content"
)

var seedCmd = &cobra.Command{
	Use:   "seed [file]",
	Short: "Import a lesson pack (JSON) or the built-in starter pack",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		starter, _ := cmd.Flags().GetBool("starter")
		force, _ := cmd.Flags().GetBool("force")
		if starter == (len(args) == 1) {
			return errors.New("pass either a pack file or --starter")
		}

		var pack *content.Pack
		var err error
		if starter {
			pack, err = content.Starter()
		} else {
			pack, err = readPack(args[0])
		}
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.store.ContentRepo().ImportPack(cmd.Context(), pack, force)
		if res != nil {
			printProblems(res.Problems)
		}
		if errors.Is(err, content.ErrOlderPack) {
			return fmt.Errorf("%w (use --force to import anyway)", err)
		}
		if err != nil {
			return err
		}

		fmt.Printf("Imported pack %s: %d created, %d updated\n", res.Version, len(res.Created), len(res.Updated))
		e.log.WithField("version", res.Version).Info("content pack imported")
		return nil
	},
}

func init() {
	seedCmd.Flags().Bool("starter", false, "Import the built-in starter pack")
	seedCmd.Flags().Bool("force", false, "Import even if the pack is older than the installed content")
}

func readPack(path string) (*content.Pack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pack: %w", err)
	}
	defer f.Close()
	return content.ParsePack(f)
}

func printProblems(problems []content.Problem) {
	for _, p := range problems {
		kind := "error"
		if p.Warning {
			kind = "warning"
		}
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", kind, p.Lesson, p.Message)
	}
}
