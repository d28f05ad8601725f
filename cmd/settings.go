package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/fjala/internal/content"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change learner settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		d, chosen, err := e.progress().Dialect(cmd.Context())
		if err != nil {
			return fmt.Errorf("read dialect: %w", err)
		}
		name := d.DisplayName()
		if !chosen {
			name = e.cfg.Dialect().DisplayName() + " (default)"
		}
		fmt.Printf("Dialect:         %s\n", name)
		fmt.Printf("Questions:       %d\n", e.cfg.Rules().QuestionCount)
		fmt.Printf("Hearts:          %v (max %d)\n", e.cfg.Practice.Hearts.Enabled, e.cfg.Practice.Hearts.Max)
		fmt.Printf("Database:        %s %s\n", e.cfg.DB.Driver, e.dsn)
		return nil
	},
}

var settingsDialectCmd = &cobra.Command{
	Use:       "dialect [gheg|tosk]",
	Short:     "Show or set the practice dialect",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(content.Gheg), string(content.Tosk)},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ps := e.progress()
		if len(args) == 0 {
			d, ok, err := ps.Dialect(ctx)
			if err != nil {
				return fmt.Errorf("read dialect: %w", err)
			}
			if !ok {
				fmt.Printf("%s (not chosen yet)\n", e.cfg.Dialect().DisplayName())
				return nil
			}
			fmt.Println(d.DisplayName())
			return nil
		}

		d, ok := content.ParseDialect(args[0])
		if !ok {
			names := make([]string, 0, 2)
			for _, d := range content.AllDialects() {
				names = append(names, string(d))
			}
			return fmt.Errorf("unknown dialect %q (want one of %s)", args[0], strings.Join(names, ", "))
		}
		if err := ps.SetDialect(ctx, d); err != nil {
			return fmt.Errorf("save dialect: %w", err)
		}
		fmt.Printf("Dialect set to %s.\n", d.DisplayName())
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsDialectCmd)
}
