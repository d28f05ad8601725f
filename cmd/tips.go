package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/fjala/internal/tips"
)

var tipsCmd = &cobra.Command{
	Use:   "tips",
	Short: "Print culture and language tips",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		n, _ := cmd.Flags().GetInt("count")
		useLLM, _ := cmd.Flags().GetBool("llm")

		if !useLLM {
			catalog := tips.NewCatalog(newRand())
			for range n {
				fmt.Printf("💡 %s\n", catalog.Tip(ctx))
			}
			return nil
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		p, err := e.provider(ctx)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}
		src := tips.NewLLMSource(p, tips.NewCatalog(newRand()), tips.DefaultConfig(), e.log)
		generated, err := src.Fetch(ctx)
		if err != nil {
			return err
		}
		for i, t := range generated {
			if i == n {
				break
			}
			fmt.Printf("💡 %s\n", t)
		}
		return nil
	},
}

func init() {
	tipsCmd.Flags().IntP("count", "n", 3, "Number of tips to print")
	tipsCmd.Flags().Bool("llm", false, "Generate fresh tips with the configured LLM")
}
