package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/fjala/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Check the LLM provider and its usage",
}

var llmTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a small request to the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		p, err := e.provider(cmd.Context())
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}

		ctx := llm.WithPurpose(cmd.Context(), llm.PurposeCheck)
		start := time.Now()
		resp, err := p.Generate(ctx, llm.Prompt("You answer in one short line.", `Translate "thank you" into Albanian.`, nil, 64))
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		fmt.Printf("Model:    %s\n", resp.Model)
		fmt.Printf("Tokens:   %d in / %d out\n", resp.Usage.InputTokens, resp.Usage.OutputTokens)
		fmt.Printf("Latency:  %s\n", time.Since(start).Round(time.Millisecond))
		if c := llm.LookupCost(resp.Model); c != nil {
			fmt.Printf("Cost:     %s\n", formatCost(c.Cost(resp.Usage.InputTokens, resp.Usage.OutputTokens)))
		}
		fmt.Printf("Reply:    %s\n", strings.TrimSpace(resp.Text()))
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate LLM usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		usage, err := e.store.EventRepo().LLMUsage(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(usage) == 0 {
			fmt.Println("No LLM requests recorded.")
			return nil
		}

		fmt.Printf("%-32s  %8s  %10s  %10s  %10s\n", "Model", "Requests", "In", "Out", "Cost")
		fmt.Println(strings.Repeat("─", 78))
		for _, u := range usage {
			cost := "n/a"
			if c := llm.LookupCost(u.Model); c != nil {
				cost = formatCost(c.Cost(u.InputTokens, u.OutputTokens))
			}
			fmt.Printf("%-32s  %8d  %10d  %10d  %10s\n", truncate(u.Model, 32), u.Requests, u.InputTokens, u.OutputTokens, cost)
		}

		total, unpriced := llm.EstimateCost(usage)
		fmt.Println(strings.Repeat("─", 78))
		fmt.Printf("Estimated total: %s", formatCost(total))
		if unpriced > 0 {
			fmt.Printf(" (%d models without pricing)", unpriced)
		}
		fmt.Println()
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmCmd.AddCommand(llmTestCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
