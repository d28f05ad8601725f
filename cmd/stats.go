package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/fjala/internal/llm"
	"github.com/abhisek/fjala/internal/progress"
)

const statsDays = 7

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show XP, streak and recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		snap, err := loadSnapshot(cmd, e)
		if err != nil {
			return err
		}
		events := e.store.EventRepo()

		fmt.Println("Progress")
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("Total XP:       %d\n", snap.TotalXP)
		fmt.Printf("Streak:         %d days (next milestone %d)\n", snap.Streak, progress.NextStreakMilestone(snap.Streak))
		if snap.LastPracticeDate != "" {
			fmt.Printf("Last practice:  %s\n", snap.LastPracticeDate)
		}
		fmt.Printf("Dialect:        %s\n", snap.Dialect.DisplayName())

		days, err := events.DailyXP(ctx, statsDays, time.Now())
		if err != nil {
			return fmt.Errorf("query daily xp: %w", err)
		}
		fmt.Println()
		fmt.Printf("XP, last %d days\n", statsDays)
		fmt.Println(strings.Repeat("─", 48))
		peak := 1
		for _, d := range days {
			peak = max(peak, d.XP)
		}
		for _, d := range days {
			bar := strings.Repeat("█", d.XP*30/peak)
			fmt.Printf("%s  %4d  %s\n", d.Date, d.XP, bar)
		}

		recent, err := events.RecentSessions(ctx, 5)
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(recent) > 0 {
			fmt.Println()
			fmt.Println("Recent sessions")
			fmt.Println(strings.Repeat("─", 48))
			for _, r := range recent {
				acc := 0
				if r.Answered > 0 {
					acc = r.Correct * 100 / r.Answered
				}
				fmt.Printf("%s  %-16s  %2d/%-2d  %3d%%  +%d XP\n",
					r.Timestamp.Local().Format("2006-01-02 15:04"), truncate(r.LessonSlug, 16),
					r.Correct, r.Answered, acc, r.XPEarned)
			}
		}

		usage, err := events.LLMUsage(ctx)
		if err != nil {
			return fmt.Errorf("query llm usage: %w", err)
		}
		if len(usage) > 0 {
			var requests int
			for _, u := range usage {
				requests += u.Requests
			}
			cost, unpriced := llm.EstimateCost(usage)
			fmt.Println()
			fmt.Printf("LLM: %d requests, estimated %s", requests, formatCost(cost))
			if unpriced > 0 {
				fmt.Printf(" (%d models unpriced)", unpriced)
			}
			fmt.Println()
		}
		return nil
	},
}

func loadSnapshot(cmd *cobra.Command, e *env) (progress.Snapshot, error) {
	snap, err := progress.Load(cmd.Context(), e.progress(), time.Now(), e.cfg.Dialect())
	if err != nil {
		return progress.Snapshot{}, fmt.Errorf("load progress: %w", err)
	}
	return snap, nil
}
