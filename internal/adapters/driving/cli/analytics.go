package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

var analyticsJSON bool

var analyticsCmd = &cobra.Command{
	Use:         "analytics",
	Short:       "Show chat analytics",
	Long:        `Summarises recorded chat interactions: totals, the last seven days, top keywords and intents.`,
	Annotations: needs(needsServices),
	RunE:        runAnalytics,
}

var analyticsPageViewsCmd = &cobra.Command{
	Use:         "pageviews",
	Short:       "Show page-view analytics",
	Annotations: needs(needsServices),
	RunE:        runAnalyticsPageViews,
}

func init() {
	analyticsCmd.PersistentFlags().BoolVar(&analyticsJSON, "json", false, "output as JSON")
	analyticsCmd.AddCommand(analyticsPageViewsCmd)
	rootCmd.AddCommand(analyticsCmd)
}

func runAnalytics(cmd *cobra.Command, _ []string) error {
	if analyticsService == nil {
		return errors.New("analytics service not configured")
	}

	summary, err := analyticsService.Summary(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get analytics: %w", err)
	}

	if analyticsJSON {
		return printJSON(cmd, summary)
	}

	cmd.Println("Chat Analytics")
	cmd.Println("==============")
	cmd.Printf("  Messages:              %d\n", summary.Totals.Messages)
	cmd.Printf("  Sessions:              %d\n", summary.Totals.Sessions)
	cmd.Printf("  Platforms recommended: %d\n", summary.Totals.PlatformsRecommended)
	cmd.Printf("  Today:                 %d messages, %d sessions\n", summary.Today.Messages, summary.Today.Sessions)
	cmd.Println()

	cmd.Println("[Last 7 days]")
	for _, day := range summary.Last7Days {
		cmd.Printf("  %s  %4d messages  %4d sessions\n", day.Date, day.Messages, day.Sessions)
	}
	cmd.Println()

	if len(summary.TopKeywords) > 0 {
		cmd.Println("[Top keywords]")
		for _, kw := range summary.TopKeywords {
			cmd.Printf("  %-20s %d\n", kw.Keyword, kw.Count)
		}
		cmd.Println()
	}

	if len(summary.IntentDistribution) > 0 {
		cmd.Println("[Intents]")
		intents := make([]string, 0, len(summary.IntentDistribution))
		for intent := range summary.IntentDistribution {
			intents = append(intents, string(intent))
		}
		sort.Strings(intents)
		for _, intent := range intents {
			cmd.Printf("  %-20s %d\n", intent, summary.IntentDistribution[domain.IntentType(intent)])
		}
		cmd.Println()
	}

	if len(summary.RecentInteractions) > 0 {
		cmd.Println("[Recent]")
		for _, i := range summary.RecentInteractions {
			cmd.Printf("  %s  %-8s %s\n", i.Timestamp.Format("2006-01-02 15:04"), i.Intent, i.Message)
		}
	}

	return nil
}

func runAnalyticsPageViews(cmd *cobra.Command, _ []string) error {
	if analyticsService == nil {
		return errors.New("analytics service not configured")
	}

	summary, err := analyticsService.PageViews(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get page views: %w", err)
	}

	if analyticsJSON {
		return printJSON(cmd, summary)
	}

	cmd.Println("Page Views")
	cmd.Println("==========")
	cmd.Printf("  Total: %d\n", summary.Total)
	cmd.Printf("  Today: %d\n", summary.Today)
	cmd.Println()

	if len(summary.TopPaths) > 0 {
		cmd.Println("[Top pages]")
		for _, p := range summary.TopPaths {
			cmd.Printf("  %-40s %d\n", p.Path, p.Views)
		}
	}

	return nil
}
