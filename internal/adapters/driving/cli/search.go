package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

var (
	searchLimit    int
	searchCategory string
	searchPricing  string
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the platform directory",
	Long: `Finds platforms whose name, description, category or tags match the
query. Use-case words are expanded first, so "make music" also matches
audio and composition tools. Featured platforms rank first, then rating.`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: needs(needsServices),
	RunE:        runSearch,
}

var platformCmd = &cobra.Command{
	Use:         "platform [slug]",
	Short:       "Show one platform",
	Args:        cobra.ExactArgs(1),
	Annotations: needs(needsServices),
	RunE:        runPlatform,
}

var categoriesCmd = &cobra.Command{
	Use:         "categories",
	Short:       "List platform categories",
	Annotations: needs(needsServices),
	RunE:        runCategories,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "only platforms in this primary category")
	searchCmd.Flags().StringVarP(&searchPricing, "pricing", "p", "", "only platforms with this pricing (free, freemium, paid)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	platformCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	categoriesCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(platformCmd)
	rootCmd.AddCommand(categoriesCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	query := strings.Join(args, " ")
	opts := domain.SearchOptions{
		Category: searchCategory,
		Pricing:  domain.Pricing(searchPricing),
		Limit:    searchLimit,
	}

	results := searchService.Search(query, opts)
	if results == nil {
		results = []domain.Platform{}
	}

	if searchJSON {
		return printJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchTable(cmd *cobra.Command, results []domain.Platform) error {
	if len(results) == 0 {
		cmd.Println("No platforms found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		p := &results[i]
		cmd.Printf("  [%d] %s", i+1, p.Name)
		if p.Rating > 0 {
			cmd.Printf(" (%.1f)", p.Rating)
		}
		if p.Featured {
			cmd.Print(" *")
		}
		cmd.Println()
		cmd.Printf("      %s", p.Category)
		if p.Pricing != "" {
			cmd.Printf(" | %s", p.Pricing)
		}
		cmd.Println()
		if p.Description != "" {
			cmd.Printf("      %s\n", p.Description)
		}
		cmd.Printf("      /platform/%s\n", p.EffectiveSlug())
		cmd.Println()
	}

	return nil
}

func runPlatform(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	p, err := searchService.Platform(args[0])
	if err != nil {
		return fmt.Errorf("failed to get platform: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, p)
	}

	cmd.Printf("Name:        %s\n", p.Name)
	cmd.Printf("Slug:        %s\n", p.EffectiveSlug())
	cmd.Printf("Category:    %s\n", p.Category)
	if len(p.Categories) > 0 {
		cmd.Printf("Also in:     %s\n", strings.Join(p.Categories, ", "))
	}
	if p.Pricing != "" {
		cmd.Printf("Pricing:     %s\n", p.Pricing)
	}
	if p.Rating > 0 {
		cmd.Printf("Rating:      %.1f\n", p.Rating)
	}
	if len(p.Tags) > 0 {
		cmd.Printf("Tags:        %s\n", strings.Join(p.Tags, ", "))
	}
	if p.URL != "" {
		cmd.Printf("Website:     %s\n", p.URL)
	}
	cmd.Printf("Description: %s\n", p.Description)

	return nil
}

func runCategories(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	categories := searchService.Categories()
	if categories == nil {
		categories = []domain.CategoryCount{}
	}

	if searchJSON {
		return printJSON(cmd, categories)
	}

	if len(categories) == 0 {
		cmd.Println("No categories found.")
		return nil
	}
	for _, c := range categories {
		cmd.Printf("  %-24s %d\n", c.Category, c.Count)
	}
	return nil
}
