package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vk/bggflow/internal/ctxlog"
	"github.com/vk/bggflow/internal/dataset"
)

// Input defines the arguments for the 'arguments' HCL block.
type Input struct {
	InputPath   string   `bgf:"input_path"`
	OutputPath  string   `bgf:"output_path"`
	JSONPath    string   `bgf:"json_path"`
	TopN        int      `bgf:"top_n"`
	GroupColumn string   `bgf:"group_column"`
	Groups      []string `bgf:"groups"`
	YearIn      int      `bgf:"year_in"`
	YearOut     int      `bgf:"year_out"`
	MinRatings  int      `bgf:"min_ratings"`
}

// Deps is an empty struct because this runner does not use any resources.
type Deps struct{}

// Output defines the data structure returned by the runner.
type Output struct {
	Path  string `cty:"path"`
	Games int    `cty:"games"`
}

// summary is the full report payload, written as JSON when json_path is set.
type summary struct {
	GeneratedAt  string                 `json:"generated_at"`
	Games        int                    `json:"games"`
	TopGames     []topGame              `json:"top_games"`
	GamesPerYear []dataset.YearCount    `json:"games_per_year"`
	TopGroups    []dataset.GroupRating  `json:"top_groups"`
	Densities    []dataset.GroupDensity `json:"densities,omitempty"`
}

type topGame struct {
	Name          string  `json:"name"`
	YearPublished int     `json:"year_published"`
	AverageRating float64 `json:"average_rating"`
	UsersRated    int     `json:"users_rated"`
}

// onRunReport is the handler for the 'report' runner's on_run event.
func onRunReport(ctx context.Context, deps *Deps, input *Input) (*Output, error) {
	logger := ctxlog.FromContext(ctx)

	table, err := dataset.Load(input.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	topN := input.TopN
	if topN <= 0 {
		topN = 10
	}
	col := dataset.Column(input.GroupColumn)
	if col == "" {
		col = dataset.ColCategory
	}
	yearIn, yearOut := input.YearIn, input.YearOut
	if yearIn == 0 && yearOut == 0 {
		yearIn, yearOut = 1990, 2010
	}

	rated := dataset.RatingFilter(table, input.MinRatings)
	s := summary{
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		Games:        len(table),
		GamesPerYear: dataset.CountByYear(table),
		TopGroups:    dataset.TopGroups(rated, col, yearIn, yearOut),
	}
	for _, g := range dataset.FilterAll(rated, nil, nil, nil, topN) {
		s.TopGames = append(s.TopGames, topGame{
			Name:          g.Name,
			YearPublished: g.YearPublished,
			AverageRating: g.AverageRating,
			UsersRated:    g.UsersRated,
		})
	}
	if len(input.Groups) > 0 {
		s.Densities = dataset.DensityTransform(dataset.Radio(rated, col, input.Groups))
	}

	if err := os.WriteFile(input.OutputPath, []byte(renderMarkdown(&s, col)), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	if input.JSONPath != "" {
		data, err := json.MarshalIndent(&s, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal report: %w", err)
		}
		if err := os.WriteFile(input.JSONPath, append(data, '\n'), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write JSON report: %w", err)
		}
	}
	logger.Info("Report written.", "path", input.OutputPath, "games", s.Games)

	return &Output{Path: input.OutputPath, Games: s.Games}, nil
}

// renderMarkdown formats the summary as a small human-readable report.
func renderMarkdown(s *summary, col dataset.Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Board Game Dataset Report\n\n")
	fmt.Fprintf(&b, "Generated at %s. %d games in the dataset.\n\n", s.GeneratedAt, s.Games)

	fmt.Fprintf(&b, "## Top games by average rating\n\n")
	fmt.Fprintf(&b, "| Game | Year | Rating | Ratings |\n|---|---|---|---|\n")
	for _, g := range s.TopGames {
		fmt.Fprintf(&b, "| %s | %d | %.2f | %d |\n", g.Name, g.YearPublished, g.AverageRating, g.UsersRated)
	}

	fmt.Fprintf(&b, "\n## Top %s by mean rating\n\n", col)
	fmt.Fprintf(&b, "| %s | Mean rating |\n|---|---|\n", col)
	for _, g := range s.TopGroups {
		fmt.Fprintf(&b, "| %s | %.2f |\n", g.Value, g.AverageRating)
	}

	if len(s.GamesPerYear) > 0 {
		first := s.GamesPerYear[0]
		last := s.GamesPerYear[len(s.GamesPerYear)-1]
		fmt.Fprintf(&b, "\n## Publication years\n\n")
		fmt.Fprintf(&b, "Dataset spans %d to %d across %d distinct years.\n",
			first.Year, last.Year, len(s.GamesPerYear))
	}

	for _, d := range s.Densities {
		fmt.Fprintf(&b, "\n### Rating density: %s (mean %.2f)\n\n", d.Group, d.Mean)
		for _, p := range d.Points {
			fmt.Fprintf(&b, "- %.1f: %.2f\n", p.Bin, p.Density)
		}
	}
	return b.String()
}
