// cmd/aycfctl/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/corvidair/aycf-planner/config"
	"github.com/corvidair/aycf-planner/planner"
	"github.com/corvidair/aycf-planner/snapshot"
)

var (
	dataDir   string
	startDate string
	endDate   string

	strongColor = color.New(color.FgGreen, color.Bold)
	steadyColor = color.New(color.FgCyan)
	shakyColor  = color.New(color.FgYellow)
	rareColor   = color.New(color.FgRed)
)

var rootCmd = &cobra.Command{
	Use:   "aycfctl",
	Short: "Inspect AYCF availability snapshots from the command line.",
	Long: `aycfctl runs the stability aggregation over a local snapshot
directory without going through the web backend.

Examples:
  # Most stable routes over the last half year
  aycfctl routes --limit 30

  # Routes touching Liverpool in a fixed window
  aycfctl routes --airports LPL --start 2025-01-01 --end 2025-06-30

  # Ranked hub itineraries from Liverpool
  aycfctl suggest --base LPL --hubs OTP,BUD --targets KUT,EVN`,
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Show observed routes ranked by stability score.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		airports, _ := cmd.Flags().GetStringSlice("airports")

		p, err := newPlanner()
		if err != nil {
			return err
		}
		start, end, err := parseWindow()
		if err != nil {
			return err
		}
		result, err := p.RouteCounts(planner.RouteCountsInput{
			Start:    start,
			End:      end,
			Airports: airports,
			Limit:    limit,
		})
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"Rank", "Route", "Seen", "Days", "Score", "Label"})
		var data [][]string
		for i, stat := range result.Routes {
			data = append(data, []string{
				strconv.Itoa(i + 1),
				stat.Origin + " > " + stat.Destination,
				strconv.Itoa(stat.OccurrenceCount),
				strconv.Itoa(stat.TotalObservationDays),
				fmt.Sprintf("%.2f", stat.StabilityScore),
				scoreLabel(stat.StabilityScore),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Printf("%d routes over %d observation days (%s to %s)\n",
			len(result.Routes), result.ObservationDays,
			result.Range.Start.Format("2006-01-02"), result.Range.End.Format("2006-01-02"))
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Rank hub-mediated itineraries for a base airport.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		base, _ := cmd.Flags().GetString("base")
		hubs, _ := cmd.Flags().GetStringSlice("hubs")
		targets, _ := cmd.Flags().GetStringSlice("targets")
		topN, _ := cmd.Flags().GetInt("top")

		cfg := config.Default()
		if len(hubs) == 0 {
			hubs = cfg.Airports.HubCandidates
		}
		if len(targets) == 0 {
			targets = cfg.Airports.TargetCandidates
		}

		p, err := newPlanner()
		if err != nil {
			return err
		}
		start, end, err := parseWindow()
		if err != nil {
			return err
		}
		result, err := p.SuggestItineraries(planner.SuggestInput{
			Base:    base,
			Hubs:    hubs,
			Targets: targets,
			Start:   start,
			End:     end,
			TopN:    topN,
		})
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"Rank", "Itinerary", "Out", "In", "Composite", "Label"})
		var data [][]string
		for i, c := range result.Candidates {
			data = append(data, []string{
				strconv.Itoa(i + 1),
				fmt.Sprintf("%s > %s > %s", c.Base, c.Hub, c.Target),
				fmt.Sprintf("%.2f", c.OutboundScore),
				fmt.Sprintf("%.2f", c.InboundScore),
				fmt.Sprintf("%.2f", c.CompositeScore),
				scoreLabel(c.CompositeScore),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Printf("%d candidates over %d observation days\n", len(result.Candidates), result.ObservationDays)
		return nil
	},
}

func newPlanner() (*planner.Planner, error) {
	dir := dataDir
	if dir == "" {
		dir = os.Getenv("AYCF_DATA_DIR")
	}
	if dir == "" {
		dir = "./data"
	}
	cfg := config.Default()
	return planner.New(snapshot.NewLoader(dir), cfg.Query.DefaultLookbackDays, cfg.Query.MaxTopN), nil
}

func parseWindow() (time.Time, time.Time, error) {
	var start, end time.Time
	var err error
	if startDate != "" {
		start, err = time.Parse("2006-01-02", startDate)
		if err != nil {
			return start, end, fmt.Errorf("invalid --start: %w", err)
		}
	}
	if endDate != "" {
		end, err = time.Parse("2006-01-02", endDate)
		if err != nil {
			return start, end, fmt.Errorf("invalid --end: %w", err)
		}
	}
	return start, end, nil
}

func scoreLabel(score float64) string {
	switch {
	case score >= 0.8:
		return strongColor.Sprint("strong")
	case score >= 0.5:
		return steadyColor.Sprint("steady")
	case score >= 0.2:
		return shakyColor.Sprint("shaky")
	default:
		return rareColor.Sprint("rare")
	}
}

func main() {
	log.SetFlags(0)

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "snapshot directory (default $AYCF_DATA_DIR or ./data)")
	rootCmd.PersistentFlags().StringVar(&startDate, "start", "", "window start, YYYY-MM-DD")
	rootCmd.PersistentFlags().StringVar(&endDate, "end", "", "window end, YYYY-MM-DD")

	routesCmd.Flags().Int("limit", 50, "maximum routes to show")
	routesCmd.Flags().StringSlice("airports", nil, "restrict to routes touching these airports")

	suggestCmd.Flags().String("base", "", "base airport code (required)")
	suggestCmd.Flags().StringSlice("hubs", nil, "hub candidates (default: configured hubs)")
	suggestCmd.Flags().StringSlice("targets", nil, "target candidates (default: configured targets)")
	suggestCmd.Flags().Int("top", 25, "maximum itineraries to show")
	_ = suggestCmd.MarkFlagRequired("base")

	rootCmd.AddCommand(routesCmd, suggestCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
