// Command assess-gtfs validates, filters and summarises GTFS static feeds.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	gtfs "github.com/datasciencecampus/assess-gtfs"
	"github.com/datasciencecampus/assess-gtfs/config"
	"github.com/datasciencecampus/assess-gtfs/export"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	app := &cli.App{
		Name:  "assess-gtfs",
		Usage: "validate, filter and summarise GTFS static feeds",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log parse warnings and debug detail",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a YAML file tuning the validation checks",
			},
		},
		Before: func(ctx *cli.Context) error {
			if ctx.Bool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "check a feed's referential and temporal integrity",
				ArgsUsage: "feed.zip",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "print the findings as JSON",
					},
					&cli.BoolFlag{
						Name:  "connectivity",
						Usage: "also require the stop network to be connected",
					},
				},
				Action: validateAction,
			},
			{
				Name:      "filter",
				Usage:     "reduce a feed by bounding box and/or service date",
				ArgsUsage: "feed.zip",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "bbox",
						Usage: "bounding box as minLon,minLat,maxLon,maxLat",
					},
					&cli.StringFlag{
						Name:  "date",
						Usage: "service date as YYYYMMDD",
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "directory to write the filtered tables to as CSV",
					},
				},
				Action: filterAction,
			},
			{
				Name:      "summarise",
				Usage:     "summarise trips and routes per weekday and route type",
				ArgsUsage: "feed.zip",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "routes",
						Usage: "summarise distinct routes instead of trips",
					},
				},
				Action: summariseAction,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func loadFeed(ctx *cli.Context) (*gtfs.Feed, error) {
	if ctx.Args().Len() == 0 {
		return nil, fmt.Errorf("a path to the GTFS static archive was not provided")
	}
	path := ctx.Args().First()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	feed, err := gtfs.ParseStatic(b)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GTFS static data: %w", err)
	}
	for _, warning := range feed.Warnings {
		log.Debug().Str("file", string(warning.File())).Msg(warning.Error())
	}
	return feed, nil
}

func loadOptions(ctx *cli.Context) (gtfs.ValidateOptions, error) {
	if path := ctx.String("config"); path != "" {
		c, err := config.Load(path)
		if err != nil {
			return gtfs.ValidateOptions{}, err
		}
		return c.ValidateOptions(), nil
	}
	return config.Default().ValidateOptions(), nil
}

func validateAction(ctx *cli.Context) error {
	feed, err := loadFeed(ctx)
	if err != nil {
		return err
	}
	opts, err := loadOptions(ctx)
	if err != nil {
		return err
	}
	report := gtfs.Validate(feed, opts)
	if ctx.Bool("connectivity") {
		if err := gtfs.BuildNetwork(feed).AssertConnected(); err != nil {
			return err
		}
	}
	if ctx.Bool("json") {
		return json.NewEncoder(os.Stdout).Encode(report)
	}
	for _, finding := range report.Findings {
		fmt.Println(formatFinding(finding))
	}
	fmt.Printf("%d errors, %d warnings\n", len(report.Errors()), len(report.Warnings()))
	if report.HasErrors() {
		return cli.Exit("feed has integrity errors", 1)
	}
	return nil
}

func filterAction(ctx *cli.Context) error {
	feed, err := loadFeed(ctx)
	if err != nil {
		return err
	}
	report := gtfs.NewReport()
	if s := ctx.String("bbox"); s != "" {
		bbox, err := gtfs.ParseBoundingBox(s)
		if err != nil {
			return err
		}
		var summary *gtfs.FilterSummary
		feed, summary, err = gtfs.FilterByBoundingBox(feed, bbox)
		if err != nil {
			return err
		}
		summary.AddToReport(report)
	}
	if s := ctx.String("date"); s != "" {
		date, err := gtfs.ParseFilterDate(s)
		if err != nil {
			return err
		}
		var summary *gtfs.FilterSummary
		feed, summary, err = gtfs.FilterByDate(feed, date)
		if err != nil {
			return err
		}
		summary.AddToReport(report)
	}
	for _, finding := range report.Findings {
		fmt.Println(formatFinding(finding))
	}
	log.Info().
		Int("trips", len(feed.Trips)).
		Int("stops", len(feed.Stops)).
		Int("routes", len(feed.Routes)).
		Msg("filtered feed")
	if len(feed.Trips) == 0 {
		log.Warn().Msg("filter removed every trip")
	}
	if dir := ctx.String("out"); dir != "" {
		csvs, err := export.ToCsv(feed)
		if err != nil {
			return err
		}
		if err := csvs.WriteDir(dir); err != nil {
			return err
		}
		log.Info().Str("dir", dir).Msg("wrote filtered tables")
	}
	return nil
}

func summariseAction(ctx *cli.Context) error {
	feed, err := loadFeed(ctx)
	if err != nil {
		return err
	}
	var rows []gtfs.SummaryRow
	if ctx.Bool("routes") {
		rows = gtfs.SummariseRoutes(feed)
	} else {
		rows = gtfs.SummariseTrips(feed)
	}
	hc := color.New(color.FgCyan)
	hc.Printf("%-10s %-12s %6s %6s %8s %8s\n", "weekday", "route_type", "min", "max", "mean", "median")
	for _, row := range rows {
		fmt.Printf("%-10s %-12s %6d %6d %8.2f %8.2f\n",
			row.Weekday, row.RouteType, row.Min, row.Max, row.Mean, row.Median)
	}
	fmt.Println()
	hc.Printf("%-12s %-35s %6s %10s\n", "route_type", "description", "count", "proportion")
	for _, mode := range gtfs.RouteModes(feed) {
		fmt.Printf("%-12s %-35s %6d %10.2f\n", mode.RouteType, mode.Description, mode.Count, mode.Proportion)
	}
	return nil
}

func formatFinding(f gtfs.Finding) string {
	switch f.Severity {
	case gtfs.SeverityError:
		return color.New(color.FgRed).Sprint(f.String())
	case gtfs.SeverityWarning:
		return color.New(color.FgYellow).Sprint(f.String())
	default:
		return f.String()
	}
}
