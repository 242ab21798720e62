// Command itinerary prints or saves an ascent itinerary for a planned trip.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Skufu/GoSummit/internal/assessment"
	"github.com/Skufu/GoSummit/internal/guideline"
	"github.com/Skufu/GoSummit/internal/itinerary"
	"github.com/Skufu/GoSummit/internal/logging"
	"github.com/Skufu/GoSummit/internal/recommendation"
)

type options struct {
	start, target, rate float64
	days, age           int
	priorAMS            bool
	priorHACE           bool
	priorHAPE           bool
	comorbidities       []string
	format              string
	out                 string
	guidelineFile       string
	title               string
	logLevel            string
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "itinerary",
		Short:        "Generate an altitude acclimatization itinerary",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.New(opts.logLevel, "console", "")
			if err != nil {
				return err
			}
			defer logger.Sync()
			return run(opts, stdout, logger)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.start, "start", 0, "starting altitude in metres")
	f.Float64Var(&opts.target, "target", 0, "highest sleeping altitude in metres")
	f.Float64Var(&opts.rate, "rate", 500, "planned ascent per day in metres")
	f.IntVar(&opts.days, "days", 0, "days available for the ascent (0 for no limit)")
	f.IntVar(&opts.age, "age", 0, "traveller age in years")
	f.BoolVar(&opts.priorAMS, "prior-ams", false, "history of acute mountain sickness")
	f.BoolVar(&opts.priorHACE, "prior-hace", false, "history of HACE")
	f.BoolVar(&opts.priorHAPE, "prior-hape", false, "history of HAPE")
	f.StringSliceVar(&opts.comorbidities, "comorbidity", nil, "pre-existing condition (repeatable)")
	f.StringVar(&opts.format, "format", "text", "output format: text or xlsx")
	f.StringVarP(&opts.out, "out", "o", "", "output file (stdout when empty)")
	f.StringVar(&opts.guidelineFile, "guideline", "", "YAML guideline overriding the built-in thresholds")
	f.StringVar(&opts.title, "title", "", "itinerary title")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func run(opts *options, stdout io.Writer, logger *zap.Logger) error {
	format, err := itinerary.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if format == itinerary.FormatXLSX && opts.out == "" {
		return errors.New("xlsx output needs --out")
	}

	g := assessment.DefaultGuideline()
	if opts.guidelineFile != "" {
		if g, err = guideline.LoadFile(opts.guidelineFile); err != nil {
			return err
		}
	}

	trip := assessment.TripParameters{
		StartAltitude:    opts.start,
		TargetAltitude:   opts.target,
		AscentRatePerDay: opts.rate,
		DaysPlanned:      opts.days,
	}
	history := assessment.MedicalHistory{PriorAMS: opts.priorAMS, PriorHACE: opts.priorHACE, PriorHAPE: opts.priorHAPE}
	for _, c := range opts.comorbidities {
		cm := assessment.Comorbidity(c)
		if !cm.Valid() {
			return fmt.Errorf("unknown comorbidity %q", c)
		}
		history.Comorbidities = append(history.Comorbidities, cm)
	}

	schedule, err := assessment.GenerateSchedule(trip, g.Ascent)
	var unreachable *assessment.UnreachableTargetError
	if errors.As(err, &unreachable) {
		return fmt.Errorf("%w; rerun with --days %d or more", err, unreachable.MinimumDays)
	}
	if err != nil {
		return err
	}

	risk := assessment.AssessPreTripRisk(trip, history, opts.age, g)
	logger.Info("pre-trip risk", zap.String("tier", string(risk.Tier)), zap.Int("points", risk.Points))
	blocks, err := recommendation.Resolve(recommendation.Prevention(risk.Tier, history))
	if err != nil {
		return err
	}

	title := opts.title
	if title == "" {
		title = fmt.Sprintf("Ascent itinerary %.0fm to %.0fm (pre-trip risk: %s)", opts.start, opts.target, risk.Tier)
	}
	it := itinerary.Itinerary{Title: title, GuidelineVersion: g.Version, Schedule: schedule, Blocks: blocks}

	if opts.out == "" {
		return itinerary.Render(stdout, it, format)
	}
	file, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := itinerary.Render(file, it, format); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	logger.Info("itinerary written", zap.String("path", opts.out), zap.String("format", string(format)))
	return nil
}
