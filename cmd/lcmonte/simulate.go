package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lcmonte/adapters/postgres"
	"lcmonte/adapters/stats/autocorr"
	"lcmonte/adapters/stats/periodogram"
	"lcmonte/domain/core"
	"lcmonte/domain/lightcurve"
	"lcmonte/domain/stats"
	"lcmonte/internal"
	"lcmonte/internal/api"
	"lcmonte/internal/config"
	"lcmonte/internal/generator"
	"lcmonte/internal/plot"
	"lcmonte/internal/report"
	"lcmonte/internal/runner"
	"lcmonte/ports"
)

func newSimulateCmd() *cobra.Command {
	var trials int
	var seed int64
	var points int
	var span float64
	var familyList string
	var outDir string
	var excelPath string
	var reportPath string
	var plotsDir string
	var persist bool

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the built-in bin suite and print one summary row per bin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if trials <= 0 {
				trials = cfg.Simulation.Trials
			}
			if seed == 0 {
				seed = cfg.Simulation.Seed
			}
			if points <= 0 {
				points = cfg.Simulation.Points
			}
			if span <= 0 {
				span = cfg.Simulation.Span
			}
			if outDir == "" {
				outDir = cfg.Paths.OutputDir
			}

			families, err := parseFamilies(familyList)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			logger := internal.NewDefaultLogger()
			bins := defaultBinSuite(points, span)
			runCfg := runner.Config{
				Trials:    trials,
				Seed:      seed,
				Families:  families,
				Workers:   cfg.Simulation.Workers,
				OutputDir: outDir,
			}

			runID, results, err := runner.New(logger).Run(cmd.Context(), bins, runCfg)
			if err != nil {
				return err
			}

			if len(results) > 0 {
				fmt.Println(results[0].Header)
			}
			for _, result := range results {
				fmt.Println(result.Row)
			}

			if excelPath != "" {
				if err := report.WriteWorkbook(excelPath, results); err != nil {
					return err
				}
				logger.Info("wrote workbook %s", excelPath)
			}
			if reportPath != "" {
				if err := report.WriteHTML(reportPath, runID, seed, results); err != nil {
					return err
				}
				logger.Info("wrote report %s", reportPath)
			}
			if plotsDir != "" {
				if err := writePlots(plotsDir, bins, seed); err != nil {
					return err
				}
				logger.Info("wrote diagnostic plots to %s", plotsDir)
			}
			if persist {
				if err := persistResults(cmd.Context(), cfg.Database.URL, runID, seed, trials, results); err != nil {
					return err
				}
				logger.Info("persisted run %s", runID)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&trials, "trials", 0, "trials per bin (default from SIM_TRIALS)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "base RNG seed (default from SIM_SEED)")
	cmd.Flags().IntVar(&points, "points", 0, "samples per light curve")
	cmd.Flags().Float64Var(&span, "span", 0, "observation baseline in days")
	cmd.Flags().StringVar(&familyList, "families", "", "comma-separated statistic families (default all)")
	cmd.Flags().StringVar(&outDir, "out", "", "directory for auxiliary distribution files")
	cmd.Flags().StringVar(&excelPath, "excel", "", "also write an xlsx workbook of summaries")
	cmd.Flags().StringVar(&reportPath, "report", "", "also write an HTML run report")
	cmd.Flags().StringVar(&plotsDir, "plots", "", "also render one example trial per bin as PNGs")
	cmd.Flags().BoolVar(&persist, "persist", false, "store summaries in postgres (DATABASE_URL)")
	return cmd
}

func newHeaderCmd() *cobra.Command {
	var familyList string
	cmd := &cobra.Command{
		Use:   "header",
		Short: "Print the tab-delimited column header for a family set",
		RunE: func(cmd *cobra.Command, args []string) error {
			families, err := parseFamilies(familyList)
			if err != nil {
				return err
			}
			bins := defaultBinSuite(2, 1)
			runCfg := runner.Config{Trials: 0, Families: families}
			_, results, err := runner.New(nil).Run(cmd.Context(), bins[:1], runCfg)
			if err != nil {
				return err
			}
			fmt.Println(results[0].Header)
			return nil
		},
	}
	cmd.Flags().StringVar(&familyList, "families", "", "comma-separated statistic families (default all)")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve stored run results as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := postgres.Connect(cfg.Database.URL)
			if err != nil {
				return err
			}
			if err := postgres.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			repo := postgres.NewSummaryRepository(db)
			logger := internal.NewDefaultLogger()
			return api.NewServer(repo, logger).ListenAndServe(":" + cfg.Server.Port)
		},
	}
}

func parseFamilies(list string) (stats.FamilySet, error) {
	if list == "" {
		return stats.NewFamilySet(stats.AllFamilies...), nil
	}
	set := stats.FamilySet{}
	for _, name := range strings.Split(list, ",") {
		f := stats.Family(strings.ToUpper(strings.TrimSpace(name)))
		if !f.IsValid() {
			return nil, fmt.Errorf("unknown statistic family %q", name)
		}
		set[f] = true
	}
	return set, nil
}

// defaultBinSuite is the built-in comparison grid: a strict periodic model,
// a damped random walk and a white-noise null, each at two noise levels.
func defaultBinSuite(points int, span float64) []runner.BinSpec {
	type model struct {
		gen    ports.Generator
		params []stats.ParamRange
	}
	models := []model{
		{
			gen:    generator.Sine{Amplitude: 0.25, Period: 4, Phase: 0},
			params: []stats.ParamRange{{Name: "Amplitude", Min: 0.25, Max: 0.25}, {Name: "Period", Min: 2, Max: 8}},
		},
		{
			gen:    generator.DampedRandomWalk{Tau: 20, Sigma: 0.2},
			params: []stats.ParamRange{{Name: "Tau", Min: 10, Max: 40}, {Name: "Sigma", Min: 0.2, Max: 0.2}},
		},
		{
			gen:    generator.WhiteNoise{Sigma: 0.2},
			params: []stats.ParamRange{{Name: "Sigma", Min: 0.2, Max: 0.2}},
		},
	}

	bins := []runner.BinSpec{}
	for _, m := range models {
		for _, noise := range []float64{0, 0.05} {
			bins = append(bins, runner.BinSpec{
				Identity: stats.BinIdentity{
					Model:  m.gen.Name(),
					Params: m.params,
					Noise:  noise,
				},
				Generator: m.gen,
				Points:    points,
				Span:      span,
				Jitter:    0.3,
			})
		}
	}
	return bins
}

// writePlots renders one example trial per bin, regenerated from the same
// per-bin seed the run used: the raw light curve, its periodogram and its
// interpolated ACF.
func writePlots(dir string, bins []runner.BinSpec, seed int64) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i, bin := range bins {
		rng := rand.New(rand.NewSource(seed + int64(i)))
		times := generator.JitteredTimes(bin.Points, bin.Span, bin.Jitter, rng)
		fluxes := bin.Generator.Generate(rng, times)
		if bin.Identity.Noise > 0 {
			fluxes = generator.AddNoise(fluxes, bin.Identity.Noise, rng)
		}

		series, err := lightcurve.New(times, lightcurve.ToMagnitudes(fluxes))
		if err != nil {
			return err
		}
		cleanT, cleanM, err := lightcurve.StripNaNs(series.Times, series.Values)
		if err != nil {
			return err
		}
		if len(cleanT) < 2 {
			continue
		}

		label := bin.Identity.Label()
		stem := filepath.Join(dir, bin.Identity.FileStem())
		if err := plot.LightCurve(stem+"_lc.png", label, cleanT, cleanM); err != nil {
			return err
		}

		freqs, err := periodogram.FreqGrid(cleanT)
		if err == nil {
			powers, perr := periodogram.Power(cleanT, cleanM, freqs)
			if perr == nil {
				if err := plot.Periodogram(stem+"_pgram.png", label, freqs, powers); err != nil {
					return err
				}
			} else if !core.IsUndefined(perr) {
				return perr
			}
		} else if !core.IsUndefined(err) {
			return err
		}

		span := cleanT[len(cleanT)-1] - cleanT[0]
		deltaT := autocorr.GridStep(span, len(cleanT))
		nLags := int(math.Floor(span/deltaT)) + 1
		acf, aerr := autocorr.Interpolated(cleanT, cleanM, deltaT, nLags, autocorr.MethodFFT)
		if aerr == nil {
			lags := autocorr.Lags(deltaT, nLags)
			if err := plot.Curve(stem+"_acf.png", label, "lag", "acf", lags, acf); err != nil {
				return err
			}
		} else if !core.IsUndefined(aerr) {
			return aerr
		}
	}
	return nil
}

func persistResults(ctx context.Context, dbURL string, runID core.ID, seed int64, trials int, results []runner.BinResult) error {
	db, err := postgres.Connect(dbURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}
	repo := postgres.NewSummaryRepository(db)

	run := ports.RunRecord{
		ID:        runID,
		Seed:      seed,
		Trials:    trials,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.CreateRun(ctx, run); err != nil {
		return err
	}
	for _, result := range results {
		for _, ns := range result.Summaries {
			rec := ports.SummaryRecord{
				RunID:           run.ID,
				BinLabel:        result.Identity.Label(),
				Family:          ns.Family,
				Statistic:       ns.Name,
				Mean:            ns.Summary.Mean,
				StdDev:          ns.Summary.StdDev,
				DefinedFraction: ns.Summary.DefinedFraction,
			}
			if err := repo.SaveSummary(ctx, rec); err != nil {
				return err
			}
		}
	}
	return nil
}
