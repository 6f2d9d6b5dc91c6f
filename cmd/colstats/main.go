// Command colstats computes streaming per-column and pairwise
// statistics over delimited text and spreadsheet files.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"colstats/adapters/advanced"
	biv "colstats/adapters/bivariate"
	"colstats/adapters/dispatch"
	"colstats/adapters/engine"
	"colstats/adapters/order"
	outlierpass "colstats/adapters/outlier"
	"colstats/adapters/reader"
	"colstats/adapters/writer"
	dombiv "colstats/domain/bivariate"
	"colstats/domain/column"
	"colstats/domain/core"
	"colstats/domain/field"
	domoutlier "colstats/domain/outlier"
	"colstats/internal/config"
	"colstats/internal/logging"
	"colstats/internal/memcheck"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "colstats",
		Short: "Streaming statistics for delimited text and spreadsheet files",
	}

	rootCmd.AddCommand(
		newStatsCmd(),
		newPairwiseCmd(),
		newXSDCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type commonFlags struct {
	delimiter string
	noHeader  bool
	jobs      int
	excel     bool
	runID     string
}

func (f *commonFlags) bind(cmd *cobra.Command) {
	// No default here: an unset --delimiter falls back to
	// cfg.DefaultDelimiter (COLSTATS_DELIMITER, § 6), resolved once cfg
	// is loaded in openSource rather than baked in at flag-registration
	// time, which runs before config.Load.
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "field delimiter (default: COLSTATS_DELIMITER env var, or \",\")")
	cmd.Flags().BoolVar(&f.noHeader, "no-header", false, "treat the first row as data, not a header")
	cmd.Flags().IntVar(&f.jobs, "jobs", runtime.NumCPU(), "worker count for the parallel pass")
	cmd.Flags().BoolVar(&f.excel, "excel", false, "read the input as an Excel workbook instead of CSV")
	cmd.Flags().StringVar(&f.runID, "run-id", "", "override the generated run ID used in log lines (for reproducible diagnostics)")
}

// resolveRunID honors an operator-supplied --run-id (useful for
// correlating a run's log lines across a support ticket) and
// otherwise mints a fresh one.
func resolveRunID(f commonFlags) (core.RunID, error) {
	if f.runID == "" {
		return core.NewRunID(), nil
	}
	return core.ParseRunID(f.runID)
}

func openSource(path string, f commonFlags, cfg *config.Config) (reader.IndexedSource, error) {
	if f.excel {
		return reader.NewExcelSource(path, !f.noHeader)
	}
	delimRune := cfg.DefaultDelimiter
	if f.delimiter != "" {
		delim := []rune(f.delimiter)
		if len(delim) != 1 {
			return nil, fmt.Errorf("--delimiter must be exactly one character, got %q", f.delimiter)
		}
		delimRune = delim[0]
	}
	return reader.NewCSVSource(path, delimRune, !f.noHeader)
}

// runPass picks sequential vs. parallel execution for the primary
// inference pass based on row count and worker count, matching the
// threshold the outlier/bivariate passes also honor.
func runPass(ctx context.Context, src reader.IndexedSource, header []string, opts engine.PassOptions, cfg *config.Config) ([]*column.Accumulator, error) {
	rowCount, err := src.RowCount()
	if err != nil {
		return nil, err
	}
	if opts.WantUnsorted || opts.WantModes {
		estimated := engine.EstimateRetainedBytes(rowCount, len(header), opts)
		if err := memcheck.RequireAvailable(estimated, cfg.MemoryHeadroomPct); err != nil {
			return nil, err
		}
	}
	if opts.Jobs <= 1 || rowCount < dispatch.ParallelThreshold {
		return engine.RunSequential(src, header, opts, cfg)
	}
	return engine.RunParallel(ctx, src, header, opts, cfg)
}

func newStatsCmd() *cobra.Command {
	var cf commonFlags
	var everything bool
	var wantMedian bool
	var wantQuartiles bool
	var wantCardinality bool
	var wantMode bool
	var percentilesFlag string
	var output string
	var atkinsonEpsilon float64
	var noDateInference bool

	cmd := &cobra.Command{
		Use:   "stats <input-file>",
		Short: "Compute per-column statistics for a delimited text or spreadsheet file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logging.NewDefaultLogger()
			runID, err := resolveRunID(cf)
			if err != nil {
				return err
			}
			log.Info("run %s: stats starting", runID)

			path := args[0]
			src, err := openSource(path, cf, cfg)
			if err != nil {
				return err
			}
			defer src.Close()

			header, err := src.Header()
			if err != nil {
				return err
			}

			percentiles, err := parsePercentiles(percentilesFlag)
			if err != nil {
				return err
			}

			if everything {
				wantMedian = true
				wantQuartiles = true
				wantCardinality = true
				wantMode = true
			}

			passOpts := engine.PassOptions{
				DateInference: !noDateInference,
				WantModes:     wantMode || wantCardinality || everything,
				WantUnsorted:  wantMedian || wantQuartiles || len(percentiles) > 0,
				Jobs:          cf.jobs,
			}

			log.Info("starting primary pass over %s (%d columns)", path, len(header))
			accs, err := runPass(cmd.Context(), src, header, passOpts, cfg)
			if err != nil {
				return err
			}
			engine.NarrowAll(accs, cfg)

			which := engine.Which{
				Median:      wantMedian,
				Quartiles:   wantQuartiles,
				Cardinality: wantCardinality,
				Mode:        wantMode,
				Percentiles: percentiles,
			}

			records := make([]*column.Record, len(accs))
			for i, a := range accs {
				records[i] = engine.Finalize(a, which, cfg)
			}

			rows := make([][]string, len(records))
			headerOpts := writer.HeaderOptions{
				Median: wantMedian, Quartiles: wantQuartiles,
				Cardinality: wantCardinality, Mode: wantMode,
				Percentiles: len(percentiles) > 0,
				// qsv__value is always present (but empty on per-field
				// rows) so the trailer rows below have a stable column
				// to carry their value in, per Open Question 1.
				QsvValue: true,
			}
			for i, r := range records {
				rows[i] = writer.BuildRow(r, headerOpts)
			}
			outHeader := writer.BuildHeader(headerOpts)

			fileInfo, statErr := os.Stat(path)
			var fileSize int64
			if statErr == nil {
				fileSize = fileInfo.Size()
			}
			rowCount, _ := src.RowCount()
			trailer := writer.DatasetTrailer{
				RowCount:      rowCount,
				ColumnCount:   len(header),
				FileSizeBytes: fileSize,
			}
			fp := writer.Fingerprint(records, trailer)
			trailer.FingerprintHex = fp.String()
			rows = append(rows, trailer.TrailerRows(outHeader)...)

			outPath := output
			if outPath == "" {
				outPath = defaultOutputPath(path, "_stats")
			}
			if err := writer.WriteAtomic(outPath, outHeader, rows); err != nil {
				return err
			}
			log.Info("run %s: wrote %s", runID, outPath)

			if everything {
				return writeExtended(cmd.Context(), src, header, accs, records, cfg, path, atkinsonEpsilon, log)
			}
			return nil
		},
	}

	cf.bind(cmd)
	cmd.Flags().BoolVar(&everything, "everything", false, "enable every optional statistic and the extended outlier/advanced output")
	cmd.Flags().BoolVar(&wantMedian, "median", false, "compute median and MAD")
	cmd.Flags().BoolVar(&wantQuartiles, "quartiles", false, "compute quartiles, IQR fences, and skewness")
	cmd.Flags().BoolVar(&wantCardinality, "cardinality", false, "compute cardinality and uniqueness ratio")
	cmd.Flags().BoolVar(&wantMode, "mode", false, "compute modes and antimodes")
	cmd.Flags().StringVar(&percentilesFlag, "percentiles", "", "comma-separated percentile list, e.g. 5,95")
	cmd.Flags().StringVar(&output, "output", "", "output file path (default: <input>_stats.csv)")
	cmd.Flags().Float64Var(&atkinsonEpsilon, "atkinson-epsilon", 1.0, "inequality-aversion parameter for the Atkinson index")
	cmd.Flags().BoolVar(&noDateInference, "no-date-inference", false, "treat date-like strings as plain strings")

	return cmd
}

// writeExtended runs the outlier and advanced-statistics second passes
// and writes the extended output, driven by the quartiles/cardinality
// already computed in the primary pass.
func writeExtended(ctx context.Context, src reader.IndexedSource, header []string, accs []*column.Accumulator, records []*column.Record, cfg *config.Config, path string, atkinsonEpsilon float64, log *logging.Logger) error {
	targets := make([]outlierpass.Target, 0, len(accs))
	fences := make(map[int]domoutlier.Fences, len(accs))
	for i, r := range records {
		if r.Q1 == nil || r.Q3 == nil {
			continue
		}
		isDate := accs[i].Typ == field.Date || accs[i].Typ == field.DateTime
		f := domoutlier.NewIQRFences(i, *r.Q1, *r.Q3)
		fences[i] = f
		targets = append(targets, outlierpass.Target{ColumnIndex: i, Fences: f, IsDate: isDate})
	}

	srcReopened, err := reopen(src)
	if err != nil {
		return err
	}
	defer srcReopened.Close()

	rowCount, _ := srcReopened.RowCount()
	var tallies map[int]*domoutlier.Tally
	if rowCount >= dispatch.ParallelThreshold {
		tallies, err = outlierpass.RunParallel(ctx, srcReopened, targets, runtime.NumCPU(), cfg.DatePreference)
	} else {
		tallies, err = outlierpass.RunSequential(srcReopened, targets, cfg.DatePreference)
	}
	if err != nil {
		return err
	}

	extRows := make([][]string, 0, len(accs))
	opts := writer.ExtendedOptions{
		Outlier: true, Moments: true, AtkinsonEpsilon: atkinsonEpsilon,
		Entropy: true, Ratios: true, XSDType: true,
	}
	for i, a := range accs {
		er := writer.ExtendedRecord{Field: a.Name}
		if t, ok := tallies[i]; ok {
			er.Outlier = outlierpass.Finalize(t, fences[i])
		}

		r := records[i]
		mean := derefOr(r.Mean, 0)
		variance := derefOr(r.Variance, 0)
		if len(a.UnsortedStats) > 0 {
			er.Kurtosis = advanced.Kurtosis(a.UnsortedStats, mean, variance)
			total := sumOf(a.UnsortedStats)
			er.Gini = advanced.Gini(a.UnsortedStats, total)
			er.Atkinson = advanced.Atkinson(a.UnsortedStats, mean, atkinsonEpsilon)
			if r.Skewness != nil {
				er.NormalityPValue = advanced.NormalityPValue(*r.Skewness, er.Kurtosis, int64(len(a.UnsortedStats)))
			} else {
				er.NormalityPValue = math.NaN()
			}
		} else {
			er.NormalityPValue = math.NaN()
		}

		if counts := a.DistinctCounts(); counts != nil {
			allUnique := int64(len(counts)) == a.ProcessedCount
			er.ShannonEntropy = advanced.ShannonEntropy(counts, a.ProcessedCount, allUnique)
			card := order.Cardinality(counts)
			er.NormalizedEntropy = advanced.NormalizedEntropy(er.ShannonEntropy, card)
		}
		if r.Skewness != nil {
			er.BimodalityCoefficient = advanced.BimodalityCoefficient(*r.Skewness, er.Kurtosis)
		}

		er.Ratios = computeRatios(r)

		min, max := 0.0, 0.0
		if a.MinMax.Max != 0 || a.MinMax.Min != 0 {
			min, max = a.MinMax.Min, a.MinMax.Max
		}
		samples := sampleStringsFor(a)
		er.XSDType = advanced.Infer(a.Typ, min, max, samples, advanced.FastScan)

		extRows = append(extRows, writer.BuildExtendedRow(er, opts))
	}

	outPath := defaultOutputPath(path, "_extended")
	extHeader := writer.BuildExtendedHeader(opts)
	if err := writer.WriteAtomic(outPath, extHeader, extRows); err != nil {
		return err
	}
	log.Info("wrote %s", outPath)
	return nil
}

func sampleStringsFor(a *column.Accumulator) []string {
	counts := a.DistinctCounts()
	if len(counts) == 0 {
		return nil
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 20 {
		keys = keys[:20]
	}
	return keys
}

func sumOf(vs []float64) float64 {
	var s float64
	for _, v := range vs {
		s += v
	}
	return s
}

func derefOr(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}

func computeRatios(r *column.Record) advanced.Ratios {
	min, _ := strconv.ParseFloat(r.Min, 64)
	max, _ := strconv.ParseFloat(r.Max, 64)
	mode := math.NaN()
	if v, err := strconv.ParseFloat(r.Mode, 64); err == nil {
		mode = v
	}
	return advanced.ComputeRatios(
		derefOr(r.Mean, 0), derefOr(r.Median, 0), derefOr(r.StdDev, 0),
		derefOr(r.Range, 0), derefOr(r.Q1, 0), derefOr(r.Q3, 0),
		mode, min, max, derefOr(r.MAD, 0), derefOr(r.SEM, 0),
	)
}

func reopen(src reader.IndexedSource) (reader.IndexedSource, error) {
	rowCount, err := src.RowCount()
	if err != nil {
		return nil, err
	}
	chunk, err := src.OpenAt(0, rowCount)
	if err != nil {
		return nil, err
	}
	return &rewoundSource{RecordSource: chunk, rowCount: rowCount, reopen: src.OpenAt}, nil
}

// rewoundSource adapts a single already-opened chunk back into an
// IndexedSource so the second pass can reuse the same RowCount and
// OpenAt contract without re-reading the header.
type rewoundSource struct {
	reader.RecordSource
	rowCount int64
	reopen   func(offset, count int64) (reader.RecordSource, error)
}

func (r *rewoundSource) RowCount() (int64, error) { return r.rowCount, nil }
func (r *rewoundSource) OpenAt(offset, count int64) (reader.RecordSource, error) {
	return r.reopen(offset, count)
}

func newPairwiseCmd() *cobra.Command {
	var cf commonFlags
	var all bool
	var wantPearson, wantSpearman, wantKendall, wantCovariance, wantMI, wantNMI bool
	var cardinalityCeiling int64
	var output string

	cmd := &cobra.Command{
		Use:   "pairwise <input-file>",
		Short: "Compute pairwise correlation, covariance, and mutual information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logging.NewDefaultLogger()
			runID, err := resolveRunID(cf)
			if err != nil {
				return err
			}
			log.Info("run %s: pairwise starting", runID)

			if all {
				wantPearson, wantSpearman, wantKendall = true, true, true
				wantCovariance, wantMI, wantNMI = true, true, true
			}
			wantRanked := wantSpearman || wantKendall
			wantInformation := wantMI || wantNMI

			path := args[0]
			src, err := openSource(path, cf, cfg)
			if err != nil {
				return err
			}
			defer src.Close()

			header, err := src.Header()
			if err != nil {
				return err
			}

			passOpts := engine.PassOptions{
				DateInference: true,
				WantModes:     true,
				WantUnsorted:  false,
				Jobs:          cf.jobs,
			}
			log.Info("running primary pass to select eligible column pairs")
			accs, err := runPass(cmd.Context(), src, header, passOpts, cfg)
			if err != nil {
				return err
			}
			engine.NarrowAll(accs, cfg)

			rowCount, err := src.RowCount()
			if err != nil {
				return err
			}

			summaries := make([]biv.FieldSummary, len(accs))
			isDate := make(map[int]bool, len(accs))
			for i, a := range accs {
				variance := a.Online.Variance()
				summaries[i] = biv.FieldSummary{
					ColumnIndex: i,
					IsDate:      a.Typ == field.Date || a.Typ == field.DateTime,
					StdDev:      sqrtOr0(variance),
					Variance:    variance,
					Cardinality: a.Cardinality(),
				}
				isDate[i] = summaries[i].IsDate
			}

			var pairs []dombiv.Key
			cardinalities := make(map[int]int64, len(accs))
			for i := range accs {
				cardinalities[i] = accs[i].Cardinality()
			}
			for i := 0; i < len(accs); i++ {
				for j := i + 1; j < len(accs); j++ {
					if biv.ShouldSkip(summaries[i], summaries[j], rowCount) {
						continue
					}
					pairs = append(pairs, dombiv.Key{I: i, J: j})
				}
			}

			sel := biv.Selection{
				Pairs: pairs, WantRanked: wantRanked, WantInformation: wantInformation,
				CardinalityCeiling: cardinalityCeiling, Cardinalities: cardinalities,
			}

			srcReopened, err := reopen(src)
			if err != nil {
				return err
			}
			defer srcReopened.Close()

			var pairStates map[dombiv.Key]*dombiv.Pair
			if rowCount >= dispatch.ParallelThreshold {
				pairStates, err = biv.RunParallel(cmd.Context(), srcReopened, sel, isDate, cf.jobs, cfg.DatePreference)
			} else {
				pairStates, err = biv.RunSequential(srcReopened, sel, isDate, cfg.DatePreference)
			}
			if err != nil {
				return err
			}

			which := biv.FinalizeWhich{
				Pearson: wantPearson, Spearman: wantSpearman, Kendall: wantKendall,
				Covariance: wantCovariance, MI: wantMI, NMI: wantNMI,
			}
			rowsOut := make([]biv.Row, 0, len(pairStates))
			for k, p := range pairStates {
				row := biv.Finalize(p, header[k.I], header[k.J], which,
					cardinalities[k.I], cardinalities[k.J], cardinalityCeiling)
				rowsOut = append(rowsOut, row)
			}
			writer.SortRows(rowsOut)

			bivOpts := writer.BivariateOptions{
				Pearson: wantPearson, Spearman: wantSpearman, Kendall: wantKendall,
				Covariance: wantCovariance, MI: wantMI, NMI: wantNMI,
			}
			outHeader := writer.BuildBivariateHeader(bivOpts)
			rows := make([][]string, len(rowsOut))
			for i, r := range rowsOut {
				rows[i] = writer.BuildBivariateRow(r, bivOpts)
			}

			outPath := output
			if outPath == "" {
				outPath = writer.JoinedOutputPath(path)
			}
			if err := writer.WriteAtomic(outPath, outHeader, rows); err != nil {
				return err
			}
			log.Info("run %s: wrote %s", runID, outPath)
			return nil
		},
	}

	cf.bind(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "compute every pairwise statistic")
	cmd.Flags().BoolVar(&wantPearson, "pearson", false, "compute Pearson correlation")
	cmd.Flags().BoolVar(&wantSpearman, "spearman", false, "compute Spearman rank correlation")
	cmd.Flags().BoolVar(&wantKendall, "kendall", false, "compute Kendall's tau-b")
	cmd.Flags().BoolVar(&wantCovariance, "covariance", false, "compute sample and population covariance")
	cmd.Flags().BoolVar(&wantMI, "mi", false, "compute mutual information")
	cmd.Flags().BoolVar(&wantNMI, "nmi", false, "compute normalized mutual information")
	cmd.Flags().Int64Var(&cardinalityCeiling, "cardinality-ceiling", 0, "skip MI/NMI for pairs where either field's cardinality exceeds this (0 disables the ceiling)")
	cmd.Flags().StringVar(&output, "output", "", "output file path (default: <input>_pairwise.csv)")

	return cmd
}

func newXSDCmd() *cobra.Command {
	var cf commonFlags
	var comprehensive bool
	var output string

	cmd := &cobra.Command{
		Use:   "xsd <input-file>",
		Short: "Infer the narrowest W3C XSD type for each column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			path := args[0]
			src, err := openSource(path, cf, cfg)
			if err != nil {
				return err
			}
			defer src.Close()

			header, err := src.Header()
			if err != nil {
				return err
			}

			passOpts := engine.PassOptions{DateInference: true, WantModes: true, WantUnsorted: false, Jobs: cf.jobs}
			accs, err := runPass(cmd.Context(), src, header, passOpts, cfg)
			if err != nil {
				return err
			}
			engine.NarrowAll(accs, cfg)

			mode := advanced.FastScan
			if comprehensive {
				mode = advanced.ComprehensiveScan
			}

			outHeader := []string{"field", "xsd_type"}
			rows := make([][]string, len(accs))
			for i, a := range accs {
				samples := sampleStringsFor(a)
				xsd := advanced.Infer(a.Typ, a.MinMax.Min, a.MinMax.Max, samples, mode)
				rows[i] = []string{a.Name, xsd}
			}

			outPath := output
			if outPath == "" {
				outPath = defaultOutputPath(path, "_xsd")
			}
			return writer.WriteAtomic(outPath, outHeader, rows)
		},
	}

	cf.bind(cmd)
	cmd.Flags().BoolVar(&comprehensive, "comprehensive", false, "mark Gregorian specializations with the \"?\" suffix instead of \"??\"; both modes check the same sample of up to 20 distinct values")
	cmd.Flags().StringVar(&output, "output", "", "output file path (default: <input>_xsd.csv)")

	return cmd
}

func parsePercentiles(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid percentile %q: %w", p, err)
		}
		if v < 0 || v > 100 {
			return nil, fmt.Errorf("percentile %v out of range [0, 100]", v)
		}
		out = append(out, v)
	}
	return out, nil
}

func defaultOutputPath(inputPath, suffix string) string {
	dot := strings.LastIndexByte(inputPath, '.')
	slash := strings.LastIndexByte(inputPath, '/')
	if dot > slash {
		return inputPath[:dot] + suffix + inputPath[dot:]
	}
	return inputPath + suffix + ".csv"
}

func sqrtOr0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return math.Sqrt(v)
}
