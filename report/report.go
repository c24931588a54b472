// Package report turns the output of the rental storage benchmarks into
// charts.
package report

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/boreq/errors"
	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/tools/benchmark/parse"
)

const (
	performancePrefix = "BenchmarkPerformance"
	sizePrefix        = "BenchmarkSize"
	sizeUnit          = "bytes/op"
)

type BenchResults struct {
	Goos               string
	Goarch             string
	Cpu                string
	PerformanceResults []BenchResult
	SizeResults        []BenchResult
}

// BenchResult groups the results of a single benchmark, for example
// "fast_storage/short_names/add", across all benchmarked systems.
type BenchResult struct {
	BenchmarkName string
	Unit          string
	Systems       []SystemBenchResult
}

type SystemBenchResult struct {
	SystemName string
	N          int
	Value      float64
}

func GetBenchResults(r io.Reader) (BenchResults, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return BenchResults{}, errors.Wrap(err, "error reading all")
	}

	var result BenchResults

	scan := bufio.NewScanner(bytes.NewReader(b))
	for scan.Scan() {
		parseEnvironmentLine(scan.Text(), &result)
	}

	if err := scan.Err(); err != nil {
		return BenchResults{}, errors.Wrap(err, "scan error")
	}

	if result.Cpu == "" || result.Goarch == "" || result.Goos == "" {
		return BenchResults{}, fmt.Errorf("missing execution environment info in output: '%+v'", result)
	}

	performanceResults, err := getPerformanceBenchResults(bytes.NewReader(b))
	if err != nil {
		return BenchResults{}, errors.Wrap(err, "error getting performance results")
	}

	sizeResults, err := getSizeBenchResults(bytes.NewReader(b))
	if err != nil {
		return BenchResults{}, errors.Wrap(err, "error getting size results")
	}

	result.PerformanceResults = performanceResults
	result.SizeResults = sizeResults

	return result, nil
}

const lineSep = ":"

// parseEnvironmentLine picks up the goos, goarch and cpu lines printed by go
// test, all other lines are ignored.
func parseEnvironmentLine(line string, result *BenchResults) {
	key, value, ok := strings.Cut(line, lineSep)
	if !ok {
		return
	}

	value = strings.TrimSpace(value)

	switch key {
	case "goos":
		result.Goos = value
	case "goarch":
		result.Goarch = value
	case "cpu":
		result.Cpu = value
	}
}

func getPerformanceBenchResults(r io.Reader) ([]BenchResult, error) {
	var results []BenchResult

	set, err := parse.ParseSet(r)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing set")
	}

	for _, benchmarks := range set {
		for _, benchmark := range benchmarks {
			if !strings.HasPrefix(benchmark.Name, performancePrefix+"/") {
				continue
			}

			systemName, benchmarkName, err := ParseBenchmarkName(benchmark.Name)
			if err != nil {
				return nil, errors.Wrap(err, "error parsing benchmark name")
			}

			results = addResult(results, benchmarkName, "ns/op", SystemBenchResult{
				SystemName: systemName,
				N:          benchmark.N,
				Value:      benchmark.NsPerOp,
			})
		}
	}

	sortResults(results)
	return results, nil
}

func getSizeBenchResults(r io.Reader) ([]BenchResult, error) {
	var results []BenchResult

	scan := bufio.NewScanner(r)
	for scan.Scan() {
		fields := strings.Fields(scan.Text())
		if len(fields) < 4 {
			continue
		}

		if !strings.HasPrefix(fields[0], sizePrefix+"/") {
			continue
		}

		value, ok, err := findMetric(fields[2:], sizeUnit)
		if err != nil {
			return nil, errors.Wrap(err, "error parsing value")
		}

		if !ok {
			return nil, errors.New("size metric not found")
		}

		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.Wrap(err, "error parsing n")
		}

		systemName, benchmarkName, err := ParseBenchmarkName(fields[0])
		if err != nil {
			return nil, errors.Wrap(err, "error parsing benchmark name")
		}

		results = addResult(results, benchmarkName, sizeUnit, SystemBenchResult{
			SystemName: systemName,
			N:          n,
			Value:      value,
		})
	}

	if err := scan.Err(); err != nil {
		return nil, errors.Wrap(err, "scan error")
	}

	sortResults(results)
	return results, nil
}

// findMetric looks for a "<value> <unit>" pair.
func findMetric(fields []string, unit string) (float64, bool, error) {
	for i := 1; i < len(fields); i++ {
		if fields[i] != unit {
			continue
		}

		v, err := strconv.ParseFloat(fields[i-1], 64)
		if err != nil {
			return 0, false, errors.Wrap(err, "error parsing float")
		}

		return v, true, nil
	}
	return 0, false, nil
}

func addResult(results []BenchResult, benchmarkName, unit string, system SystemBenchResult) []BenchResult {
	for i := range results {
		if results[i].BenchmarkName == benchmarkName {
			results[i].Systems = append(results[i].Systems, system)
			return results
		}
	}

	return append(results, BenchResult{
		BenchmarkName: benchmarkName,
		Unit:          unit,
		Systems:       []SystemBenchResult{system},
	})
}

func sortResults(results []BenchResult) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].BenchmarkName < results[j].BenchmarkName
	})

	for _, result := range results {
		sort.Slice(result.Systems, func(i, j int) bool {
			return result.Systems[i].SystemName < result.Systems[j].SystemName
		})
	}
}

// ParseBenchmarkName splits "BenchmarkX/system/rest-8" into the system name
// and the rest of the benchmark name with the GOMAXPROCS suffix removed.
func ParseBenchmarkName(name string) (string, string, error) {
	split := strings.SplitN(name, "/", 3)
	if len(split) != 3 || split[1] == "" || split[2] == "" {
		return "", "", errors.New("invalid name")
	}

	return split[1], trimProcs(split[2]), nil
}

func trimProcs(name string) string {
	i := strings.LastIndex(name, "-")
	if i < 0 {
		return name
	}

	if _, err := strconv.Atoi(name[i+1:]); err != nil {
		return name
	}

	return name[:i]
}

const (
	chartWidth    = 2000
	chartBarWidth = 300
)

func MakeResultChart(result BenchResult) (chart.BarChart, error) {
	if len(result.Systems) == 0 {
		return chart.BarChart{}, errors.New("no systems")
	}

	graph := chart.BarChart{
		Title: result.BenchmarkName,
		Background: chart.Style{
			Padding: chart.Box{
				Top: 40,
			},
		},
		Height:   512,
		BarWidth: chartBarWidth,
		Width:    chartWidth,
		YAxis: chart.YAxis{
			Name: strings.Replace(result.Unit, "/", " per ", 1),
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: 0,
			},
		},
	}

	for _, system := range result.Systems {
		graph.Bars = append(graph.Bars, chart.Value{
			Label: system.SystemName,
			Value: system.Value,
		})

		if v := system.Value * 1.1; v > graph.YAxis.Range.GetMax() {
			graph.YAxis.Range.SetMax(v)
		}
	}

	return graph, nil
}
