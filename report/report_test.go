package report_test

import (
	"strings"
	"testing"

	"github.com/boreq/rentals/report"
	"github.com/stretchr/testify/require"
)

const benchOutput = `goos: linux
goarch: amd64
pkg: github.com/boreq/rentals
cpu: AMD Ryzen 7 PRO 4750U with Radeon Graphics
BenchmarkPerformance/bbolt_none/fast_storage/short_names/add-16         	       3	 400000000 ns/op
BenchmarkPerformance/badger_none/fast_storage/short_names/add-16        	      10	 100000000 ns/op
BenchmarkSize/bbolt_none/short_names-16                                 	    1000	         0 ns/op	     512.0 bytes/op
BenchmarkSize/badger_none/short_names-16                                	    2000	         0 ns/op	     256.0 bytes/op
PASS
ok  	github.com/boreq/rentals	12.345s
`

func TestGetBenchResults(t *testing.T) {
	results, err := report.GetBenchResults(strings.NewReader(benchOutput))
	require.NoError(t, err)

	require.Equal(t, "linux", results.Goos)
	require.Equal(t, "amd64", results.Goarch)
	require.Equal(t, "AMD Ryzen 7 PRO 4750U with Radeon Graphics", results.Cpu)

	require.Equal(t,
		[]report.BenchResult{
			{
				BenchmarkName: "fast_storage/short_names/add",
				Unit:          "ns/op",
				Systems: []report.SystemBenchResult{
					{SystemName: "badger_none", N: 10, Value: 100000000},
					{SystemName: "bbolt_none", N: 3, Value: 400000000},
				},
			},
		},
		results.PerformanceResults,
	)

	require.Equal(t,
		[]report.BenchResult{
			{
				BenchmarkName: "short_names",
				Unit:          "bytes/op",
				Systems: []report.SystemBenchResult{
					{SystemName: "badger_none", N: 2000, Value: 256},
					{SystemName: "bbolt_none", N: 1000, Value: 512},
				},
			},
		},
		results.SizeResults,
	)
}

func TestGetBenchResults_MissingEnvironment(t *testing.T) {
	_, err := report.GetBenchResults(strings.NewReader("PASS\n"))
	require.Error(t, err)
}

func TestParseBenchmarkName(t *testing.T) {
	testCases := []struct {
		Name          string
		System        string
		Benchmark     string
		ExpectedError bool
	}{
		{
			Name:      "BenchmarkPerformance/bbolt_none/fast_storage/short_names/add-8",
			System:    "bbolt_none",
			Benchmark: "fast_storage/short_names/add",
		},
		{
			Name:      "BenchmarkSize/badger_zstd/long_names",
			System:    "badger_zstd",
			Benchmark: "long_names",
		},
		{
			Name:          "BenchmarkSize",
			ExpectedError: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			system, benchmark, err := report.ParseBenchmarkName(testCase.Name)
			if testCase.ExpectedError {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, testCase.System, system)
			require.Equal(t, testCase.Benchmark, benchmark)
		})
	}
}

func TestMakeResultChart(t *testing.T) {
	graph, err := report.MakeResultChart(report.BenchResult{
		BenchmarkName: "short_names",
		Unit:          "bytes/op",
		Systems: []report.SystemBenchResult{
			{SystemName: "a", Value: 100},
			{SystemName: "b", Value: 200},
		},
	})
	require.NoError(t, err)
	require.Len(t, graph.Bars, 2)
	require.Equal(t, "bytes per op", graph.YAxis.Name)
	require.InDelta(t, 220, graph.YAxis.Range.GetMax(), 0.001)

	_, err = report.MakeResultChart(report.BenchResult{})
	require.Error(t, err)
}
