package main

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/boreq/errors"
	"github.com/boreq/rentals/report"
	gochart "github.com/wcharczuk/go-chart/v2"
)

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}

func run() error {
	results, err := report.GetBenchResults(os.Stdin)
	if err != nil {
		return errors.Wrap(err, "error getting bench results")
	}

	directory := path.Join(
		"results",
		fmt.Sprintf("%s-%s-%s", results.Cpu, results.Goarch, results.Goos),
	)

	if err := os.RemoveAll(directory); err != nil {
		return errors.Wrap(err, "error removing directory")
	}

	if err := os.MkdirAll(directory, 0700); err != nil {
		return errors.Wrap(err, "error recreating directory")
	}

	readmeBuffer := bytes.NewBuffer(nil)
	readmeBuffer.WriteString("# Results\n")
	readmeBuffer.WriteString("```\n")
	readmeBuffer.WriteString(fmt.Sprintf("goarch=%s\n", results.Goarch))
	readmeBuffer.WriteString(fmt.Sprintf("goos=%s\n", results.Goos))
	readmeBuffer.WriteString(fmt.Sprintf("cpu=%s\n", results.Cpu))
	readmeBuffer.WriteString("```\n")

	readmeBuffer.WriteString("## Performance\n")
	readmeBuffer.WriteString("Time needed to perform a batch of rental operations.\n")

	if err := writeResults(directory, readmeBuffer, "performance", results.PerformanceResults); err != nil {
		return errors.Wrap(err, "error writing performance results")
	}

	readmeBuffer.WriteString("## Size\n")
	readmeBuffer.WriteString("\n")
	readmeBuffer.WriteString("Warning: bbolt metrics are not reliable as bbolt grows its file in large increments.")
	readmeBuffer.WriteString("\n")

	if err := writeResults(directory, readmeBuffer, "size", results.SizeResults); err != nil {
		return errors.Wrap(err, "error writing size results")
	}

	readmeFile, err := os.Create(path.Join(directory, "README.md"))
	if err != nil {
		return errors.Wrap(err, "error creating readme")
	}
	defer readmeFile.Close()

	if _, err := readmeBuffer.WriteTo(readmeFile); err != nil {
		return errors.Wrap(err, "error writing to readme file")
	}

	return nil
}

func writeResults(directory string, readmeBuffer *bytes.Buffer, prefix string, results []report.BenchResult) error {
	for _, result := range results {
		resultsChart, err := report.MakeResultChart(result)
		if err != nil {
			return errors.Wrap(err, "error creating chart")
		}

		filename := fmt.Sprintf(
			"%s-%s.png",
			prefix,
			strings.Replace(result.BenchmarkName, "/", "-", -1),
		)

		if err := renderChart(path.Join(directory, filename), resultsChart); err != nil {
			return errors.Wrap(err, "error rendering the chart")
		}

		readmeBuffer.WriteString(fmt.Sprintf("### %s\n", result.BenchmarkName))
		readmeBuffer.WriteString(fmt.Sprintf("![](./%s)\n", filename))
		readmeBuffer.WriteString("```\n")
		sort.Slice(result.Systems, func(i, j int) bool {
			return result.Systems[i].Value < result.Systems[j].Value
		})
		for _, system := range result.Systems {
			readmeBuffer.WriteString(fmt.Sprintf("%20s = %.0f %s (n=%d)\n", system.SystemName, system.Value, result.Unit, system.N))
		}
		readmeBuffer.WriteString("```\n")
	}

	return nil
}

func renderChart(filename string, resultsChart gochart.BarChart) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "error creating chart file")
	}
	defer f.Close()

	return resultsChart.Render(gochart.PNG, f)
}
