// Package main provides a performance benchmarking tool for the qa4sm CLI.
// It measures execution times of the read commands across a directory of results files,
// running each test multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - qa4sm binary installed and available in PATH
// - Parquet results files in the specified directory
//
// Usage: go run benchmark/main.go [results-dir]
//
//	results-dir: Directory containing *.parquet results files
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-history average, cold run and average of warm runs).
type BenchmarkResult struct {
	ResultsFile   string
	Command       string
	NoHistoryTime string
	ColdTime      string
	WarmTime      string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	ResultsDir    string
	Timeout       time.Duration
	NoHistoryRuns int
	HistoryRuns   int
	Commands      map[string][]string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [results-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		ResultsDir:    os.Args[1],
		Timeout:       2 * time.Minute,
		NoHistoryRuns: 3,
		HistoryRuns:   4,
		Commands: map[string][]string{
			"info":    {"info"},
			"vars":    {"vars", "--grouped"},
			"frame":   {"frame", "--metric", "R", "--output", "csv", "--output-file", os.DevNull},
			"summary": {"summary", "--metric", "R"},
		},
	}

	files, err := checkPrerequisites(config)
	if err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Clear the history using qa4sm history clear
	fmt.Printf("Clearing history...\n")
	clearCmd := exec.Command("qa4sm", "history", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear history: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("History cleared successfully\n")
	}

	results := runBenchmarks(config, files)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the qa4sm binary and results files exist
func checkPrerequisites(config BenchmarkConfig) ([]string, error) {
	if _, err := exec.LookPath("qa4sm"); err != nil {
		return nil, fmt.Errorf("qa4sm binary not found in PATH")
	}

	files, err := filepath.Glob(filepath.Join(config.ResultsDir, "*.parquet"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no parquet results files found in %s", config.ResultsDir)
	}
	return files, nil
}

// runBenchmarks executes all benchmark tests across the results files
func runBenchmarks(config BenchmarkConfig, files []string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d files, %v timeout, no-history: %d runs, history: %d runs\n",
		len(files), config.Timeout, config.NoHistoryRuns, config.HistoryRuns)

	commands := sortedCommands(config)
	for _, file := range files {
		fmt.Printf("Benchmarking %s\n", filepath.Base(file))
		for _, command := range commands {
			results = append(results, runBenchmarkSuite(config, file, command))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-history and history benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, file, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, filepath.Base(file))

	// Helper to run a benchmark phase
	runPhase := func(historyBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, file, command, historyBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: runs without load history
	_, noHistoryAvg := runPhase("none", config.NoHistoryRuns, "No-history")

	// Phase 2: runs recording every load
	coldTime, warmAvg := runPhase("sqlite", config.HistoryRuns, "History")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-history average: %s, Cold time: %s, Warm average: %s\n", noHistoryAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		ResultsFile:   filepath.Base(file),
		Command:       command,
		NoHistoryTime: noHistoryAvg,
		ColdTime:      coldTimeStr,
		WarmTime:      warmAvg,
	}
}

// runBenchmark executes a qa4sm command multiple times with the given history backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, file, command, historyBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	cmdArgs := config.Commands[command]
	args := append([]string{cmdArgs[0], file, "--history-backend", historyBackend}, cmdArgs[1:]...)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("qa4sm", args...)

		done := make(chan error, 1)
		go func() {
			done <- cmd.Run()
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// sortedCommands returns the benchmarked command names in a stable order
func sortedCommands(config BenchmarkConfig) []string {
	commands := make([]string, 0, len(config.Commands))
	for name := range config.Commands {
		commands = append(commands, name)
	}
	slices.Sort(commands)
	return commands
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("qa4sm_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"file", "cmd", "no_history_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.ResultsFile, result.Command, result.NoHistoryTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range sortedCommands(config) {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-40s: No-history: %s, Cold: %s, Warm: %s\n", result.ResultsFile, result.NoHistoryTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
