package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/limaJavier/placement/pkg/model"

	"github.com/samber/lo"
)

const (
	executablePath         = "../../bin/placement"
	maxTimeMs              = 10000
	seedsPerSize           = 3
	MB             float32 = 1024 * 1024
)

type StrategyType int

const (
	exact StrategyType = iota
	greedy
)

var (
	strategyTypes = map[StrategyType]string{
		exact:  "exact",
		greedy: "greedy",
	}
	sizes = []int{10, 20, 40, 80, 160}
)

type InstanceMetadata struct {
	Name   string
	Seed   uint64
	Points int
	Sites  int
	Models int
}

type PlacerMetadata struct {
	Strategy StrategyType
	Workers  int
}

type BenchmarkResult struct {
	Placer        PlacerMetadata
	Instance      InstanceMetadata
	Selected      int
	GreedySize    int
	Exact         bool
	NodesExplored uint64
	NodesPruned   uint64
	Duration      int64
	Memory        float32
	CpuPercentage int64
}

type instanceFile struct {
	Points []model.Point          `json:"points"`
	Models []model.EquipmentModel `json:"models"`
}

func main() {
	directory, err := os.MkdirTemp("", "placement-benchmark")
	if err != nil {
		log.Fatalf("cannot create instances directory: %v", err)
	}
	defer os.RemoveAll(directory)

	instances := getInstances(directory)
	placers := getPlacers()
	results := make([]BenchmarkResult, 0, len(instances)*len(placers))

	for _, instance := range instances {
		for _, placer := range placers {
			fmt.Printf("Benchmarking instance \"%v\" with strategy \"%v\" and %v worker(s)\n", instance.Name, strategyTypes[placer.Strategy], placer.Workers)

			result := measure(placer, instance)
			results = append(results, result)
		}
	}

	toCsv(results)
}

// getInstances writes seeded random instances of increasing size to directory
func getInstances(directory string) []InstanceMetadata {
	instances := make([]InstanceMetadata, 0, len(sizes)*seedsPerSize)
	for _, size := range sizes {
		for seed := range uint64(seedsPerSize) {
			input := randomInstance(size, seed)
			name := filepath.Join(directory, fmt.Sprintf("%d-%d.json", size, seed))

			bytes, err := json.Marshal(input)
			if err != nil {
				log.Fatalf("cannot marshal instance: %v", err)
			}
			if err := os.WriteFile(name, bytes, 0666); err != nil {
				log.Fatalf("cannot write instance: %v", err)
			}

			instances = append(instances, InstanceMetadata{
				Name:   name,
				Seed:   seed,
				Points: len(input.Points),
				Sites:  lo.CountBy(input.Points, func(point model.Point) bool { return point.SiteEligible }),
				Models: len(input.Models),
			})
		}
	}
	return instances
}

// randomInstance scatters size points over a square whose area grows with size, so that the
// density of points per facility range stays comparable across sizes
func randomInstance(size int, seed uint64) instanceFile {
	random := rand.New(rand.NewPCG(uint64(size), seed))
	side := 100 * float64(size) / 10

	input := instanceFile{}
	for i := range size {
		input.Points = append(input.Points, model.Point{
			Id:           fmt.Sprintf("p%d", i),
			X:            random.Float64() * side,
			Y:            random.Float64() * side,
			SiteEligible: random.Float64() < 0.5,
		})
	}
	input.Models = []model.EquipmentModel{
		{Name: "short", Range: side / 8},
		{Name: "long", Range: side / 4},
	}
	return input
}

func getPlacers() []PlacerMetadata {
	return []PlacerMetadata{
		{Strategy: greedy, Workers: 1},
		{Strategy: exact, Workers: 1},
		{Strategy: exact, Workers: 4},
	}
}

func measure(placer PlacerMetadata, instance InstanceMetadata) BenchmarkResult {
	cmd := exec.Command("/usr/bin/time", "-v", executablePath,
		"--strategy", strategyTypes[placer.Strategy],
		"--workers", fmt.Sprint(placer.Workers),
		"--max-time", fmt.Sprint(maxTimeMs),
		"--log-level", "error",
		"--file", instance.Name,
	)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	cmd.Run()
	if cmd.ProcessState.ExitCode() != 10 && cmd.ProcessState.ExitCode() != 11 {
		log.Fatalf("an error occurred during the execution of \"placement\" at instance \"%v\" using strategy \"%v\": %v\n", instance.Name, strategyTypes[placer.Strategy], stdErr.String())
	}

	var solveResult model.SolveResult
	if err := json.Unmarshal(stdOut.Bytes(), &solveResult); err != nil {
		log.Fatalf("cannot parse the output of instance \"%v\": %v", instance.Name, err)
	}

	splits := strings.Split(stdErr.String(), "\n")
	getLine := func(substr string) string {
		line, ok := lo.Find(splits, func(line string) bool {
			return strings.Contains(strings.ToLower(line), substr)
		})
		if !ok {
			log.Fatalf("Substring \"%v\" could not be found", substr)
		}
		return line
	}

	return BenchmarkResult{
		Placer:        placer,
		Instance:      instance,
		Selected:      len(solveResult.Selected),
		GreedySize:    solveResult.GreedySize,
		Exact:         cmd.ProcessState.ExitCode() == 10,
		NodesExplored: solveResult.NodesExplored,
		NodesPruned:   solveResult.NodesPruned,
		Duration:      parseDurationLine(getLine("wall clock")),
		Memory:        parseMemoryLine(getLine("maximum resident set size")),
		CpuPercentage: parseCpuPercentageLine(getLine("percent of cpu")),
	}
}

func toCsv(results []BenchmarkResult) {
	file, err := os.Create("benchmark_results.csv")
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Strategy", "Workers", "Points", "Sites", "Models", "Seed", "Selected", "GreedySize", "Exact", "NodesExplored", "NodesPruned", "Duration(ms)", "Memory(MB)", "CPU(%)"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		record := []string{
			strategyTypes[result.Placer.Strategy],
			fmt.Sprintf("%d", result.Placer.Workers),
			fmt.Sprintf("%d", result.Instance.Points),
			fmt.Sprintf("%d", result.Instance.Sites),
			fmt.Sprintf("%d", result.Instance.Models),
			fmt.Sprintf("%d", result.Instance.Seed),
			fmt.Sprintf("%d", result.Selected),
			fmt.Sprintf("%d", result.GreedySize),
			fmt.Sprintf("%v", result.Exact),
			fmt.Sprintf("%d", result.NodesExplored),
			fmt.Sprintf("%d", result.NodesPruned),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%.1f", result.Memory),
			fmt.Sprintf("%d", result.CpuPercentage),
		}
		if err := writer.Write(record); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

func parseDurationLine(line string) int64 {
	durationStr := strings.Split(line, "(h:mm:ss or m:ss):")[1][1:]
	return parseDuration(durationStr)
}

func parseDuration(durationStr string) int64 {
	parts := strings.Split(durationStr, ":")
	secondsStr := parts[len(parts)-1]
	secondsParts := strings.Split(secondsStr, ".")

	var duration int64
	if len(parts) == 3 { // h:mm:ss
		hours := lo.Must(strconv.Atoi(parts[0]))
		minutes := lo.Must(strconv.Atoi(parts[1]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(hours*3600+minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else if len(parts) == 2 { // m:ss
		minutes := lo.Must(strconv.Atoi(parts[0]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else {
		log.Fatalf("unexpected duration format: %v", durationStr)
	}
	return duration
}

// parseMemoryLine converts the resident set size, reported in KB, to MB
func parseMemoryLine(line string) float32 {
	memoryStr := strings.Split(line, ":")[1][1:]
	return float32(lo.Must(strconv.ParseFloat(memoryStr, 32))) * 1024 / MB
}

func parseCpuPercentageLine(line string) int64 {
	percentageStr := strings.Split(line, ":")[1][1:]
	percentageStr = percentageStr[:len(percentageStr)-1]
	return int64(lo.Must(strconv.Atoi(percentageStr)))
}
