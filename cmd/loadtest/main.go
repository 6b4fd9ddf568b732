package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	rps      = 5
	duration = time.Minute
)

var (
	targetHost = getEnv("LOADTEST_HOST", "http://localhost:8080")
	// Имена должны совпадать с описаниями в каталоге проектов сервера.
	projects = splitList(getEnv("LOADTEST_PROJECTS", "nova,glance,sandbox"))
	windows  = []int{7, 14, 30, 90}
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Targeter
func makeTargeter(projects []string) vegeta.Targeter {
	return func(t *vegeta.Target) error {
		t.Method = http.MethodGet
		t.Header = map[string][]string{"Accept": {"application/json"}}
		t.Body = nil

		r := rand.Float64()

		// 5% health check
		if r < 0.05 {
			t.URL = targetHost + "/health"
			return nil
		}

		q := url.Values{}
		q.Set("days", strconv.Itoa(windows[rand.Intn(len(windows))]))

		// 15% report across all projects
		if r < 0.20 {
			q.Set("all", "true")
		} else {
			q.Set("project", projects[rand.Intn(len(projects))])
		}

		// 20% text output
		if rand.Float64() < 0.20 {
			q.Set("format", "text")
		}

		t.URL = targetHost + "/stats/reviewers?" + q.Encode()
		return nil
	}
}

// Attack
func runAttack() vegeta.Metrics {
	rate := vegeta.Rate{Freq: rps, Per: time.Second}
	attacker := vegeta.NewAttacker()

	var metrics vegeta.Metrics

	logrus.WithFields(logrus.Fields{"target": targetHost, "duration": duration, "rps": rps}).Info("Starting attack")
	for res := range attacker.Attack(makeTargeter(projects), rate, duration, "reviewer-stats") {
		metrics.Add(res)
	}
	metrics.Close()

	return metrics
}

func main() {
	metrics := runAttack()

	fmt.Println("=== Results ===")
	fmt.Printf("Requests: %d\n", metrics.Requests)
	fmt.Printf("Success rate: %.4f%%\n", metrics.Success*100)
	fmt.Printf("Latency mean: %s\n", metrics.Latencies.Mean)
	fmt.Printf("Latency P95: %s\n", metrics.Latencies.P95)
	fmt.Printf("Latency P99: %s\n", metrics.Latencies.P99)
	for code, n := range metrics.StatusCodes {
		fmt.Printf("Status %s: %d\n", code, n)
	}
}
