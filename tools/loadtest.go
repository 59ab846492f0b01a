package main

import (
	"fmt"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
)

type analyticsResponse struct {
	TotalRecords int `json:"total_records"`
	RawData      []struct {
		Timestamp string `json:"timestamp"`
	} `json:"raw_data"`
}

var (
	requestCount  int64
	successCount  int64
	failCount     int64
	invalidCount  int64
	totalLatency  int64 // в наносекундах
	minLatency    int64 = 1 << 62
	maxLatency    int64
	latencies     []int64
	latenciesLock sync.Mutex
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run tools/loadtest.go <url> [workers] [duration]")
		fmt.Println("Example: go run tools/loadtest.go http://localhost:8000/api/v1/analytics 50 30s")
		os.Exit(1)
	}

	url := os.Args[1]
	workers := 50
	duration := 30 * time.Second

	if len(os.Args) > 2 {
		fmt.Sscanf(os.Args[2], "%d", &workers)
	}
	if len(os.Args) > 3 {
		if d, err := time.ParseDuration(os.Args[3]); err == nil {
			duration = d
		}
	}
	if workers <= 0 {
		workers = 1
	}

	fmt.Printf("Load Test Configuration:\n")
	fmt.Printf("  URL:      %s\n", url)
	fmt.Printf("  Workers:  %d\n", workers)
	fmt.Printf("  Duration: %v\n\n", duration)

	client := resty.New().
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json").
		SetTransport(&http.Transport{
			MaxIdleConns:        workers,
			MaxIdleConnsPerHost: workers,
			IdleConnTimeout:     90 * time.Second,
		})

	latencies = make([]int64, 0, 10000)
	startTime := time.Now()
	endTime := startTime.Add(duration)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(endTime) {
				sendRequest(client, url)
			}
		}()
	}

	wg.Wait()
	printResults(time.Since(startTime))
}

func sendRequest(client *resty.Client, url string) {
	var body analyticsResponse

	start := time.Now()
	resp, err := client.R().SetResult(&body).Get(url)
	latency := time.Since(start)

	atomic.AddInt64(&requestCount, 1)

	if err != nil || resp.StatusCode() != http.StatusOK {
		atomic.AddInt64(&failCount, 1)
		return
	}

	// Ответ должен быть полным: строк столько же, сколько total_records
	if body.TotalRecords == 0 || len(body.RawData) != body.TotalRecords {
		atomic.AddInt64(&invalidCount, 1)
	}

	atomic.AddInt64(&successCount, 1)

	latencyNs := latency.Nanoseconds()
	atomic.AddInt64(&totalLatency, latencyNs)

	for {
		oldMin := atomic.LoadInt64(&minLatency)
		if latencyNs >= oldMin || atomic.CompareAndSwapInt64(&minLatency, oldMin, latencyNs) {
			break
		}
	}

	for {
		oldMax := atomic.LoadInt64(&maxLatency)
		if latencyNs <= oldMax || atomic.CompareAndSwapInt64(&maxLatency, oldMax, latencyNs) {
			break
		}
	}

	latenciesLock.Lock()
	latencies = append(latencies, latencyNs)
	latenciesLock.Unlock()
}

func percentile(sorted []int64, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return time.Duration(sorted[idx])
}

func printResults(duration time.Duration) {
	total := atomic.LoadInt64(&requestCount)
	success := atomic.LoadInt64(&successCount)
	failed := atomic.LoadInt64(&failCount)
	invalid := atomic.LoadInt64(&invalidCount)
	totalLat := atomic.LoadInt64(&totalLatency)

	avgLatency := time.Duration(0)
	if success > 0 {
		avgLatency = time.Duration(totalLat / success)
	}

	latenciesLock.Lock()
	sorted := make([]int64, len(latencies))
	copy(sorted, latencies)
	latenciesLock.Unlock()
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	successRate := 0.0
	if total > 0 {
		successRate = float64(success) / float64(total) * 100
	}

	fmt.Println("\n==========================================")
	fmt.Println("Load Test Results")
	fmt.Println("==========================================")
	fmt.Printf("Duration:        %v\n", duration)
	fmt.Printf("Total Requests:  %d\n", total)
	fmt.Printf("Successful:      %d\n", success)
	fmt.Printf("Failed:          %d\n", failed)
	fmt.Printf("Invalid bodies:  %d\n", invalid)
	fmt.Printf("Success Rate:    %.2f%%\n", successRate)
	fmt.Printf("Requests/sec:    %.2f\n", float64(total)/duration.Seconds())
	if success > 0 {
		fmt.Println("\nLatency Statistics:")
		fmt.Printf("  Min:          %v\n", time.Duration(atomic.LoadInt64(&minLatency)))
		fmt.Printf("  Max:          %v\n", time.Duration(atomic.LoadInt64(&maxLatency)))
		fmt.Printf("  Average:      %v\n", avgLatency)
		fmt.Printf("  p50:          %v\n", percentile(sorted, 50))
		fmt.Printf("  p95:          %v\n", percentile(sorted, 95))
		fmt.Printf("  p99:          %v\n", percentile(sorted, 99))
	}
	fmt.Println("==========================================")
}
