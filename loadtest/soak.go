//go:build ignore

// soak.go — Load harness against a live wattai server.
// Measures estimate and cheapest-option latency, and cache effectiveness.
//
// Usage:
//   go run loadtest/soak.go
//
// Env vars:
//   WATTAI_URL  — default http://localhost:8080
//   WATTAI_RUNS — default 200 (requests per measurement)

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"time"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var (
	baseURL = env("WATTAI_URL", "http://localhost:8080")
	runs    = func() int {
		n, err := strconv.Atoi(env("WATTAI_RUNS", "200"))
		if err != nil || n < 1 {
			return 200
		}
		return n
	}()
)

func fail(msg string) {
	fmt.Fprintln(os.Stderr, "error: "+msg)
	os.Exit(1)
}

type estimateRequest struct {
	ElectricityCostUSD float64 `json:"electricity_cost_usd"`
	GPU                string  `json:"gpu"`
	Hours              float64 `json:"hours"`
}

type gpuList struct {
	GPUs []struct {
		ID string `json:"id"`
	} `json:"gpus"`
}

func percentile(latencies []time.Duration, p float64) time.Duration {
	idx := int(float64(len(latencies)-1) * p)
	return latencies[idx]
}

func report(name string, latencies []time.Duration) {
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	fmt.Printf("%-22s  P50 %-10v  P95 %-10v  P99 %v\n",
		name, percentile(latencies, 0.50), percentile(latencies, 0.95), percentile(latencies, 0.99))
}

func main() {
	client := &http.Client{Timeout: 10 * time.Second}

	// Pick the first catalog GPU so the harness works with any table.
	resp, err := client.Get(baseURL + "/api/gpus")
	if err != nil {
		fail("server not reachable: " + err.Error())
	}
	var gpus gpuList
	if err := json.NewDecoder(resp.Body).Decode(&gpus); err != nil {
		fail("failed to decode gpu list: " + err.Error())
	}
	resp.Body.Close()
	if len(gpus.GPUs) == 0 {
		fail("catalog is empty")
	}
	gpu := gpus.GPUs[0].ID
	fmt.Printf("target %s, gpu %q, %d runs per measurement\n\n", baseURL, gpu, runs)

	body, _ := json.Marshal(estimateRequest{ElectricityCostUSD: 0.10, GPU: gpu, Hours: 10})

	estimateLat := make([]time.Duration, 0, runs)
	for range runs {
		start := time.Now()
		resp, err := client.Post(baseURL+"/api/estimate", "application/json", bytes.NewReader(body))
		if err != nil {
			fail("estimate request failed: " + err.Error())
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		estimateLat = append(estimateLat, time.Since(start))
		if resp.StatusCode != http.StatusOK {
			fail(fmt.Sprintf("estimate returned %d", resp.StatusCode))
		}
	}
	report("POST /api/estimate", estimateLat)

	cheapestLat := make([]time.Duration, 0, runs)
	hits := 0
	for range runs {
		start := time.Now()
		resp, err := client.Get(baseURL + "/api/cheapest")
		if err != nil {
			fail("cheapest request failed: " + err.Error())
		}
		io.Copy(io.Discard, resp.Body)
		if resp.Header.Get("X-Cache") == "HIT" {
			hits++
		}
		resp.Body.Close()
		cheapestLat = append(cheapestLat, time.Since(start))
	}
	report("GET /api/cheapest", cheapestLat)
	fmt.Printf("\ncheapest cache hits: %d/%d\n", hits, runs)
}
