package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// CLI flags
var (
	apiURL = flag.String("api-url", "http://localhost:8080", "Gaceta report API base URL")
	apiKey = flag.String("api-key", "", "API key for authenticated requests")
	output = flag.String("output", "smoke-results.json", "JSON output file path")
)

// Endpoints exercised by the smoke check, in order.
var endpoints = []struct {
	Label string
	Path  string
}{
	{"Health", "/api/v1/health"},
	{"Articles", "/api/v1/articles"},
	{"Translations", "/api/v1/translations"},
	{"Analysis", "/api/v1/analysis"},
	{"Report", "/api/v1/report"},
}

// --- Smoke result types ---

type endpointResult struct {
	Label      string `json:"label"`
	Path       string `json:"path"`
	StatusCode int    `json:"status_code"`
	LatencyMs  int64  `json:"latency_ms"`
	BodyBytes  int    `json:"body_bytes"`
	Items      int    `json:"items,omitempty"`
	Ok         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
}

type smokeReport struct {
	Timestamp string           `json:"timestamp"`
	APIURL    string           `json:"api_url"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Results   []endpointResult `json:"results"`
}

func main() {
	flag.Parse()

	fmt.Println("=== Gaceta Smoke Check ===")
	fmt.Printf("API URL: %s\n", *apiURL)
	fmt.Printf("Output:  %s\n", *output)
	fmt.Println()

	client := &http.Client{Timeout: 30 * time.Second}

	report := smokeReport{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		APIURL:    *apiURL,
	}

	for _, e := range endpoints {
		fmt.Printf("Checking [%s] %s ... ", e.Label, e.Path)
		r := checkEndpoint(client, e.Label, e.Path)
		if r.Ok {
			fmt.Printf("OK  %dms\n", r.LatencyMs)
			report.Passed++
		} else {
			fmt.Printf("FAILED: %s\n", r.Error)
			report.Failed++
		}
		report.Results = append(report.Results, r)
	}
	fmt.Println()

	printTable(report.Results)

	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)

	if report.Failed > 0 {
		os.Exit(1)
	}
}

func checkEndpoint(client *http.Client, label, path string) endpointResult {
	r := endpointResult{Label: label, Path: path}

	req, err := http.NewRequest("GET", *apiURL+path, nil)
	if err != nil {
		r.Error = fmt.Sprintf("request error: %v", err)
		return r
	}
	if *apiKey != "" {
		req.Header.Set("X-API-Key", *apiKey)
	}

	start := time.Now()
	resp, err := client.Do(req)
	r.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		r.Error = fmt.Sprintf("request failed: %v", err)
		return r
	}
	defer resp.Body.Close()

	r.StatusCode = resp.StatusCode

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		r.Error = fmt.Sprintf("decode error: %v", err)
		return r
	}
	r.BodyBytes = len(raw)

	// Array artifacts report their element count.
	var items []json.RawMessage
	if json.Unmarshal(raw, &items) == nil {
		r.Items = len(items)
	}

	if resp.StatusCode != http.StatusOK {
		r.Error = fmt.Sprintf("status %d", resp.StatusCode)
		return r
	}

	r.Ok = true
	return r
}

func printTable(results []endpointResult) {
	fmt.Println(strings.Repeat("─", 70))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Endpoint\tStatus\tLatency\tItems\tBytes\n")
	fmt.Fprintf(w, "────────\t──────\t───────\t─────\t─────\n")

	for _, r := range results {
		status := fmt.Sprintf("%d", r.StatusCode)
		if r.StatusCode == 0 {
			status = "ERR"
		}
		fmt.Fprintf(w, "%s\t%s\t%dms\t%d\t%d\n",
			r.Label, status, r.LatencyMs, r.Items, r.BodyBytes)
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 70))
}

func writeJSON(path string, report smokeReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
