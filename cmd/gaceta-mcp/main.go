package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// articleRecord mirrors the Gaceta articles artifact.
type articleRecord struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	ImagePath string `json:"image_path"`
}

// translationPair mirrors the Gaceta translations artifact.
type translationPair struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
}

// wordCount mirrors the Gaceta word analysis artifact.
type wordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// validationReport mirrors the Gaceta validation report response.
type validationReport struct {
	GeneratedAt time.Time `json:"generated_at"`
	Passed      int       `json:"passed"`
	Failed      int       `json:"failed"`
	Checks      []struct {
		Name   string `json:"name"`
		Passed bool   `json:"passed"`
		Detail string `json:"detail"`
	} `json:"checks"`
}

func main() {
	apiURL := os.Getenv("GACETA_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	// Optional: the report server runs open unless auth is enabled.
	apiKey := os.Getenv("GACETA_API_KEY")

	s := server.NewMCPServer(
		"gaceta",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	getArticlesTool := mcp.NewTool("get_articles",
		mcp.WithDescription("Fetch the opinion articles captured by the last scrape run: URL, original Spanish title, body text, and cover image path for each article."),
		mcp.WithBoolean("full_content",
			mcp.Description("Include the full article body text (default: false, titles and URLs only)"),
		),
	)
	s.AddTool(getArticlesTool, handleGetArticles(apiURL, apiKey))

	getTranslationsTool := mcp.NewTool("get_translations",
		mcp.WithDescription("Fetch the Spanish-to-English headline translations from the last scrape run."),
	)
	s.AddTool(getTranslationsTool, handleGetTranslations(apiURL, apiKey))

	getAnalysisTool := mcp.NewTool("get_word_analysis",
		mcp.WithDescription("Fetch the repeated-word analysis of the translated headlines: words that occur more than twice across all titles, with counts."),
	)
	s.AddTool(getAnalysisTool, handleGetAnalysis(apiURL, apiKey))

	getReportTool := mcp.NewTool("get_report",
		mcp.WithDescription("Run the artifact validation checks against the last scrape run and return the pass/fail report."),
	)
	s.AddTool(getReportTool, handleGetReport(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiGet fetches a Gaceta API path and decodes the JSON response into v.
func apiGet(ctx context.Context, client *http.Client, apiURL, apiKey, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func handleGetArticles(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		fullContent := request.GetBool("full_content", false)

		var articles []articleRecord
		if err := apiGet(ctx, client, apiURL, apiKey, "/api/v1/articles", &articles); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%d articles:\n\n", len(articles)))
		for i, a := range articles {
			sb.WriteString(fmt.Sprintf("--- [%d] %s ---\nURL: %s\n", i+1, a.Title, a.URL))
			if a.ImagePath != "" {
				sb.WriteString("Cover image: " + a.ImagePath + "\n")
			}
			if fullContent {
				sb.WriteString("\n" + a.Content + "\n")
			}
			sb.WriteString("\n")
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleGetTranslations(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var pairs []translationPair
		if err := apiGet(ctx, client, apiURL, apiKey, "/api/v1/translations", &pairs); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%d headline translations:\n\n", len(pairs)))
		for i, p := range pairs {
			sb.WriteString(fmt.Sprintf("[%d] es: %s\n    en: %s\n\n", i+1, p.Original, p.Translated))
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleGetAnalysis(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var words []wordCount
		if err := apiGet(ctx, client, apiURL, apiKey, "/api/v1/analysis", &words); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if len(words) == 0 {
			return mcp.NewToolResultText("No word occurred more than twice across the translated headlines."), nil
		}

		var sb strings.Builder
		sb.WriteString("Words repeated more than twice across translated headlines:\n\n")
		for _, w := range words {
			sb.WriteString(fmt.Sprintf("%-20s %d\n", w.Word, w.Count))
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleGetReport(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 60 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var rep validationReport
		if err := apiGet(ctx, client, apiURL, apiKey, "/api/v1/report", &rep); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Validation report (%s): %d passed, %d failed\n\n",
			rep.GeneratedAt.Format(time.RFC3339), rep.Passed, rep.Failed))
		for _, c := range rep.Checks {
			mark := "PASS"
			if !c.Passed {
				mark = "FAIL"
			}
			sb.WriteString(fmt.Sprintf("[%s] %s", mark, c.Name))
			if c.Detail != "" {
				sb.WriteString(": " + c.Detail)
			}
			sb.WriteString("\n")
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
