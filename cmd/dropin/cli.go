package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ottawa-dropin/dropin"
	"github.com/ottawa-dropin/dropin/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Scraper   *crawl.Scraper
	Schedules dropin.ScheduleStore
	Uploader  dropin.Uploader
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  kong.ConfigFlag `help:"Load settings from a YAML file"`
	Verbose bool            `short:"v" help:"Log debug output"`

	Scrape ScrapeCmd `cmd:"" help:"Scrape facility pages and extract drop-in schedules"`
	Upload UploadCmd `cmd:"" help:"Upload scraped schedules to the API"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	ListURL string `name:"list-url" default:"https://ottawa.ca/en/recreation-and-parks/recreation-facilities/place-listing" env:"DROPIN_LIST_URL" help:"First page of the facility list"`
	BaseURL string `name:"base-url" default:"https://ottawa.ca" env:"DROPIN_BASE_URL" help:"Base URL for relative facility links"`

	Static       bool          `help:"Fetch pages over plain HTTP instead of a headless browser"`
	FetchTimeout time.Duration `default:"30s" env:"DROPIN_FETCH_TIMEOUT" help:"Timeout per page load"`
	Rate         float64       `default:"1" env:"DROPIN_RATE" help:"Requests per second per domain (0 disables pacing)"`
	Retry        bool          `default:"true" negatable:"" help:"Retry failed page loads with backoff"`

	DB            string `env:"DROPIN_DB" help:"Keep the table cache and output in this SQLite database instead of JSON files"`
	CacheFile     string `default:"schedules_html_table_cache.json" env:"DROPIN_CACHE_FILE" help:"Table cache file"`
	SchedulesFile string `default:"schedules.json" env:"DROPIN_SCHEDULES_FILE" help:"Output file for valid schedules"`
	InvalidFile   string `default:"invalid_schedules.json" env:"DROPIN_INVALID_FILE" help:"Output file for rejected entries"`

	LLMProvider    string        `name:"llm-provider" enum:"auto,deepseek,openai,gemini,anthropic" default:"auto" env:"LLM_PROVIDER" help:"LLM backend; auto picks the first configured key (${enum})"`
	LLMModel       string        `name:"llm-model" env:"LLM_MODEL" help:"Model name; empty uses the provider default"`
	LLMBaseURL     string        `name:"llm-base-url" env:"LLM_BASE_URL" help:"Override the endpoint of OpenAI-compatible providers"`
	LLMTimeout     time.Duration `name:"llm-timeout" default:"5m" env:"LLM_TIMEOUT" help:"Timeout per model request"`
	MaxTableLength int           `default:"10000" env:"DROPIN_MAX_TABLE_LENGTH" help:"Cleaned table markup is cut to this many characters"`

	DeepSeekAPIKey  string `name:"deepseek-api-key" env:"DEEPSEEK_API_KEY" help:"DeepSeek API key"`
	OpenAIAPIKey    string `name:"openai-api-key" env:"OPENAI_API_KEY" help:"OpenAI API key"`
	GeminiAPIKey    string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	AnthropicAPIKey string `name:"anthropic-api-key" env:"ANTHROPIC_API_KEY" help:"Anthropic API key"`
}

// UploadCmd is the "upload" subcommand.
type UploadCmd struct {
	URL       string `name:"upload-url" env:"UPLOAD_API_URL" help:"Endpoint that receives schedule batches"`
	APIKey    string `name:"upload-api-key" env:"UPLOAD_API_KEY" help:"Value of the x-api-key header"`
	BatchSize int    `default:"100" env:"UPLOAD_BATCH_SIZE" help:"Schedules per request"`

	DB            string `env:"DROPIN_DB" help:"Read schedules from this SQLite database instead of a JSON file"`
	SchedulesFile string `default:"schedules.json" env:"DROPIN_SCHEDULES_FILE" help:"Schedules file written by scrape"`
}
