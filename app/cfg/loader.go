package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath      string `long:"db-path" env:"DB_PATH" default:"./data/newsdesk.db" description:"SQLite database file for the news snapshot"`
	SourcesFile string `long:"sources" env:"SOURCES_FILE" default:"./sources.yml" description:"YAML file with RSS sources grouped by category"`
	RedisAddr   string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for the response cache (optional)"`
	CacheTTL    int    `long:"cache-ttl" env:"CACHE_TTL" default:"60" description:"Response cache TTL in seconds"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8000" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for update tasks"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"0" description:"Automatic news update interval in seconds (0 disables)"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key required for POST /update (optional)"`
	GeminiAPIKey      string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key for summaries (optional, lead sentences otherwise)"`
	GeminiModel       string `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-1.5-flash" description:"Gemini model name"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Newsdesk/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Moscow)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

type rawReaderCfg struct {
	APIURL          string `long:"api-url" env:"NEWSDESK_API_URL" default:"http://localhost:8000" description:"Base URL of the news backend"`
	RefreshInterval int    `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"30" choice:"0" choice:"10" choice:"30" choice:"60" description:"Initial auto-refresh interval in seconds (0 disables)"`
	APIAccessKey    string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key sent with update requests (optional)"`
	LogFile         string `long:"log-file" env:"LOG_FILE" description:"Write logs to this file (logs are discarded otherwise)"`
	UserAgent       string `long:"user-agent" env:"USER_AGENT" default:"Newsdesk Reader/1.0" description:"User agent string for HTTP requests"`
	Timezone        string `long:"timezone" env:"TZ" description:"Timezone for the today filter (system default when empty)"`
	Debug           bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses the backend configuration. It returns nil, nil when help was
// requested.
func Load() (*Cfg, error) {
	return load(nil)
}

func load(args []string) (*Cfg, error) {
	var raw rawCfg
	if ok, err := parse(&raw, args); !ok || err != nil {
		return nil, err
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		SourcesFile:       raw.SourcesFile,
		RedisAddr:         raw.RedisAddr,
		CacheTTL:          raw.CacheTTL,
		Port:              raw.Port,
		WorkerCount:       max(raw.WorkerCount, 1),
		SchedulerInterval: raw.SchedulerInterval,
		APIAccessKey:      raw.APIAccessKey,
		GeminiAPIKey:      raw.GeminiAPIKey,
		GeminiModel:       raw.GeminiModel,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

// LoadReader parses the reader configuration. It returns nil, nil when help
// was requested.
func LoadReader() (*ReaderCfg, error) {
	return loadReader(nil)
}

func loadReader(args []string) (*ReaderCfg, error) {
	var raw rawReaderCfg
	if ok, err := parse(&raw, args); !ok || err != nil {
		return nil, err
	}

	cfg := &ReaderCfg{
		APIURL:          raw.APIURL,
		RefreshInterval: raw.RefreshInterval,
		APIAccessKey:    raw.APIAccessKey,
		LogFile:         raw.LogFile,
		UserAgent:       raw.UserAgent,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

// parse loads an optional .env file and then flags and environment into
// data. args nil means os.Args.
func parse(data any, args []string) (bool, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to load .env file: %w", err)
	}

	parser := flags.NewParser(data, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return false, nil
			}
		}
		return false, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return true, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
