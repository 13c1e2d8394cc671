package cfg

type Cfg struct {
	// Storage configuration
	DBPath      string
	SourcesFile string
	RedisAddr   string
	CacheTTL    int

	// Application configuration
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string
	GeminiAPIKey      string
	GeminiModel       string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

type ReaderCfg struct {
	APIURL          string
	RefreshInterval int
	APIAccessKey    string
	LogFile         string
	UserAgent       string
	Timezone        string
	Debug           bool
	Version         string
}
