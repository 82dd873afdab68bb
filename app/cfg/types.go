package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	SourcesDir        string
	DataDir           string
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	CacheTTL          int
	HTTPTimeout       int
	FetchPause        int
	ProposalLimit     int
	GithubToken       string
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
