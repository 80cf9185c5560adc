package cfg

// Cfg holds the resolved process configuration shared by all commands.
type Cfg struct {
	DataDir       string
	DBPath        string
	FolloweesFile string
	SummariesDir  string
	EnvFile       string

	Port      string
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
