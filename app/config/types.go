package config

// Source kinds as they appear in the followee registry. Only feed and
// page sources are actively collected; video and social channels are
// registered for future collectors.
const (
	KindFeed          = "feed"
	KindPage          = "page"
	KindArticle       = "article" // legacy alias for page
	KindVideoChannel  = "video-channel"
	KindSocialChannel = "social-channel"
)

// Source is a named origin of content for a followee.
type Source struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
	Kind  string `yaml:"kind"`
	Notes string `yaml:"notes,omitempty"`
}

// Followee is a person or entity being tracked, with an ordered source list.
type Followee struct {
	ID          string   `yaml:"-"`
	DisplayName string   `yaml:"display_name"`
	Sources     []Source `yaml:"sources"`
}

// Registry is the static followee configuration loaded at process start.
// It is immutable during a run.
type Registry struct {
	Followees map[string]Followee
}

// Secrets is the credential bundle loaded from the environment.
// GithubUsername and GithubPAT are required but not consumed by any
// in-scope component.
type Secrets struct {
	MailAddress     string
	MailAppPassword string
	LLMAPIKey       string
	GithubUsername  string
	GithubPAT       string
}
