package notify

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings holds the mail transport and the pipeline run being reported.
type Settings struct {
	Recipient  string `mapstructure:"recipient"`
	Sender     string `mapstructure:"sender"`
	Password   string `mapstructure:"password"`
	SMTPServer string `mapstructure:"smtp_server"`
	SMTPPort   int    `mapstructure:"smtp_port"`

	Status     string `mapstructure:"status"`
	Repository string `mapstructure:"repository"`
	Actor      string `mapstructure:"actor"`
	SHA        string `mapstructure:"sha"`
	Ref        string `mapstructure:"ref"`
	RunID      string `mapstructure:"run_id"`
	Workflow   string `mapstructure:"workflow"`
}

var envBindings = map[string]string{
	"recipient":   "PIPELINE_EMAIL_RECIPIENT",
	"sender":      "PIPELINE_EMAIL_SENDER",
	"password":    "PIPELINE_EMAIL_PASSWORD",
	"smtp_server": "PIPELINE_SMTP_SERVER",
	"smtp_port":   "PIPELINE_SMTP_PORT",
	"status":      "PIPELINE_STATUS",
	"repository":  "GITHUB_REPOSITORY",
	"actor":       "GITHUB_ACTOR",
	"sha":         "GITHUB_SHA",
	"ref":         "GITHUB_REF",
	"run_id":      "GITHUB_RUN_ID",
	"workflow":    "GITHUB_WORKFLOW",
}

// LoadSettings reads settings from the environment. Each envFile that
// exists is loaded first without overriding variables already set.
func LoadSettings(envFiles ...string) (*Settings, error) {
	for _, f := range envFiles {
		// missing .env files are fine
		_ = godotenv.Load(f)
	}
	v := viper.New()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}
	v.SetDefault("sender", "noreply@github.com")
	v.SetDefault("smtp_server", "smtp.gmail.com")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("status", "UNKNOWN")
	v.SetDefault("repository", "Unknown Repository")
	v.SetDefault("actor", "Unknown User")
	v.SetDefault("sha", "Unknown Commit")
	v.SetDefault("ref", "Unknown Branch")
	v.SetDefault("run_id", "Unknown Run")
	v.SetDefault("workflow", "CI/CD Pipeline")

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal notify settings: %w", err)
	}
	s.normalize()
	return &s, nil
}

func (s *Settings) normalize() {
	s.Status = strings.ToUpper(strings.TrimSpace(s.Status))
	if len(s.SHA) > 8 {
		s.SHA = s.SHA[:8]
	}
	if i := strings.LastIndex(s.Ref, "/"); i >= 0 {
		s.Ref = s.Ref[i+1:]
	}
}

// WithStatus returns a copy with the status replaced (upper-cased).
func (s Settings) WithStatus(status string) *Settings {
	s.Status = strings.ToUpper(strings.TrimSpace(status))
	return &s
}

// Addr is the host:port of the SMTP server.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.SMTPServer, s.SMTPPort)
}
