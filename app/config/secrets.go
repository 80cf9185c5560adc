package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables making up the secrets bundle. All of them are
// required; startup fails when any is missing or empty.
const (
	envMailAddress     = "MAIL_ADDRESS"
	envMailAppPassword = "MAIL_APP_PASSWORD"
	envLLMAPIKey       = "LLM_API_KEY"
	envGithubUsername  = "GITHUB_USERNAME"
	envGithubPAT       = "GITHUB_PAT"
)

// LoadSecrets loads the credential bundle from the environment, reading
// the given env file first when it exists. Already-set variables take
// precedence over the file.
func LoadSecrets(envFile string) (*Secrets, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
			}
		}
	}

	secrets := &Secrets{
		MailAddress:     os.Getenv(envMailAddress),
		MailAppPassword: os.Getenv(envMailAppPassword),
		LLMAPIKey:       os.Getenv(envLLMAPIKey),
		GithubUsername:  os.Getenv(envGithubUsername),
		GithubPAT:       os.Getenv(envGithubPAT),
	}

	required := []struct {
		name  string
		value string
	}{
		{envMailAddress, secrets.MailAddress},
		{envMailAppPassword, secrets.MailAppPassword},
		{envLLMAPIKey, secrets.LLMAPIKey},
		{envGithubUsername, secrets.GithubUsername},
		{envGithubPAT, secrets.GithubPAT},
	}
	for _, field := range required {
		if field.value == "" {
			return nil, fmt.Errorf("missing required secret %s", field.name)
		}
	}

	return secrets, nil
}
