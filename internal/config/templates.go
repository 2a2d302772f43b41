package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Tradebook Configuration

[journal]
# Starting capital the equity curve grows from, until you set one with
# "tradebook capital".
initial_capital = 10000.0
# Journal database location. Empty means journal.db in this directory.
database_file = ""

[ui]
# Enable colored output
color_enabled = true
# Date format for tables
date_format = "02/01/2006"

[advisor]
# LLM model for analyze/audit/suggest
model = "gpt-4o"
# Temperature for LLM responses (0.0 - 2.0)
temperature = 0.3
# Maximum tokens for LLM responses
max_tokens = 1500

[log]
# Log level: debug, info, warn, error
level = "info"
# Log file location. Empty means logs/tradebook.log in this directory.
file = ""
`

const credentialsTemplate = `# Tradebook Credentials
# WARNING: Keep this file secure! Do not commit to version control.

[openai]
api_key = ""
`

// createTemplateConfig writes a starter config.toml. Unlike credentials a
// missing config is not an error: the defaults above are a working setup.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}

// createTemplateCredentials writes a starter credentials.toml with
// restricted permissions. The journal works without a key; only the
// advisor commands need one.
func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	return nil
}
