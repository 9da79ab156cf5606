package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# degiro-trader configuration

[api]
# base_url = "https://trader.degiro.nl"
# request_timeout = "30s"

[logging]
level = "info"
console = true
file = true

[ui]
color_enabled = true
date_format = "2006-01-02"
`

const credentialsTemplate = `# degiro-trader credentials
# Keep this file private (chmod 600).

username = ""
password = ""

# Optional: TOTP secret for accounts with two-factor authentication enabled.
# Without it, pass a one-time code explicitly on login.
totp_secret = ""
`

func createTemplateConfig(configDir string) error {
	return writeTemplate(configDir, "config.toml", configTemplate, 0644)
}

func createTemplateCredentials(configDir string) error {
	return writeTemplate(configDir, "credentials.toml", credentialsTemplate, 0600)
}

func writeTemplate(configDir, name, content string, perm os.FileMode) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	path := filepath.Join(configDir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("writing %s template: %w", name, err)
	}
	return nil
}
