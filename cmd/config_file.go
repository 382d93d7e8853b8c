package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"ttconvert/config"
)

const configFileName = ".ttconvert.yaml"

// resolveConfigPath picks the --configFile flag, then the file viper loaded,
// then $HOME/.ttconvert.yaml.
func resolveConfigPath(configFileFlag, configFileUsed string) (string, error) {
	for _, candidate := range []string{configFileFlag, configFileUsed} {
		if strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, configFileName), nil
}

// writeConfigTemplate writes the example config unless path already exists.
func writeConfigTemplate(path string) (created bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking config file failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory failed: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o600); err != nil {
		return false, fmt.Errorf("creating example config failed: %w", err)
	}
	return true, nil
}

func validateConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config failed: %w", err)
	}
	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		return nil, fmt.Errorf("config validation failed in %s: %w", path, err)
	}
	return cfg, nil
}

// editorCommand splits $VISUAL / $EDITOR values such as "code --wait".
func editorCommand(visual, editor, path string) *exec.Cmd {
	value := "vi"
	for _, candidate := range []string{visual, editor} {
		if strings.TrimSpace(candidate) != "" {
			value = candidate
			break
		}
	}

	fields := strings.Fields(value)
	args := append(fields[1:len(fields):len(fields)], path)
	return exec.Command(fields[0], args...)
}
