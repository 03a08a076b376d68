package target

import (
	"bytes"
	"os"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// LoadSSHAliases parses an SSH config file and returns alias → HostName for
// every concrete Host pattern that sets a HostName. A missing file yields an
// empty map.
func LoadSSHAliases(path string) (map[string]string, error) {
	aliases := make(map[string]string)
	if path == "" {
		return aliases, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return aliases, nil
		}
		return nil, err
	}

	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	for _, host := range cfg.Hosts {
		for _, pattern := range host.Patterns {
			alias := pattern.String()
			if strings.ContainsAny(alias, "*?!") {
				continue
			}
			if _, seen := aliases[alias]; seen {
				continue
			}
			hostname, _ := cfg.Get(alias, "HostName")
			if hostname != "" && hostname != alias {
				aliases[alias] = hostname
			}
		}
	}

	return aliases, nil
}
