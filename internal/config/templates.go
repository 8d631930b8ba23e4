package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "convert":
		return convertTemplate, nil
	case "server":
		return serverTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const convertTemplate = `# R12 | R2000 | R2004 | R2007 | R2010 | R2013 | R2018 (or AC1009...AC1032)
target_revision = "R2018"
# abort | skip | passthrough
on_invalid = "abort"
workers = 4

[log]
level = "info"
`

const serverTemplate = `target_revision = "R2018"
on_invalid = "passthrough"
workers = 8

[server]
addr = ":9300"
node = "dxftags-a"
cors_origins = ["http://localhost:3000"]
max_body_bytes = 67108864

[log]
level = "info"
`
