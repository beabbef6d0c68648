package cli

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// stdinFile names standard input wherever a file argument is accepted.
const stdinFile = "-"

var missingKeyRegex = regexp.MustCompile(`map has no entry for key "(.*?)"`)

// envVars returns the variables placeholders may reference. Entries of
// envFile are read without touching the process environment, which wins on
// conflicts. A missing envFile is not an error.
func envVars(envFile string) map[string]string {
	vars := map[string]string{}
	if envFile != "" {
		if fromFile, err := godotenv.Read(envFile); err == nil {
			maps.Copy(vars, fromFile)
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return vars
}

// ExpandEnv replaces {{ .ENV.VAR }} placeholders in input using the process
// environment and, when it exists, envFile.
func ExpandEnv(input []byte, envFile string) ([]byte, error) {
	tmpl, err := template.New("env").Option("missingkey=error").Parse(string(input))
	if err != nil {
		return nil, fmt.Errorf("template error: %w", err)
	}

	var out bytes.Buffer
	data := struct{ ENV map[string]string }{ENV: envVars(envFile)}
	if err := tmpl.Execute(&out, data); err != nil {
		if m := missingKeyRegex.FindStringSubmatch(err.Error()); len(m) == 2 {
			where := envFile
			if where == "" {
				where = "a .env file"
			}
			return nil, fmt.Errorf("missing environment variable: %s (set it in your shell or %s)", m[1], where)
		}
		return nil, fmt.Errorf("template error: %w", err)
	}
	return out.Bytes(), nil
}

// envFileFor returns the .env file consulted for file: the one beside it, or
// the one in the working directory for standard input.
func envFileFor(file string) string {
	if file != stdinFile {
		return filepath.Join(filepath.Dir(file), ".env")
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ".env"
	}
	return filepath.Join(cwd, ".env")
}

// loadTemplated reads file, applies prepare to the raw bytes when it is set,
// then expands env placeholders.
func loadTemplated(file string, prepare func([]byte) []byte) ([]byte, error) {
	var (
		raw []byte
		err error
	)
	if file == stdinFile {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if prepare != nil {
		raw = prepare(raw)
	}
	return ExpandEnv(raw, envFileFor(file))
}

type fileFormat int

const (
	formatYAML fileFormat = iota
	formatTOML
)

func formatOf(file string) fileFormat {
	if strings.EqualFold(filepath.Ext(file), ".toml") {
		return formatTOML
	}
	return formatYAML
}

// decodeTemplated loads file through loadTemplated and decodes it into v as
// TOML or YAML by its extension.
func decodeTemplated(file string, v any) error {
	data, err := loadTemplated(file, nil)
	if err != nil {
		return err
	}
	switch formatOf(file) {
	case formatTOML:
		_, err = toml.Decode(string(data), v)
	default:
		err = yaml.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(file), err)
	}
	return nil
}
