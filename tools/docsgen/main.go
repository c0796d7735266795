package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/rowdiff/internal/command"
)

// Config is the hand-written part of the docs: descriptions, examples and
// notes keyed by subcommand. Flags come from the command tree.
type Config struct {
	Subcommands []Subcommand `yaml:"subcommands"`
}

type Subcommand struct {
	ID          string    `yaml:"id"`
	Short       string    `yaml:"short"`
	Description string    `yaml:"description"`
	Usage       string    `yaml:"usage"`
	Flags       []Flag    `yaml:"-"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
}

type Flag struct {
	ID          string
	Syntax      string
	Description string
	Default     string
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type TemplateData struct {
	Subcommand
	Date    string
	Version string
	IDUpper string
}

const markdownTemplate = `# rowdiff {{ .ID }}

{{ .Short }}

## Usage

    {{ .Usage }}

{{ .Description }}

## Flags

| Flag | Description | Default |
|---|---|---|
{{- range .Flags }}
| ` + "`{{ .Syntax }}`" + ` | {{ .Description }} | {{ .Default }} |
{{- end }}
{{ if .Examples }}
## Examples
{{ range .Examples }}
{{ .Description }}

    {{ .Command }}
{{ end }}{{ end }}{{ if .Notes }}
## Notes
{{ range .Notes }}
- {{ . }}
{{- end }}
{{ end }}
_{{ .IDUpper }} · rowdiff {{ .Version }} · {{ .Date }}_
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen DOCS_DIR")
		os.Exit(1)
	}
	docs := os.Args[1]

	data, err := os.ReadFile(filepath.Join(docs, "rowdiff.yaml"))
	if err != nil {
		panic(err)
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		panic(err)
	}

	commands := map[string]*cli.Command{}
	for _, c := range command.Commands() {
		commands[c.Name] = c
	}

	tmpl := template.Must(template.New("command").Parse(markdownTemplate))
	folder := filepath.Join(docs, "commands")
	if err := os.MkdirAll(folder, 0755); err != nil {
		panic(err)
	}

	for _, sub := range config.Subcommands {
		c, ok := commands[sub.ID]
		if !ok {
			fmt.Fprintf(os.Stderr, "skipping %s: no such command\n", sub.ID)
			continue
		}
		if sub.Short == "" {
			sub.Short = c.Usage
		}
		if sub.Usage == "" {
			sub.Usage = c.UsageText
		}
		sub.Flags = flagsOf(c)

		// Prepare template data
		metadata := TemplateData{
			Subcommand: sub,
			Date:       time.Now().Format("January 2, 2006"),
			Version:    getVersion(),
			IDUpper:    strings.ToUpper(sub.ID),
		}

		path := filepath.Join(folder, sub.ID+".md")
		file, err := os.Create(path)
		if err != nil {
			panic(err)
		}
		fmt.Println("Generating", path)

		if err := tmpl.Execute(file, metadata); err != nil {
			panic(err)
		}
		file.Close()
	}
}

// flagsOf describes the flags of c, sorted by name.
func flagsOf(c *cli.Command) []Flag {
	var flags []Flag
	for _, f := range c.Flags {
		names := f.Names()
		var spellings []string
		for _, n := range names {
			if len(n) == 1 {
				spellings = append(spellings, "-"+n)
			} else {
				spellings = append(spellings, "--"+n)
			}
		}

		flag := Flag{ID: names[0], Syntax: strings.Join(spellings, ", ")}
		if df, ok := f.(cli.DocGenerationFlag); ok {
			flag.Description = df.GetUsage()
			if df.TakesValue() {
				flag.Syntax += " value"
				flag.Default = df.GetValue()
			}
		}
		flags = append(flags, flag)
	}

	sort.Slice(flags, func(i, j int) bool {
		return flags[i].ID < flags[j].ID
	})
	return flags
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
