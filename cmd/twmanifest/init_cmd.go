package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .twmanifest.yaml config file",
	Long:  `Create a .twmanifest.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = defaultConfigPath
		}
		return writeDefaultConfig(path, force)
	},
}

func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Printf("Created %s\n", path)
	return nil
}

const defaultConfig = `# twmanifest configuration
# Docs: https://github.com/yacobolo/twmanifest

manifest: design.manifest.json
verbose: false

# Sections
typography: true
colors: true
sizing: true
buttons: true

fluid-typography: true      # true | false | LIMITED_DESKTOP
button-typename: body       # body | utility
color-group-style: full     # full | initial

# Font families to roles: Primary, Secondary, Tertiary, Quaternary, Quinary, Heading
font-mapping: {}
#   Gotham Narrow: Primary
#   Tungsten: Heading

# Style names to weights per role
font-weight-mapping: {}
#   Primary:
#     Regular: 400

screens:
  sm: 640px
  lg: 1024px

# Files scanned for classes. Without content every token is emitted.
content:
  - "{layout,sections,snippets,templates,src}/**/*.{ts,js,jsx,tsx,liquid,html,templ}"
  - "!**/*styleguide.*"

output:
  theme: tailwind/theme.json
  css: tailwind/manifest.css

watch:
  debounce: 300ms

lint:
  strict: false
  output-format: issues    # issues | summary | full | json
  max-issues-per-linter: 0 # 0 = unlimited
  max-same-issues: 0       # 0 = unlimited
  print-lines: true
  print-linter-name: true
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
