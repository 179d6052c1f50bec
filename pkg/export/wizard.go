package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/vanderheijden86/orbital/pkg/config"
)

// WizardConfig holds the snapshot settings collected by the wizard.
// It is persisted so repeat exports start from the previous answers.
type WizardConfig struct {
	OutputDir string `json:"output_dir"`
	Format    string `json:"format"` // "svg" or "png"
	Preset    string `json:"preset"` // "compact" or "roomy"
	Title     string `json:"title,omitempty"`
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// RunWizard collects snapshot settings interactively and returns the
// output path to write. Previously saved answers seed the defaults.
func RunWizard(stackName string) (*WizardConfig, string, error) {
	cfg := loadWizardConfig()
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaultOutputDir()
	}
	if cfg.Format == "" {
		cfg.Format = "svg"
	}
	if cfg.Preset == "" {
		cfg.Preset = "compact"
	}
	if cfg.Title == "" && stackName != "" {
		cfg.Title = stackName
	}

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output directory").
				Value(&cfg.OutputDir).
				Placeholder(defaultOutputDir()),
			huh.NewSelect[string]().
				Title("Format").
				Options(
					huh.NewOption("SVG (scalable, diffable)", "svg"),
					huh.NewOption("PNG (raster)", "png"),
				).
				Value(&cfg.Format),
			huh.NewSelect[string]().
				Title("Canvas size").
				Options(
					huh.NewOption("Compact (960x720)", "compact"),
					huh.NewOption("Roomy (1280x960)", "roomy"),
				).
				Value(&cfg.Preset),
			huh.NewInput().
				Title("Title (optional)").
				Value(&cfg.Title),
		),
	)

	if err := form.Run(); err != nil {
		return nil, "", err
	}

	if strings.TrimSpace(cfg.OutputDir) == "" {
		cfg.OutputDir = defaultOutputDir()
	}
	saveWizardConfig(cfg)

	name := fmt.Sprintf("orbital-%s.%s", time.Now().Format("20060102-150405"), cfg.Format)
	return cfg, filepath.Join(cfg.OutputDir, name), nil
}

func defaultOutputDir() string {
	if dir := config.DataDir(); dir != "" {
		return filepath.Join(dir, "snapshots")
	}
	return "."
}

func wizardConfigPath() string {
	dir := config.ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "snapshot-wizard.json")
}

// loadWizardConfig returns the saved settings, or zero values when
// nothing was saved yet. A missing or corrupt settings file just means
// fresh defaults.
func loadWizardConfig() *WizardConfig {
	cfg := &WizardConfig{}
	path := wizardConfigPath()
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	_ = json.Unmarshal(data, cfg)
	return cfg
}

func saveWizardConfig(cfg *WizardConfig) {
	path := wizardConfigPath()
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(path, data, 0o644)
}
