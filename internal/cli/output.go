// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayReport], [DisplaySummary], [DisplayOutcome].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatVerdict], [FormatOutcome].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteReportFile].

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/agbru/fanbatch/internal/orchestration"
	"github.com/agbru/fanbatch/internal/outcome"
	"github.com/agbru/fanbatch/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path of the YAML report (empty for no file output).
	OutputFile string
	// Quiet prints only the verdict line.
	Quiet bool
	SummaryDetails
}

// reportFile is the YAML layout of a saved report.
type reportFile struct {
	Generated time.Time             `yaml:"generated"`
	Error     string                `yaml:"error,omitempty"`
	Summary   orchestration.Summary `yaml:"summary"`
	Outcomes  []outcome.Outcome     `yaml:"outcomes"`
}

// WriteReportFile writes r as YAML to path, creating parent directories.
func WriteReportFile(path string, r orchestration.Report, generated time.Time) (err error) {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	doc := reportFile{Generated: generated, Summary: r.Summary, Outcomes: r.Outcomes}
	if r.Err != nil {
		doc.Error = r.Err.Error()
	}
	enc := yaml.NewEncoder(file)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}

// ReadReportFile decodes a report written by WriteReportFile.
func ReadReportFile(path string) (orchestration.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return orchestration.Report{}, err
	}
	var doc reportFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return orchestration.Report{}, fmt.Errorf("failed to decode report: %w", err)
	}
	return orchestration.Report{Summary: doc.Summary, Outcomes: doc.Outcomes}, nil
}

// DisplayReport writes the end-of-run output for r and saves the report file
// if one is configured. Outcome lines are printed during the run by
// ConsoleObserver, so only the summary is written here.
func DisplayReport(out io.Writer, r orchestration.Report, at time.Time, cfg OutputConfig) error {
	if cfg.Quiet {
		DisplayVerdict(out, r.Summary, at)
	} else {
		DisplaySummary(out, r.Summary, r.Err, at, cfg.SummaryDetails)
	}

	if cfg.OutputFile != "" {
		if err := WriteReportFile(cfg.OutputFile, r, at); err != nil {
			return err
		}
		if !cfg.Quiet {
			theme := ui.GetCurrentTheme()
			fmt.Fprintf(out, "%s\n", theme.Paint(theme.Success, "✓ Report saved to: "+cfg.OutputFile))
		}
	}
	return nil
}
