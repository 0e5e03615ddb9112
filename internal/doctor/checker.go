package doctor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/perch-tools/perch/internal/config"
	"github.com/perch-tools/perch/internal/editor"
	"github.com/perch-tools/perch/internal/envfile"
	"github.com/perch-tools/perch/internal/process"
)

// CheckStatus represents the status of a diagnostic check
type CheckStatus string

const (
	CheckStatusPass CheckStatus = "pass"
	CheckStatusWarn CheckStatus = "warn"
	CheckStatusFail CheckStatus = "fail"
)

// CheckResult represents the result of a single diagnostic check
type CheckResult struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Status      CheckStatus `json:"status"`
	Details     string      `json:"details"`
	Suggestions []string    `json:"suggestions,omitempty"`
}

// DiagnosticSummary provides an overview of all checks
type DiagnosticSummary struct {
	Total   int  `json:"total"`
	Passed  int  `json:"passed"`
	Warned  int  `json:"warned"`
	Failed  int  `json:"failed"`
	Healthy bool `json:"healthy"`
}

// DiagnosticResult contains the results of all diagnostic checks
type DiagnosticResult struct {
	Checks  []CheckResult     `json:"checks"`
	Summary DiagnosticSummary `json:"summary"`
}

// resolver is the slice of the editor resolver the checks exercise.
type resolver interface {
	Resolve(explicit string) *editor.Identity
}

// Checker performs editor environment diagnostic checks
type Checker struct {
	resolver   resolver
	enumerator process.Enumerator
	goos       string
	getenv     func(string) string
	osRelease  func() string
	projectDir string
}

// NewChecker creates a new Checker instance
func NewChecker(res *editor.Resolver, enum process.Enumerator, projectDir string) *Checker {
	return &Checker{
		resolver:   res,
		enumerator: enum,
		goos:       runtime.GOOS,
		getenv:     os.Getenv,
		osRelease:  kernelRelease,
		projectDir: projectDir,
	}
}

// CheckSystem runs all diagnostic checks
func (c *Checker) CheckSystem() (*DiagnosticResult, error) {
	var checks []CheckResult

	checks = append(checks, c.CheckPlatform())
	checks = append(checks, c.CheckProcessListing())
	checks = append(checks, c.CheckEnvironment())
	checks = append(checks, c.CheckProjectEnvFile())
	checks = append(checks, c.CheckConfiguration())
	checks = append(checks, c.CheckEditorResolution())

	if c.goos == "linux" {
		checks = append(checks, c.CheckInterop())
	}

	summary := c.calculateSummary(checks)

	return &DiagnosticResult{
		Checks:  checks,
		Summary: summary,
	}, nil
}

// CheckPlatform checks that the platform has a process detection table
func (c *Checker) CheckPlatform() CheckResult {
	result := CheckResult{
		Name:        "Platform",
		Description: "Verify the platform supports process-based editor detection",
	}

	editors := editor.DetectableEditors(c.goos)

	switch c.goos {
	case "darwin", "linux", "windows":
		result.Status = CheckStatusPass
		result.Details = fmt.Sprintf("Process scanning on %s can discover %d editors", c.goos, len(editors))
	default:
		result.Status = CheckStatusWarn
		result.Details = fmt.Sprintf("Unrecognized platform %s; falling back to the linux detection table", c.goos)
		result.Suggestions = []string{
			"Set PERCH_EDITOR, VISUAL, or EDITOR if detection misses your editor",
		}
	}

	return result
}

// CheckProcessListing checks that running processes can be enumerated
func (c *Checker) CheckProcessListing() CheckResult {
	result := CheckResult{
		Name:        "Process Listing",
		Description: "Verify running processes can be enumerated",
	}

	processes, err := c.enumerator.List()
	if err != nil {
		result.Status = CheckStatusWarn
		result.Details = fmt.Sprintf("Process listing failed: %v", err)
		result.Suggestions = []string{
			"Ensure ps (or wmic/powershell on Windows) is available",
			"Set PERCH_EDITOR, VISUAL, or EDITOR so detection does not need the scan",
		}
		return result
	}

	result.Status = CheckStatusPass
	result.Details = fmt.Sprintf("Enumerated %d running processes", len(processes))

	return result
}

// CheckEnvironment checks editor-related environment variables
func (c *Checker) CheckEnvironment() CheckResult {
	result := CheckResult{
		Name:        "Environment",
		Description: "Check editor-related environment variables",
	}

	var details []string
	var set int

	for _, name := range []string{envfile.EditorKey, "VISUAL", "EDITOR"} {
		if value := c.getenv(name); value != "" {
			details = append(details, fmt.Sprintf("✓ %s is set: %s", name, value))
			set++
		} else {
			details = append(details, fmt.Sprintf("✗ %s is not set", name))
		}
	}

	result.Details = strings.Join(details, "\n")

	if set == 0 {
		result.Status = CheckStatusWarn
		result.Suggestions = []string{
			"Set PERCH_EDITOR to pin an editor",
			"Set VISUAL or EDITOR as a fallback for when no editor is running",
		}
		return result
	}

	result.Status = CheckStatusPass

	return result
}

// CheckProjectEnvFile checks the project .env.local override file
func (c *Checker) CheckProjectEnvFile() CheckResult {
	result := CheckResult{
		Name:        "Project Overrides",
		Description: fmt.Sprintf("Check the project %s override file", envfile.FileName),
	}

	path := filepath.Join(c.projectDir, envfile.FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		result.Status = CheckStatusPass
		result.Details = fmt.Sprintf("No %s file; defaults apply", envfile.FileName)
		return result
	}

	values, err := godotenv.Read(path)
	if err != nil {
		result.Status = CheckStatusWarn
		result.Details = fmt.Sprintf("Could not parse %s: %v", envfile.FileName, err)
		result.Suggestions = []string{
			fmt.Sprintf("Fix the syntax of %s or remove it", path),
		}
		return result
	}

	var details []string
	for _, key := range []string{envfile.EditorKey, envfile.FormatKey} {
		if value, ok := values[key]; ok && value != "" {
			details = append(details, fmt.Sprintf("✓ %s = %s", key, value))
		} else {
			details = append(details, fmt.Sprintf("✗ %s is not set", key))
		}
	}

	result.Status = CheckStatusPass
	result.Details = strings.Join(details, "\n")

	return result
}

// CheckConfiguration checks perch configuration files
func (c *Checker) CheckConfiguration() CheckResult {
	result := CheckResult{
		Name:        "Configuration",
		Description: "Check perch configuration files",
	}

	manager := config.NewManager()

	var details []string
	var suggestions []string
	var found bool

	for _, path := range manager.GetConfigPaths(c.projectDir) {
		if _, err := os.Stat(path); err == nil {
			details = append(details, fmt.Sprintf("✓ %s", path))
			found = true
		}
	}

	if !found {
		details = append(details, "✗ No configuration files found")
		suggestions = append(suggestions, "Create .perch.yaml to set launch defaults")
	}

	if _, err := manager.LoadConfig(c.projectDir); err != nil {
		result.Status = CheckStatusFail
		result.Details = strings.Join(append(details, err.Error()), "\n")
		result.Suggestions = []string{"Fix the reported configuration errors"}
		return result
	}

	if len(suggestions) == 0 {
		result.Status = CheckStatusPass
	} else {
		result.Status = CheckStatusWarn
	}

	result.Details = strings.Join(details, "\n")
	result.Suggestions = suggestions

	return result
}

// CheckEditorResolution checks that an editor can be resolved end to end
func (c *Checker) CheckEditorResolution() CheckResult {
	result := CheckResult{
		Name:        "Editor Resolution",
		Description: "Verify an editor can be resolved end to end",
	}

	identity := c.resolver.Resolve("")
	if identity == nil {
		result.Status = CheckStatusWarn
		result.Details = "No editor could be resolved"
		result.Suggestions = []string{
			"Start your editor so the process scan can find it",
			"Set PERCH_EDITOR, VISUAL, or EDITOR",
		}
		return result
	}

	result.Status = CheckStatusPass
	if identity.Name != "" && identity.Name != identity.Command {
		result.Details = fmt.Sprintf("Resolved %s (%s) via %s", identity.Name, identity.Command, identity.Source)
	} else {
		result.Details = fmt.Sprintf("Resolved %s via %s", identity.Command, identity.Source)
	}

	return result
}

// CheckInterop reports whether WSL path rewriting is active
func (c *Checker) CheckInterop() CheckResult {
	result := CheckResult{
		Name:        "WSL Interop",
		Description: "Check for Windows Subsystem for Linux path handling",
	}

	release := c.osRelease()
	if strings.Contains(strings.ToLower(release), "microsoft") {
		result.Status = CheckStatusPass
		result.Details = "Running under WSL; /mnt paths are relativized for Windows editors"
		return result
	}

	result.Status = CheckStatusPass
	result.Details = "Not running under WSL"

	return result
}

// kernelRelease reads the kernel release string used for WSL detection
func kernelRelease() string {
	data, err := os.ReadFile("/proc/sys/kernel/osrelease")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// calculateSummary calculates the diagnostic summary
func (c *Checker) calculateSummary(checks []CheckResult) DiagnosticSummary {
	summary := DiagnosticSummary{
		Total: len(checks),
	}

	for _, check := range checks {
		switch check.Status {
		case CheckStatusPass:
			summary.Passed++
		case CheckStatusWarn:
			summary.Warned++
		case CheckStatusFail:
			summary.Failed++
		}
	}

	summary.Healthy = summary.Failed == 0

	return summary
}

// FormatAsTable formats the diagnostic result as a table
func (r *DiagnosticResult) FormatAsTable() string {
	var output bytes.Buffer
	w := tabwriter.NewWriter(&output, 0, 0, 2, ' ', 0)

	// Header
	fmt.Fprintln(w, "CHECK\tSTATUS\tDETAILS")
	fmt.Fprintln(w, "-----\t------\t-------")

	// Rows
	for _, check := range r.Checks {
		var status string
		switch check.Status {
		case CheckStatusPass:
			status = "PASS"
		case CheckStatusWarn:
			status = "WARN"
		case CheckStatusFail:
			status = "FAIL"
		}

		// Truncate details for table display
		details := strings.ReplaceAll(check.Details, "\n", "; ")
		if len(details) > 60 {
			details = details[:57] + "..."
		}

		fmt.Fprintf(w, "%s\t%s\t%s\n", check.Name, status, details)
	}

	w.Flush()

	// Add summary
	fmt.Fprintf(&output, "\nSummary: %d total, %d passed, %d warned, %d failed\n",
		r.Summary.Total, r.Summary.Passed, r.Summary.Warned, r.Summary.Failed)

	if r.Summary.Healthy {
		fmt.Fprintln(&output, "Overall Status: ✅ Healthy")
	} else {
		fmt.Fprintln(&output, "Overall Status: ❌ Issues Found")
	}

	return output.String()
}

// FormatAsJSON formats the diagnostic result as JSON
func (r *DiagnosticResult) FormatAsJSON() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": "failed to marshal JSON: %s"}`, err.Error())
	}
	return string(data)
}

// FormatAsSimple formats the diagnostic result as a simple list
func (r *DiagnosticResult) FormatAsSimple() string {
	var output strings.Builder

	for _, check := range r.Checks {
		var icon string
		switch check.Status {
		case CheckStatusPass:
			icon = "✅"
		case CheckStatusWarn:
			icon = "⚠️"
		case CheckStatusFail:
			icon = "❌"
		}

		fmt.Fprintf(&output, "%s %s: %s\n", icon, check.Name, strings.ReplaceAll(check.Details, "\n", "; "))

		// Add suggestions if any
		for _, suggestion := range check.Suggestions {
			fmt.Fprintf(&output, "   💡 %s\n", suggestion)
		}
	}

	// Add summary
	fmt.Fprintf(&output, "\n📊 Summary: %d total, %d passed, %d warned, %d failed\n",
		r.Summary.Total, r.Summary.Passed, r.Summary.Warned, r.Summary.Failed)

	return output.String()
}

// GetOverallStatus returns the overall status based on all checks
func (r *DiagnosticResult) GetOverallStatus() CheckStatus {
	if r.Summary.Failed > 0 {
		return CheckStatusFail
	}
	if r.Summary.Warned > 0 {
		return CheckStatusWarn
	}
	return CheckStatusPass
}
