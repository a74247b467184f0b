// Package health implements the checks behind "syncmail doctor": the
// external executables are on PATH and the accounts directory is readable.
package health

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/syncmail/syncmail/internal/account"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Targets names what the checks inspect.
type Targets struct {
	SyncCmd     string
	IndexCmd    string
	NotifyCmd   string
	AccountsDir string
	// Notifications false skips the notifier check.
	Notifications bool
}

// RunHealthChecks runs all health checks and returns a report
func RunHealthChecks(t Targets) *HealthReport {
	report := &HealthReport{
		Checks: make([]CheckResult, 0, 4),
		Passed: true,
	}

	add := func(c CheckResult) {
		report.Checks = append(report.Checks, c)
		if !c.Passed {
			report.Passed = false
		}
	}

	add(CheckExecutable("Sync tool", t.SyncCmd))
	add(CheckExecutable("Index tool", t.IndexCmd))
	if t.Notifications {
		add(CheckExecutable("Notifier", t.NotifyCmd))
	}
	add(CheckAccountsDir(t.AccountsDir))

	return report
}

// CheckExecutable checks if command resolves on PATH
func CheckExecutable(name, command string) CheckResult {
	if command == "" {
		return CheckResult{
			Name:    name,
			Passed:  false,
			Message: fmt.Sprintf("%s is not configured", name),
		}
	}

	path, err := exec.LookPath(command)
	if err != nil {
		return CheckResult{
			Name:    name,
			Passed:  false,
			Message: fmt.Sprintf("%s not found in PATH", command),
		}
	}

	return CheckResult{
		Name:    name,
		Passed:  true,
		Message: fmt.Sprintf("%s found at %s", command, path),
	}
}

// CheckAccountsDir checks that dir can be listed and reports the accounts
// it holds. An empty directory passes; the loop simply has nothing to do.
func CheckAccountsDir(dir string) CheckResult {
	const name = "Accounts"

	accounts, err := account.Discover(dir)
	if err != nil {
		return CheckResult{
			Name:    name,
			Passed:  false,
			Message: fmt.Sprintf("cannot read %s: %v", dir, err),
		}
	}
	if len(accounts) == 0 {
		return CheckResult{
			Name:    name,
			Passed:  true,
			Message: fmt.Sprintf("no accounts found in %s", dir),
		}
	}

	return CheckResult{
		Name:    name,
		Passed:  true,
		Message: fmt.Sprintf("%d found in %s (%s)", len(accounts), dir, strings.Join(accounts, ", ")),
	}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var output strings.Builder

	for _, check := range report.Checks {
		if check.Passed {
			fmt.Fprintf(&output, "✓ %s: %s\n", check.Name, check.Message)
		} else {
			fmt.Fprintf(&output, "✗ Error: %s\n", check.Message)
		}
	}

	return output.String()
}
