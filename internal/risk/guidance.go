package risk

import (
	"fmt"
	"strings"
)

// dangerGuidance builds the instructional block used when a command matched
// at least one signature. Findings are listed in match order.
func dangerGuidance(command string, findings []Finding) string {
	var sb strings.Builder

	sb.WriteString("The user wants to run this command:\n\n")
	sb.WriteString(fmt.Sprintf("    %s\n\n", command))
	sb.WriteString("Detected risks:\n")
	for _, finding := range findings {
		sb.WriteString(fmt.Sprintf("- [%s] %s\n", strings.ToUpper(string(finding.Level)), finding.Reason))
	}
	sb.WriteString("\nWalk the user through, in order:\n")
	sb.WriteString("1. Why this command is dangerous\n")
	sb.WriteString("2. A safer alternative that achieves the same goal\n")
	sb.WriteString("3. Precautions to take before running it\n")
	sb.WriteString("4. How to recover if it has already been run\n")

	return sb.String()
}

// safeGuidance builds the reminder block used when no signature matched.
func safeGuidance(command string) string {
	var sb strings.Builder

	sb.WriteString("No obvious danger detected in this command:\n\n")
	sb.WriteString(fmt.Sprintf("    %s\n\n", command))
	sb.WriteString("Still remind the user to:\n")
	sb.WriteString("1. Double-check the target path before running it\n")
	sb.WriteString("2. Prefer a dry run when the command supports one\n")
	sb.WriteString("3. Keep backups of anything the command modifies\n")
	sb.WriteString("4. Read the man page for any unfamiliar flag\n")

	return sb.String()
}
