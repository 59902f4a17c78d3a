package risk

import "regexp"

// builtins returns the built-in danger signature table. Findings are reported
// in table order, not severity order. The root delete entry overlaps the
// generic rm -rf entry, so both fire on the same command.
func builtins() []Signature {
	table := []Signature{
		{Pattern: `rm\s+-rf?\s+/(\s|$)`, Level: LevelCritical, Reason: "Deletes root filesystem"},
		{Pattern: `rm\s+-rf\b`, Level: LevelHigh, Reason: "Recursive force delete without confirmation"},
		{Pattern: `mkfs`, Level: LevelCritical, Reason: "Formats filesystem, destroys all data"},
		{Pattern: `\bdd\s+.*of=/dev/`, Level: LevelCritical, Reason: "Overwrites disk device directly"},
		{Pattern: `>\s*/dev/sd[a-z]`, Level: LevelCritical, Reason: "Overwrites disk device"},
		{Pattern: `chmod\s+-R\s+777`, Level: LevelHigh, Reason: "Removes all file permission security"},
		{Pattern: `chown\s+-R\b`, Level: LevelMedium, Reason: "Recursive ownership change"},
		{Pattern: `:\(\)\{ :\|:& \};:`, Level: LevelCritical, Reason: "Fork bomb - crashes system"},
		{Pattern: `>\s*/etc/passwd`, Level: LevelCritical, Reason: "Overwrites user database"},
		{Pattern: `curl.*\|\s*(sh|bash)\b`, Level: LevelHigh, Reason: "Executes remote script without review"},
		{Pattern: `wget.*\|\s*(sh|bash)\b`, Level: LevelHigh, Reason: "Executes remote script without review"},
	}
	for i := range table {
		table[i].re = regexp.MustCompile(table[i].Pattern)
	}
	return table
}
