// Package prompt builds the instruction templates fed to the language model.
package prompt

import "fmt"

// ExplainCommand asks for a structured breakdown of a shell command.
func ExplainCommand(command string) string {
	return fmt.Sprintf(`Explain this Linux command:

    %s

Cover:
1. What the command does overall
2. What each flag and argument means
3. Typical situations where it is used
4. Side effects worth knowing about before running it`, command)
}

// SuggestCommand asks for a command line that accomplishes the described task.
func SuggestCommand(task string) string {
	return fmt.Sprintf(`The user wants to accomplish this task on a Linux system:

%s

Suggest the most suitable command. Show the exact command line first, then
explain what each part does and mention any flags that make it safer.`, task)
}

// TroubleshootError asks for a diagnosis of a failed command.
func TroubleshootError(command, errorOutput string) string {
	return fmt.Sprintf(`This command failed:

    %s

Error output:

%s

Diagnose the most likely cause, then give the steps to fix it. If several
causes are plausible, list them from most to least likely.`, command, errorOutput)
}

// SummarizeManPage asks for a condensed manual page.
func SummarizeManPage(name string) string {
	return fmt.Sprintf(`Summarize the man page for %s.

Include:
1. A one-line description
2. The most commonly used flags
3. Two or three practical examples
4. Related commands worth knowing`, name)
}

// DiskUsageReport wraps a canned filesystem snapshot for the model to read
// back. No real disk I/O happens here.
func DiskUsageReport(path string) string {
	return fmt.Sprintf(`Disk usage snapshot for %s:

Filesystem      Size  Used Avail Use%% Mounted on
/dev/sda1        98G   62G   31G  67%% /
/dev/sda2       458G  212G  223G  49%% /home
tmpfs            16G  1.2G   15G   8%% /tmp

Summarize the state of these filesystems for the user and call out anything
close to capacity.`, path)
}
