package monitoring

import "strings"

const windowsCommandPrefix = "powershell.exe -NonInteractive -NoProfile -ExecutionPolicy RemoteSigned -file "

// BuildCommand renders the command line Sensu runs for a check. Arguments
// come after the script; the slice is appended last and only for scripts
// shipped with the deployment.
func BuildCommand(platform Platform, kind ScriptKind, scriptPath, arguments, slice string) string {
	var b strings.Builder
	if platform == PlatformWindows {
		b.WriteString(windowsCommandPrefix)
	}
	b.WriteString(scriptPath)

	if arguments != "" {
		b.WriteString(" ")
		b.WriteString(arguments)
	}

	if kind == ScriptKindLocal && slice != "" && slice != NoSlice {
		b.WriteString(" ")
		b.WriteString(slice)
	}

	return b.String()
}
