package runner

import "strings"

// Launcher is one way of starting a tool: either a standalone executable or
// an interpreter running a module (`python3 -m yt_dlp`).
type Launcher struct {
	Name   string
	Prefix []string
}

// Command builds the invocation for args under this launcher.
func (l Launcher) Command(args []string) Command {
	full := make([]string, 0, len(l.Prefix)+len(args))
	full = append(full, l.Prefix...)
	full = append(full, args...)
	return Command{Name: l.Name, Args: full}
}

func (l Launcher) String() string {
	if len(l.Prefix) == 0 {
		return l.Name
	}
	return l.Name + " " + strings.Join(l.Prefix, " ")
}

// Interpreters returns the default interpreter names for a host OS, in the
// order they are tried.
func Interpreters(goos string) []string {
	if goos == "windows" {
		return []string{"py", "python", "python3"}
	}
	return []string{"python3", "python"}
}

// PythonModule returns one launcher per interpreter running module.
func PythonModule(interpreters []string, module string) []Launcher {
	launchers := make([]Launcher, 0, len(interpreters))
	for _, interpreter := range interpreters {
		launchers = append(launchers, Launcher{Name: interpreter, Prefix: []string{"-m", module}})
	}
	return launchers
}

// Standalone returns a launcher for an executable on PATH.
func Standalone(goos, binary string) Launcher {
	if goos == "windows" && !strings.HasSuffix(strings.ToLower(binary), ".exe") {
		binary += ".exe"
	}
	return Launcher{Name: binary}
}
