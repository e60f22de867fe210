package lastools

import (
	"path/filepath"
	"strings"
)

// Toolbox locates LAStools executables.
type Toolbox struct {
	// Folder is the LAStools installation root; executables live under bin/.
	Folder string
	// WineFolder runs the Windows binaries through wine when set.
	WineFolder string
}

// Executable returns the path of the named LAStools executable.
func (t Toolbox) Executable(tool string) string {
	if t.usesWine() && !strings.HasSuffix(strings.ToLower(tool), ".exe") {
		tool += ".exe"
	}
	return filepath.Join(t.Folder, "bin", tool)
}

// Launcher returns the argv prefix placed before the executable, if any.
func (t Toolbox) Launcher() []string {
	if !t.usesWine() {
		return nil
	}
	return []string{filepath.Join(t.WineFolder, "wine")}
}

func (t Toolbox) usesWine() bool {
	return strings.TrimSpace(t.WineFolder) != ""
}

// Options are the verbosity and free-form options shared by every LAStools action.
type Options struct {
	// Verbose adds -v.
	Verbose bool `json:"verbose,omitempty" yaml:"verbose"`
	// GUI adds -gui, opening the LAStools GUI.
	GUI bool `json:"gui,omitempty" yaml:"gui"`
	// Additional is appended verbatim after splitting on whitespace.
	Additional string `json:"additional,omitempty" yaml:"additional"`
}

// VerboseArgs returns the verbosity flags.
func (o Options) VerboseArgs() []string {
	var args []string
	if o.Verbose {
		args = append(args, "-v")
	}
	if o.GUI {
		args = append(args, "-gui")
	}
	return args
}

// AdditionalArgs returns the user supplied trailing flags.
func (o Options) AdditionalArgs() []string {
	return strings.Fields(o.Additional)
}
