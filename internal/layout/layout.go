package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

// OutputRoot is the fixed root of every output directory.
const OutputRoot = "swagger-coverage-output"

// Tool locations relative to the install directory.
const (
	ToolDirName = "swagger-coverage-commandline"
	ToolName    = "swagger-coverage-commandline"
)

// Ancestor depths above the install directory. The project root, where the
// spec and coverage config live, is four levels up; cleanup recreates the
// output directory five levels up. The two differ on purpose and must not
// be unified without confirming the installed directory layout.
const (
	ProjectRootDepth = 4
	CleanupRootDepth = 5
)

// ErrInvalidHost is returned when a host does not match "scheme://rest".
var ErrInvalidHost = errors.New("host does not match scheme://rest")

var hostPattern = regexp.MustCompile(`^(\w*)://(.*)`)

// SanitizeHost strips the scheme from host and replaces every "." and ":"
// with "_", e.g. "http://api.example.com:8080" -> "api_example_com_8080".
func SanitizeHost(host string) (string, error) {
	m := hostPattern.FindStringSubmatch(host)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidHost, host)
	}
	return strings.NewReplacer(".", "_", ":", "_").Replace(m[2]), nil
}

// OutputDir returns the output directory for host on the given GOOS,
// joined with a backslash on Windows and a forward slash elsewhere.
func OutputDir(host, goos string) (string, error) {
	subdir, err := SanitizeHost(host)
	if err != nil {
		return "", err
	}
	sep := "/"
	if goos == "windows" {
		sep = `\`
	}
	return OutputRoot + sep + subdir, nil
}

// HostOutputDir is OutputDir for the running operating system.
func HostOutputDir(host string) (string, error) {
	return OutputDir(host, runtime.GOOS)
}

// Install describes a swaggercov installation directory.
type Install struct {
	// Dir is the absolute installation directory.
	Dir string

	// GOOS selects the tool launcher variant.
	GOOS string
}

// NewInstall returns an Install rooted at dir. An empty dir resolves to the
// directory of the running executable.
func NewInstall(dir string) (*Install, error) {
	if dir == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to locate executable: %w", err)
		}
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dir = filepath.Dir(exe)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve install dir %s: %w", dir, err)
	}
	return &Install{Dir: abs, GOOS: runtime.GOOS}, nil
}

// ToolBinDir returns the bin directory of the bundled tool.
func (i *Install) ToolBinDir() string {
	return filepath.Join(i.Dir, ToolDirName, "bin")
}

// ToolPath returns the launcher of the bundled tool. Windows uses the .bat
// launcher shipped next to the shell script.
func (i *Install) ToolPath() string {
	name := ToolName
	if i.GOOS == "windows" {
		name += ".bat"
	}
	return filepath.Join(i.ToolBinDir(), name)
}

// ProjectRoot returns the directory ProjectRootDepth levels above Dir.
func (i *Install) ProjectRoot() string {
	return Ancestor(i.Dir, ProjectRootDepth)
}

// CleanupRoot returns the directory CleanupRootDepth levels above Dir.
func (i *Install) CleanupRoot() string {
	return Ancestor(i.Dir, CleanupRootDepth)
}

// Ancestor returns the directory n levels above dir. It stops at the
// filesystem root.
func Ancestor(dir string, n int) string {
	p := filepath.Clean(dir)
	for range n {
		parent := filepath.Dir(p)
		if parent == p {
			break
		}
		p = parent
	}
	return p
}
