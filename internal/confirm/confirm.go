// Package confirm decides whether an edit to a set of URIs needs explicit
// user approval. Paths are classified against workspace membership, platform
// sensitive directories, and user-configured auto-approve glob rules; the
// highest severity across a batch governs the message shown. The gate never
// fails: absence of approval is data, not an error.
package confirm

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.lsp.dev/uri"

	"github.com/mkravets/anchoredit/internal/document"
)

// Outcome classifies a single URI, ordered by severity.
type Outcome int

const (
	// NoConfirmation - the edit may proceed silently.
	NoConfirmation Outcome = iota
	// NoPermissions - symlink resolution was refused by the filesystem.
	NoPermissions
	// Sensitive - a confirmation rule matched the path.
	Sensitive
	// SystemFile - the path falls under a platform sensitive directory.
	SystemFile
	// OutsideWorkspace - the path is not inside any workspace folder.
	OutsideWorkspace
)

func (o Outcome) String() string {
	switch o {
	case NoConfirmation:
		return "noConfirmation"
	case NoPermissions:
		return "noPermissions"
	case Sensitive:
		return "sensitive"
	case SystemFile:
		return "systemFile"
	case OutsideWorkspace:
		return "outsideWorkspace"
	}
	return "unknown"
}

// Rule maps a glob pattern to an approval verdict. Rules are evaluated in
// order against the workspace-relative path and the last matching rule wins;
// order is significant, by the most-specific-last convention.
type Rule struct {
	Pattern  string
	Approved bool
}

// vscodeSettingsRule always requires confirmation for editor settings files
// unless a later user rule overrides it.
var vscodeSettingsRule = Rule{Pattern: ".vscode/*.json", Approved: false}

// WorkspaceResolver reports which workspace folder, if any, contains a path.
type WorkspaceResolver interface {
	Folder(path string) (root string, ok bool)
}

// StaticWorkspace resolves against a fixed set of root directories.
type StaticWorkspace struct {
	Roots []string
}

// Folder returns the first root that contains path.
func (w StaticWorkspace) Folder(path string) (string, bool) {
	path = filepath.Clean(path)
	for _, root := range w.Roots {
		root = filepath.Clean(root)
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return root, true
		}
	}
	return "", false
}

// Options configures a Checker. Zero values pick platform defaults.
type Options struct {
	Workspace WorkspaceResolver
	Realpath  document.Realpath
	Rules     []Rule
	// Cache holds compiled rules per workspace folder. Callers share one
	// across checks; tests construct independent instances.
	Cache *RuleCache

	// CaseSensitive overrides the platform default when non-nil.
	CaseSensitive *bool
	// Home, GOOS, AppData, LocalAppData override the process environment,
	// for tests.
	Home         string
	GOOS         string
	AppData      string
	LocalAppData string
}

// Checker classifies URIs for the confirmation gate.
type Checker struct {
	workspace     WorkspaceResolver
	realpath      document.Realpath
	rules         []Rule
	cache         *RuleCache
	caseSensitive bool
	home          string
	goos          string
	appData       string
	localAppData  string
}

// NewChecker creates a Checker from opts.
func NewChecker(opts Options) *Checker {
	c := &Checker{
		workspace:    opts.Workspace,
		realpath:     opts.Realpath,
		rules:        opts.Rules,
		cache:        opts.Cache,
		home:         opts.Home,
		goos:         opts.GOOS,
		appData:      opts.AppData,
		localAppData: opts.LocalAppData,
	}
	if c.realpath == nil {
		c.realpath = document.OSRealpath{}
	}
	if c.cache == nil {
		c.cache = NewRuleCache()
	}
	if c.goos == "" {
		c.goos = runtime.GOOS
	}
	if c.home == "" {
		c.home, _ = os.UserHomeDir()
	}
	if c.goos == "windows" {
		if c.appData == "" {
			c.appData = os.Getenv("APPDATA")
		}
		if c.localAppData == "" {
			c.localAppData = os.Getenv("LOCALAPPDATA")
		}
	}
	if opts.CaseSensitive != nil {
		c.caseSensitive = *opts.CaseSensitive
	} else {
		// Windows and macOS filesystems are case-insensitive by default.
		c.caseSensitive = c.goos != "windows" && c.goos != "darwin"
	}
	return c
}

// CheckURI classifies a single URI. Symlinks are resolved first; when the
// resolved path differs from the given one, both are classified and the
// maximum severity wins.
func (c *Checker) CheckURI(u uri.URI) Outcome {
	if document.IsUntitled(u) {
		return NoConfirmation
	}
	path := filepath.Clean(u.Filename())

	res, err := c.realpath.Resolve(path)
	if err == nil && res.PermissionDenied {
		return NoPermissions
	}
	out := c.classifyPath(path)
	if err == nil && res.RealPath != "" && filepath.Clean(res.RealPath) != path {
		if resolved := c.classifyPath(filepath.Clean(res.RealPath)); resolved > out {
			out = resolved
		}
	}
	return out
}

func (c *Checker) classifyPath(path string) Outcome {
	root, inWorkspace := c.workspace.Folder(path)
	if !inWorkspace {
		return OutsideWorkspace
	}
	if c.isSystemPath(path) {
		return SystemFile
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return Sensitive
	}
	rel = filepath.ToSlash(rel)

	// Last matching rule wins; the running verdict starts approved so a
	// path matching no rule needs no confirmation.
	approved := true
	for _, rule := range c.cache.compiled(root, c.rules, c.caseSensitive) {
		if rule.match(rel) {
			approved = rule.approved
		}
	}
	if approved {
		return NoConfirmation
	}
	return Sensitive
}

// isSystemPath reports whether path falls under a platform "always confirm"
// location: %APPDATA%/%LOCALAPPDATA% on Windows, ~/Library on macOS, and
// dotfiles or dot-directories directly under the home directory everywhere.
func (c *Checker) isSystemPath(path string) bool {
	switch c.goos {
	case "windows":
		if underDir(path, c.appData) || underDir(path, c.localAppData) {
			return true
		}
	case "darwin":
		if c.home != "" && underDir(path, filepath.Join(c.home, "Library")) {
			return true
		}
	}
	if c.home == "" {
		return false
	}
	rel, err := filepath.Rel(c.home, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	first := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
	return strings.HasPrefix(first, ".")
}

func underDir(path, dir string) bool {
	if dir == "" {
		return false
	}
	dir = filepath.Clean(dir)
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}
