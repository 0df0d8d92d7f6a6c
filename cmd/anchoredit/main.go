// Command anchoredit applies a model-proposed search/replace edit to a file,
// gated by the path-sensitivity confirmation policy.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.lsp.dev/uri"

	"github.com/mkravets/anchoredit/internal/config"
	"github.com/mkravets/anchoredit/internal/confirm"
	"github.com/mkravets/anchoredit/internal/document"
	"github.com/mkravets/anchoredit/internal/edit"
	"github.com/mkravets/anchoredit/internal/logging"
	"github.com/mkravets/anchoredit/internal/match"
	"github.com/mkravets/anchoredit/internal/tui"
	"github.com/mkravets/anchoredit/internal/ui"
)

// Version info set by ldflags at build time
var (
	version    = "dev"
	commitHash = "dev"
	buildDate  = "unknown"
)

// editRequest is the JSON form of an edit, matching the tool-call schema
// coding agents emit.
type editRequest struct {
	Path    string `json:"path"`
	Search  string `json:"search"`
	Replace string `json:"replace"`
}

func main() {
	configPath := flag.String("config", "anchoredit.yaml", "path to config file")
	logFile := flag.String("log", "", "log file path (overrides config; empty uses config)")
	targetPath := flag.String("path", "", "file to edit")
	searchFile := flag.String("search-file", "", "file containing the search text (empty search creates the target)")
	replaceFile := flag.String("replace-file", "", "file containing the replacement text")
	request := flag.String("request", "", "read a JSON edit request {path,search,replace} from this file, or '-' for stdin")
	dryRun := flag.Bool("dry-run", false, "compute and show the edit without writing")
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	plain := flag.Bool("plain", false, "use a plain y/N prompt instead of the full-screen view")
	jsonOut := flag.Bool("json", false, "print the result as JSON to stdout")
	showVersion := flag.Bool("version", false, "show version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("anchoredit %s (%s, built %s)\n", version, commitHash, buildDate)
		return
	}

	writer := ui.NewWriter(os.Stderr)

	req, err := loadRequest(*request, *targetPath, *searchFile, *replaceFile)
	if err != nil {
		writer.PrintError(err.Error())
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		writer.PrintError(err.Error())
		os.Exit(1)
	}

	logPath := *logFile
	if logPath == "" {
		logPath = cfg.Log.Path
	}
	logger, err := logging.NewLogger(logPath, cfg.Log.Development)
	if err != nil {
		writer.PrintError(fmt.Sprintf("open log: %v", err))
		os.Exit(1)
	}
	defer logger.Close()

	if code := run(context.Background(), cfg, logger, writer, req, runOptions{
		dryRun:  *dryRun,
		yes:     *yes,
		plain:   *plain,
		jsonOut: *jsonOut,
	}); code != 0 {
		os.Exit(code)
	}
}

type runOptions struct {
	dryRun  bool
	yes     bool
	plain   bool
	jsonOut bool
}

func run(ctx context.Context, cfg *config.Config, logger *logging.Logger, writer *ui.Writer, req editRequest, opts runOptions) int {
	start := time.Now()

	absPath, err := filepath.Abs(req.Path)
	if err != nil {
		writer.PrintError(fmt.Sprintf("invalid path: %v", err))
		return 1
	}
	u := uri.File(absPath)
	provider := document.FileProvider{}

	// Snapshot the current content for the diff; a missing file is a
	// pending creation, not an error.
	oldContent := ""
	isNewFile := false
	if doc, openErr := provider.Open(ctx, u); openErr == nil {
		oldContent = doc.Text()
	} else if errors.Is(openErr, fs.ErrNotExist) {
		isNewFile = true
	} else {
		writer.PrintError(openErr.Error())
		return 1
	}

	applier := edit.NewApplier(provider, match.NewMatcher(cfg.Edit.SimilarityThreshold))
	result, err := applier.Apply(ctx, u, req.Search, req.Replace)
	if err != nil {
		logger.EditFailed(req.Path, string(edit.KindOf(err)), err)
		writer.PrintError(err.Error())
		printRemediation(writer, err)
		return 1
	}

	diff, err := edit.UnifiedDiff(oldContent, result.UpdatedFile, req.Path)
	if err != nil {
		writer.PrintError(fmt.Sprintf("generate diff: %v", err))
		return 1
	}

	decision := newChecker(cfg).Decide(ctx, []uri.URI{u}, "Apply edit")
	logger.ConfirmationDecision(decision.Outcome.String(), decision.Hidden, decision.Paths)

	if !decision.Hidden && !opts.yes && !opts.dryRun {
		approved, promptErr := askApproval(writer, decision.Message, diff, opts.plain)
		if promptErr != nil {
			writer.PrintError(promptErr.Error())
			return 1
		}
		if !approved {
			writer.PrintWarning("edit not approved")
			return 1
		}
	}

	if !opts.dryRun {
		if err := document.WriteFileAtomic(absPath, result.UpdatedFile, isNewFile); err != nil {
			logger.Error("write file", err)
			writer.PrintError(fmt.Sprintf("write file: %v", err))
			return 1
		}
	}

	logger.EditApplied(req.Path, result.Strategy.String(), result.Patch.OldLines, result.Patch.NewLines, time.Since(start))
	report(writer, req, result, diff, isNewFile, opts)
	return 0
}

func newChecker(cfg *config.Config) *confirm.Checker {
	rules := make([]confirm.Rule, len(cfg.Confirm.AutoApprove))
	for i, r := range cfg.Confirm.AutoApprove {
		rules[i] = confirm.Rule{Pattern: r.Pattern, Approved: r.Approved}
	}
	return confirm.NewChecker(confirm.Options{
		Workspace:     confirm.StaticWorkspace{Roots: cfg.Workspace.Roots},
		Rules:         rules,
		Cache:         confirm.NewRuleCache(),
		CaseSensitive: cfg.Workspace.CaseSensitive,
	})
}

func askApproval(writer *ui.Writer, message, diff string, plain bool) (bool, error) {
	if plain {
		writer.PrintConfirmation(message)
		writer.PrintDiff(diff)
		return writer.PromptApproval("Apply this edit?")
	}
	return tui.Confirm("anchoredit", message, diff)
}

func report(writer *ui.Writer, req editRequest, result *edit.Result, diff string, created bool, opts runOptions) {
	if opts.jsonOut {
		out := map[string]any{
			"success":  true,
			"path":     req.Path,
			"created":  created,
			"dry_run":  opts.dryRun,
			"strategy": result.Strategy.String(),
			"patch": map[string]int{
				"old_start": result.Patch.OldStart,
				"old_lines": result.Patch.OldLines,
				"new_start": result.Patch.NewStart,
				"new_lines": result.Patch.NewLines,
			},
		}
		if result.Similarity > 0 {
			out["similarity"] = result.Similarity
		}
		_ = json.NewEncoder(os.Stdout).Encode(out)
		return
	}

	writer.PrintDiff(diff)
	writer.PrintPatchSummary(req.Path, result.Patch.OldStart, result.Patch.OldLines, result.Patch.NewLines)
	if len(result.Edits) > 0 {
		startLine, endLine := edit.EditLineRange(result.UpdatedFile, result.Edits[0].Start, result.Edits[0].NewText)
		writer.PrintContext(edit.PostEditContext(result.UpdatedFile, startLine, endLine))
	}
	if result.Warning != "" {
		writer.PrintWarning(result.Warning)
	}
	if opts.dryRun {
		writer.PrintWarning("dry run: no changes written")
		return
	}
	writer.PrintSuccess(req.Path, created)
}

// printRemediation gives the agent-facing hint for each failure kind, so the
// caller can fix its next attempt without parsing error text.
func printRemediation(writer *ui.Writer, err error) {
	switch edit.KindOf(err) {
	case edit.KindNoMatch:
		writer.PrintWarning("re-read the file and copy the exact text to replace")
	case edit.KindMultipleMatches:
		writer.PrintWarning("include more surrounding lines to make the match unique")
	case edit.KindContentFormat:
		writer.PrintWarning("the file already exists; use a non-empty search string")
	case edit.KindNoChange:
		writer.PrintWarning("search and replace produce identical content")
	}
}

func loadRequest(requestPath, targetPath, searchFile, replaceFile string) (editRequest, error) {
	if requestPath != "" {
		var data []byte
		var err error
		if requestPath == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(requestPath)
		}
		if err != nil {
			return editRequest{}, fmt.Errorf("read request: %w", err)
		}
		var req editRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return editRequest{}, fmt.Errorf("parse request: %w", err)
		}
		if req.Path == "" {
			return editRequest{}, fmt.Errorf("request is missing \"path\"")
		}
		return req, nil
	}

	if targetPath == "" {
		return editRequest{}, fmt.Errorf("either -request or -path is required")
	}
	req := editRequest{Path: targetPath}
	if searchFile != "" {
		data, err := os.ReadFile(searchFile)
		if err != nil {
			return editRequest{}, fmt.Errorf("read search file: %w", err)
		}
		req.Search = string(data)
	}
	if replaceFile != "" {
		data, err := os.ReadFile(replaceFile)
		if err != nil {
			return editRequest{}, fmt.Errorf("read replace file: %w", err)
		}
		req.Replace = string(data)
	}
	return req, nil
}
