package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aidanlsb/altscan/internal/alttext"
	"github.com/aidanlsb/altscan/internal/audit"
	"github.com/aidanlsb/altscan/internal/lastresults"
	"github.com/aidanlsb/altscan/internal/paths"
	"github.com/aidanlsb/altscan/internal/ui"
)

var (
	stdin           io.Reader = os.Stdin
	stdinIsTerminal           = func() bool {
		fd := os.Stdin.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
)

// scanInput is one text to audit: a workspace file, an outside file or stdin.
type scanInput struct {
	Path    string // reported and stored path
	AbsPath string // empty for stdin
}

// scanResult is the JSON payload of the scan command.
type scanResult struct {
	Language string       `json:"language"`
	Pages    []audit.Page `json:"pages"`
	Summary  scanSummary  `json:"summary"`
}

type scanSummary struct {
	Files         int `json:"files"`
	Links         int `json:"links"`
	FileLinks     int `json:"file_links"`
	MissingAlt    int `json:"missing_alt"`
	FilesAffected int `json:"files_affected"`
}

var scanCmd = &cobra.Command{
	Use:   "scan [files...|-]",
	Short: "Find file links without alt text",
	Long: `Scans wikitext for [[File:...]] links that have no alt parameter.

Input can be files, directories, or standard input ("-"). Without arguments,
stdin is read when it is piped; otherwise every wiki file in the workspace
is scanned.

Findings are numbered and saved so 'altscan caption' and 'altscan fix' can
refer to them.

Examples:
  altscan scan Cat.wiki
  curl -s 'https://en.wikipedia.org/w/index.php?title=Cat&action=raw' | altscan scan
  altscan scan --lang de Artikel/
  altscan scan --strict --alt-param beschreibung
  altscan scan --all --json Cat.wiki`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().Bool("all", false, "List every file link, including those with alt text")
	scanCmd.Flags().StringSlice("namespace", nil, "Additional file namespace names (repeatable)")
	scanCmd.Flags().StringSlice("alt-param", nil, "Additional alt parameter names (repeatable)")
	scanCmd.Flags().Bool("strict", false, "Report alt parameters that are present but empty")
	scanCmd.Flags().Bool("no-save", false, "Do not save numbered results")
}

func runScan(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	namespaces, _ := cmd.Flags().GetStringSlice("namespace")
	altParams, _ := cmd.Flags().GetStringSlice("alt-param")
	strict, _ := cmd.Flags().GetBool("strict")
	noSave, _ := cmd.Flags().GetBool("no-save")

	workspace := getWorkspace()
	log := getLogger().WithComponent("scan")

	profile, err := getProfile(alttext.Config{
		TargetNamespaces:   namespaces,
		AltParameterNames:  altParams,
		RequireNonEmptyAlt: strict,
	})
	if err != nil {
		return failWith(err)
	}

	inputs, err := resolveScanInputs(workspace, args, getConfig().GetExtensions())
	if err != nil {
		return failWith(err)
	}

	var warnings []Warning
	pages := make([]audit.Page, 0, len(inputs))
	for _, in := range inputs {
		text, err := readScanInput(in)
		if err != nil {
			if len(args) > 0 && len(inputs) == 1 {
				return failWith(err)
			}
			log.Warn("skipping unreadable file", zap.String("file", in.Path), zap.Error(err))
			warnings = append(warnings, Warning{Code: WarnSkippedFile, Message: err.Error(), Path: in.Path})
			continue
		}
		page := profile.Audit(in.Path, text, all)
		log.Debug("scanned", zap.String("file", in.Path), zap.Int("links", page.LinkCount), zap.Int("findings", len(page.Findings)))
		pages = append(pages, page)
	}

	if !noSave {
		lr := lastresults.New(lastresults.SourceScan, profile, pages)
		if err := lastresults.Write(workspace, lr); err != nil {
			log.Warn("failed to save last results", zap.Error(err))
			warnings = append(warnings, Warning{Code: WarnNotSaved, Message: err.Error()})
		}
	}

	summary := summarize(pages)
	if isJSONOutput() {
		outputSuccessWithWarnings(scanResult{Language: profile.Language, Pages: pages, Summary: summary}, warnings, &Meta{Count: countFindings(pages), Language: profile.Language})
		return nil
	}

	printWarnings(warnings)
	printPages(pages, all)
	printSummary(summary, all)
	return nil
}

// resolveScanInputs turns arguments into inputs. Relative paths are resolved
// against the workspace; directories expand to the wiki files inside them.
func resolveScanInputs(workspace string, args []string, exts []string) ([]scanInput, error) {
	if len(args) == 0 {
		if !stdinIsTerminal() {
			return []scanInput{{Path: lastresults.StdinPath}}, nil
		}
		args = []string{"."}
	}

	var inputs []scanInput
	for _, arg := range args {
		if arg == lastresults.StdinPath {
			inputs = append(inputs, scanInput{Path: lastresults.StdinPath})
			continue
		}
		abs := arg
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workspace, arg)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("cannot scan %s: %w", arg, err)
		}
		if !info.IsDir() {
			inputs = append(inputs, scanInput{Path: storedPath(workspace, abs), AbsPath: abs})
			continue
		}
		files, err := paths.WikiFiles(abs, exts)
		if err != nil {
			return nil, err
		}
		for _, rel := range files {
			full := filepath.Join(abs, filepath.FromSlash(rel))
			inputs = append(inputs, scanInput{Path: storedPath(workspace, full), AbsPath: full})
		}
	}
	return inputs, nil
}

// storedPath is workspace-relative for files inside the workspace and
// absolute otherwise.
func storedPath(workspace, abs string) string {
	if paths.IsWithin(workspace, abs) {
		return paths.RelPath(workspace, abs)
	}
	return filepath.ToSlash(abs)
}

// entryFile returns the on-disk path of a stored result path.
func entryFile(workspace, stored string) string {
	p := filepath.FromSlash(stored)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(workspace, p)
}

func readScanInput(in scanInput) (string, error) {
	if in.AbsPath == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(in.AbsPath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func summarize(pages []audit.Page) scanSummary {
	s := scanSummary{Files: len(pages)}
	for _, p := range pages {
		s.Links += p.LinkCount
		s.FileLinks += p.FileLinkCount
		if missing := p.Missing(); missing > 0 {
			s.MissingAlt += missing
			s.FilesAffected++
		}
	}
	return s
}

func countFindings(pages []audit.Page) int {
	n := 0
	for _, p := range pages {
		n += len(p.Findings)
	}
	return n
}

func printPages(pages []audit.Page, all bool) {
	display := ui.NewDisplayContext()
	num := 0
	for _, p := range pages {
		if len(p.Findings) == 0 {
			continue
		}
		noun, plural := "link without alt text", "links without alt text"
		if all {
			noun, plural = "file link", "file links"
		}
		fmt.Printf("%s %s\n", ui.FilePath(p.Path), ui.Hint(ui.Count(len(p.Findings), noun, plural)))

		tbl := ui.NewFindingsTable(display)
		for _, f := range p.Findings {
			num++
			caption := f.Caption
			if all && f.HasAlt() {
				caption = "✓ " + *f.AltSegment
			}
			tbl.AddRow(ui.FindingRow{
				Num:      num,
				Link:     f.RawText,
				Caption:  caption,
				Location: ui.Location(f.Offset, f.Length),
			})
		}
		fmt.Println(tbl.Render())
		fmt.Println()
	}
}

func printSummary(s scanSummary, all bool) {
	if s.MissingAlt == 0 {
		fmt.Println(ui.Checkf("No missing alt text %s", ui.Hint(fmt.Sprintf("(%d file links in %d files)", s.FileLinks, s.Files))))
		return
	}
	fmt.Println(ui.Warningf("%d of %d file links have no alt text in %d of %d files",
		s.MissingAlt, s.FileLinks, s.FilesAffected, s.Files))
	if !all {
		fmt.Println(ui.Hint("Use 'altscan caption <num>' to see captions, 'altscan fix <num> --alt TEXT' to add alt text"))
	}
}
