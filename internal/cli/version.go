package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/altscan/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show altscan version and build information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("short", false, "Print only the version")
}

func runVersion(cmd *cobra.Command, args []string) error {
	short, _ := cmd.Flags().GetBool("short")
	info := buildinfo.Current()

	if isJSONOutput() {
		outputSuccess(info, nil)
		return nil
	}
	if short {
		fmt.Println(info.Version)
		return nil
	}

	fmt.Println(versionLine(info))
	fmt.Printf("  %-8s %s\n", "module", info.ModulePath)
	fmt.Printf("  %-8s %s %s/%s\n", "go", info.GoVersion, info.GOOS, info.GOARCH)
	return nil
}

// versionLine renders "altscan 1.2.0 (abc1234, 2026-01-02, dirty)".
func versionLine(info buildinfo.Info) string {
	var extra []string
	if c := info.Commit; c != "" {
		if len(c) > 7 {
			c = c[:7]
		}
		extra = append(extra, c)
	}
	if t := info.CommitTime; len(t) >= 10 {
		extra = append(extra, t[:10])
	}
	if info.Modified {
		extra = append(extra, "dirty")
	}
	line := "altscan " + info.Version
	if len(extra) > 0 {
		line += " (" + strings.Join(extra, ", ") + ")"
	}
	return line
}
