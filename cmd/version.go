package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/mattsolo1/grove-core/cli"
	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X github.com/protalker/protalker/cmd.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// VersionInfo describes this binary.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func getVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("protalker %s (commit %s, built %s, %s %s)", v.Version, v.Commit, v.BuildDate, v.GoVersion, v.Platform)
}

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version information for this binary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd)
		},
	}
}

func runVersion(cmd *cobra.Command) error {
	info := getVersionInfo()

	if cli.GetOptions(cmd).JSONOutput {
		jsonData, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal version info to JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), info.String())
	return nil
}
