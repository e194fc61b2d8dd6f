package commands

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.trai.ch/parcel/internal/app"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/engine/packager"
)

func (c *CLI) newPackageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Assemble the local package into a distributable archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			verbose, _ := flags.GetBool("verbose")
			list, _ := flags.GetBool("list")
			long, _ := flags.GetBool("long")
			noMetadata, _ := flags.GetBool("no-metadata")
			allowDirty, _ := flags.GetBool("allow-dirty")
			noVerify, _ := flags.GetBool("no-verify")
			jobs, _ := flags.GetInt("jobs")
			targets, _ := flags.GetStringArray("target")
			features, _ := flags.GetStringSlice("features")
			allFeatures, _ := flags.GetBool("all-features")
			noDefaultFeatures, _ := flags.GetBool("no-default-features")
			manifestPath, _ := flags.GetString("manifest-path")
			targetDir, _ := flags.GetString("target-dir")

			res, err := c.app.Package(cmd.Context(), app.PackageOptions{
				ManifestPath: manifestPath,
				PackageOptions: domain.PackageOptions{
					List:              list || long,
					Long:              long,
					Verbose:           verbose,
					CheckMetadata:     !noMetadata,
					AllowDirty:        allowDirty,
					Verify:            !noVerify,
					TargetDir:         targetDir,
					Jobs:              jobs,
					Targets:           targets,
					Features:          features,
					AllFeatures:       allFeatures,
					NoDefaultFeatures: noDefaultFeatures,
				},
			})
			if err != nil {
				return err
			}

			switch {
			case long:
				printTable(cmd.OutOrStdout(), res)
			case list:
				for _, e := range res.Entries {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), e.RelPath)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolP("list", "l", false, "Print files included in the package without creating the archive")
	cmd.Flags().Bool("long", false, "Print the file listing as a table with the origin of each entry")
	cmd.Flags().Bool("no-metadata", false, "Ignore warnings about a lack of human-usable metadata")
	cmd.Flags().Bool("allow-dirty", false, "Allow dirty working directories to be packaged")
	cmd.Flags().Bool("no-verify", false, "Don't verify the contents by building them")
	cmd.Flags().IntP("jobs", "j", 0, "Number of parallel jobs passed to the build command")
	cmd.Flags().StringArray("target", nil, "Build for the target triple (repeatable)")
	cmd.Flags().StringSliceP("features", "F", nil, "Features to activate")
	cmd.Flags().Bool("all-features", false, "Activate all available features")
	cmd.Flags().Bool("no-default-features", false, "Do not activate the default feature")
	cmd.Flags().String("manifest-path", "", "Path to Parcel.toml")
	cmd.Flags().String("target-dir", "", "Directory for all generated artifacts")
	return cmd
}

func printTable(w io.Writer, res *packager.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Path", "Origin"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, e := range res.Entries {
		table.Append([]string{e.RelPath, origin(e)})
	}
	table.SetFooter([]string{fmt.Sprintf("%d files", len(res.Entries)), ""})
	table.Render()
}

func origin(e domain.ArchiveEntry) string {
	if !e.IsGenerated() {
		return e.Source
	}
	switch e.Generated.Kind {
	case domain.GeneratedManifest:
		return "generated manifest"
	case domain.GeneratedLock:
		return "generated lock"
	default:
		return "generated vcs info"
	}
}
