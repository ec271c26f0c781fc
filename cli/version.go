package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"graphmail.evalgo.org/version"
)

// Module paths of the dependencies that matter when debugging a Graph
// interaction, shown in the default version output.
var coreDependencies = []string{
	"github.com/microsoftgraph/msgraph-sdk-go",
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity",
}

func init() {
	RootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("deps", false, "list all module dependencies")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "show version and build information",
	Long: `Show the graphmail version together with the Go toolchain version and the
versions of the Graph SDK and Azure identity libraries the binary was built
against. With --deps every module dependency is listed.`,
	Run: func(cmd *cobra.Command, args []string) {
		info := version.GetBuildInfo()

		fmt.Printf("graphmail %s\n", version.Version)
		fmt.Printf("  go:     %s\n", info.GoVersion)
		fmt.Printf("  module: %s\n", info.MainModule)

		if deps, _ := cmd.Flags().GetBool("deps"); deps {
			for _, dep := range info.Dependencies {
				if dep.Replace != "" {
					fmt.Printf("  %s %s => %s\n", dep.Path, dep.Version, dep.Replace)
					continue
				}
				fmt.Printf("  %s %s\n", dep.Path, dep.Version)
			}
			return
		}

		for _, path := range coreDependencies {
			if dep := version.GetDependency(path); dep != nil {
				fmt.Printf("  %s %s\n", dep.Path, dep.Version)
			}
		}
	},
}
