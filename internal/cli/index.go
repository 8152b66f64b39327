package cli

import (
	"fmt"
	"io"

	infer "github.com/goliatone/go-infer"
	"github.com/spf13/cobra"
)

type indexReport struct {
	Input    string `yaml:"input"`
	Cluster  string `yaml:"cluster,omitempty"`
	Name     string `yaml:"name"`
	Resolved string `yaml:"resolved"`
}

func newIndexCmd() *cobra.Command {
	var cluster string
	cmd := &cobra.Command{
		Use:   "index name...",
		Short: "Parse and render index names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd.OutOrStdout(), args, cluster)
		},
	}
	cmd.Flags().StringVar(&cluster, "cluster", "", "qualify every name with this cluster")
	return cmd
}

func runIndex(out io.Writer, args []string, cluster string) error {
	settings, err := infer.NewSettings()
	if err != nil {
		return err
	}
	reports := make([]indexReport, 0, len(args))
	for _, arg := range args {
		name, ok := infer.ParseIndexName(arg)
		if !ok {
			return fmt.Errorf("blank index name")
		}
		if cluster != "" {
			name = name.OnCluster(cluster)
		}
		resolved, err := name.Resolve(settings)
		if err != nil {
			return err
		}
		reports = append(reports, indexReport{
			Input:    arg,
			Cluster:  name.Cluster(),
			Name:     name.Name(),
			Resolved: resolved,
		})
	}
	return writeYAML(out, reports)
}
