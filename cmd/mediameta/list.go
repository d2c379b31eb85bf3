package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/simonhull/mediameta/internal/types"
)

func newListCmd(a *app) *cobra.Command {
	var family string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := types.FamilyUnsupported
			if family != "" {
				filter = types.ParseFamily(family)
				if filter == types.FamilyUnsupported {
					return fmt.Errorf("unknown family %q", family)
				}
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATH\tFORMAT\tDURATION\tARTIST\tTITLE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					e.Path, e.Format, e.Duration().Round(1e9), e.Artist, e.Title)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&family, "family", "", "only list audio, video or multi-format files")
	return cmd
}
