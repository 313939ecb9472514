package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var facesCmd = &cobra.Command{
	Use:   "faces",
	Short: "Tampilkan nama terdaftar beserta jumlah sampel wajah",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := loadApp(commandContext(cmd))
		if err != nil {
			return err
		}

		names := a.store.Names()
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Belum ada wajah terdaftar")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAMA\tSAMPEL")
		for _, n := range names {
			fmt.Fprintf(w, "%s\t%d\n", n.Name, n.Count)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(facesCmd)
}
