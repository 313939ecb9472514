package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errResetNotConfirmed = errors.New("reset membutuhkan flag --yes")

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Hapus semua descriptor wajah dan catatan absen",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errResetNotConfirmed
		}

		ctx := commandContext(cmd)
		a, err := loadApp(ctx)
		if err != nil {
			return err
		}

		if err := errors.Join(a.store.Reset(ctx), a.log.Reset(ctx)); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Semua data wajah dan absen sudah dihapus")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().Bool("yes", false, "Konfirmasi penghapusan")
}
