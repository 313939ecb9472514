package cmd

import (
	"fmt"

	"SIABSEN/controllers/auth"

	"github.com/spf13/cobra"
)

// hashPasswordCmd mencetak hash bcrypt untuk ADMIN_PASSWORD_HASH.
var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Buat hash bcrypt untuk password admin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}
