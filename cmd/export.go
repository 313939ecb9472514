package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"SIABSEN/attendance"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export catatan absen ke CSV atau JSON",
	Example: `  siabsen export --format csv
  siabsen export --format json --name Budi --out ./laporan`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("format", "csv", "Format export: csv atau json")
	exportCmd.Flags().String("name", "", "Hanya export absen untuk nama ini")
	exportCmd.Flags().String("out", ".", "Folder tujuan file export, '-' untuk stdout")
}

func runExport(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(commandContext(cmd))
	if err != nil {
		return err
	}

	formatFlag, _ := cmd.Flags().GetString("format")
	name, _ := cmd.Flags().GetString("name")
	out, _ := cmd.Flags().GetString("out")

	format, err := attendance.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	data, err := attendance.Export(a.log.Entries(), name, format, a.cfg.Location)
	if err != nil {
		return err
	}

	if out == "-" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("gagal membuat folder %s: %w", out, err)
	}
	path := filepath.Join(out, format.Filename(today(a.cfg.Location)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("gagal menulis %s: %w", path, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
