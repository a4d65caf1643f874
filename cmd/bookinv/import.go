package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/bookinv/internal/spreadsheet"
	"github.com/JonMunkholm/bookinv/internal/tui"
)

func newImportCmd(a *app) *cobra.Command {
	var sheet string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Importa livros de um ficheiro .csv ou .xlsx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defSheet, maxSize := a.importOptions()
			if !cmd.Flags().Changed("sheet") {
				sheet = defSheet
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open spreadsheet: %w", err)
			}
			defer f.Close()

			reader := spreadsheet.Reader{Labels: a.svc.Labels(), Sheet: sheet, MaxSize: maxSize}
			rows, err := reader.Read(filepath.Base(args[0]), f)
			if err != nil {
				return err
			}

			res := a.svc.Import(cmd.Context(), rows)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Importados %d de %d registos (lote %s)\n", res.Inserted, res.Attempted, res.BatchID)
			for _, s := range res.Skipped {
				fmt.Fprintf(out, "  linha %d ignorada: %s\n", s.Index+1, s.Reason)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "XLSX sheet to read (default: first sheet)")
	return cmd
}

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Abre o ecrã interativo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, maxSize := a.importOptions()
			return tui.Run(a.svc, tui.Options{Sheet: sheet, MaxFileSize: maxSize})
		},
	}
}
