package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/JonMunkholm/bookinv/internal/inventory"
)

var errNeedsYes = errors.New("delete needs confirmation: run interactively or pass --yes")

func newListCmd(a *app) *cobra.Command {
	var (
		sortCol string
		desc    bool
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista todos os livros com o resumo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := a.svc.List(cmd.Context())
			if err != nil {
				return err
			}
			if sortCol != "" {
				col, err := inventory.ParseColumn(sortCol)
				if err != nil {
					return err
				}
				if books, err = inventory.SortBy(books, col, desc); err != nil {
					return err
				}
			}
			view := inventory.View{Books: books, Summary: inventory.SummarizeAll(books)}
			return printView(cmd.OutOrStdout(), view, asJSON)
		},
	}
	cmd.Flags().StringVar(&sortCol, "sort", "", "column to sort by (id, title, copy_count, value, missing_count, total_count, average_price)")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		column string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "search TEXT",
		Short: "Pesquisa livros; sem coluna procura no nome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := inventory.ParseColumn(column)
			if err != nil {
				return err
			}
			view, err := a.svc.Search(cmd.Context(), args[0], col)
			if err != nil {
				return err
			}
			return printView(cmd.OutOrStdout(), view, asJSON)
		},
	}
	cmd.Flags().StringVar(&column, "column", "all", "column to search (all, title, copy_count, value, missing_count, total_count, average_price)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Mostra um livro",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, err := a.svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), b)
			}
			return printBooks(cmd.OutOrStdout(), []inventory.Book{b})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// fieldFlags are the six book inputs shared by add and update. Values are
// kept as text and coerced like form input.
type fieldFlags struct {
	title, copies, value, missing, total, avgPrice string
}

func (ff *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ff.title, "title", "", "book title")
	cmd.Flags().StringVar(&ff.copies, "copies", "", "number of copies")
	cmd.Flags().StringVar(&ff.value, "value", "", "value in euros")
	cmd.Flags().StringVar(&ff.missing, "missing", "", "missing copies")
	cmd.Flags().StringVar(&ff.total, "total", "", "total copies")
	cmd.Flags().StringVar(&ff.avgPrice, "avg-price", "", "average price in euros")
}

// apply overwrites the fields whose flag was given on the command line.
func (ff *fieldFlags) apply(cmd *cobra.Command, f inventory.Fields) inventory.Fields {
	set := cmd.Flags().Changed
	if set("title") {
		f.Title = inventory.CoerceText(ff.title)
	}
	if set("copies") {
		f.CopyCount = inventory.CoerceInt(ff.copies, 0)
	}
	if set("value") {
		f.Value = inventory.CoerceFloat(ff.value, 0)
	}
	if set("missing") {
		f.MissingCount = inventory.CoerceInt(ff.missing, 0)
	}
	if set("total") {
		f.TotalCount = inventory.CoerceInt(ff.total, 0)
	}
	if set("avg-price") {
		f.AveragePrice = inventory.CoerceFloat(ff.avgPrice, 0)
	}
	return f
}

func newAddCmd(a *app) *cobra.Command {
	var ff fieldFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Adiciona um livro",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.svc.Add(cmd.Context(), ff.apply(cmd, inventory.Fields{}))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Livro %d adicionado\n", id)
			return nil
		},
	}
	ff.register(cmd)
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var ff fieldFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Atualiza os campos indicados de um livro",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, err := a.svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := a.svc.Update(cmd.Context(), id, ff.apply(cmd, current.Fields)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Livro %d atualizado\n", id)
			return nil
		},
	}
	ff.register(cmd)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Apaga um livro",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Apagar o livro %d? (s/N) ", id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Operação cancelada")
					return nil
				}
			}
			if err := a.svc.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Livro %d apagado\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

func newSummaryCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Mostra o resumo do inventário",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := a.svc.Summary(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), sum)
			}
			for _, l := range sum.Lines() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", l.Label, l.Value)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// confirm asks question on out and reads the answer from in. A non-terminal
// stdin cannot answer, so the caller must pass --yes instead.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return false, errNeedsYes
	}
	fmt.Fprint(out, question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true, nil
	}
	return false, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func printView(w io.Writer, view inventory.View, asJSON bool) error {
	if asJSON {
		return writeJSON(w, view)
	}
	if err := printBooks(w, view.Books); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "\n"+view.Summary.String())
	return err
}

func printBooks(w io.Writer, books []inventory.Book) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	cols := append([]inventory.Column{inventory.ColumnID}, inventory.FieldColumns...)

	labels := make([]string, len(cols))
	for i, c := range cols {
		labels[i] = c.Label()
	}
	fmt.Fprintln(tw, strings.Join(labels, "\t"))

	for _, b := range books {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = inventory.ColumnText(b, c)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
