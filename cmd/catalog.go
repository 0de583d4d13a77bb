package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

var catalogFamily string

var catalogCmd = &cobra.Command{
	Use:   "catalog [code]",
	Short: "List the instruments available for scoring",
	Long: `List catalog instruments in code order, or show the domains of one
instrument. --format json prints the instrument definitions.

EXAMPLES:

  spmto catalog
  spmto catalog --family SensoryProfile
  spmto catalog SPM_CASA_5_12`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCatalog(cmd.Context(), args, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().StringVar(&catalogFamily, "family", "", "Only list instruments of this family")
}

func runCatalog(ctx context.Context, args []string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	var insts []*instrument.Instrument
	switch {
	case len(args) == 1:
		inst, err := s.catalog.Get(args[0])
		if err != nil {
			return err
		}
		insts = []*instrument.Instrument{inst}
	case catalogFamily != "":
		family := types.Family(catalogFamily)
		if !family.Known() {
			return fmt.Errorf("unknown family %q", catalogFamily)
		}
		insts = s.catalog.ListFamily(family)
	default:
		insts = s.catalog.List()
	}

	if s.cfg.Format == "json" {
		data, err := json.MarshalIndent(insts, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	if len(args) == 1 {
		fmt.Fprintln(w, domainTable(insts[0]))
		return nil
	}
	fmt.Fprintln(w, instrumentTable(insts))
	return nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true)
			}
			return s
		})
}

func instrumentTable(insts []*instrument.Instrument) string {
	t := newTable("Code", "Name", "Family", "Version", "Ages (months)", "Domains", "Items")
	for _, inst := range insts {
		ages := ""
		if inst.AgeRange.MaxMonths > 0 {
			ages = fmt.Sprintf("%d-%d", inst.AgeRange.MinMonths, inst.AgeRange.MaxMonths)
		}
		t.Row(
			inst.Code,
			inst.Name,
			string(inst.Family),
			inst.Version,
			ages,
			strconv.Itoa(len(inst.ActiveDomains())),
			strconv.Itoa(len(inst.ActiveItems())),
		)
	}
	return t.String()
}

func domainTable(inst *instrument.Instrument) string {
	t := newTable("Domain", "Name", "Items", "Inverted", "Norm rows")
	for _, d := range inst.ActiveDomains() {
		inverted := ""
		if d.InvertedScale {
			inverted = "yes"
		}
		t.Row(d.Code, d.Name, strconv.Itoa(len(d.ActiveItems())), inverted, strconv.Itoa(len(inst.NormRows(d.Code))))
	}
	if n := len(inst.NormRows(instrument.TotalDomain)); n > 0 {
		t.Row(instrument.TotalDomain, "", "", "", strconv.Itoa(n))
	}
	return fmt.Sprintf("%s  %s (%s)\n%s", inst.Code, inst.Name, inst.Family, t.String())
}
