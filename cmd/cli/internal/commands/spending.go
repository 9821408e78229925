package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
)

type SpendingCmd struct {
	StartDate string `help:"Range start (YYYY-MM-DD)." name:"start-date"`
	EndDate   string `help:"Range end (YYYY-MM-DD)." name:"end-date"`
}

func (s *SpendingCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	rows, err := app.api.SpendingByCategory(ctx, s.StartDate, s.EndDate)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Println("No spending recorded for this range.")
		return nil
	}

	var grand float64
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tTOTAL\tRECEIPTS")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%.2f\t%d\n", row.Category, row.Total, row.Count)
		grand += row.Total
	}
	w.Flush()

	fmt.Printf("\nTotal: %.2f\n", grand)
	return nil
}
