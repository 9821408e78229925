package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/rcptscan/rcptscan/internal/api"
	"github.com/rcptscan/rcptscan/internal/validate"
)

// ReceiptsCmd groups the receipt subcommands.
type ReceiptsCmd struct {
	Upload      ReceiptsUploadCmd      `cmd:"" help:"Upload a receipt image for extraction"`
	List        ReceiptsListCmd        `cmd:"" help:"List receipts"`
	Show        ReceiptsShowCmd        `cmd:"" help:"Show a receipt"`
	Update      ReceiptsUpdateCmd      `cmd:"" help:"Update receipt fields"`
	SetCategory ReceiptsSetCategoryCmd `cmd:"" name:"set-category" help:"Change a receipt's category"`
	SetPayment  ReceiptsSetPaymentCmd  `cmd:"" name:"set-payment" help:"Change a receipt's payment method"`
	Delete      ReceiptsDeleteCmd      `cmd:"" help:"Delete a receipt"`
}

type ReceiptsUploadCmd struct {
	File string `arg:"" help:"Path to the receipt image." type:"existingfile"`
}

func (u *ReceiptsUploadCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	file, err := os.Open(u.File)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	result, err := app.api.UploadReceipt(ctx, filepath.Base(u.File), file)
	if err != nil {
		return err
	}

	fmt.Printf("Receipt %s (%s, confidence %.0f%%)\n", result.ReceiptID, result.Status, result.Confidence*100)
	printReceipt(&result.Extracted)
	return nil
}

type ReceiptsListCmd struct {
	Page  int `help:"Page number." default:"1"`
	Limit int `help:"Receipts per page." default:"10"`
}

func (l *ReceiptsListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	page, err := app.api.ListReceipts(ctx, l.Page, l.Limit)
	if err != nil {
		return err
	}

	if len(page.Receipts) == 0 {
		fmt.Println("No receipts found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTORE\tDATE\tTOTAL\tCATEGORY\tPAYMENT")
	for i := range page.Receipts {
		r := &page.Receipts[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
			r.Key(), truncate(r.StoreName, 25), r.Date, float64(r.Total), r.Category, r.PaymentMethod)
	}
	w.Flush()

	fmt.Printf("\nPage %d, %d of %d receipts\n", page.Page, len(page.Receipts), page.Count)
	return nil
}

type ReceiptsShowCmd struct {
	ID string `arg:"" help:"Receipt id."`
}

func (s *ReceiptsShowCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	receipt, err := app.api.GetReceipt(ctx, s.ID)
	if err != nil {
		return err
	}

	printReceipt(receipt)
	return nil
}

type ReceiptsUpdateCmd struct {
	ID        string `arg:"" help:"Receipt id."`
	StoreName string `help:"New store name."`
	Date      string `help:"New date (YYYY-MM-DD)."`
	Total     string `help:"New total. Currency symbols and separators are stripped."`
}

func (u *ReceiptsUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	patch, errs := u.buildPatch()
	if len(errs) > 0 {
		return fmt.Errorf("invalid input: %s", strings.Join(errs, "; "))
	}

	receipt, err := app.api.UpdateReceipt(ctx, u.ID, patch)
	if err != nil {
		return err
	}

	fmt.Println("Receipt updated.")
	printReceipt(receipt)
	return nil
}

// buildPatch validates the provided flags before anything touches the
// network.
func (u *ReceiptsUpdateCmd) buildPatch() (api.ReceiptPatch, []string) {
	var patch api.ReceiptPatch
	var errs []string

	if u.StoreName != "" {
		if strings.TrimSpace(u.StoreName) == "" {
			errs = append(errs, "Store name is required")
		} else {
			patch.StoreName = &u.StoreName
		}
	}

	if u.Date != "" {
		if _, dateErrs := validate.ValidateReceipt(validate.ReceiptDraft{StoreName: "x", Date: u.Date}); len(dateErrs) > 0 {
			errs = append(errs, dateErrs...)
		} else {
			patch.Date = &u.Date
		}
	}

	if u.Total != "" {
		total := validate.SanitizeNumber(u.Total)
		if total < 0 {
			errs = append(errs, "Total amount cannot be negative")
		} else {
			patch.Total = &total
		}
	}

	return patch, errs
}

type ReceiptsSetCategoryCmd struct {
	ID       string `arg:"" help:"Receipt id."`
	Category string `arg:"" help:"New category."`
}

func (s *ReceiptsSetCategoryCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	if !validCategory(s.Category) {
		return fmt.Errorf("unknown category %q (valid: %s)", s.Category, strings.Join(api.Categories, ", "))
	}

	receipt, err := app.api.UpdateReceiptCategory(ctx, s.ID, s.Category)
	if err != nil {
		return err
	}

	fmt.Printf("Category set to %s\n", receipt.Category)
	return nil
}

type ReceiptsSetPaymentCmd struct {
	ID     string `arg:"" help:"Receipt id."`
	Method string `arg:"" help:"New payment method."`
}

func (s *ReceiptsSetPaymentCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	receipt, err := app.api.UpdateReceiptPayment(ctx, s.ID, s.Method)
	if err != nil {
		return err
	}

	fmt.Printf("Payment method set to %s\n", receipt.PaymentMethod)
	return nil
}

type ReceiptsDeleteCmd struct {
	ID string `arg:"" help:"Receipt id."`
}

func (d *ReceiptsDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	result, err := app.api.DeleteReceipt(ctx, d.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", result.Message, result.ID)
	return nil
}

func printReceipt(r *api.Receipt) {
	fmt.Printf("Store:    %s\n", r.StoreName)
	fmt.Printf("Date:     %s\n", r.Date)
	fmt.Printf("Total:    %.2f\n", float64(r.Total))
	if r.Category != "" {
		fmt.Printf("Category: %s\n", r.Category)
	}
	if r.PaymentMethod != "" {
		fmt.Printf("Payment:  %s\n", r.PaymentMethod)
	}
	if len(r.Items) > 0 {
		fmt.Println("Items:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, item := range r.Items {
			fmt.Fprintf(w, "  %s\t%.0f x %.2f\n", item.Name, float64(item.Quantity), float64(item.Price))
		}
		w.Flush()
	}
}

func validCategory(category string) bool {
	for _, c := range api.Categories {
		if c == category {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
