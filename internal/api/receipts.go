package api

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/rcptscan/rcptscan/internal/cache"
)

// UploadReceipt sends an image for extraction. The file goes up as
// multipart form data under the "file" field.
func (a *API) UploadReceipt(ctx context.Context, filename string, file io.Reader) (*UploadResult, error) {
	var out UploadResult
	if err := a.client.PostMultipart(ctx, "/receipts/upload_receipt", "file", filename, file, &out); err != nil {
		return nil, fmt.Errorf("failed to upload receipt: %w", err)
	}

	a.cache.InvalidateAll()
	return &out, nil
}

// UpdateReceipt applies a partial patch to a receipt.
func (a *API) UpdateReceipt(ctx context.Context, id string, patch ReceiptPatch) (*Receipt, error) {
	var out Receipt
	if err := a.client.Put(ctx, "/receipts/receipt/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, fmt.Errorf("failed to update receipt: %w", err)
	}

	a.cache.InvalidateAll()
	return &out, nil
}

// UpdateReceiptCategory changes only the category. The backend takes this
// as a query parameter, not a body, unlike the general update.
func (a *API) UpdateReceiptCategory(ctx context.Context, id, category string) (*Receipt, error) {
	query := url.Values{}
	query.Set("category", category)

	var out Receipt
	if err := a.client.Patch(ctx, "/receipts/receipt/"+url.PathEscape(id)+"/category", query, &out); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	a.cache.InvalidateAll()
	return &out, nil
}

// UpdateReceiptPayment changes only the payment method, via the general
// update endpoint.
func (a *API) UpdateReceiptPayment(ctx context.Context, id, method string) (*Receipt, error) {
	receipt, err := a.UpdateReceipt(ctx, id, ReceiptPatch{PaymentMethod: &method})
	if err != nil {
		return nil, fmt.Errorf("failed to update payment method: %w", err)
	}
	return receipt, nil
}

// DeleteReceipt removes a receipt.
func (a *API) DeleteReceipt(ctx context.Context, id string) (*DeleteResult, error) {
	var out DeleteResult
	if err := a.client.Delete(ctx, "/receipts/receipt/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to delete receipt: %w", err)
	}

	a.cache.InvalidateAll()
	return &out, nil
}

// GetReceipt fetches a single receipt by id.
func (a *API) GetReceipt(ctx context.Context, id string) (*Receipt, error) {
	var out Receipt
	if err := a.client.Get(ctx, "/receipts/receipt/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch receipt: %w", err)
	}
	return &out, nil
}

// ListReceipts returns one page of receipts, served from the cache when the
// same page was fetched since the last mutation.
func (a *API) ListReceipts(ctx context.Context, page, limit int) (*ReceiptPage, error) {
	key := cache.ReceiptsKey(page, limit)
	if data, ok := a.cache.Get(cache.FamilyReceipts, key); ok {
		a.logger.Debug().Str("key", key).Msg("receipt list served from cache")
		return data.(*ReceiptPage), nil
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var out ReceiptPage
	if err := a.client.Get(ctx, "/receipts/receipts", query, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch receipts: %w", err)
	}

	a.cache.Put(cache.FamilyReceipts, key, &out)
	return &out, nil
}
