package api

import (
	"encoding/json"
	"strconv"

	"github.com/rcptscan/rcptscan/internal/validate"
)

// Categories the backend recognizes for receipts.
var Categories = []string{
	"grocery",
	"restaurant",
	"petrol",
	"pharmacy",
	"electronics",
	"food_delivery",
	"parking",
	"toll",
	"general",
}

// Amount accepts both numeric and string-encoded values; extraction
// sometimes returns totals as formatted strings like "1,234.50".
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*a = Amount(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = Amount(validate.SanitizeNumber(s))
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(a), 'f', -1, 64)), nil
}

// AuthResponse is the login result.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ReceiptItem is one line item on a receipt.
type ReceiptItem struct {
	Name     string `json:"name"`
	Quantity Amount `json:"quantity"`
	Price    Amount `json:"price"`
}

// Receipt is the server's receipt record. The backend has returned ids
// under both "_id" and "id" over time; Key() papers over that.
type Receipt struct {
	MongoID       string        `json:"_id,omitempty"`
	AltID         string        `json:"id,omitempty"`
	StoreName     string        `json:"store_name"`
	Date          string        `json:"date"`
	Total         Amount        `json:"total"`
	Items         []ReceiptItem `json:"items"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	Category      string        `json:"category,omitempty"`
}

// Key returns the server-assigned id, preferring "_id".
func (r *Receipt) Key() string {
	if r.MongoID != "" {
		return r.MongoID
	}
	return r.AltID
}

// ReceiptPatch is a partial update; nil fields are left untouched.
type ReceiptPatch struct {
	StoreName     *string       `json:"store_name,omitempty"`
	Date          *string       `json:"date,omitempty"`
	Total         *float64      `json:"total,omitempty"`
	Items         []ReceiptItem `json:"items,omitempty"`
	PaymentMethod *string       `json:"payment_method,omitempty"`
	Category      *string       `json:"category,omitempty"`
}

// UploadResult is what the extraction endpoint returns for an image.
type UploadResult struct {
	Extracted  Receipt `json:"extracted"`
	Confidence float64 `json:"confidence"`
	Status     string  `json:"status"`
	ReceiptID  string  `json:"receipt_id"`
}

// ReceiptPage is one page of the receipt list.
type ReceiptPage struct {
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
	Count    int       `json:"count"`
	Receipts []Receipt `json:"receipts"`
}

// DeleteResult confirms a deletion.
type DeleteResult struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// CategorySpending is one row of the spending aggregate.
type CategorySpending struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// Notification is a delivered push notification.
type Notification struct {
	ID     string         `json:"id"`
	Title  string         `json:"title"`
	Body   string         `json:"body"`
	Data   map[string]any `json:"data,omitempty"`
	SentAt string         `json:"sent_at"`
	Read   bool           `json:"read"`
}
