package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Category is the closed set of spending categories.
type Category string

const (
	CategoryEntertainment Category = "Entertainment"
	CategoryWork          Category = "Work"
	CategoryUtilities     Category = "Utilities"
	CategoryFood          Category = "Food"
	CategoryMusic         Category = "Music"
	CategoryOther         Category = "Other"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryEntertainment,
	CategoryWork,
	CategoryUtilities,
	CategoryFood,
	CategoryMusic,
	CategoryOther,
}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", NewValidationError("category", "must be one of Entertainment, Work, Utilities, Food, Music, Other")
}

func (c *Category) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return NewValidationError("category", "must be a string")
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// BillingCycle is the recurrence period of a subscription.
type BillingCycle string

const (
	BillingMonthly BillingCycle = "Monthly"
	BillingYearly  BillingCycle = "Yearly"
)

func ParseBillingCycle(s string) (BillingCycle, error) {
	switch BillingCycle(s) {
	case BillingMonthly, BillingYearly:
		return BillingCycle(s), nil
	}
	return "", NewValidationError("billingCycle", "must be Monthly or Yearly")
}

func (b *BillingCycle) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return NewValidationError("billingCycle", "must be a string")
	}
	parsed, err := ParseBillingCycle(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Amount accepts a JSON number or a numeric string, since HTML
// forms post amounts as text.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return NewValidationError("amount", "must be a number")
		}
		raw = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return NewValidationError("amount", "must be a number")
	}
	*a = Amount(f)
	return nil
}

const dateLayout = "2006-01-02"

// Date is a calendar date without a time of day, kept at UTC midnight.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) Date {
	t = t.UTC()
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp.
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, NewValidationError("nextDueDate", "must be a date (YYYY-MM-DD)")
}

func (d Date) String() string {
	return d.Time.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return NewValidationError("nextDueDate", "must be a date string")
	}
	parsed, err := ParseDate(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Subscription is a recurring charge owned by a single user.
type Subscription struct {
	ID           string       `json:"_id"`
	UserID       string       `json:"user"`
	Name         string       `json:"name"`
	Amount       float64      `json:"amount"`
	Category     Category     `json:"category"`
	BillingCycle BillingCycle `json:"billingCycle"`
	NextDueDate  Date         `json:"nextDueDate"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// SubscriptionFields is the JSON body for creating or updating a
// subscription. A nil field was not supplied.
type SubscriptionFields struct {
	Name         *string       `json:"name"`
	Amount       *Amount       `json:"amount"`
	Category     *Category     `json:"category"`
	BillingCycle *BillingCycle `json:"billingCycle"`
	NextDueDate  *Date         `json:"nextDueDate"`
}

// ValidateCreate requires every field except billingCycle.
func (f SubscriptionFields) ValidateCreate() error {
	if f.Name == nil {
		return NewValidationError("name", "please add a name")
	}
	if f.Amount == nil {
		return NewValidationError("amount", "please add an amount")
	}
	if f.Category == nil {
		return NewValidationError("category", "please add a category")
	}
	if f.NextDueDate == nil {
		return NewValidationError("nextDueDate", "please add a next due date")
	}
	return f.ValidatePatch()
}

// ValidatePatch checks the supplied fields only.
func (f SubscriptionFields) ValidatePatch() error {
	if f.Name != nil && strings.TrimSpace(*f.Name) == "" {
		return NewValidationError("name", "must not be empty")
	}
	if f.Amount != nil && *f.Amount <= 0 {
		return NewValidationError("amount", "must be greater than zero")
	}
	return nil
}

// Empty reports whether no field was supplied.
func (f SubscriptionFields) Empty() bool {
	return f.Name == nil && f.Amount == nil && f.Category == nil &&
		f.BillingCycle == nil && f.NextDueDate == nil
}

// NewSubscription builds an unsaved subscription from validated create fields.
func NewSubscription(userID string, f SubscriptionFields) *Subscription {
	s := &Subscription{
		UserID:       userID,
		Name:         strings.TrimSpace(*f.Name),
		Amount:       float64(*f.Amount),
		Category:     *f.Category,
		BillingCycle: BillingMonthly,
		NextDueDate:  *f.NextDueDate,
	}
	if f.BillingCycle != nil {
		s.BillingCycle = *f.BillingCycle
	}
	return s
}

// Apply overwrites the supplied fields and leaves the rest unchanged.
func (s *Subscription) Apply(f SubscriptionFields) {
	if f.Name != nil {
		s.Name = strings.TrimSpace(*f.Name)
	}
	if f.Amount != nil {
		s.Amount = float64(*f.Amount)
	}
	if f.Category != nil {
		s.Category = *f.Category
	}
	if f.BillingCycle != nil {
		s.BillingCycle = *f.BillingCycle
	}
	if f.NextDueDate != nil {
		s.NextDueDate = *f.NextDueDate
	}
}

// CategorySpend is one row of the per-category breakdown.
type CategorySpend struct {
	Category    Category `json:"category"`
	TotalAmount float64  `json:"totalAmount"`
	Count       int      `json:"count"`
}

// Stats is the body of GET /api/subscriptions/stats.
type Stats struct {
	SpendingByCategory []CategorySpend `json:"spendingByCategory"`
	TotalMonthlySpend  float64         `json:"totalMonthlySpend"`
}
