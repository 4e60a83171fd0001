package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateFormat is the wire and display format for dates.
const DateFormat = "2006-01-02"

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

const (
	Checking     AccountType = "checking"
	Savings      AccountType = "savings"
	Cash         AccountType = "cash"
	CreditCard   AccountType = "credit_card"
	LineOfCredit AccountType = "line_of_credit"
	Investment   AccountType = "investment"
	Asset        AccountType = "asset"
	Liability    AccountType = "liability"
)

const (
	CashAccounts     AccountCategory = "cash"
	CreditAccounts   AccountCategory = "credit"
	TrackingAccounts AccountCategory = "tracking"
)

// Category names the engine writes itself.
const (
	TransferCategory        = "Transfer"
	StartingBalanceCategory = "Starting Balance"
)

type (
	Frequency       string
	AccountType     string
	AccountCategory string

	Date struct {
		time.Time
	}

	Account struct {
		ID      string      `json:"id"`
		Name    string      `json:"name"`
		Type    AccountType `json:"type"`
		Balance Money       `json:"balance"`
	}

	Transaction struct {
		ID        string `json:"id"`
		AccountID string `json:"accountId"`
		Date      Date   `json:"date"`
		Payee     string `json:"payee"`
		Category  string `json:"category"` // joins CategoryBudget.Name
		Memo      string `json:"memo"`
		Income    Money  `json:"income"`
		Expense   Money  `json:"expense"`
	}

	CategoryGroup struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		IsExpanded bool   `json:"isExpanded"`
		Position   int    `json:"position"`
	}

	CategoryBudget struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		AssignedAmount Money  `json:"assignedAmount"`
		GroupID        string `json:"groupId"`
		Position       int    `json:"position"`
	}
)

// ParseFrequency accepts both the unit ("month") and adverb ("monthly") forms.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "daily":
		return Daily, nil
	case "week", "weekly":
		return Weekly, nil
	case "month", "monthly":
		return Monthly, nil
	case "year", "yearly":
		return Yearly, nil
	default:
		return "", &ValidationError{Field: "frequency", Reason: fmt.Sprintf("unknown frequency %q", s)}
	}
}

// ParseAccountType validates a user supplied account type.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown account type %q", s)}
	}
	return t, nil
}

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Checking, Savings, Cash, CreditCard, LineOfCredit, Investment, Asset, Liability:
		return true
	default:
		return false
	}
}

// Category derives the account category from its type.
func (t AccountType) Category() AccountCategory {
	switch t {
	case Checking, Savings, Cash:
		return CashAccounts
	case CreditCard, LineOfCredit:
		return CreditAccounts
	default:
		return TrackingAccounts
	}
}

// Category returns the derived category of the account.
func (a Account) Category() AccountCategory {
	return a.Type.Category()
}

// Net is the signed contribution of the transaction to its account balance.
func (t Transaction) Net() Money {
	return t.Income.Sub(t.Expense)
}

// IsTransfer reports whether the transaction is one leg of a transfer.
func (t Transaction) IsTransfer() bool {
	return t.Category == TransferCategory
}

func (d Date) Validate() error {
	if d.IsZero() {
		return &ValidationError{Field: "date", Reason: "date cannot be zero"}
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// Today returns the current calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate reads a date, accepting single digit months and days ("2025-7-1").
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-1-2", strings.TrimSpace(s))
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("invalid date %q, want %s", s, DateFormat)}
	}
	return DateOf(t), nil
}

// IsEmpty returns true if the date is zero
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// Before reports whether d is strictly before x.
func (d Date) Before(x Date) bool { return d.Time.Before(x.Time) }

// After reports whether d is strictly after x.
func (d Date) After(x Date) bool { return d.Time.After(x.Time) }

func (d Date) String() string {
	return d.Format(DateFormat)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var (
	_ json.Marshaler   = Date{}
	_ json.Unmarshaler = (*Date)(nil)
)
