package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-7-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2025-07-01" {
		t.Fatalf("got %s", d)
	}
	if _, err := ParseDate("01/07/2025"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, 2, 29))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-02-29"` {
		t.Fatalf("got %s", b)
	}
	var d Date
	if err := json.Unmarshal(b, &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !d.Equal(NewDate(2024, 2, 29).Time) {
		t.Fatalf("got %s", d)
	}
}

func TestParseFrequency(t *testing.T) {
	cases := map[string]Frequency{
		"day":     Daily,
		"Weekly":  Weekly,
		" month ": Monthly,
		"yearly":  Yearly,
	}
	for in, want := range cases {
		got, err := ParseFrequency(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %q err=%v, want %q", in, got, err, want)
		}
	}
	if _, err := ParseFrequency("fortnight"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAccountCategory(t *testing.T) {
	cases := []struct {
		typ  AccountType
		want AccountCategory
	}{
		{Checking, CashAccounts},
		{Savings, CashAccounts},
		{Cash, CashAccounts},
		{CreditCard, CreditAccounts},
		{LineOfCredit, CreditAccounts},
		{Investment, TrackingAccounts},
		{Liability, TrackingAccounts},
	}
	for _, tc := range cases {
		if got := (Account{Type: tc.typ}).Category(); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.typ, got, tc.want)
		}
	}
	if _, err := ParseAccountType("brokerage"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTransactionNet(t *testing.T) {
	tx := Transaction{Income: Cents(5000)}
	if tx.Net() != Cents(5000) {
		t.Fatalf("income net: %v", tx.Net())
	}
	tx = Transaction{Expense: Cents(1250)}
	if tx.Net() != Cents(-1250) {
		t.Fatalf("expense net: %v", tx.Net())
	}
}

func TestErrorKinds(t *testing.T) {
	if !errors.Is(NotFound(KindAccount, "a1"), ErrNotFound) {
		t.Fatal("NotFoundError should match ErrNotFound")
	}
	if errors.Is(NotFound(KindAccount, "a1"), ErrValidation) {
		t.Fatal("NotFoundError should not match ErrValidation")
	}
	if !errors.Is(&InvariantError{Detail: "x"}, ErrInvariant) {
		t.Fatal("InvariantError should match ErrInvariant")
	}
	if got := NotFound(KindTransaction, "t9").Error(); got != `transaction "t9" not found` {
		t.Fatalf("unexpected message %q", got)
	}
}
