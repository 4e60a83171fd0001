package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"

	"pennywise/internal/core"
	"pennywise/internal/services"
)

// app is shared by every command. The book is opened on first use so that
// help and flag parsing never touch storage.
type app struct {
	open     func(ctx context.Context) (*services.Book, error)
	book     *services.Book
	out      io.Writer
	currency string
}

func (a *app) Book(ctx context.Context) (*services.Book, error) {
	if a.book == nil {
		b, err := a.open(ctx)
		if err != nil {
			return nil, err
		}
		a.book = b
	}
	return a.book, nil
}

func (a *app) money(m core.Money) string {
	return m.Format(a.currency)
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
}

// fail prints err and maps it onto an exit status: caller mistakes are usage
// errors, everything else is a failure.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	if errors.Is(err, core.ErrValidation) || errors.Is(err, core.ErrNotFound) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// run opens the book and calls fn with it.
func (a *app) run(ctx context.Context, fn func(b *services.Book) error) subcommands.ExitStatus {
	b, err := a.Book(ctx)
	if err != nil {
		return fail(err)
	}
	if err := fn(b); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// flagsSet reports which flags were given on the command line.
func flagsSet(f *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return set
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return core.Invalid(name, "-"+name+" is required")
	}
	return nil
}

// parseOptionalAmount reads an amount flag; empty means zero.
func parseOptionalAmount(name, s string) (core.Money, error) {
	if strings.TrimSpace(s) == "" {
		return core.Money{}, nil
	}
	m, err := core.ParseAmount(s)
	if err != nil {
		return core.Money{}, core.Invalid(name, err.Error())
	}
	return m, nil
}

// parseOptionalDate reads a date flag; empty means today.
func parseOptionalDate(s string) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return core.Today(), nil
	}
	return core.ParseDate(s)
}
