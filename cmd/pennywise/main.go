package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"pennywise/internal/cli"
	"pennywise/internal/log"
	"pennywise/internal/services"
)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(cli.SetupLogger(nil))
	logger := cli.SetupLogger(cfg)

	var rt *cli.Runtime
	a := &app{
		out:      os.Stdout,
		currency: cfg.Currency,
		open: func(ctx context.Context) (*services.Book, error) {
			var err error
			rt, err = cli.OpenBook(ctx, cfg, logger)
			if err != nil {
				return nil, err
			}
			return rt.Book, nil
		},
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	register(commander, a)

	flag.Parse()
	status := commander.Execute(context.Background())

	if rt != nil {
		if err := rt.Close(); err != nil {
			logger.Error("Failed to close book", log.FieldError, err, log.FieldOperation, log.OpShutdown)
		}
	}
	os.Exit(int(status))
}

// register adds every ledger command to c, grouped for the help output.
func register(c *subcommands.Commander, a *app) {
	c.Register(&accountAddCmd{app: a}, "accounts")
	c.Register(&accountUpdateCmd{app: a}, "accounts")
	c.Register(&accountDeleteCmd{app: a}, "accounts")
	c.Register(&accountsCmd{app: a}, "accounts")

	c.Register(&txAddCmd{app: a}, "transactions")
	c.Register(&txUpdateCmd{app: a}, "transactions")
	c.Register(&txDeleteCmd{app: a}, "transactions")
	c.Register(&txsCmd{app: a}, "transactions")
	c.Register(&transferCmd{app: a}, "transactions")
	c.Register(&recurringCmd{app: a}, "transactions")

	c.Register(&groupAddCmd{app: a}, "budget")
	c.Register(&groupUpdateCmd{app: a}, "budget")
	c.Register(&groupDeleteCmd{app: a}, "budget")
	c.Register(&groupToggleCmd{app: a}, "budget")
	c.Register(&groupMoveCmd{app: a}, "budget")
	c.Register(&budgetAddCmd{app: a}, "budget")
	c.Register(&budgetUpdateCmd{app: a}, "budget")
	c.Register(&budgetDeleteCmd{app: a}, "budget")
	c.Register(&budgetMoveCmd{app: a}, "budget")

	c.Register(&summaryCmd{app: a}, "reports")
	c.Register(&payeesCmd{app: a}, "reports")
	c.Register(&categoriesCmd{app: a}, "reports")
	c.Register(&verifyCmd{app: a}, "reports")
}
