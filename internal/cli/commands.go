package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"fintrack/internal/app"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

// skipStore marks commands that never touch the database.
const skipStore = "fintrack/skip-store"

type Options struct {
	Config *config.Config
	Logger *log.Logger
	Out    io.Writer
	Err    io.Writer
	Now    func() time.Time
}

type runner struct {
	opts   Options
	logger *log.Logger
	dc     *app.DataContext
}

// Execute runs the command line in args against a data context that lives for exactly one
// command. The context is deactivated even when the command fails.
func Execute(ctx context.Context, opts Options, args []string) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}

	r := &runner{opts: opts, logger: opts.Logger.WithComponent(log.ComponentCLI)}
	root := r.rootCommand()
	root.SetArgs(args)
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)

	err := root.ExecuteContext(ctx)
	if cerr := r.close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}

func (r *runner) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "fintrack",
		Short:             "Personal finance tracker",
		Long:              `Record income and expenses and review monthly summaries.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: r.activate,
	}

	root.AddCommand(
		r.addCommand(),
		r.listCommand(),
		r.showCommand(),
		r.updateCommand(),
		r.deleteCommand(),
		r.summaryCommand(),
		r.categoriesCommand(),
		r.dumpCommand(),
	)
	return root
}

func (r *runner) activate(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipStore] != "" {
		return nil
	}
	r.dc = NewDataContext(r.opts.Config, r.opts.Logger)
	if err := r.dc.Activate(cmd.Context()); err != nil {
		r.logger.ErrorContext(cmd.Context(), "Cannot open database",
			log.FieldPath, r.opts.Config.DBPath(),
			log.FieldSessionID, r.dc.SessionID(),
			log.FieldError, err)
		return fmt.Errorf("open database %s: %w", r.opts.Config.DBPath(), err)
	}
	return nil
}

func (r *runner) close() error {
	if r.dc == nil {
		return nil
	}
	return r.dc.Deactivate()
}

func (r *runner) transactions() (*app.Transactions, error) {
	if r.dc == nil {
		return nil, app.ErrNotReady
	}
	return r.dc.Transactions()
}

func (r *runner) summaries() (*app.Summaries, error) {
	if r.dc == nil {
		return nil, app.ErrNotReady
	}
	return r.dc.Summaries()
}

// txFlags holds the transaction fields shared by add and update.
type txFlags struct {
	name     string
	amount   string
	category string
	date     string
	txType   string
}

func (f *txFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "transaction label")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "positive amount, dot or comma as decimal separator")
	cmd.Flags().StringVarP(&f.category, "category", "c", string(core.UncategorizedID), "category id (see 'fintrack categories')")
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "date as yyyy-MM-dd (default today)")
	cmd.Flags().StringVarP(&f.txType, "type", "t", string(core.Expense), "income or expense")
}

// apply overwrites the fields of tx whose flag was set. With all=true every flag is used,
// defaults included.
func (f *txFlags) apply(cmd *cobra.Command, tx *core.Transaction, all bool, now time.Time) error {
	set := func(name string) bool { return all || cmd.Flags().Changed(name) }

	if set("name") {
		tx.Name = f.name
	}
	if set("amount") {
		amount, err := core.ParseAmount(f.amount)
		if err != nil {
			return fmt.Errorf("amount %q: %w", f.amount, err)
		}
		tx.Amount = amount
	}
	if set("category") {
		tx.Category = core.CategoryID(f.category)
	}
	if set("date") {
		if f.date == "" {
			tx.Date = core.DateOf(now)
		} else {
			d, err := core.ParseDate(f.date)
			if err != nil {
				return err
			}
			tx.Date = d
		}
	}
	if set("type") {
		t, err := core.ParseTransactionType(f.txType)
		if err != nil {
			return err
		}
		tx.Type = t
	}
	return nil
}

func (r *runner) addCommand() *cobra.Command {
	var flags txFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var tx core.Transaction
			if err := flags.apply(cmd, &tx, true, r.opts.Now()); err != nil {
				return err
			}

			txs, err := r.transactions()
			if err != nil {
				return err
			}
			id, err := txs.Add(cmd.Context(), tx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added transaction %d\n", id)
			return nil
		},
	}
	flags.bind(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func (r *runner) listCommand() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, all or for one month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			txs, err := r.transactions()
			if err != nil {
				return err
			}

			var list []core.Transaction
			if month == "" {
				list, err = txs.All(cmd.Context())
			} else {
				year, m, perr := core.ParseYearMonth(month)
				if perr != nil {
					return perr
				}
				list, err = txs.ByMonth(cmd.Context(), year, m)
			}
			if err != nil {
				return err
			}
			return renderTransactions(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "month as yyyy-MM")
	return cmd
}

func (r *runner) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			txs, err := r.transactions()
			if err != nil {
				return err
			}
			tx, err := txs.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return renderTransaction(cmd.OutOrStdout(), tx)
		},
	}
}

func (r *runner) updateCommand() *cobra.Command {
	var flags txFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			txs, err := r.transactions()
			if err != nil {
				return err
			}

			tx, err := txs.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &tx, false, r.opts.Now()); err != nil {
				return err
			}
			if err := txs.Update(cmd.Context(), id, tx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated transaction %d\n", id)
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func (r *runner) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			txs, err := r.transactions()
			if err != nil {
				return err
			}
			if err := txs.Delete(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %d\n", id)
			return nil
		},
	}
}

func (r *runner) summaryCommand() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Monthly totals, per category and per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			year, m := core.CurrentMonth(r.opts.Now())
			if month != "" {
				var err error
				if year, m, err = core.ParseYearMonth(month); err != nil {
					return err
				}
			}

			sums, err := r.summaries()
			if err != nil {
				return err
			}
			view, err := sums.MonthView(cmd.Context(), year, m)
			if err != nil {
				return err
			}
			return renderMonthView(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "month as yyyy-MM (default current month)")
	return cmd
}

func (r *runner) categoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "categories",
		Short:       "List the category catalog",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipStore: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderCategories(cmd.OutOrStdout(), core.Categories())
		},
	}
}

func (r *runner) dumpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the raw transactions table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			txs, err := r.transactions()
			if err != nil {
				return err
			}
			return txs.Dump(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid transaction id %q", s)
	}
	return id, nil
}
