// Command budget is a small CLI front end for the budgeting client core:
// it inspects and toggles payment status on group expenses and imports
// personal expenses into a group.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"budgeting/internal/api"
	"budgeting/internal/auth"
	"budgeting/internal/config"
	"budgeting/internal/groups"
	"budgeting/internal/models"
	"budgeting/internal/payments"
	"budgeting/pkg/logging"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: budget <command> [flags]

Commands:
  groups                                                 list your groups
  payments  -expense N                                   show who has paid a group expense
  toggle    -expense N -user M -paid=true|false          set a member's paid status
  import    -group N -expenses 1,2,3 [-description S]    import personal expenses into a group

Configuration comes from the environment (or .env):
  BUDGETING_API_URL, BUDGETING_TOKEN, HTTP_TIMEOUT, LOG_LEVEL, METRICS_ADDR
`)
	os.Exit(2)
}

func main() {
	logging.Setup()

	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewStaticTokenSource(cfg.Token)
	userID, err := tokens.UserID()
	if err != nil {
		slog.Error("Failed to read user id from token", "error", err)
		os.Exit(1)
	}
	client := api.NewClient(cfg.APIURL, tokens, cfg.HTTPTimeout)

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			slog.Info("Serving metrics", "addr", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "groups":
		err = runGroups(ctx, client)
	case "payments":
		err = runPayments(ctx, client, os.Args[2:])
	case "toggle":
		err = runToggle(ctx, client, os.Args[2:])
	case "import":
		err = runImport(ctx, client, userID, os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		slog.Error("Command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

// loadReconciler fetches the expense and its group's member list and returns
// a loaded reconciler plus the members that get a checkbox.
func loadReconciler(ctx context.Context, client *api.Client, expenseID models.ExpenseID) (*payments.Reconciler, []models.User, error) {
	expense, err := client.Expense(ctx, expenseID)
	if err != nil {
		return nil, nil, err
	}
	if !expense.IsGroupExpense() {
		return nil, nil, fmt.Errorf("expense %d is not a group expense", expenseID)
	}
	members, err := client.GroupMembers(ctx, expense.GroupID)
	if err != nil {
		return nil, nil, err
	}

	rec := payments.New(client, expense)
	if err := rec.Load(ctx); err != nil {
		return nil, nil, err
	}
	return rec, rec.Members(members), nil
}

func runGroups(ctx context.Context, client *api.Client) error {
	groups, err := client.Groups(ctx)
	if err != nil {
		return err
	}
	for _, g := range groups {
		fmt.Printf("%d\t%s\n", g.ID, g.Name)
	}
	return nil
}

func runPayments(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("payments", flag.ExitOnError)
	expenseID := fs.Int64("expense", 0, "group expense id")
	fs.Parse(args)
	if *expenseID <= 0 {
		return fmt.Errorf("-expense is required")
	}

	rec, members, err := loadReconciler(ctx, client, models.ExpenseID(*expenseID))
	if err != nil {
		return err
	}
	for _, m := range members {
		mark := " "
		if rec.IsPaid(m.ID) {
			mark = "x"
		}
		fmt.Printf("[%s] %s (user %d)\n", mark, m.FullName(), m.ID)
	}
	return nil
}

func runToggle(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("toggle", flag.ExitOnError)
	expenseID := fs.Int64("expense", 0, "group expense id")
	user := fs.Int64("user", 0, "member user id")
	paid := fs.Bool("paid", true, "target paid status")
	fs.Parse(args)
	if *expenseID <= 0 || *user <= 0 {
		return fmt.Errorf("-expense and -user are required")
	}

	rec, _, err := loadReconciler(ctx, client, models.ExpenseID(*expenseID))
	if err != nil {
		return err
	}
	if err := rec.Toggle(ctx, models.UserID(*user), *paid); err != nil {
		return err
	}
	fmt.Printf("user %d paid=%v on expense %d\n", *user, rec.IsPaid(models.UserID(*user)), *expenseID)
	return nil
}

func runImport(ctx context.Context, client *api.Client, userID models.UserID, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	groupID := fs.Int64("group", 0, "group id")
	ids := fs.String("expenses", "", "comma-separated personal expense ids")
	description := fs.String("description", "", "shared description for the imported expenses")
	fs.Parse(args)
	if *groupID <= 0 || *ids == "" {
		return fmt.Errorf("-group and -expenses are required")
	}

	wanted := make(map[models.ExpenseID]bool)
	for _, part := range strings.Split(*ids, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid expense id %q", part)
		}
		wanted[models.ExpenseID(id)] = true
	}

	session := groups.NewSession(client, models.GroupID(*groupID), userID)
	if err := session.Refresh(ctx); err != nil {
		return err
	}

	personal, err := client.PersonalExpenses(ctx, api.ListOptions{SortBy: "created_at", Order: "desc"})
	if err != nil {
		return err
	}
	selected := make([]models.Expense, 0, len(wanted))
	for _, e := range personal {
		if wanted[e.ID] {
			selected = append(selected, e)
		}
	}
	if len(selected) != len(wanted) {
		return fmt.Errorf("found %d of %d requested personal expenses", len(selected), len(wanted))
	}

	result, err := session.ImportSelected(ctx, selected, *description, "You")
	for _, row := range result.Added {
		fmt.Printf("added %q (expense %d)\n", row.Expense.Title, row.Expense.ID)
	}
	if msg := result.SkippedMessage(); msg != "" {
		fmt.Println(msg)
	}
	return err
}
