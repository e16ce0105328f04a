// Command pamoja-admin reviews and decides membership items against a running API.
//
//	pamoja-admin -user admin list payment -status pending
//	pamoja-admin -user admin decide payment 12 approve -notes "checked bank statement"
//	pamoja-admin -user admin deduct 10 "annual levy"
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"
	"time"

	"pamoja-backend/internal/client"
	"pamoja-backend/internal/config"
	"pamoja-backend/internal/dispatch"
	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/lifecycle"
	"pamoja-backend/internal/logger"

	"github.com/joho/godotenv"
)

const usage = `usage: pamoja-admin [flags] <command> [args]

commands:
  list <entity> [-status s] [-limit n]
  decide <entity> <id> <action> [-reason r] [-notes n] [-reply r] [-amount cents] [-shares n]
  update-shares <user-id> <shares-owned> <available-shares>
  deduct <amount> <reason>

entities: application, payment, share_purchase, claim, document, user, contact_message
`

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional)")
	baseURL := flag.String("url", "", "API base URL, e.g. http://localhost:8080/api")
	username := flag.String("user", os.Getenv("PAMOJA_ADMIN_USER"), "Administrator username")
	logLevel := flag.String("log-level", "warn", "Log level")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	_ = godotenv.Load()
	logger.Initialize(*logLevel, "text")

	timeout := 30 * time.Second
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			fatal(err)
		}
		if *baseURL == "" {
			*baseURL = cfg.Client.BaseURL
		}
		timeout = time.Duration(cfg.Client.TimeoutSeconds) * time.Second
	}
	if *baseURL == "" {
		*baseURL = "http://localhost:8080/api"
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	api := client.New(client.Config{BaseURL: *baseURL, Timeout: timeout})
	user, err := api.Login(ctx, *username, os.Getenv("PAMOJA_ADMIN_PASSWORD"))
	if err != nil {
		fatal(err)
	}
	d := dispatch.New(api, nil, lifecycle.Actor{UserID: user.ID, IsStaff: user.IsStaff})

	if err := run(ctx, api, d, flag.Args()); err != nil {
		fatal(err)
	}
}

func run(ctx context.Context, api *client.Client, d *dispatch.Dispatcher, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list":
		return list(ctx, api, d, rest)
	case "decide":
		return decide(ctx, api, d, rest)
	case "update-shares":
		if len(rest) != 3 {
			return errors.New("update-shares needs <user-id> <shares-owned> <available-shares>")
		}
		nums, err := int32s(rest)
		if err != nil {
			return err
		}
		u, err := d.UpdateShares(ctx, nums[0], nums[1], nums[2])
		if err != nil {
			return err
		}
		return printJSON(u)
	case "deduct":
		if len(rest) != 2 {
			return errors.New("deduct needs <amount> <reason>")
		}
		nums, err := int32s(rest[:1])
		if err != nil {
			return err
		}
		result, err := d.DeductSharesFromAll(ctx, nums[0], rest[1])
		if err != nil {
			return err
		}
		return printJSON(result)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func list(ctx context.Context, api *client.Client, d *dispatch.Dispatcher, args []string) error {
	if len(args) == 0 {
		return errors.New("list needs an entity")
	}
	entity := lifecycle.Entity(args[0])
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	status := fs.String("status", "", "Filter by status")
	limit := fs.Int("limit", 50, "Maximum rows")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	items, err := api.List(ctx, entity, domain.ListFilter{Status: *status, Limit: int32(*limit)})
	if err != nil {
		return err
	}
	d.Cache().Replace(entity, items)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tOWNER\tSTATUS")
	for _, it := range items {
		fmt.Fprintf(tw, "%d\t%d\t%s\n", it.EntityID(), it.OwnerID(), it.CurrentStatus())
	}
	return tw.Flush()
}

func decide(ctx context.Context, api *client.Client, d *dispatch.Dispatcher, args []string) error {
	if len(args) < 3 {
		return errors.New("decide needs <entity> <id> <action>")
	}
	entity, action := lifecycle.Entity(args[0]), lifecycle.Action(args[2])
	ids, err := int32s(args[1:2])
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("decide", flag.ExitOnError)
	reason := fs.String("reason", "", "Rejection or deactivation reason")
	notes := fs.String("notes", "", "Admin notes")
	reply := fs.String("reply", "", "Reply to a contact message")
	amount := fs.Int64("amount", -1, "Approved claim amount in cents")
	shares := fs.Int("shares", -1, "Shares assigned on application approval")
	if err := fs.Parse(args[3:]); err != nil {
		return err
	}

	p := lifecycle.Payload{Reason: *reason, Notes: *notes, Reply: *reply}
	if *amount >= 0 {
		p.AmountApproved = amount
	}
	if *shares >= 0 {
		n := int32(*shares)
		p.SharesAssigned = &n
	}

	// Prime the cache so the transition is checked locally first.
	if items, err := api.List(ctx, entity, domain.ListFilter{Limit: 500}); err == nil {
		d.Cache().Replace(entity, items)
	}

	updated, err := d.Dispatch(ctx, entity, ids[0], action, p)
	if err != nil {
		return err
	}
	return printJSON(updated)
}

func int32s(args []string) ([]int32, error) {
	out := make([]int32, len(args))
	for i, a := range args {
		v, err := strconv.ParseInt(a, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = int32(v)
	}
	return out, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "pamoja-admin: %s (%s)\n", domain.Message(err), domain.KindOf(err))
	os.Exit(1)
}
