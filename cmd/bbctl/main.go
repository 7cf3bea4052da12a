package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/pkg/client"
	"bazaarbondhu/pkg/config"
)

const usage = `Usage: bbctl <command> [flags]

Commands:
  signin -email -password      sign in with email and password
  signup -email -password      create an account and its user record
  signout                      forget the stored session
  whoami                       show the signed-in identity and role
  menu                         show the dashboard menu for the current role
  visit <path>                 run the route guard for a dashboard path
  products [-view -search -sort -status -page -limit]
  latest                       newest approved products
  watchlist [add <productId> | remove <id>]
  orders [-view -page -limit]
  stats                        role-specific dashboard statistics
  approve <productId>
  reject -reason -feedback <productId>
  set-role <userId> <role>

Environment: BB_API_URL, FIREBASE_API_KEY, BB_SESSION_FILE
`

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fail(err)
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c, err := newClient()
	if err != nil {
		fail(err)
	}

	if err := run(ctx, c, os.Args[1], os.Args[2:]); err != nil {
		fail(err)
	}
}

func newClient() (*client.Client, error) {
	cfg := client.Config{
		BaseURL:        envOr("BB_API_URL", "http://localhost:8080/v1"),
		FirebaseAPIKey: os.Getenv("FIREBASE_API_KEY"),
		SessionFile:    os.Getenv("BB_SESSION_FILE"),
	}
	if cfg.SessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		cfg.SessionFile = filepath.Join(dir, "bazaarbondhu", "session.json")
	}
	return client.New(cfg)
}

func run(ctx context.Context, c *client.Client, cmd string, args []string) error {
	switch cmd {
	case "signin", "signup":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", os.Getenv("BB_PASSWORD"), "account password")
		fs.Parse(args)

		var id *access.Identity
		var err error
		if cmd == "signin" {
			id, err = c.SignIn(ctx, *email, *password)
		} else {
			id, err = c.SignUp(ctx, *email, *password)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Signed in as %s\n", id.Email)
		fmt.Printf("Continue at %s\n", c.Navigator.AfterSignIn())
		return nil

	case "signout":
		return c.SignOut()

	case "whoami":
		id := c.Session.Current()
		if id == nil {
			return client.ErrNotSignedIn
		}
		role, err := c.Roles.Resolve(ctx)
		if err != nil {
			return err
		}
		return printJSON(map[string]string{"email": id.Email, "name": id.DisplayName, "role": string(role)})

	case "menu":
		entries, err := c.Menu(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		return printJSON(entries)

	case "visit":
		if len(args) != 1 {
			return errors.New("visit needs exactly one path")
		}
		d, err := c.Navigator.Visit(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(map[string]string{"outcome": d.Outcome.String(), "redirectTo": d.RedirectTo})

	case "products":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		view := fs.String("view", string(access.ViewCatalog), "catalog, mine or all")
		search := fs.String("search", "", "name search")
		sort := fs.String("sort", "", "price_asc, price_desc, date_asc or date_desc")
		status := fs.String("status", "", "moderation status (admin only)")
		page := fs.Int("page", 1, "page number")
		limit := fs.Int("limit", 0, "page size")
		fs.Parse(args)

		f := access.Filters{Search: *search, Sort: *sort, Status: *status}
		p, err := c.ListProducts(ctx, access.ParseView(*view), f, *page, *limit)
		if err != nil {
			return err
		}
		return printJSON(p)

	case "latest":
		products, err := c.LatestProducts(ctx)
		if err != nil {
			return err
		}
		return printJSON(products)

	case "watchlist":
		if len(args) == 2 && args[0] == "add" {
			item, err := c.AddToWatchlist(ctx, args[1])
			if err != nil {
				return err
			}
			return printJSON(item)
		}
		if len(args) == 2 && args[0] == "remove" {
			return c.RemoveFromWatchlist(ctx, args[1])
		}
		p, err := c.Watchlist(ctx, 1, 0)
		if err != nil {
			return err
		}
		return printJSON(p)

	case "orders":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		view := fs.String("view", string(access.ViewMine), "mine or all")
		page := fs.Int("page", 1, "page number")
		limit := fs.Int("limit", 0, "page size")
		fs.Parse(args)

		p, err := c.ListOrders(ctx, access.ParseView(*view), access.Filters{}, *page, *limit)
		if err != nil {
			return err
		}
		return printJSON(p)

	case "stats":
		role, err := c.Roles.Resolve(ctx)
		if err != nil {
			return err
		}
		var stats client.Stats
		switch role {
		case entity.RoleAdmin:
			stats, err = c.AdminStats(ctx)
		case entity.RoleVendor:
			stats, err = c.VendorStats(ctx)
		default:
			stats, err = c.Stats(ctx)
		}
		if err != nil {
			return err
		}
		return printJSON(stats)

	case "approve":
		if len(args) != 1 {
			return errors.New("approve needs a product id")
		}
		p, err := c.ApproveProduct(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(p)

	case "reject":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		reason := fs.String("reason", "", "short rejection reason")
		feedback := fs.String("feedback", "", "feedback for the vendor")
		fs.Parse(args)
		if fs.NArg() != 1 {
			return errors.New("reject needs a product id")
		}
		p, err := c.RejectProduct(ctx, fs.Arg(0), *reason, *feedback)
		if err != nil {
			return err
		}
		return printJSON(p)

	case "set-role":
		if len(args) != 2 {
			return errors.New("set-role needs a user id and a role")
		}
		u, err := c.ChangeRole(ctx, args[0], client.Role(strings.ToLower(args[1])))
		if err != nil {
			return err
		}
		return printJSON(u)

	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	}

	return fmt.Errorf("unknown command %q", cmd)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fail(err error) {
	var verr *client.ValidationError
	switch {
	case errors.Is(err, client.ErrNotSignedIn):
		fmt.Fprintln(os.Stderr, "Not signed in. Run: bbctl signin -email=...")
	case errors.Is(err, client.ErrRoleNotPermitted), client.IsForbidden(err):
		fmt.Fprintln(os.Stderr, "Your role does not allow this.")
	case errors.As(err, &verr):
		fmt.Fprintf(os.Stderr, "Invalid %s: %s\n", verr.Field, verr.Message)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
