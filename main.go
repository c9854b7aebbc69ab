package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/rehhab/pos-terminal/config"
	"github.com/rehhab/pos-terminal/devgateway"
	"github.com/rehhab/pos-terminal/gateway"
	"github.com/rehhab/pos-terminal/models"
	"github.com/rehhab/pos-terminal/orderview"
	"github.com/rehhab/pos-terminal/workflow"
)

// cliNotifier prints workflow messages to the terminal
type cliNotifier struct{}

func (cliNotifier) Success(msg string) { fmt.Println("✔ " + msg) }
func (cliNotifier) Warn(msg string)    { fmt.Println("⚠ " + msg) }
func (cliNotifier) Error(msg string)   { fmt.Println("✖ " + msg) }

func main() {
	dev := flag.Bool("dev", false, "run an in-process dev gateway and connect to it")
	flag.Parse()

	log.Println("Starting POS terminal...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(*dev); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	gatewayURL := cfg.GatewayURL
	if *dev {
		gatewayURL = startDevGateway(cfg)
	}

	client := gateway.New(gatewayURL)
	if session, err := gateway.LoadSession(cfg.TokenFile); err != nil {
		log.Printf("Ignoring unreadable session file: %v", err)
	} else if session.LoggedIn() {
		client.SetSession(session)
		log.Printf("Resumed %s session", session.Role)
	}

	app := &app{
		cfg:    cfg,
		client: client,
		reader: bufio.NewReader(os.Stdin),
		notify: cliNotifier{},
	}
	app.store = workflow.NewStore(client, app.notify)
	app.view = orderview.New(client, app.notify)
	app.run(context.Background())
}

// startDevGateway boots the in-process development backend and returns its
// base URL.
func startDevGateway(cfg *config.Config) string {
	db, err := devgateway.OpenDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open dev gateway database: %v", err)
	}
	if err := devgateway.Seed(db); err != nil {
		log.Fatalf("Failed to seed dev gateway: %v", err)
	}

	server := devgateway.NewServer(db, cfg.JWTSecret)
	addr := ":" + cfg.Port
	go func() {
		if err := http.ListenAndServe(addr, server.Router()); err != nil {
			log.Fatalf("Dev gateway stopped: %v", err)
		}
	}()

	url := "http://localhost:" + cfg.Port
	log.Printf("Dev gateway listening on %s (users: admin/admin, waiter/waiter)", url)
	return url
}

type app struct {
	cfg    *config.Config
	client *gateway.Client
	store  *workflow.Store
	view   *orderview.View
	reader *bufio.Reader
	notify workflow.Notifier
}

func (a *app) run(ctx context.Context) {
	for !a.client.Session().LoggedIn() {
		if !a.login(ctx) {
			return
		}
	}

	if err := a.store.LoadTables(ctx); err != nil {
		fmt.Println("Could not load tables; use 'r' to retry.")
	}

	if a.client.Session().Role == models.RoleAdmin {
		a.adminLoop(ctx)
	} else {
		a.waiterLoop(ctx)
	}
}

func (a *app) login(ctx context.Context) bool {
	fmt.Println("=== Restaurant REHHAB POS ===")
	username := a.prompt("Username: ")
	password := a.prompt("Password: ")
	if username == "" {
		return false
	}

	session, err := a.client.Login(ctx, username, password)
	if err != nil {
		a.notify.Error(fmt.Sprintf("Login failed: %v", err))
		return true
	}
	if err := gateway.SaveSession(a.cfg.TokenFile, session); err != nil {
		log.Printf("Could not save session: %v", err)
	}
	a.notify.Success(fmt.Sprintf("Logged in as %s (%s)", username, session.Role))
	return true
}

func (a *app) logout() {
	a.client.Logout()
	if err := gateway.ClearSession(a.cfg.TokenFile); err != nil {
		log.Printf("Could not clear session: %v", err)
	}
	fmt.Println("Logged out.")
}

func (a *app) waiterLoop(ctx context.Context) {
	for {
		a.printTables()
		fmt.Println("\n[o N] open  [a N] add product  [v N] view order  [c N] close order  [f N] force-free  [r] refresh  [q] quit")
		cmd, arg := splitCommand(a.prompt("> "))

		switch cmd {
		case "o":
			if table, ok := a.tableByNumber(arg); ok {
				if err := a.store.OpenTable(ctx, table.ID); err == nil {
					a.runActiveModal(ctx)
				}
			}
		case "a":
			if table, ok := a.tableByNumber(arg); ok {
				if table.OrderID == nil {
					a.notify.Warn(fmt.Sprintf("Table %d has no order to add to", table.Number))
					continue
				}
				a.store.OpenAddItemModal(*table.OrderID)
				a.runActiveModal(ctx)
			}
		case "v":
			if table, ok := a.tableByNumber(arg); ok {
				if table.OrderID == nil {
					a.notify.Warn(fmt.Sprintf("Table %d has no order to view", table.Number))
					continue
				}
				a.store.OpenSummaryModal(*table.OrderID)
				a.runActiveModal(ctx)
			}
		case "c":
			if table, ok := a.tableByNumber(arg); ok {
				if table.OrderID == nil {
					// No resolvable order: the only way out is force-free
					a.forceFree(table)
					continue
				}
				a.store.OpenCloseOrderModal(*table.OrderID, table.ID)
				a.runActiveModal(ctx)
			}
		case "f":
			if table, ok := a.tableByNumber(arg); ok {
				a.forceFree(table)
			}
		case "r":
			a.store.LoadTables(ctx)
		case "q", "quit", "exit":
			return
		case "logout":
			a.logout()
			return
		default:
			fmt.Println("Unknown command.")
		}
	}
}

// runActiveModal drives whichever modal the store has activated. Exactly
// one can be active; leaving this function always dismisses it.
func (a *app) runActiveModal(ctx context.Context) {
	modal := a.store.ActiveModal()
	switch modal.Kind {
	case workflow.ModalAddItem:
		a.addItemModal(ctx, modal.OrderID)
	case workflow.ModalCloseOrder:
		a.closeOrderModal(ctx, modal.OrderID)
	case workflow.ModalSummary:
		a.summaryModal(ctx, modal.OrderID)
	}
	if a.store.ActiveModal().Active() {
		a.store.DismissModal()
	}
}

func (a *app) addItemModal(ctx context.Context, orderID uint) {
	fmt.Printf("--- Add products to order #%d (empty query to cancel) ---\n", orderID)
	for {
		q := a.prompt("Search: ")
		if len(q) < 2 {
			return
		}

		products, err := a.client.SearchProducts(ctx, q)
		if err != nil {
			a.notify.Error(fmt.Sprintf("Search failed: %v", err))
			continue
		}
		if len(products) == 0 {
			fmt.Println("No matches.")
			continue
		}
		for i, p := range products {
			fmt.Printf("  %d) %s  $%s\n", i+1, p.Name, p.Price.StringFixed(2))
		}

		choice, err := strconv.Atoi(a.prompt("Pick #: "))
		if err != nil || choice < 1 || choice > len(products) {
			continue
		}
		qty, err := strconv.Atoi(a.prompt("Qty: "))
		if err != nil {
			qty = 1
		}

		a.store.AddItem(ctx, orderID, products[choice-1].ID, qty)
		return
	}
}

func (a *app) closeOrderModal(ctx context.Context, orderID uint) {
	fmt.Printf("--- Close order #%d ---\n", orderID)
	tip := a.prompt("Tip (blank for none): ")
	payment := a.prompt("Payment [CASH/CARD/TRANSFER, blank=CASH]: ")
	a.store.CloseOrder(ctx, orderID, tip, payment)
}

func (a *app) summaryModal(ctx context.Context, orderID uint) {
	defer a.view.Discard()
	if err := a.view.Load(ctx, orderID); err != nil {
		return
	}

	for {
		order := a.view.Order()
		fmt.Printf("--- Order #%d ---\n", order.ID)
		if len(order.Items) == 0 {
			fmt.Println("  (no items)")
		}
		for _, item := range order.Items {
			fmt.Printf("  [%d] %dx %s  $%s\n", item.ID, item.Quantity, item.Name, item.ItemTotal().StringFixed(2))
		}
		fmt.Printf("  Total: $%s\n", order.Total.StringFixed(2))

		input := a.prompt("[d ID] delete item, blank to close: ")
		cmd, arg := splitCommand(input)
		if cmd != "d" {
			return
		}
		itemID, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			continue
		}
		confirmed := a.confirm(fmt.Sprintf("Delete item %d?", itemID))
		a.view.DeleteLineItem(ctx, uint(itemID), confirmed)
	}
}

func (a *app) forceFree(table models.Table) {
	confirmed := a.confirm(fmt.Sprintf("Mark table %d as free without closing an order?", table.Number))
	a.store.ForceFreeTable(table.ID, confirmed)
}

func (a *app) printTables() {
	fmt.Println("\n=== Tables ===")
	for _, t := range a.store.Tables() {
		marker := " "
		if t.Inconsistent() {
			marker = "!"
		}
		order := "-"
		if t.OrderID != nil {
			order = fmt.Sprintf("order #%d", *t.OrderID)
		}
		fmt.Printf("%s Table %-3d %-9s %s\n", marker, t.Number, t.Status, order)
	}
}

func (a *app) tableByNumber(arg string) (models.Table, bool) {
	number, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Println("Expected a table number.")
		return models.Table{}, false
	}
	for _, t := range a.store.Tables() {
		if t.Number == number {
			return t, true
		}
	}
	a.notify.Error(fmt.Sprintf("table %d not found", number))
	return models.Table{}, false
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	input, _ := a.reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func (a *app) confirm(question string) bool {
	answer := strings.ToLower(a.prompt(question + " [y/N] "))
	return answer == "y" || answer == "yes"
}

func splitCommand(input string) (string, string) {
	fields := strings.Fields(input)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return strings.ToLower(fields[0]), ""
	default:
		return strings.ToLower(fields[0]), fields[1]
	}
}
