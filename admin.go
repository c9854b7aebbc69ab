package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rehhab/pos-terminal/models"
)

// adminLoop drives the admin CRUD screens. Admins can also drop into the
// waiter view, since the backend authorizes them for both surfaces.
func (a *app) adminLoop(ctx context.Context) {
	for {
		fmt.Println("\n=== Admin ===")
		fmt.Println("[u] users  [p] products  [t] tables  [w] waiter view  [q] quit")
		cmd, _ := splitCommand(a.prompt("> "))

		switch cmd {
		case "u":
			a.usersScreen(ctx)
		case "p":
			a.productsScreen(ctx)
		case "t":
			a.tablesScreen(ctx)
		case "w":
			a.waiterLoop(ctx)
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

func (a *app) usersScreen(ctx context.Context) {
	for {
		users, err := a.client.ListUsers(ctx)
		if err != nil {
			a.notify.Error(fmt.Sprintf("Failed to load users: %v", err))
			return
		}
		fmt.Println("\n--- Users ---")
		for _, u := range users {
			fmt.Printf("  [%d] %-15s %s\n", u.ID, u.Username, u.Role)
		}

		cmd, arg := splitCommand(a.prompt("[n] new  [e ID] edit  [d ID] delete  [b] back: "))
		switch cmd {
		case "n":
			user := models.User{
				Username: a.prompt("Username: "),
				Password: a.prompt("Password: "),
				Role:     a.promptRole(),
			}
			if _, err := a.client.CreateUser(ctx, user); err != nil {
				a.notify.Error(fmt.Sprintf("Failed to create user: %v", err))
			} else {
				a.notify.Success("User created")
			}
		case "e":
			id, ok := parseArgID(arg)
			if !ok {
				continue
			}
			patch := models.User{
				Username: a.prompt("Username (blank to keep): "),
				Password: a.prompt("Password (blank to keep): "),
				Role:     a.prompt("Role ADMIN/WAITER (blank to keep): "),
			}
			if _, err := a.client.UpdateUser(ctx, id, patch); err != nil {
				a.notify.Error(fmt.Sprintf("Failed to update user: %v", err))
			} else {
				a.notify.Success("User updated")
			}
		case "d":
			id, ok := parseArgID(arg)
			if !ok || !a.confirm(fmt.Sprintf("Delete user %d?", id)) {
				continue
			}
			if err := a.client.DeleteUser(ctx, id); err != nil {
				a.notify.Error(fmt.Sprintf("Failed to delete user: %v", err))
			} else {
				a.notify.Success("User deleted")
			}
		default:
			return
		}
	}
}

func (a *app) productsScreen(ctx context.Context) {
	for {
		products, err := a.client.ListProducts(ctx)
		if err != nil {
			a.notify.Error(fmt.Sprintf("Failed to load products: %v", err))
			return
		}
		fmt.Println("\n--- Products ---")
		for _, p := range products {
			state := ""
			if !p.Enabled {
				state = " (disabled)"
			}
			fmt.Printf("  [%d] %-25s %-10s $%s%s\n", p.ID, p.Name, p.Category, p.Price.StringFixed(2), state)
		}

		cmd, arg := splitCommand(a.prompt("[n] new  [e ID] edit  [d ID] delete  [b] back: "))
		switch cmd {
		case "n":
			product := models.Product{
				Name:     a.prompt("Name: "),
				Category: a.prompt("Category: "),
				Price:    a.promptPrice(),
				Enabled:  true,
			}
			if _, err := a.client.CreateProduct(ctx, product); err != nil {
				a.notify.Error(fmt.Sprintf("Failed to create product: %v", err))
			} else {
				a.notify.Success("Product created")
			}
		case "e":
			id, ok := parseArgID(arg)
			if !ok {
				continue
			}
			product := models.Product{
				Name:     a.prompt("Name: "),
				Category: a.prompt("Category: "),
				Price:    a.promptPrice(),
				Enabled:  a.confirm("Enabled?"),
			}
			if _, err := a.client.UpdateProduct(ctx, id, product); err != nil {
				a.notify.Error(fmt.Sprintf("Failed to update product: %v", err))
			} else {
				a.notify.Success("Product updated")
			}
		case "d":
			id, ok := parseArgID(arg)
			if !ok || !a.confirm(fmt.Sprintf("Delete product %d?", id)) {
				continue
			}
			if err := a.client.DeleteProduct(ctx, id); err != nil {
				a.notify.Error(fmt.Sprintf("Failed to delete product: %v", err))
			} else {
				a.notify.Success("Product deleted")
			}
		default:
			return
		}
	}
}

func (a *app) tablesScreen(ctx context.Context) {
	for {
		tables, err := a.client.ListAdminTables(ctx)
		if err != nil {
			a.notify.Error(fmt.Sprintf("Failed to load tables: %v", err))
			return
		}
		fmt.Println("\n--- Tables ---")
		for _, t := range tables {
			fmt.Printf("  [%d] table %-3d seats %-2d %s\n", t.ID, t.Number, t.Capacity, t.Status)
		}

		cmd, arg := splitCommand(a.prompt("[n] new  [e ID] edit  [d ID] delete  [b] back: "))
		switch cmd {
		case "n":
			table := models.Table{
				Number:   a.promptInt("Number: "),
				Capacity: a.promptInt("Capacity: "),
			}
			if _, err := a.client.CreateTable(ctx, table); err != nil {
				a.notify.Error(fmt.Sprintf("Failed to create table: %v", err))
			} else {
				a.notify.Success("Table created")
			}
		case "e":
			id, ok := parseArgID(arg)
			if !ok {
				continue
			}
			patch := models.Table{
				Number:   a.promptInt("Number (0 to keep): "),
				Capacity: a.promptInt("Capacity (0 to keep): "),
			}
			if _, err := a.client.UpdateTable(ctx, id, patch); err != nil {
				a.notify.Error(fmt.Sprintf("Failed to update table: %v", err))
			} else {
				a.notify.Success("Table updated")
			}
		case "d":
			id, ok := parseArgID(arg)
			if !ok || !a.confirm(fmt.Sprintf("Delete table %d?", id)) {
				continue
			}
			if err := a.client.DeleteTable(ctx, id); err != nil {
				a.notify.Error(fmt.Sprintf("Failed to delete table: %v", err))
			} else {
				a.notify.Success("Table deleted")
			}
		default:
			return
		}
	}
}

func (a *app) promptRole() string {
	role := a.prompt("Role ADMIN/WAITER [WAITER]: ")
	if role == "" {
		return models.RoleWaiter
	}
	return role
}

func (a *app) promptPrice() decimal.Decimal {
	price, err := decimal.NewFromString(a.prompt("Price: "))
	if err != nil || price.IsNegative() {
		return decimal.Zero
	}
	return price
}

func (a *app) promptInt(label string) int {
	n, err := strconv.Atoi(a.prompt(label))
	if err != nil {
		return 0
	}
	return n
}

func parseArgID(arg string) (uint, bool) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		fmt.Println("Expected a numeric id.")
		return 0, false
	}
	return uint(id), true
}
