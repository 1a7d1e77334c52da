package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"storefront/internal/domain/admin"
	"storefront/internal/domain/auth"
	"storefront/internal/domain/bill"
	"storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"
)

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printKV(rows [][2]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("no results")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func fmtID(v int64) string {
	return strconv.FormatInt(v, 10)
}

func printProducts(items []catalog.Product) {
	rows := make([][]string, 0, len(items))
	for _, p := range items {
		stock := strconv.Itoa(p.Quantity)
		if !p.InStock() {
			stock = "out of stock"
		}
		rows = append(rows, []string{fmtID(p.ID), p.Title, p.Price.StringFixed(2), stock, orDash(p.Seller.Name)})
	}
	printTable([]string{"ID", "TITLE", "PRICE", "STOCK", "SELLER"}, rows)
}

func printCart(items []cart.Item) {
	if len(items) == 0 {
		fmt.Println("cart is empty")
		return
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			fmtID(it.Product.ID),
			it.Product.Title,
			it.Product.Price.StringFixed(2),
			strconv.Itoa(it.Quantity),
			strconv.Itoa(it.Product.Quantity),
			it.LineTotal().StringFixed(2),
		})
	}
	printTable([]string{"PRODUCT", "TITLE", "PRICE", "QTY", "IN_STOCK", "TOTAL"}, rows)
	fmt.Println("subtotal:", cart.Subtotal(items).StringFixed(2))
}

func printBill(b bill.Bill) {
	printKV([][2]string{
		{"bill", fmtID(b.ID)},
		{"reference", orDash(b.Reference)},
		{"created", formatTime(b.CreatedAt)},
		{"total", b.TotalAmount.StringFixed(2)},
	})
	rows := make([][]string, 0, len(b.Items))
	for _, it := range b.Items {
		rows = append(rows, []string{it.Product.Title, strconv.Itoa(it.Quantity), it.PriceAtTime.StringFixed(2)})
	}
	printTable([]string{"PRODUCT", "QTY", "PRICE_AT_TIME"}, rows)
}

func printBills(bills []bill.Bill) {
	rows := make([][]string, 0, len(bills))
	for _, b := range bills {
		rows = append(rows, []string{
			fmtID(b.ID),
			orDash(b.Reference),
			formatTime(b.CreatedAt),
			strconv.Itoa(len(b.Items)),
			b.TotalAmount.StringFixed(2),
		})
	}
	printTable([]string{"ID", "REFERENCE", "CREATED", "ITEMS", "TOTAL"}, rows)
}

func printUsers(page *admin.Page[auth.User]) {
	rows := make([][]string, 0, len(page.Data))
	for _, u := range page.Data {
		names := make([]string, 0, len(u.Roles))
		for _, r := range u.Roles {
			names = append(names, r.Name)
		}
		rows = append(rows, []string{fmtID(u.ID), u.Name, u.Email, orDash(strings.Join(names, ","))})
	}
	printTable([]string{"ID", "NAME", "EMAIL", "ROLES"}, rows)
	fmt.Printf("page %d of %d (%d total)\n", page.CurrentPage, page.LastPage, page.Total)
}

func printRoles(roles []auth.Role) {
	rows := make([][]string, 0, len(roles))
	for _, r := range roles {
		rows = append(rows, []string{fmtID(r.ID), r.Name, strconv.Itoa(len(r.Permissions))})
	}
	printTable([]string{"ID", "NAME", "PERMISSIONS"}, rows)
}

// printPermissions lists permissions grouped by display category.
func printPermissions(groups map[string][]auth.Permission) {
	cats := make([]string, 0, len(groups))
	for c := range groups {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	var rows [][]string
	for _, c := range cats {
		for _, p := range groups[c] {
			rows = append(rows, []string{c, fmtID(p.ID), p.Name})
		}
	}
	printTable([]string{"CATEGORY", "ID", "NAME"}, rows)
}

func printDashboard(s *admin.DashboardStats) {
	rows := [][2]string{
		{"users", strconv.Itoa(s.Users)},
		{"products", strconv.Itoa(s.Products)},
		{"out_of_stock", strconv.Itoa(s.OutOfStock)},
		{"bills", strconv.Itoa(s.Bills)},
		{"revenue", orDash(s.Revenue)},
	}
	roles := make([]string, 0, len(s.UsersByRole))
	for r := range s.UsersByRole {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	for _, r := range roles {
		rows = append(rows, [2]string{"users." + r, strconv.Itoa(s.UsersByRole[r])})
	}
	printKV(rows)
}
