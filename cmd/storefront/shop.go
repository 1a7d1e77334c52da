package main

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"
	cartflow "storefront/internal/workflow/cart"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
)

func productsCommand() *cli.Command {
	return &cli.Command{
		Name:  "products",
		Usage: "Browse and manage products",
		Flags: []cli.Flag{jsonFlag()},
		Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
			return listProducts(ctx, c, e)
		}),
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all products",
				Flags:  []cli.Flag{jsonFlag()},
				Action: action(listProducts),
			},
			{
				Name:  "show",
				Usage: "Show one product",
				Flags: []cli.Flag{&cli.Int64Flag{Name: "id", Required: true}, jsonFlag()},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					p, err := e.api.Product(ctx, c.Int64("id"))
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(p)
					}
					printProducts([]catalog.Product{*p})
					return nil
				}),
			},
			{
				Name:  "mine",
				Usage: "List the seller's own products",
				Flags: []cli.Flag{jsonFlag()},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					products, err := e.api.SellerProducts(ctx)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(products)
					}
					printProducts(products)
					return nil
				}),
			},
			{
				Name:  "create",
				Usage: "List a new product",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "price", Required: true},
					&cli.IntFlag{Name: "quantity", Value: 0},
					jsonFlag(),
				},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					price, err := decimal.NewFromString(c.String("price"))
					if err != nil {
						return fmt.Errorf("invalid price %q: %w", c.String("price"), err)
					}
					p, err := e.api.CreateProduct(ctx, catalog.CreateProductRequest{
						Title:       c.String("title"),
						Description: c.String("description"),
						Price:       price,
						Quantity:    c.Int("quantity"),
					})
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(p)
					}
					printProducts([]catalog.Product{*p})
					return nil
				}),
			},
			{
				Name:  "update",
				Usage: "Edit a product",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
					&cli.StringFlag{Name: "title"},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "price"},
					&cli.IntFlag{Name: "quantity"},
					jsonFlag(),
				},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					var req catalog.UpdateProductRequest
					if c.IsSet("title") {
						v := c.String("title")
						req.Title = &v
					}
					if c.IsSet("description") {
						v := c.String("description")
						req.Description = &v
					}
					if c.IsSet("price") {
						v, err := decimal.NewFromString(c.String("price"))
						if err != nil {
							return fmt.Errorf("invalid price %q: %w", c.String("price"), err)
						}
						req.Price = &v
					}
					if c.IsSet("quantity") {
						v := c.Int("quantity")
						req.Quantity = &v
					}
					p, err := e.api.UpdateProduct(ctx, c.Int64("id"), req)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(p)
					}
					printProducts([]catalog.Product{*p})
					return nil
				}),
			},
			{
				Name:  "delete",
				Usage: "Delete a product",
				Flags: []cli.Flag{&cli.Int64Flag{Name: "id", Required: true}},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					if err := e.api.DeleteProduct(ctx, c.Int64("id")); err != nil {
						return err
					}
					fmt.Println("product deleted")
					return nil
				}),
			},
		},
	}
}

func listProducts(ctx context.Context, c *cli.Command, e *env) error {
	products, err := e.api.Products(ctx)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(products)
	}
	printProducts(products)
	return nil
}

func cartCommand() *cli.Command {
	return &cli.Command{
		Name:  "cart",
		Usage: "Show and edit the cart",
		Flags: []cli.Flag{jsonFlag()},
		Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
			return showCart(ctx, c, e)
		}),
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the cart",
				Flags:  []cli.Flag{jsonFlag()},
				Action: action(showCart),
			},
			{
				Name:  "add",
				Usage: "Add a product to the cart",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "product", Required: true},
					&cli.IntFlag{Name: "quantity", Value: 1},
					jsonFlag(),
				},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					p, err := e.api.Product(ctx, c.Int64("product"))
					if err != nil {
						return err
					}
					wf := cartflow.NewWorkflow(e.api, e.logger)
					items, err := wf.Add(ctx, *p, c.Int("quantity"))
					return renderCartResult(c, items, err)
				}),
			},
			{
				Name:  "update",
				Usage: "Set the quantity of a cart line",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "product", Required: true},
					&cli.IntFlag{Name: "quantity", Required: true},
					jsonFlag(),
				},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					wf := cartflow.NewWorkflow(e.api, e.logger)
					item, err := cartLine(ctx, wf, c.Int64("product"))
					if err != nil {
						return err
					}
					items, err := wf.UpdateQuantity(ctx, item, c.Int("quantity"))
					return renderCartResult(c, items, err)
				}),
			},
			{
				Name:  "remove",
				Usage: "Remove a product from the cart",
				Flags: []cli.Flag{&cli.Int64Flag{Name: "product", Required: true}, jsonFlag()},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					wf := cartflow.NewWorkflow(e.api, e.logger)
					items, err := wf.Remove(ctx, c.Int64("product"))
					return renderCartResult(c, items, err)
				}),
			},
		},
	}
}

func showCart(ctx context.Context, c *cli.Command, e *env) error {
	items, err := cartflow.NewWorkflow(e.api, e.logger).Refresh(ctx)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(items)
	}
	printCart(items)
	return nil
}

func cartLine(ctx context.Context, wf *cartflow.Workflow, productID int64) (cart.Item, error) {
	items, err := wf.Refresh(ctx)
	if err != nil {
		return cart.Item{}, err
	}
	item, ok := cart.Find(items, productID)
	if !ok {
		return cart.Item{}, fmt.Errorf("product %d is not in the cart", productID)
	}
	return item, nil
}

func renderCartResult(c *cli.Command, items []cart.Item, err error) error {
	if err != nil {
		if msg, ok := cartflow.StockMessage(err); ok {
			return errors.New(msg)
		}
		return err
	}
	if c.Bool("json") {
		return printJSON(items)
	}
	printCart(items)
	return nil
}

func checkoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "checkout",
		Usage: "Turn the cart into a bill",
		Flags: []cli.Flag{jsonFlag()},
		Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
			wf := cartflow.NewWorkflow(e.api, e.logger)
			b, _, err := wf.Checkout(ctx)
			if err != nil {
				if msg, ok := cartflow.StockMessage(err); ok {
					return errors.New(msg)
				}
				return err
			}
			if c.Bool("json") {
				return printJSON(b)
			}
			fmt.Println("checkout complete")
			if b != nil {
				printBill(*b)
			}
			return nil
		}),
	}
}

func billsCommand() *cli.Command {
	return &cli.Command{
		Name:  "bills",
		Usage: "List past bills",
		Flags: []cli.Flag{jsonFlag()},
		Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
			bills, err := e.api.Bills(ctx)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(bills)
			}
			printBills(bills)
			return nil
		}),
	}
}
