package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"storefront/internal/rbac"

	"github.com/urfave/cli/v3"
)

func accessCommand() *cli.Command {
	return &cli.Command{
		Name:  "access",
		Usage: "Show what the stored session may see and do",
		Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
			snap, err := requireSession(ctx, e)
			if err != nil {
				return err
			}
			r := rbac.New(snap.User)
			printKV([][2]string{
				{"role", orDash(r.Role())},
				{"home", orDash(r.HomeRoute())},
				{"routes", orDash(strings.Join(r.AccessibleRoutes(), " "))},
			})
			fmt.Println()

			names := append(snap.User.PermissionNames(), rbac.DefaultPermissions(r.Role())...)
			seen := make(map[string]bool, len(names))
			var rows [][]string
			for _, n := range names {
				if seen[n] {
					continue
				}
				seen[n] = true
				g := r.PermissionSources(n)
				rows = append(rows, []string{rbac.Category(n), n, yesNo(g.FromRoles), yesNo(g.FromTable)})
			}
			sort.Slice(rows, func(i, j int) bool {
				if rows[i][0] != rows[j][0] {
					return rows[i][0] < rows[j][0]
				}
				return rows[i][1] < rows[j][1]
			})
			printTable([]string{"CATEGORY", "PERMISSION", "FROM_ROLES", "FROM_TABLE"}, rows)
			return nil
		}),
		Commands: []*cli.Command{
			{
				Name:      "route",
				Usage:     "Check whether a route is reachable",
				ArgsUsage: "<path>",
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					path := c.Args().First()
					if path == "" {
						return fmt.Errorf("route path is required")
					}
					r := rbac.FromStore(ctx, e.store)
					fmt.Printf("%s: %s\n", path, allowDeny(r.CanAccessRoute(path)))
					return nil
				}),
			},
			{
				Name:      "action",
				Usage:     "Check whether an action on a resource is allowed",
				ArgsUsage: "<action> <resource>",
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					if c.Args().Len() != 2 {
						return fmt.Errorf("usage: storefront access action <action> <resource>")
					}
					act, res := c.Args().Get(0), c.Args().Get(1)
					r := rbac.FromStore(ctx, e.store)
					fmt.Printf("%s %s: %s\n", act, res, allowDeny(r.CanPerformAction(act, res)))
					return nil
				}),
			},
		},
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func allowDeny(v bool) string {
	if v {
		return "allowed"
	}
	return "denied"
}
