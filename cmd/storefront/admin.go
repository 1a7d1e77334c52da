package main

import (
	"context"
	"fmt"

	"storefront/internal/domain/admin"
	"storefront/internal/domain/auth"
	"storefront/internal/rbac"

	"github.com/urfave/cli/v3"
)

func adminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Administer users, roles and permissions",
		Commands: []*cli.Command{
			{
				Name:  "dashboard",
				Usage: "Show shop counters",
				Flags: []cli.Flag{jsonFlag()},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					stats, err := e.api.Dashboard(ctx)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(stats)
					}
					printDashboard(stats)
					return nil
				}),
			},
			adminUsersCommand(),
			adminRolesCommand(),
			adminPermissionsCommand(),
		},
	}
}

func adminUsersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Manage user accounts",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List users",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "search"},
					&cli.StringFlag{Name: "role"},
					&cli.IntFlag{Name: "page", Value: 1},
					&cli.IntFlag{Name: "per-page", Value: 15},
					jsonFlag(),
				},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					page, err := e.api.Users(ctx, admin.ListFilters{
						Search:  c.String("search"),
						Role:    c.String("role"),
						Page:    c.Int("page"),
						PerPage: c.Int("per-page"),
					})
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(page)
					}
					printUsers(page)
					return nil
				}),
			},
			{
				Name:  "create",
				Usage: "Create a user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringSliceFlag{Name: "role", Usage: "role name, repeatable"},
					jsonFlag(),
				},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					u, err := e.api.CreateUser(ctx, admin.CreateUserRequest{
						Name:     c.String("name"),
						Email:    c.String("email"),
						Password: c.String("password"),
						Roles:    c.StringSlice("role"),
					})
					return renderUser(c, u, err)
				}),
			},
			{
				Name:  "update",
				Usage: "Edit a user",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "email"},
					&cli.StringFlag{Name: "password"},
					&cli.StringSliceFlag{Name: "role", Usage: "role name, repeatable"},
					jsonFlag(),
				},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					req := admin.UpdateUserRequest{Roles: c.StringSlice("role")}
					if c.IsSet("name") {
						v := c.String("name")
						req.Name = &v
					}
					if c.IsSet("email") {
						v := c.String("email")
						req.Email = &v
					}
					if c.IsSet("password") {
						v := c.String("password")
						req.Password = &v
					}
					u, err := e.api.UpdateUser(ctx, c.Int64("id"), req)
					return renderUser(c, u, err)
				}),
			},
			{
				Name:  "delete",
				Usage: "Delete a user",
				Flags: []cli.Flag{&cli.Int64Flag{Name: "id", Required: true}},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					if err := e.api.DeleteUser(ctx, c.Int64("id")); err != nil {
						return err
					}
					fmt.Println("user deleted")
					return nil
				}),
			},
			{
				Name:  "assign",
				Usage: "Replace a user's roles",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
					&cli.StringSliceFlag{Name: "role", Required: true, Usage: "role name, repeatable"},
					jsonFlag(),
				},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					u, err := e.api.AssignRole(ctx, c.Int64("id"), c.StringSlice("role")...)
					return renderUser(c, u, err)
				}),
			},
		},
	}
}

func renderUser(c *cli.Command, u *auth.User, err error) error {
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(u)
	}
	printKV(userRows(u))
	return nil
}

func adminRolesCommand() *cli.Command {
	return &cli.Command{
		Name:  "roles",
		Usage: "Manage roles",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List roles",
				Flags: []cli.Flag{jsonFlag()},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					roles, err := e.api.Roles(ctx)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(roles)
					}
					printRoles(roles)
					return nil
				}),
			},
			{
				Name:  "show",
				Usage: "Show a role's permissions by category",
				Flags: []cli.Flag{&cli.StringFlag{Name: "name", Required: true}},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					roles, err := e.api.Roles(ctx)
					if err != nil {
						return err
					}
					for _, r := range roles {
						if r.Name == c.String("name") {
							printPermissions(rbac.GroupPermissions(r.Permissions))
							return nil
						}
					}
					return fmt.Errorf("role %q not found", c.String("name"))
				}),
			},
			{
				Name:  "create",
				Usage: "Create a role",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringSliceFlag{Name: "permission", Usage: "permission name, repeatable"},
				},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					r, err := e.api.CreateRole(ctx, admin.RoleRequest{
						Name:        c.String("name"),
						Permissions: c.StringSlice("permission"),
					})
					if err != nil {
						return err
					}
					printRoles([]auth.Role{*r})
					return nil
				}),
			},
			{
				Name:  "update",
				Usage: "Rename a role or replace its permissions",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringSliceFlag{Name: "permission", Usage: "permission name, repeatable"},
				},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					r, err := e.api.UpdateRole(ctx, c.Int64("id"), admin.RoleRequest{
						Name:        c.String("name"),
						Permissions: c.StringSlice("permission"),
					})
					if err != nil {
						return err
					}
					printRoles([]auth.Role{*r})
					return nil
				}),
			},
			{
				Name:  "delete",
				Usage: "Delete a role",
				Flags: []cli.Flag{&cli.Int64Flag{Name: "id", Required: true}},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					if err := e.api.DeleteRole(ctx, c.Int64("id")); err != nil {
						return err
					}
					fmt.Println("role deleted")
					return nil
				}),
			},
		},
	}
}

func adminPermissionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "permissions",
		Usage: "Manage permissions",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List permissions by category",
				Flags: []cli.Flag{jsonFlag()},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					perms, err := e.api.Permissions(ctx)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(perms)
					}
					printPermissions(rbac.GroupPermissions(perms))
					return nil
				}),
			},
			{
				Name:  "create",
				Usage: "Create a permission",
				Flags: []cli.Flag{&cli.StringFlag{Name: "name", Required: true}},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					p, err := e.api.CreatePermission(ctx, c.String("name"))
					if err != nil {
						return err
					}
					fmt.Printf("permission %d created: %s\n", p.ID, p.Name)
					return nil
				}),
			},
			{
				Name:  "rename",
				Usage: "Rename a permission",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
				},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					p, err := e.api.UpdatePermission(ctx, c.Int64("id"), c.String("name"))
					if err != nil {
						return err
					}
					fmt.Printf("permission %d renamed: %s\n", p.ID, p.Name)
					return nil
				}),
			},
			{
				Name:  "delete",
				Usage: "Delete a permission",
				Flags: []cli.Flag{&cli.Int64Flag{Name: "id", Required: true}},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					if err := e.api.DeletePermission(ctx, c.Int64("id")); err != nil {
						return err
					}
					fmt.Println("permission deleted")
					return nil
				}),
			},
		},
	}
}
