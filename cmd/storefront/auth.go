package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain/auth"
	"storefront/internal/pkg/jwt"

	"github.com/urfave/cli/v3"
)

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and store the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, Sources: cli.EnvVars("STOREFRONT_PASSWORD")},
		},
		Action: loginAction(func(ctx context.Context, c *cli.Command, e *env) error {
			user, err := e.account.Login(ctx, c.String("email"), c.String("password"))
			if err != nil {
				return err
			}
			fmt.Printf("logged in as %s (%s)\n", user.Email, orDash(user.EffectiveRole()))
			return nil
		}),
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Revoke the token and clear the local session",
		Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
			if err := e.account.Logout(ctx); err != nil {
				fmt.Println("local session cleared; server logout failed:", err)
				return nil
			}
			fmt.Println("logged out")
			return nil
		}),
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the stored session",
		Flags: []cli.Flag{jsonFlag()},
		Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
			snap, err := requireSession(ctx, e)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(snap.User)
			}
			rows := userRows(snap.User)
			if exp, ok := jwt.ExpiresAt(snap.Token); ok {
				rows = append(rows, [2]string{"token_expires", formatTime(exp)})
				if time.Now().After(exp) {
					rows = append(rows, [2]string{"token_state", "expired"})
				}
			}
			printKV(rows)
			return nil
		}),
	}
}

func profileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show or update the account profile",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Reload the profile from the server",
				Flags: []cli.Flag{jsonFlag()},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					if _, err := requireSession(ctx, e); err != nil {
						return err
					}
					user, err := e.account.RefreshProfile(ctx)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(user)
					}
					printKV(userRows(user))
					return nil
				}),
			},
			{
				Name:  "update",
				Usage: "Change name, email or password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "email"},
					&cli.StringFlag{Name: "current-password"},
					&cli.StringFlag{Name: "password"},
					&cli.StringFlag{Name: "password-confirmation"},
					jsonFlag(),
				},
				Action: action(func(ctx context.Context, c *cli.Command, e *env) error {
					if _, err := requireSession(ctx, e); err != nil {
						return err
					}
					req := auth.UpdateProfileRequest{
						CurrentPassword:      c.String("current-password"),
						Password:             c.String("password"),
						PasswordConfirmation: c.String("password-confirmation"),
					}
					if c.IsSet("name") {
						v := c.String("name")
						req.Name = &v
					}
					if c.IsSet("email") {
						v := c.String("email")
						req.Email = &v
					}
					user, err := e.account.UpdateProfile(ctx, req)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(user)
					}
					printKV(userRows(user))
					return nil
				}),
			},
		},
	}
}

func userRows(u *auth.User) [][2]string {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.Name)
	}
	verified := "no"
	if u.IsVerified() {
		verified = "yes"
	}
	return [][2]string{
		{"id", strconv.FormatInt(u.ID, 10)},
		{"name", u.Name},
		{"email", u.Email},
		{"role", orDash(u.EffectiveRole())},
		{"roles", orDash(strings.Join(roles, ", "))},
		{"verified", verified},
	}
}
