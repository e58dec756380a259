package main

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/abhyasa/study-client/accounts"
	"github.com/abhyasa/study-client/internal/utils"
	"github.com/abhyasa/study-client/token"
)

func (cli *commandLine) login(ctx context.Context, args []string) error {
	fs := cli.flags("login")
	id := fs.String("id", "", "Email address or phone number. The password will be prompted next.")
	if err := fs.Parse(args); err != nil {
		return errHelp
	}

	cli.printf("Password: ")
	pwd, err := cli.readPassword(cli)
	if err != nil {
		return err
	}

	err = cli.app.Accounts.Login(ctx, accounts.LoginForm{Identifier: *id, Password: pwd})
	if err != nil {
		return cli.formError(err)
	}
	cli.println("Logged in successfully!")
	return nil
}

func (cli *commandLine) register(ctx context.Context, args []string) error {
	fs := cli.flags("register")
	name := fs.String("name", "", "Full name")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "10 digit mobile number")
	if err := fs.Parse(args); err != nil {
		return errHelp
	}
	if *email != "" && *phone != "" {
		cli.println("register with either -email or -phone, not both")
		return errHelp
	}

	var identity accounts.RegistrationIdentity = accounts.EmailIdentity{Email: *email}
	if *phone != "" {
		identity = accounts.PhoneIdentity{Phone: *phone}
	}

	cli.printf("Password: ")
	pwd, err := cli.readPassword(cli)
	if err != nil {
		return err
	}

	form := accounts.RegistrationForm{Name: *name, Identity: identity, Password: pwd}
	if err := cli.app.Accounts.Register(ctx, form); err != nil {
		return cli.formError(err)
	}
	cli.println("Registration successful! Welcome!")
	return nil
}

// formError prints field errors one per line.
func (cli *commandLine) formError(err error) error {
	var fieldErrs accounts.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	fields := make([]string, 0, len(fieldErrs))
	for f := range fieldErrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		cli.printf("  %s: %s\n", f, fieldErrs[f])
	}
	return err
}

func (cli *commandLine) logout(ctx context.Context) error {
	if err := cli.app.Accounts.Logout(ctx); err != nil {
		return err
	}
	cli.println("Logged out.")
	return nil
}

// whoami shows what the stored token claims. The claims are not verified.
func (cli *commandLine) whoami(ctx context.Context) error {
	s, err := cli.app.Sessions.Read(ctx)
	if err != nil {
		return err
	}
	if !s.HasToken() {
		cli.println("Not logged in.")
		return nil
	}

	claims, ok := token.Claims(s.AccessToken)
	if !ok {
		cli.println("Logged in (token payload unreadable)")
	} else {
		cli.printf("Subject: %s\n", claims.Subject)
		cli.printf("Role:    %s\n", roleLabel(claims.Role))
		if exp := utils.Value(claims.ExpiresAt); !exp.IsZero() {
			cli.printf("Expires: %s\n", exp.Local().Format(time.RFC1123))
		}
	}
	if s.LastActiveAt != nil {
		cli.printf("Active:  %s ago\n", cli.app.Sessions.Now().Sub(*s.LastActiveAt).Round(time.Second))
	}
	cli.printf("Paid:    %t\n", s.Paid)
	return nil
}

func roleLabel(r token.Role) string {
	if r == token.RoleUnknown {
		return "unknown"
	}
	return string(r)
}
