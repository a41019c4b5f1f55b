package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/certapply/certapply/internal/client/api"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, email and password and attempts to
// create a new applicant account.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.auth.Register(ctx, api.Profile{Username: username, Email: email, Password: string(password)}); err != nil {
		fmt.Println("Registration failed:", err.Error())
		return err
	}

	fmt.Println("Success! You can login now.")
	return nil
}

// Login prompts for credentials, authenticates and, on success, starts the
// notification poller for the new principal.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	// a fresh principal must never inherit the previous user's feed
	a.stopFeed()

	p, err := a.auth.Login(ctx, username, string(password))
	if err != nil {
		fmt.Println("Login failed:", err.Error())
		return err
	}

	fmt.Printf("Welcome, %s (%s)\n", p.DisplayName, p.Role)
	a.startFeed(ctx)
	return nil
}

// Logout stops the poller and destroys the stored session.
func (a *App) Logout(ctx context.Context) error {
	a.stopFeed()
	if err := a.auth.Logout(ctx); err != nil {
		fmt.Println("Logout failed:", err.Error())
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

// EditProfile updates the account's email and password. The username is
// fixed; the server keys the update on the stored principal's id.
func (a *App) EditProfile(ctx context.Context) error {
	p := a.sess.Current()

	email, err := getSimpleText(a.reader, "New email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	profile := api.Profile{Username: p.DisplayName, Email: email, Password: string(password)}
	if _, err := a.users.UpdateProfile(ctx, p.ID, profile); err != nil {
		fmt.Println("Profile update failed:", err.Error())
		return err
	}

	fmt.Println("Profile updated.")
	return nil
}

// Whoami prints the stored principal and what the client can read out of
// its own token.
func (a *App) Whoami(ctx context.Context) error {
	p := a.sess.Current()
	if p == nil {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("%s (%s), id %d\n", p.DisplayName, p.Role, p.ID)

	info, err := a.auth.TokenInfo()
	if err != nil {
		return err
	}
	if !info.ExpiresAt.IsZero() {
		fmt.Println("Token expires:", info.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
	}
	return nil
}
