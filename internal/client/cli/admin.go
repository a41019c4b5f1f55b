package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/certapply/certapply/internal/client/api"
	"github.com/certapply/certapply/internal/client/models"
	"github.com/certapply/certapply/internal/client/services"
)

// AddReviewer prompts for account details and creates a reviewer.
func (a *App) AddReviewer(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Reviewer username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Reviewer email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.users.AddReviewer(ctx, api.Profile{Username: username, Email: email, Password: string(password)}); err != nil {
		fmt.Println("Creating reviewer failed:", err.Error())
		return err
	}

	fmt.Printf("Reviewer %s created.\n", username)
	return nil
}

// ListUsers prints one page of the user directory.
func (a *App) ListUsers(ctx context.Context) error {
	page, err := GetInt(a.reader, "Page (starting at 0)", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	users, err := a.users.List(ctx, page, 20)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	for _, u := range users.Users {
		fmt.Printf("%d  %s  %s  %s\n", u.ID, u.Username, u.Email, u.Role)
	}
	fmt.Printf("Page %d, %d users total\n", page, users.TotalUsers)
	return nil
}

// ListReviewers prints the reviewer accounts.
func (a *App) ListReviewers(ctx context.Context) error {
	reviewers, err := a.users.ByRole(ctx, models.RoleReviewer)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	if len(reviewers) == 0 {
		fmt.Println("No reviewers yet.")
		return nil
	}

	for _, u := range reviewers {
		fmt.Printf("%d  %s  %s\n", u.ID, u.Username, u.Email)
	}
	return nil
}

// ShowTrends prints the monthly submission series and the peak month,
// derived from every application the server knows about.
func (a *App) ShowTrends(ctx context.Context) error {
	var all []models.Application
	for _, status := range []models.Status{models.StatusPending, models.StatusApproved, models.StatusRejected} {
		apps, err := a.apps.ByStatus(ctx, status)
		if err != nil {
			fmt.Println(err.Error())
			return err
		}
		all = append(all, apps...)
	}

	series := services.MonthlySeries(all)
	if len(series) == 0 {
		fmt.Println("No submitted applications yet.")
		return nil
	}

	for _, pc := range series {
		fmt.Printf("%s  %d\n", pc.Period, pc.Count)
	}
	peak := services.PeakPeriod(series)
	fmt.Printf("Peak month: %s (%d applications)\n", peak.Period, peak.Count)
	return nil
}

// ShowCounts prints the dashboard snapshot: counts per status plus the
// approval rate.
func (a *App) ShowCounts(ctx context.Context) error {
	counts, err := a.stats.Counts(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Printf("Pending: %d  Approved: %d  Rejected: %d\n", counts.Pending, counts.Approved, counts.Rejected)
	fmt.Printf("Approval rate: %.0f%%\n", services.ApprovalRate(*counts)*100)
	return nil
}
