package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/certapply/certapply/internal/client/models"
)

// ShowNotifications prints the merged feed, most recent first.
func (a *App) ShowNotifications(ctx context.Context) error {
	a.startFeed(ctx)
	if a.sub == nil {
		// session vanished since the guard check
		fmt.Println("Please login first.")
		return nil
	}
	printEvents(a.sub.Events())
	return nil
}

// WeekNotifications prints the feed filtered to the current week, Monday
// through Sunday.
func (a *App) WeekNotifications(ctx context.Context) error {
	a.startFeed(ctx)
	if a.sub == nil {
		fmt.Println("Please login first.")
		return nil
	}
	printEvents(a.sub.ThisWeek(time.Now()))
	return nil
}

func printEvents(events []models.Event) {
	if len(events) == 0 {
		fmt.Println("No notifications.")
		return
	}
	for _, e := range events {
		fmt.Printf("%s  %s\n", e.Timestamp.Local().Format("2006-01-02 15:04"), e.Message)
	}
}
