package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/certapply/certapply/internal/client/models"
	"github.com/certapply/certapply/internal/filex"
)

// PendingQueue lists the applications waiting for a decision.
func (a *App) PendingQueue(ctx context.Context) error {
	apps, err := a.apps.Pending(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	if len(apps) == 0 {
		fmt.Println("No pending applications.")
		return nil
	}

	for _, app := range apps {
		fmt.Printf("%d  %s  %s  (%d docs)\n", app.ID, app.FullName, app.Program, len(app.Documents))
	}
	return nil
}

// FilterByStatus lists the applications in one lifecycle state.
func (a *App) FilterByStatus(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Status (PENDING/APPROVED/REJECTED)", os.Stdout)
	if err != nil {
		return err
	}
	status, err := models.ParseStatus(answer)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	apps, err := a.apps.ByStatus(ctx, status)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	if len(apps) == 0 {
		fmt.Printf("No %s applications.\n", status)
		return nil
	}

	for _, app := range apps {
		fmt.Printf("%d  %s  %s  %s\n", app.ID, app.FullName, app.Program, app.Status)
	}
	return nil
}

// Decide prompts for an application id and an outcome and records the
// decision. A rejection requires a non-empty reason before anything goes on
// the wire.
func (a *App) Decide(ctx context.Context) error {
	id, err := GetInt(a.reader, "Application id", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	answer, err := getSimpleText(a.reader, "Decision (approve/reject)", os.Stdout)
	if err != nil {
		return err
	}

	var outcome models.Status
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "approve", "a":
		outcome = models.StatusApproved
	case "reject", "r":
		outcome = models.StatusRejected
	default:
		fmt.Println("Expected approve or reject.")
		return nil
	}

	var reason string
	if outcome == models.StatusRejected {
		if reason, err = getSimpleText(a.reader, "Rejection reason", os.Stdout); err != nil {
			return err
		}
	}

	app, err := a.apps.Decide(ctx, int64(id), outcome, reason)
	if err != nil {
		fmt.Println("Decision failed:", err.Error())
		return err
	}

	fmt.Printf("Application %d is now %s\n", app.ID, app.Status)
	return nil
}

// ViewDocument fetches one document through the inline view endpoint and
// prints what arrived, without saving anything.
func (a *App) ViewDocument(ctx context.Context) error {
	id, err := GetInt(a.reader, "Document id", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	content, contentType, err := a.apps.ViewDocument(ctx, int64(id))
	if err != nil {
		fmt.Println("View failed:", err.Error())
		return err
	}

	fmt.Printf("Document %d: %s, %d bytes\n", id, contentType, len(content))
	return nil
}

// DownloadDocument fetches one document by id and saves it under a
// downloads directory next to the working directory.
func (a *App) DownloadDocument(ctx context.Context) error {
	id, err := GetInt(a.reader, "Document id", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	content, contentType, err := a.apps.DownloadDocument(ctx, int64(id))
	if err != nil {
		fmt.Println("Download failed:", err.Error())
		return err
	}

	dir, err := filex.EnsureSubDir("downloads")
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	fileName := fmt.Sprintf("document-%d%s", id, filex.ExtensionFor(contentType))

	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Println("Saved to", path)
	return nil
}
