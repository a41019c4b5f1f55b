package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/certapply/certapply/internal/client/models"
	"github.com/certapply/certapply/internal/client/services"
	"github.com/certapply/certapply/internal/common"
	"github.com/certapply/certapply/internal/filex"
)

// Apply prompts for the application fields and supporting documents, then
// submits. Submission is refused client-side when an application already
// exists; the server enforces the same rule.
func (a *App) Apply(ctx context.Context) error {
	p := a.sess.Current()

	var fields models.Fields
	var err error

	if fields.FullName, err = getSimpleText(a.reader, "Full name", os.Stdout); err != nil {
		return err
	}
	if fields.PhoneNumber, err = getSimpleText(a.reader, "Phone number", os.Stdout); err != nil {
		return err
	}
	if fields.Address, err = getSimpleText(a.reader, "Address", os.Stdout); err != nil {
		return err
	}
	if fields.ExperienceYears, err = GetInt(a.reader, "Years of experience", os.Stdout); err != nil {
		fmt.Println(err.Error())
		return err
	}
	if fields.Program, err = getSimpleText(a.reader, "Certification program", os.Stdout); err != nil {
		return err
	}

	uploads, err := a.collectUploads()
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	app, err := a.apps.Submit(ctx, p.ID, fields, uploads)
	if err != nil {
		if app != nil {
			// submitted but the documents did not make it
			fmt.Printf("Application %d submitted, but uploading documents failed: %s\n", app.ID, err.Error())
			return err
		}
		fmt.Println("Submit failed:", err.Error())
		return err
	}

	fmt.Printf("Application %d submitted, status %s\n", app.ID, app.Status)
	return nil
}

// collectUploads reads document paths until an empty line and validates
// each file before anything goes on the wire.
func (a *App) collectUploads() ([]models.Upload, error) {
	var uploads []models.Upload
	for {
		path, err := getSimpleText(a.reader, "Document path (empty line to finish)", os.Stdout)
		if err != nil {
			return nil, err
		}
		if path == "" {
			return uploads, nil
		}

		info, err := filex.Describe(path)
		if err != nil {
			return nil, err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		up := models.Upload{
			FileName:  info.Name,
			MimeType:  info.MimeType,
			SizeBytes: info.SizeBytes,
			Content:   content,
		}
		if err := up.Validate(); err != nil {
			return nil, err
		}
		uploads = append(uploads, up)
	}
}

// ShowStatus prints the current status of the applicant's application and,
// once one exists, its details.
func (a *App) ShowStatus(ctx context.Context) error {
	p := a.sess.Current()

	status, err := a.apps.CurrentStatus(ctx, p.ID)
	if err != nil {
		fmt.Println("Status check failed:", err.Error())
		return err
	}

	fmt.Println("Status:", status)
	if status == models.StatusNotSubmitted {
		return nil
	}

	app, err := a.apps.ByOwner(ctx, p.ID)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	printApplication(app)
	return nil
}

// EditApplication re-prompts the editable fields; an empty answer keeps the
// stored value. Editing is rejected once the application is decided.
func (a *App) EditApplication(ctx context.Context) error {
	p := a.sess.Current()

	app, err := a.apps.ByOwner(ctx, p.ID)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	if !app.Status.Editable() {
		fmt.Printf("Application is %s and can no longer be edited.\n", app.Status)
		return common.ErrForbidden
	}

	fmt.Println("Leave a field empty to keep the current value.")
	var patch services.FieldsPatch

	if v, err := getSimpleText(a.reader, fmt.Sprintf("Full name [%s]", app.FullName), os.Stdout); err != nil {
		return err
	} else if v != "" {
		patch.FullName = &v
	}
	if v, err := getSimpleText(a.reader, fmt.Sprintf("Phone number [%s]", app.PhoneNumber), os.Stdout); err != nil {
		return err
	} else if v != "" {
		patch.PhoneNumber = &v
	}
	if v, err := getSimpleText(a.reader, fmt.Sprintf("Address [%s]", app.Address), os.Stdout); err != nil {
		return err
	} else if v != "" {
		patch.Address = &v
	}
	if v, err := getSimpleText(a.reader, fmt.Sprintf("Years of experience [%d]", app.ExperienceYears), os.Stdout); err != nil {
		return err
	} else if v != "" {
		n, convErr := parseIntField(v)
		if convErr != nil {
			fmt.Println(convErr.Error())
			return convErr
		}
		patch.ExperienceYears = &n
	}
	if v, err := getSimpleText(a.reader, fmt.Sprintf("Certification program [%s]", app.Program), os.Stdout); err != nil {
		return err
	} else if v != "" {
		patch.Program = &v
	}

	updated, err := a.apps.EditFields(ctx, app.ID, patch)
	if err != nil {
		fmt.Println("Update failed:", err.Error())
		return err
	}

	fmt.Println("Application updated.")
	printApplication(updated)
	return nil
}

func printApplication(app *models.Application) {
	fmt.Printf("Application %d: %s\n", app.ID, app.Status)
	fmt.Printf("  %s, %s, %s\n", app.FullName, app.PhoneNumber, app.Address)
	fmt.Printf("  Program: %s, experience: %d years\n", app.Program, app.ExperienceYears)
	if app.RejectionReason != "" {
		fmt.Println("  Rejection reason:", app.RejectionReason)
	}
	if len(app.Documents) > 0 {
		names := make([]string, 0, len(app.Documents))
		for _, d := range app.Documents {
			names = append(names, fmt.Sprintf("%s (id %d)", d.FileName, d.ID))
		}
		fmt.Println("  Documents:", strings.Join(names, ", "))
	}
}
