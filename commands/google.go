package commands

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/drive/v3"

	"github.com/leasehub/hubspot-app-sheets/workflow"
)

type version struct {
	revision string
	modified time.Time
}

// revisions returns a workflow.Revision that identifies the latest revision of the spreadsheet.
func revisions(gdrive *drive.Service, fileID string) workflow.Revision {
	return func(ctx context.Context) (string, error) {
		v, err := getVersion(ctx, gdrive, fileID)
		if err != nil {
			return "", err
		}

		return v.revision, nil
	}
}

func getVersion(ctx context.Context, gdrive *drive.Service, fileID string) (*version, error) {
	page := ""
	latest := version{}

	for {
		call := gdrive.Revisions.List(fileID).Fields("nextPageToken", "revisions(id,modifiedTime)").Context(ctx)
		if page != "" {
			call.PageToken(page)
		}

		revisions, err := call.Do()
		if err != nil {
			return nil, err
		}

		for _, revision := range revisions.Revisions {
			datetime, err := time.Parse(time.RFC3339Nano, revision.ModifiedTime)
			if err != nil {
				return nil, err
			}

			if latest.modified.Before(datetime) {
				latest.revision = revision.Id
				latest.modified = datetime
			}
		}

		if page = revisions.NextPageToken; page == "" {
			break
		}
	}

	if latest.modified.IsZero() {
		return nil, fmt.Errorf("unable to identify latest revision for file ID %s", fileID)
	}

	return &latest, nil
}
