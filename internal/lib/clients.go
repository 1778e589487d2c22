//go:generate go run github.com/golang/mock/mockgen -source=${GOFILE} -destination=zz_generated_local_mocks_test.go -package=lib Database,ImageHost

package lib

import (
	"context"

	"github.com/ccfrost/camnotion/internal/notion"
)

// Database defines the Notion operations camnotion uses.
// *notion.Client implements it.
type Database interface {
	QueryDatabase(ctx context.Context, databaseID string, pageSize int) (*notion.QueryResult, error)
	CreatePage(ctx context.Context, databaseID string, props notion.Properties) (*notion.Page, error)
}

// ImageHost publishes an image file and returns its public URL.
// *imgbb.Client implements it.
type ImageHost interface {
	Upload(ctx context.Context, path string) (string, error)
}
