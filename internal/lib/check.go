package lib

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// CheckConnection queries the database and prints its property names and
// types, followed by the property values of up to sample pages.
func CheckConnection(ctx context.Context, db Database, databaseID string, sample int, out io.Writer) error {
	if sample < 1 {
		sample = 1
	}

	result, err := db.QueryDatabase(ctx, databaseID, sample)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Connected to database %s\n", databaseID)

	if len(result.Results) == 0 {
		fmt.Fprintln(out, "Database has no pages yet, property names are unavailable.")
		return nil
	}
	fmt.Fprintf(out, "Properties: %s\n", strings.Join(propertySummary(result.Results[0].Properties), ", "))

	for _, page := range result.Results {
		fmt.Fprintf(out, "\nPage %s\n", page.ID)
		for _, name := range sortedNames(page.Properties) {
			value := page.Properties[name].PlainText()
			if value == "" {
				value = "N/A"
			}
			fmt.Fprintf(out, "  %s: %s\n", name, value)
		}
	}
	return nil
}
