package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/sitescout/sitescout/internal/types"
)

// ExportJSON writes the crawled pages as an indented JSON array.
func ExportJSON(pages []types.CrawledPage, outputFile string) error {
	data, err := json.MarshalIndent(pages, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}

// ExportCSV writes one row per crawled page.
func ExportCSV(pages []types.CrawledPage, outputFile string) error {
	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{"URL", "Title", "StatusCode", "Depth", "LoadTimeMs", "WordCount"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, page := range pages {
		record := []string{
			page.URL,
			page.Title,
			strconv.Itoa(page.StatusCode),
			strconv.Itoa(page.Depth),
			strconv.FormatInt(page.LoadTimeMs, 10),
			strconv.Itoa(page.WordCount),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	return nil
}
