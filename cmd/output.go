package cmd

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/KaramelBytes/edakit/internal/utils"
)

// writeCSV writes ds to path through gota; missing cells are written as NaN.
func writeCSV(path string, ds *dataset.Dataset) error {
	if err := utils.EnsureDir(path); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()
	if err := dataset.ToDataFrame(ds).WriteCSV(f); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
