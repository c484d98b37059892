package roster

import (
	"fmt"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
)

func readParquet(path string) ([]row, error) {
	rows, err := parquet.ReadFile[row](filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return rows, nil
}
