package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const accountsFile = "accounts.json"

// WriteDataset persists the dataset under dir as accounts.json.
func WriteDataset(dataset Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}

	encoded, err := json.MarshalIndent(dataset.Accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}

	path := filepath.Join(dir, accountsFile)
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
