package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/codewithboateng/metalint/internal/ir"
)

func WriteJSON(runID, outDir string, run *ir.Run) (string, error) {
	path := filepath.Join(outDir, runID+".json")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(run); err != nil {
		return "", err
	}
	return path, nil
}

// ReadJSON loads a run written by WriteJSON.
func ReadJSON(path string) (ir.Run, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ir.Run{}, fmt.Errorf("read report: %w", err)
	}
	var run ir.Run
	if err := json.Unmarshal(b, &run); err != nil {
		return ir.Run{}, fmt.Errorf("decode report %s: %w", path, err)
	}
	return run, nil
}
