package persist

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"taskboard/internal/models"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Export writes tasks to w in the given format.
func Export(w io.Writer, tasks []models.Task, format string) error {
	if tasks == nil {
		tasks = []models.Task{}
	}

	switch format {
	case FormatJSON, "":
		raw, err := sonic.ConfigStd.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode tasks: %w", err)
		}
		raw = append(raw, '\n')
		_, err = w.Write(raw)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return fmt.Errorf("failed to encode tasks: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
