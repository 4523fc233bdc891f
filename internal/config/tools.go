package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/big-mon/app-hub/internal/domain"
)

// LoadTools reads the tool list. Only the top-level shape is checked here;
// per-tool problems surface when each tool is processed.
func LoadTools(path string) ([]domain.Tool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.WrapConfigError(fmt.Sprintf("config load failed (%s)", path), err)
	}
	return ParseTools(data)
}

// ParseTools decodes a JSON tool list.
func ParseTools(data []byte) ([]domain.Tool, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, domain.WrapConfigError("config parse failed", fmt.Errorf("invalid JSON"))
		}
		return nil, domain.NewConfigError("", "tools.json must be an array")
	}

	var tools []domain.Tool
	if err := json.Unmarshal(trimmed, &tools); err != nil {
		return nil, domain.WrapConfigError("config parse failed", err)
	}
	if tools == nil {
		tools = []domain.Tool{}
	}
	return tools, nil
}
