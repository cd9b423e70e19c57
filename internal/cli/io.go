package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formrules/pkg/definition"
	"github.com/goliatone/go-formrules/pkg/model"
)

func readForm(path string) (definition.Form, error) {
	if strings.TrimSpace(path) == "" {
		return definition.Form{}, fmt.Errorf("--form is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return definition.Form{}, fmt.Errorf("read form: %w", err)
	}
	return definition.Parse(data, path)
}

// readData loads a JSON or YAML object of field values. An empty path yields
// empty data; "-" reads stdin.
func readData(path string, stdin io.Reader) (model.FormData, error) {
	var (
		payload []byte
		err     error
	)
	switch path {
	case "":
		return model.FormData{}, nil
	case "-":
		payload, err = io.ReadAll(stdin)
	default:
		payload, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	if strings.TrimSpace(string(payload)) == "" {
		return model.FormData{}, nil
	}

	var values map[string]any
	if err := json.Unmarshal(payload, &values); err != nil {
		values = nil
		if err := yaml.Unmarshal(payload, &values); err != nil {
			return nil, fmt.Errorf("read data: %s is not a JSON or YAML object", path)
		}
	}
	return model.FormData(values), nil
}

func writeJSON(w io.Writer, payload any) error {
	out, err := jsonBytes(payload)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// writeOutput writes payload to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, payload []byte) error {
	if path == "" {
		_, err := w.Write(payload)
		return err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func jsonBytes(payload any) ([]byte, error) {
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
