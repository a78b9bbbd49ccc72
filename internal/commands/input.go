package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleared-dev/releve/internal/importer"
	"github.com/cleared-dev/releve/internal/model"
)

// inputKind resolves the --kind flag, falling back to the file extension.
func inputKind(name, flag string) (model.InputKind, error) {
	switch flag {
	case "":
		return importer.KindFor(name), nil
	case string(model.KindTabular), string(model.KindDocument):
		return model.InputKind(flag), nil
	default:
		return "", fmt.Errorf("unknown kind %q (want tabular or document)", flag)
	}
}

func readInput(path string, kind model.InputKind) (model.RawInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.RawInput{}, fmt.Errorf("reading statement: %w", err)
	}
	return model.RawInput{Name: filepath.Base(path), Kind: kind, Data: data}, nil
}
