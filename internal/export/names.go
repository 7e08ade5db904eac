package export

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/natthawutgeng05/ocr-typhoon/internal/types"
)

const artifactTimeFormat = "20060102_150405"

// Artifacts are the file names produced for one processed document.
type Artifacts struct {
	JSON  string `json:"json"`
	Excel string `json:"excel"`
	Debug string `json:"debug"`
}

// ArtifactNames derives result file names from the uploaded document name.
func ArtifactNames(document string, now time.Time) Artifacts {
	base := filepath.Base(document)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	stamp := now.Format(artifactTimeFormat)
	return Artifacts{
		JSON:  "result_" + base + "_" + stamp + ".json",
		Excel: "result_" + base + "_" + stamp + ".xlsx",
		Debug: "debug_" + base + "_" + stamp + ".json",
	}
}

// Files are the paths written by Write.
type Files struct {
	JSON  string
	Excel string
	Debug string // empty when the result carries no diagnostics
}

// Write stores the JSON and Excel artifacts in resultsDir and, for
// diagnostics runs, the debug report in debugDir.
func Write(result *types.DocumentResult, resultsDir, debugDir string, now time.Time) (Files, error) {
	names := ArtifactNames(result.Document, now)
	files := Files{
		JSON:  filepath.Join(resultsDir, names.JSON),
		Excel: filepath.Join(resultsDir, names.Excel),
	}
	if err := WriteJSON(files.JSON, result); err != nil {
		return Files{}, err
	}
	if err := WriteXLSX(files.Excel, result, now); err != nil {
		return Files{}, err
	}
	if result.Diagnostics != nil {
		files.Debug = filepath.Join(debugDir, names.Debug)
		if err := WriteDiagnostics(files.Debug, result); err != nil {
			return Files{}, err
		}
	}
	return files, nil
}
