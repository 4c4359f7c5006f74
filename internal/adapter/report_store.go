package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "jsdelta.dev/pkg/jsdelta/internal/model"
)

// ReportFileName is the name of the run summary written next to the results.
const ReportFileName = "report.yaml"

// ReportStore persists run summaries.
type ReportStore interface {
	SaveReport(dir m.Path, report m.Report) (m.Path, error)
	LoadReport(dir m.Path) (m.Report, error)
}

// YAMLReportStore stores reports as YAML documents.
type YAMLReportStore struct{}

// NewReportStore constructs a YAMLReportStore.
func NewReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// SaveReport writes report.yaml into dir and returns its path.
func (s *YAMLReportStore) SaveReport(dir m.Path, report m.Report) (m.Path, error) {
	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(string(dir), ReportFileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	return m.Path(path), nil
}

// LoadReport reads report.yaml from dir.
func (s *YAMLReportStore) LoadReport(dir m.Path) (m.Report, error) {
	var report m.Report

	// #nosec G304 - dir is a scratch directory created by this tool
	data, err := os.ReadFile(filepath.Join(string(dir), ReportFileName))
	if err != nil {
		return report, fmt.Errorf("read report: %w", err)
	}

	if err := yaml.Unmarshal(data, &report); err != nil {
		return report, fmt.Errorf("unmarshal report: %w", err)
	}

	return report, nil
}
