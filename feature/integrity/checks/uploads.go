package checks

import (
	"fmt"
	"os"
)

// UploadsReport is the result of an upload directory check.
type UploadsReport struct {
	Path     string `json:"path"`
	Exists   bool   `json:"exists"`
	Writable bool   `json:"writable"`
	Status   string `json:"status"` // "ok", "error"
	Error    string `json:"error,omitempty"`
}

// CheckUploads verifies that the upload directory exists and accepts new
// files, which revert needs to restore downloads.
func CheckUploads(dir string) (*UploadsReport, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is not configured")
	}
	report := &UploadsReport{Path: dir, Status: "error"}

	info, err := os.Stat(dir)
	if err != nil {
		report.Error = err.Error()
		return report, nil
	}
	if !info.IsDir() {
		report.Error = "not a directory"
		return report, nil
	}
	report.Exists = true

	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		report.Error = fmt.Sprintf("not writable: %v", err)
		return report, nil
	}
	f.Close()
	_ = os.Remove(f.Name())

	report.Writable = true
	report.Status = "ok"
	return report, nil
}
