// Package validation checks ledger inputs and report outputs before a
// command touches them.
package validation

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "salesinsight/internal/errors"
)

// LedgerExtensions lists the file extensions the ledger reader accepts
var LedgerExtensions = []string{".csv", ".txt", ".xlsx"}

// FileValidator validates ledger files and output directories
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateLedgerFile checks that path is a readable, non-empty ledger with a
// supported extension. A missing or unreadable file is a STORAGE error; a
// directory, an empty file or an unsupported extension is a VALIDATION error.
func (v *FileValidator) ValidateLedgerFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		v.logger.Error("Ledger does not exist", slog.String("file", path))
		return apperrors.NewStorageError("ledger file does not exist", err).WithContext("path", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat ledger",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("cannot stat ledger file", err).WithContext("path", path)
	}
	if info.IsDir() {
		return apperrors.NewAppValidationError("ledger path is a directory").WithContext("path", path)
	}
	if info.Size() == 0 {
		return apperrors.NewAppValidationError("ledger file is empty").WithContext("path", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !supported(ext) {
		v.logger.Error("Unsupported ledger format",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewAppValidationError("unsupported ledger format "+ext).
			WithContext("path", path).
			WithContext("supported", LedgerExtensions)
	}
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return apperrors.NewAppValidationError("ledger is a temporary Excel lock file").WithContext("path", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return apperrors.NewStorageError("ledger file is not readable", err).WithContext("path", path)
	}
	file.Close()

	v.logger.Debug("Ledger validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures dir exists or can be created and is
// writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("cannot create output directory", err).WithContext("dir", dir)
	}

	tmp, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("output directory is not writable", err).WithContext("dir", dir)
	}
	tmp.Close()
	os.Remove(tmp.Name())

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}

func supported(ext string) bool {
	for _, e := range LedgerExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
