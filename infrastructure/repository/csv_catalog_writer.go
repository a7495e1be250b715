package repository

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ca-srg/tzconv/domain"
	"github.com/ca-srg/tzconv/domain/entity"
)

var csvCatalogHeader = []string{"id", "abbreviation", "name", "gmt_offset", "timezone"}

// WriteCSVCatalog writes entries as a spreadsheet-friendly CSV file
func WriteCSVCatalog(path string, entries []*entity.TimezoneEntry) (err error) {
	if err := validateCSVOutputPath(path); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return domain.ErrFileOperationWithCause("create directory", dir, err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return domain.ErrFileOperationWithCause("create file", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = domain.ErrFileOperationWithCause("close file", path, closeErr)
		}
	}()

	// UTF-8 BOM so spreadsheet apps detect the encoding
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return domain.ErrFileOperationWithCause("write BOM", path, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(csvCatalogHeader); err != nil {
		return domain.ErrFileOperationWithCause("write header", path, err)
	}

	for _, record := range recordsFromEntries(entries) {
		row := []string{
			record.ID,
			sanitizeCSVField(record.Abbreviation),
			sanitizeCSVField(record.Name),
			strconv.FormatFloat(record.GMTOffset, 'f', -1, 64),
			sanitizeCSVField(record.Timezone),
		}
		if err := writer.Write(row); err != nil {
			return domain.ErrFileOperationWithCause("write record "+record.Abbreviation, path, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return domain.ErrFileOperationWithCause("flush", path, err)
	}
	return nil
}

// validateCSVOutputPath rejects traversal, system directories and hidden files
func validateCSVOutputPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return domain.ErrFileOperation("validate path", path, "path traversal is not allowed")
	}

	if filepath.IsAbs(cleanPath) && !strings.HasPrefix(cleanPath, os.TempDir()) &&
		!strings.HasPrefix(cleanPath, "/tmp/") && !strings.HasPrefix(cleanPath, "/var/folders/") {
		for _, dir := range []string{"/etc", "/usr", "/bin", "/sbin", "/var", "/proc", "/sys", "/dev", "/root"} {
			if cleanPath == dir || strings.HasPrefix(cleanPath, dir+"/") {
				return domain.ErrFileOperation("validate path", path, "cannot write to system directory")
			}
		}
	}

	base := filepath.Base(cleanPath)
	if strings.HasPrefix(base, ".") && base != "." {
		return domain.ErrFileOperation("validate path", path, "cannot write to hidden files")
	}

	if filepath.Ext(cleanPath) != ".csv" {
		return domain.ErrInvalidInput("path", "file must have .csv extension")
	}
	return nil
}

// sanitizeCSVField prefixes values a spreadsheet would evaluate as a formula
func sanitizeCSVField(field string) string {
	for _, char := range []string{"=", "+", "-", "@", "\t", "\r", "|"} {
		if strings.HasPrefix(field, char) {
			return "'" + field
		}
	}

	fieldUpper := strings.ToUpper(field)
	for _, pattern := range []string{"=CMD", "=DDE", "@SUM", "IMPORTXML", "WEBSERVICE"} {
		if strings.Contains(fieldUpper, pattern) {
			return "'" + field
		}
	}
	return field
}
