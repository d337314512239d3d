package models

import (
	"path/filepath"
	"strings"
)

var receiptExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"pdf":  true,
}

// AllowedReceipt reports whether name carries one of the accepted receipt
// extensions. The check is case-insensitive; names without an extension fail.
func AllowedReceipt(name string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	return receiptExtensions[strings.ToLower(ext)]
}

// ValidateReceipt returns ErrInvalidReceipt when ref is set but not allowed.
// An empty ref means no receipt and is always valid.
func ValidateReceipt(ref string) error {
	if ref == "" || AllowedReceipt(ref) {
		return nil
	}
	return ErrInvalidReceipt
}
