// Package gate decides whether a message attachment qualifies for relay.
package gate

import "strings"

// allowedExts are document extensions admitted regardless of MIME type.
var allowedExts = []string{".xlsx", ".xls", ".csv", ".pdf", ".docx", ".doc"}

// allowedMimePrefixes admit document-like and plain-text declared types when
// the extension check does not.
var allowedMimePrefixes = []string{"application/", "text/"}

// Admit reports whether an attachment with the given declared MIME type and
// filename should be downloaded and relayed. Either argument may be empty.
// The filename suffix is checked first; the MIME hint is only a fallback.
// If neither is usable the attachment is rejected.
func Admit(mimeType, filename string) bool {
	if filename != "" {
		lower := strings.ToLower(filename)
		for _, ext := range allowedExts {
			if strings.HasSuffix(lower, ext) {
				return true
			}
		}
	}
	if mimeType != "" {
		for _, prefix := range allowedMimePrefixes {
			if strings.HasPrefix(mimeType, prefix) {
				return true
			}
		}
	}
	return false
}
