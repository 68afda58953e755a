// =============================================================================
// Workshop Receipts - File and Folder Naming
// =============================================================================
//
// This module derives receipt file names and folder paths from a
// transaction. All names are deterministic: the same transaction, workshop
// and digital flag always give the same name.
//
// FILE NAME:
//   <students>_<workshop>_<MMYY>[_Digital]_<receipt number>.pdf
//
// FOLDERS:
//   <receipts root>/<year>/<Month>/<workshop folder>/
//
// =============================================================================

package naming

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ginjaninja78/workshop-receipts/internal/locale"
	"github.com/ginjaninja78/workshop-receipts/internal/types"
)

var (
	disallowedChars = regexp.MustCompile(`[^a-zA-Z0-9\s_-]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	underscoreRuns  = regexp.MustCompile(`_+`)
)

// workshopPrefixes are stripped from workshop names, first match only.
var workshopPrefixes = []string{"Taller de ", "Talleres ", "Taller "}

// =============================================================================
// SANITIZER
// =============================================================================

// FoldAccents removes combining marks after canonical decomposition, so
// "Cerámica" becomes "Ceramica".
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// SanitizeSegment makes text safe for a file or folder name.
//
// Accents are folded, characters outside [A-Za-z0-9 _-] become "_",
// whitespace runs become "_", "_" runs collapse and leading or trailing
// "_" are trimmed.
func SanitizeSegment(text string) string {
	if text == "" {
		return ""
	}
	s := FoldAccents(text)
	s = disallowedChars.ReplaceAllString(s, "_")
	s = whitespaceRuns.ReplaceAllString(s, "_")
	s = underscoreRuns.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// =============================================================================
// STUDENT NAMES
// =============================================================================

// ParseStudentName splits a full name. "Last, First" is split at the first
// comma; otherwise the first word is the first name and the rest is the
// last name.
func ParseStudentName(fullName string) (first, last string) {
	name := strings.TrimSpace(fullName)
	if before, after, found := strings.Cut(name, ","); found {
		return strings.TrimSpace(after), strings.TrimSpace(before)
	}
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// studentPart builds the file-name fragment of one student:
// first-name prefix, dash, surname ("MAR-GARCIA").
func studentPart(fullName string) string {
	first, last := ParseStudentName(fullName)
	switch {
	case first != "" && last != "":
		return SanitizeSegment(strings.ToUpper(prefix(first, 3))) + "-" +
			SanitizeSegment(removeSpaces(strings.ToUpper(last)))
	case first != "":
		return SanitizeSegment(strings.ToUpper(prefix(first, 3)))
	case last != "":
		return SanitizeSegment(removeSpaces(strings.ToUpper(prefix(last, 3))))
	}
	return "Alumno"
}

// =============================================================================
// WORKSHOP NAMES
// =============================================================================

// stripWorkshopPrefix removes the first matching generic prefix,
// ignoring case.
func stripWorkshopPrefix(name string) string {
	for _, p := range workshopPrefixes {
		if len(name) >= len(p) && strings.EqualFold(name[:len(p)], p) {
			return name[len(p):]
		}
	}
	return name
}

// workshopShort keeps the first two words of the stripped workshop name.
func workshopShort(name string) string {
	parts := strings.Split(stripWorkshopPrefix(name), " ")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, " ")
}

// DeriveFolderName gives the per-workshop folder: up to three words of the
// stripped name, sanitized. A "..." marker is added before sanitizing when
// words were dropped.
func DeriveFolderName(workshopName string) string {
	parts := strings.Split(stripWorkshopPrefix(workshopName), " ")
	folder := strings.Join(parts[:min(3, len(parts))], " ")
	if len(parts) > 3 {
		folder += "..."
	}
	return SanitizeSegment(folder)
}

// =============================================================================
// RECEIPT FILE NAME
// =============================================================================

// DeriveFilename builds the receipt PDF name.
//
// PARAMETERS:
//   - tx: The transaction. Students, Date and ReceiptNumber are used.
//   - workshop: The resolved workshop, or nil for the generic "Taller".
//   - digital: Adds the "_Digital" suffix for the copy-less version.
//
// RETURNS:
//   - e.g. "MAR-GARCIA_Pintura_0324_RE-12345678.pdf"
func DeriveFilename(tx types.ReceiptTransaction, workshop *types.Workshop, digital bool) string {
	var parts []string
	for _, name := range tx.Students {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if part := studentPart(name); part != "" {
			parts = append(parts, part)
		}
	}
	students := "Alumnos"
	if len(parts) > 0 {
		students = strings.Join(parts, "_")
	}

	workshopPart := "Taller"
	if workshop != nil {
		workshopPart = workshopShort(workshop.Name)
	}

	suffix := ""
	if digital {
		suffix = "_Digital"
	}

	return fmt.Sprintf("%s_%s_%s%s_%s.pdf",
		students,
		SanitizeSegment(workshopPart),
		monthYear(tx.Date),
		suffix,
		tx.ReceiptNumber)
}

// ReceiptFolder returns the folder segments for a receipt:
// root, year, capitalized month, workshop folder.
func ReceiptFolder(root string, date time.Time, workshopName string) []string {
	return []string{
		root,
		fmt.Sprintf("%d", date.Year()),
		locale.MonthFolder(date),
		DeriveFolderName(workshopName),
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// monthYear renders the MMYY fragment.
func monthYear(t time.Time) string {
	return fmt.Sprintf("%02d%02d", int(t.Month()), t.Year()%100)
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

func removeSpaces(s string) string {
	return whitespaceRuns.ReplaceAllString(s, "")
}
