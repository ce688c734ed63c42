package standardize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"registry/pkg/records"
)

// Options carries the runtime configuration for a standardization run,
// constructed at program start and passed in explicitly.
type Options struct {
	// ColumnMap renames raw headers to standardized names. Keys are
	// canonicalized raw headers (see CanonColumn); unmapped columns keep
	// their trimmed original name.
	ColumnMap map[string]string

	// DropLastRow removes the final data row before standardizing. Source
	// sheets sometimes carry a totals row.
	DropLastRow bool
}

var (
	spaceRE  = regexp.MustCompile(`\s+`)
	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	poBoxRE  = regexp.MustCompile(`(?i)\bP\.?\s*O\.?\s*BOX\b`)

	titleCaser = cases.Title(language.English)

	// accentFold strips diacritics so "Zürich" matches the plain-ASCII city
	// table: decompose, drop non-spacing marks, recompose.
	accentFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Clean trims, collapses internal whitespace, and optionally title-cases each
// word. Blank input collapses to "".
func Clean(s string, title bool) string {
	s = spaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
	if s == "" {
		return ""
	}
	if title {
		return titleCaser.String(strings.ToLower(s))
	}
	return s
}

// CanonColumn canonicalizes a raw header for column-map lookup: lowercase,
// punctuation to spaces, collapsed whitespace.
func CanonColumn(c string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(strings.TrimSpace(c)), " ")
	return strings.TrimSpace(spaceRE.ReplaceAllString(s, " "))
}

// Digits strips every non-digit rune. Used for phone numbers and tax
// identifiers.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DateISO parses a date (day-first preference) and returns YYYY-MM-DD, or ""
// when the value cannot be parsed.
func DateISO(s string) string {
	s = Clean(s, false)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// Phone normalizes a phone number to national format: digits only, the 61/64
// country prefix stripped, and a leading trunk zero removed from long
// numbers.
func Phone(s string) string {
	p := Digits(s)
	for _, pref := range phonePrefixes {
		if strings.HasPrefix(p, pref) {
			p = p[len(pref):]
			break
		}
	}
	if strings.HasPrefix(p, "0") && len(p) >= 9 {
		p = p[1:]
	}
	return p
}

// Percent normalizes percentage values. Accepts "0.175", "17.5%", "17.50";
// fractions in [0, 1] are scaled to percent; output is trimmed of trailing
// zeros and suffixed with "%". Unparseable input yields "".
func Percent(s string) string {
	s = strings.ReplaceAll(strings.ReplaceAll(Clean(s, false), " ", ""), "%", "")
	if s == "" {
		return ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return ""
	}
	if v >= 0 && v <= 1 {
		v *= 100
	}
	out := strconv.FormatFloat(v, 'f', percentDecimals, 64)
	out = strings.TrimRight(strings.TrimRight(out, "0"), ".")
	return out + "%"
}

// Country resolves a country name. An explicit value is mapped through the
// alias table (falling back to title-casing it as-is); an empty value is
// inferred from the city.
func Country(countryVal, cityVal string) string {
	c := Clean(countryVal, false)
	if c != "" {
		if m, ok := countryAliases[strings.ToUpper(c)]; ok {
			return m
		}
		return Clean(c, true)
	}
	return cityToCountry[foldLower(Clean(cityVal, false))]
}

// CountryCode returns the dialing code for a resolved country, or "".
func CountryCode(country string) string { return countryToCC[Clean(country, false)] }

// Address standardizes an address line: PO BOX normalization, street
// abbreviation expansion, and title-casing of words without digits (unit and
// street numbers keep their shape).
func Address(s string) string {
	t := Clean(s, false)
	if t == "" {
		return ""
	}
	words := strings.Fields(t)
	for i, w := range words {
		bare := strings.TrimSuffix(w, ".")
		if full, ok := streetAbbrev[strings.ToLower(bare)]; ok {
			words[i] = full
			continue
		}
		if !strings.ContainsFunc(w, unicode.IsDigit) {
			words[i] = titleCaser.String(strings.ToLower(w))
		}
	}
	// PO BOX last: the title pass above would otherwise downcase it.
	return poBoxRE.ReplaceAllString(strings.Join(words, " "), "PO BOX")
}

// foldLower lowercases and accent-folds a value for table lookups.
func foldLower(s string) string {
	folded, _, err := transform.String(accentFold, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// RenameColumns maps raw headers to standardized names using the configured
// column map. Unmapped headers keep their trimmed original form.
func RenameColumns(t *records.Table, colMap map[string]string) *records.Table {
	rename := make(map[string]string, len(t.Columns))
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		name := strings.TrimSpace(c)
		if mapped, ok := colMap[CanonColumn(c)]; ok {
			name = mapped
		}
		rename[c] = name
		cols[i] = name
	}
	out := records.NewTable(cols...)
	for _, row := range t.Rows {
		rec := make(records.Record, len(row))
		for k, v := range row {
			key := k
			if mapped, ok := rename[k]; ok {
				key = mapped
			}
			rec[key] = v
		}
		out.Append(rec)
	}
	return out
}

// Apply produces the standardized investors table from the renamed raw table.
// Every field accessor tolerates absent columns by synthesizing empty values,
// and malformed values normalize to "" rather than erroring.
func Apply(raw *records.Table, opt Options) *records.Table {
	raw = RenameColumns(raw, opt.ColumnMap)

	n := raw.Len()
	if opt.DropLastRow && n > 0 {
		n--
	}

	out := records.NewTable(OutputColumns...)
	for i := 0; i < n; i++ {
		city := Clean(raw.Get(i, "City"), true)
		country := Country(raw.Get(i, "Country"), city)

		out.Append(records.Record{
			"Account ID":                "",
			"First Name":                Clean(raw.Get(i, "First Name"), true),
			"Last Name":                 Clean(raw.Get(i, "Last Name"), true),
			"Email":                     strings.ToLower(Clean(raw.Get(i, "Email"), false)),
			"Country Code":              CountryCode(country),
			"Phone Number":              Phone(raw.Get(i, "Phone Number")),
			"Date of Birth":             DateISO(raw.Get(i, "Date of Birth")),
			"Address Line":              Address(raw.Get(i, "Address Line")),
			"Suburb":                    Clean(raw.Get(i, "Suburb"), false),
			"Postcode":                  Clean(raw.Get(i, "Postcode"), false),
			"City":                      city,
			"Country":                   country,
			"PIR %":                     Percent(raw.Get(i, "PIR %")),
			"WHT %":                     Percent(raw.Get(i, "WHT %")),
			"Tax Identification Number": Digits(raw.Get(i, "Tax Identification Number")),
		})
	}
	return out
}
