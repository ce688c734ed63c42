// Package standardize normalizes the raw investor table into the clean,
// all-strings format the merge engine consumes: trimmed and title-cased
// names, national-format phone numbers, ISO dates, expanded addresses,
// formatted percentages, and resolved countries. Empty string always means
// "no data".
package standardize

// Static normalization rules. These are process-wide data, loaded once at
// compile time and referenced by the transforms; runtime configuration
// (column mapping, drop strategy) arrives through Options instead.

// OutputColumns is the column order of the standardized and merged tables.
var OutputColumns = []string{
	"Account ID", "First Name", "Last Name", "Email", "Country Code", "Phone Number",
	"Date of Birth", "Address Line", "Suburb", "Postcode", "City", "Country",
	"PIR %", "WHT %", "Tax Identification Number",
}

// MergeColumns are the fields consolidated by the merge engine and counted by
// its completeness score. Same as OutputColumns minus the assigned ID.
var MergeColumns = []string{
	"First Name", "Last Name", "Email", "Country Code", "Phone Number", "Date of Birth",
	"Address Line", "Suburb", "Postcode", "City", "Country",
	"PIR %", "WHT %", "Tax Identification Number",
}

// phonePrefixes are the international dialing prefixes stripped when
// normalizing to national format (AU, NZ).
var phonePrefixes = []string{"61", "64"}

// countryToCC maps a resolved country name to its dialing code.
var countryToCC = map[string]string{
	"Australia":   "61",
	"New Zealand": "64",
}

// countryAliases normalizes the many spellings and subdivisions seen in the
// source data to a canonical country name. Keys are uppercased input.
var countryAliases = map[string]string{
	"AU": "Australia", "AUS": "Australia", "AUSTRALIA": "Australia",
	"TASMANIA": "Australia",
	"NSW":      "Australia", "VIC": "Australia", "QLD": "Australia",
	"SA": "Australia", "WA": "Australia", "TAS": "Australia",
	"ACT": "Australia", "NT": "Australia",
	"NZ": "New Zealand", "NZL": "New Zealand", "NEW ZEALAND": "New Zealand",
}

// cityToCountry infers a country from a major city when the country field is
// empty. Keys are lowercased, accent-folded city names.
var cityToCountry = map[string]string{
	"sydney":     "Australia",
	"melbourne":  "Australia",
	"brisbane":   "Australia",
	"perth":      "Australia",
	"adelaide":   "Australia",
	"canberra":   "Australia",
	"gold coast": "Australia",
	"newcastle":  "Australia",
	"hobart":     "Australia",
	"darwin":     "Australia",

	"auckland":     "New Zealand",
	"wellington":   "New Zealand",
	"christchurch": "New Zealand",
	"hamilton":     "New Zealand",
	"tauranga":     "New Zealand",
	"dunedin":      "New Zealand",
}

// streetAbbrev expands common street-type abbreviations (with or without a
// trailing dot) during address standardization. Keys are lowercased.
var streetAbbrev = map[string]string{
	"st":  "Street",
	"rd":  "Road",
	"ave": "Avenue",
	"dr":  "Drive",
	"ln":  "Lane",
	"ct":  "Court",
}

// percentDecimals is the maximum number of decimals kept when formatting
// percentage values; trailing zeros are trimmed.
const percentDecimals = 2

// dateLayouts are tried in order when parsing dates. Day-first layouts come
// before month-first ones (NZ/AU convention); ISO input passes through.
var dateLayouts = []string{
	"2006-01-02",
	"2/1/2006",
	"02/01/2006",
	"2-1-2006",
	"02-01-2006",
	"2.1.2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006/01/02",
}
