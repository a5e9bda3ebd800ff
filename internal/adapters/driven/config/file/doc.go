// Package file loads section configuration from TOML files.
//
// A sections file lists the linked tables appended to every parent document:
//
//	[[section]]
//	name = "Commissions"
//	table_id = "24babcb1-dcc4-80e2-b39b-d73f39623ff6"
//	relation_property = "Carrier"
//	columns = ["Line of Business", "New Business", "Renewal"]
//	percent_columns = ["New Business", "Renewal"]
//
//	[[section.sort]]
//	property = "Line of Business"
//	direction = "ascending"
//
//	[section.filter]
//	property = "Status"
//	kind = "select"
//	value = "Active"
//
// Sections are appended in file order. When no file is configured the
// built-in DefaultSections are used.
package file
