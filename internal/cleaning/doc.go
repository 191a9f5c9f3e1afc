// Package cleaning turns a raw sales ledger into the canonical dataset.
//
// The raw side is a Table of tagged cells. Each step is a standalone function
// that takes a Table and returns a new one, and none of them assumes another
// step ran before it:
//
//	Deduplicate       drop rows fully equal to an earlier row
//	ImputeMissing     fill product, quantity and price with their defaults
//	CoerceTypes       parse dates, prices, quantities and revenue
//	FilterOutliers    drop rows priced above the ceiling
//	NormalizeColumns  trim column names
//
// Malformed values never fail a step; they degrade to the missing or
// unknown-date marker. Pipeline runs the steps in order and finishes with
// Canonicalize, the only way from a Table to a domain.Dataset.
package cleaning
