// Package ledger loads raw sales ledgers into cleaning tables and stores
// cleaned ledgers back to disk.
//
// Ledgers are semicolon separated UTF-8 text, optionally prefixed with a
// byte order mark, or Excel workbooks whose first sheet holds a header row.
// Every source cell is read as text; an empty cell becomes the missing
// marker. Failures are reported as STORAGE errors when the source cannot be
// opened and PARSING errors when its content cannot be read.
package ledger
