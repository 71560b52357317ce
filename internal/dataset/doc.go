// Package dataset holds the board game table and the wrangling operations
// that shape it: CSV load/save, list-column splitting, filtering, grouping,
// and the summary statistics the report step is built on.
package dataset
