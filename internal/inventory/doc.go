// Package inventory provides the book inventory engine: the record store
// contract, tolerant value coercion, spreadsheet import reconciliation,
// search, aggregation and column sorting.
//
// It has no UI or transport code. The web server, the terminal front-end and
// the bookinv command all go through [Service].
//
// # Records
//
// A [Book] is an id plus six mutable [Fields]. Ids are assigned by the
// [Store] on insert and never reused. Field values are always typed: text for
// the title, int64 for counts and float64 for money.
//
// # Import
//
// [ImportRows] maps each input row to fields through a [LabelSet] (header
// text to column), coerces the values and inserts them one at a time. A row
// that cannot be used is recorded in [ImportResult.Skipped] and the batch
// carries on:
//
//	res := svc.Import(ctx, rows)
//	fmt.Printf("%d of %d inserted\n", res.Inserted, res.Attempted)
//
// # Query and summary
//
// [Search] filters by case-insensitive substring over one column; [ColumnAll]
// means the title. [SummarizeAll] and [SummarizeFiltered] compute the figures
// shown under the table and differ only in how the average price is taken.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with a support code
// using [MapError]. The codes are listed in error_messages.go.
package inventory
