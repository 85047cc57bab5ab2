// Package db contains the snapshot store of goclock.
//
// A snapshot is a named copy of both players' clocks: the time settings in
// effect, the color to move and per color the values the clock reports
// (time left, moves or chances left, overtime and loss flags). Restoring a
// snapshot goes through the clock's SetTimeLeft override, so the store never
// sees clock internals.
//
// Schema
//   - clock_snapshots holds one row per snapshot with the flattened settings.
//   - clock_records holds exactly two rows per snapshot, one per color.
//   - Migrations are embedded per dialect under migrations/<type>/ and
//     applied in file name order by RunMigrations.
//
// Archives
//   - ExportSnapshots and ImportSnapshots move snapshots between databases
//     as zstd-compressed JSON. Import skips names that already exist.
//
// Testing notes
//   - Use an in-memory SQLite DSN such as
//     "file:<test name>?mode=memory&cache=shared" for real DB semantics.
package db
