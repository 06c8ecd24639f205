// Package records turns feed entries into typed release, theme, news,
// donation and project summary records.
//
// All knowledge of the upstream text layout lives here: title tokens, the
// "Includes files:" listing inside release summaries, the size and download
// counters of each file and the project summary sentences. The patterns are
// fragile by nature, so they are kept behind [Parser] and tested on their own.
//
// Error policy:
//
//   - A file token that does not carry a byte size and download count, an
//     entry without a file listing, or a theme whose support tier has no CSS
//     class fails the whole feed with a PARSE_ERROR.
//   - A missing checksum or missing theme metadata is logged as a warning and
//     replaced by a default ("N/A", the raw short name).
//   - Entries of other products are skipped without error.
package records
