// Package docpager provides page/offset pagination over document stores and
// SQL models, producing a mongoose-paginate style result envelope.
//
// Overview
//
// A Model wraps an executor and exposes two operations:
//   - PaginateQuery: filtered find plus a concurrent count of the same filter.
//   - PaginateAggregate: an aggregation pipeline extended with page stages,
//     plus a concurrent count of the unrestricted pipeline.
//
// Executors live in subpackages:
//   - mongoexec: MongoDB collections (find, countDocuments, aggregate).
//   - gormexec: GORM models (find and count only).
//
// Key concepts
//   - Options: call options layered over the global Settings and built-in
//     defaults (page 1, limit 10). A limit below 1 disables pagination.
//   - Result: the envelope with docs, totals and page navigation. Output keys
//     are renamed or removed per field through Labels.
//   - RawPager and Config: API payload and file/env representations of
//     Options.
package docpager
