// Package pagination provides sequential offset/count paging for list endpoints
// that do not report a total count.
//
// The results API answers `count` and `offset` query parameters with at most
// `count` items. The only completion signal is a short page: as soon as a page
// holds fewer items than requested (zero included) the listing is exhausted.
// When the total is an exact multiple of the batch size this costs one extra,
// empty request.
//
// Example usage:
//
//	cfg := pagination.DefaultConfig()
//	pager := pagination.NewOffsetPager[results.AthleteRecord](fetcher, cfg)
//	records, err := pager.FetchAll(ctx)
//
// The pager:
//   - issues one request at a time, offset = items loaded so far
//   - appends every page in the order received
//   - reports progress after each page (zerolog + optional callback)
//   - stops on the first short page or the first error
package pagination
