// Package catalog reads and maintains the medicine catalog.
//
// Search answers the storefront search box. Blank queries never reach the
// backend and results are kept in a short-lived LRU cache keyed by the
// normalized query. A Suggester wraps Search for keystroke input: it waits
// for typing to pause, cancels requests made for older input, and never
// delivers results for a query that has since been replaced.
//
// List, Create, Update and Delete back the pharmacist dashboard. Mutations
// require a bearer token and drop cached search results.
//
// # Usage
//
//	svc := catalog.NewService(api, catalog.WithConfig(cfg))
//
//	found, err := svc.Search(ctx, "  Paracetamol ")
//
//	sg := svc.NewSuggester(func(s catalog.Suggestions) {
//		render(s.Query, s.Results)
//	})
//	defer sg.Stop()
//	sg.Type(ctx, "par")
//	sg.Type(ctx, "para") // only "para" is searched
//
// The deliver callback runs on a timer goroutine and must not call Type.
//
// # Error Handling
//
// Create and Update validate the medicine first and return
// ErrInvalidMedicine joined with one error per bad field. Update and Delete
// return ErrMissingID for an empty id. Backend failures are the
// pkg/apiclient errors, unchanged. A failed suggestion search is delivered
// in Suggestions.Err rather than dropped.
//
// # Configuration
//
//	CATALOG_CACHE_SIZE     cached queries (default 64)
//	CATALOG_CACHE_TTL      lifetime of a cached result (default 1m)
//	CATALOG_SUGGEST_DELAY  typing pause before a suggestion search (default 300ms)
package catalog
