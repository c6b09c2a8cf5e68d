// Package discovery is the listing discovery and map synchronization engine
// for the local-services marketplace: it reduces a raw collection of
// geotagged listings to a relevance-ordered result set under several
// simultaneous filter dimensions, resolves a displayable price from a
// variable-shaped service catalog, and keeps an interactive map and a
// scrollable list in lockstep as the user selects, navigates, and closes
// items.
//
// The Engine drives any map library satisfying the MapSurface port. All
// engine operations are synchronous and must be invoked from a single
// goroutine (the UI event loop); filtering is pure and cheap enough to
// re-run on every keystroke, so debouncing, if any, belongs to the host.
package discovery
