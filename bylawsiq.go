// Package bylawsiq provides a document discovery and extraction pipeline for
// municipal zoning bylaws. Given the official website of a jurisdiction it
// drives the site's internal search through an ordered list of strategies,
// detects candidate document links with a layered keyword detector, resolves
// duplicates across discovery paths, expands nested pages under a strict
// budget, and acquires documents either by direct download or through a
// browser-driven sequence for the ecode360 hosting platform.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package bylawsiq
