// Package villages captures cascading administrative-division selections
// (district, taluk, hobli, village) from pasted government web pages and
// keeps a deduplicated record of every village seen.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, mongo/).
package villages
