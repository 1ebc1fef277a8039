// Package overpass provides the Overpass API client used to discover map
// features tagged as marketing businesses.
package overpass

import "fmt"

// officeFilter matches the OSM office values that identify a marketing
// business.
const officeFilter = `advertising|marketing|public_relations|company`

// serverTimeoutSeconds is the execution budget requested of the Overpass
// server inside the query itself.
const serverTimeoutSeconds = 25

// BuildAround constructs a query selecting nodes, ways, and relations within
// radiusMeters of the coordinate whose office tag matches the marketing
// filter or whose shop tag equals advertising. The caller is responsible for
// clamping the radius. "out center tags" is required because way/relation
// results report a bounding centroid rather than a point.
func BuildAround(lat, lng float64, radiusMeters int) string {
	around := fmt.Sprintf("around:%d,%v,%v", radiusMeters, lat, lng)
	return fmt.Sprintf(`[out:json][timeout:%d];
(
  node["office"~"%[2]s"](%[3]s);
  way["office"~"%[2]s"](%[3]s);
  relation["office"~"%[2]s"](%[3]s);
  node["shop"="advertising"](%[3]s);
  way["shop"="advertising"](%[3]s);
  relation["shop"="advertising"](%[3]s);
);
out center tags;`, serverTimeoutSeconds, officeFilter, around)
}

// BuildElement constructs a query fetching a single feature by type and id,
// for detail lookups on an external reference.
func BuildElement(elementType string, id int64) string {
	return fmt.Sprintf("[out:json][timeout:%d];%s(%d);out center tags;", serverTimeoutSeconds, elementType, id)
}
