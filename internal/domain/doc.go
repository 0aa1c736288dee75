// Package domain models the USGS earthquake feed and the PB2002 tectonic
// plate boundaries as they are drawn on the web map.
//
// # Data Sources
//
// Earthquakes come from the USGS real-time GeoJSON summary feed
// (all_week.geojson), regenerated by USGS every minute. Plate boundaries come
// from Peter Bird's PB2002 model as republished by the fraxen/tectonicplates
// repository.
//
// # USGS Feed Conventions
//
// Coordinates:
//
//	[longitude, latitude, depth] in decimal degrees and kilometres.
//	Depth is hypocentral depth below sea level and may be slightly negative
//	for events above sea level. Nothing special-cases negative depth.
//
// Magnitude:
//
//	properties.mag is a float and may be null for events that have not been
//	reviewed yet. A null or missing magnitude decodes as NaN.
//
// Missing values:
//
//	Short coordinate arrays decode the missing slots as NaN. NaN flows through
//	the style functions unchanged: the radius becomes NaN and the color falls
//	through to the deepest bucket ("green"). Markers are never rejected.
//
// # Style Policy
//
// Depth buckets are half-open on the lower side and contiguous:
//
//	(-inf, 10] red | (10, 25] orange | (25, 40] yellow
//	(40, 55] pink  | (55, 70] blue   | (70, +inf) green
//
// The same table drives [ChooseColor] and [BuildLegend], so the legend text
// cannot drift from the marker colors. Marker radius is magnitude * 5 with no
// clamping; zero and negative magnitudes produce zero and negative radii.
package domain
