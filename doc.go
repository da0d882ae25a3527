// Package sentinelsearch searches and downloads Sentinel satellite products from a
// Copernicus Data Hub (DHuS) catalog.
//
// A run maps host form parameters to a catalog query, resolves the area of interest
// from a shapefile, an extent string or a GeoJSON file, and then either looks up
// explicit product ids, searches by identifier pattern, or searches a sensing date
// range. The results are written as a footprint file, downloaded, or listed.
//
//	r := sentinelsearch.NewRunner(
//	    sentinelsearch.WithHost(host),
//	    sentinelsearch.WithLogger(logger),
//	)
//	res, err := r.Run(ctx, sentinelsearch.Parameters{
//	    User:          "user",
//	    Password:      "secret",
//	    Constellation: sentinelsearch.Sentinel2,
//	    Cloud:         20,
//	    Extent:        "10,12,45,46 [EPSG:4326]",
//	    Footprints:    true,
//	    Path:          "/tmp/s2",
//	})
//
// The host receives progress percentages, log lines and the footprint layer path.
package sentinelsearch
