package main

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kailas-cloud/sentinelsearch"
	"github.com/kailas-cloud/sentinelsearch/internal/config"
	"github.com/kailas-cloud/sentinelsearch/internal/domain/query"
)

const (
	flagUser        = "user"
	flagPassword    = "password"
	flagURL         = "url"
	flagStart       = "start"
	flagEnd         = "end"
	flagSentinel    = "sentinel"
	flagInstrument  = "instrument"
	flagProductType = "producttype"
	flagCloud       = "cloud"
	flagExtent      = "extent"
	flagShapefile   = "shapefile"
	flagGeoJSON     = "geojson"
	flagUUID        = "uuid"
	flagName        = "name"
	flagQuery       = "query"
	flagLimit       = "limit"
	flagOrderBy     = "order-by"
	flagDownload    = "download"
	flagFootprints  = "footprints"
	flagPath        = "path"
	flagConfigEnv   = "config-env"
	flagStatusAddr  = "status-addr"
	flagLogLevel    = "log-level"
)

func commandFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: flagUser, Aliases: []string{"u"}, Usage: "catalog user name (default from config)"},
		&cli.StringFlag{Name: flagPassword, Aliases: []string{"p"}, Usage: "catalog password (default from config)"},
		&cli.StringFlag{Name: flagURL, Usage: "catalog API URL (default from config)"},
		&cli.StringFlag{Name: flagStart, Aliases: []string{"s"}, Usage: "start date: YYYYMMDD, ISO 8601 or NOW-<n>DAY(S)"},
		&cli.StringFlag{Name: flagEnd, Aliases: []string{"e"}, Usage: "end date, same formats as --start"},
		&cli.StringFlag{Name: flagSentinel, Usage: "constellation: 1, 2, 3 or any"},
		&cli.StringFlag{Name: flagInstrument, Usage: "instrument: MSI, SAR-C SAR, SLSTR, OLCI, SRAL or any"},
		&cli.StringFlag{Name: flagProductType, Usage: "product type: SLC, GRD, OCN, RAW, S2MSI1C, S2MSI2Ap or any"},
		&cli.IntFlag{Name: flagCloud, Aliases: []string{"c"}, Usage: "maximum cloud cover percentage (Sentinel-2/3 only)"},
		&cli.StringFlag{Name: flagExtent, Usage: "search extent as xmin,xmax,ymin,ymax in EPSG:4326"},
		&cli.StringFlag{Name: flagShapefile, Usage: "shapefile whose bounding box is the search area"},
		&cli.StringFlag{Name: flagGeoJSON, Aliases: []string{"g"}, Usage: "GeoJSON file with the search area"},
		&cli.StringFlag{Name: flagUUID, Usage: "comma-separated product ids to look up"},
		&cli.StringFlag{Name: flagName, Aliases: []string{"n"}, Usage: "product name pattern, wildcards allowed"},
		&cli.StringFlag{Name: flagQuery, Aliases: []string{"q"}, Usage: "extra search keywords as key=value,key=value"},
		&cli.IntFlag{Name: flagLimit, Aliases: []string{"l"}, Usage: "maximum number of results, 0 for all"},
		&cli.StringFlag{Name: flagOrderBy, Aliases: []string{"o"}, Usage: "sort keys, e.g. -ingestiondate,+cloudcoverpercentage"},
		&cli.BoolFlag{Name: flagDownload, Aliases: []string{"d"}, Usage: "download every found product"},
		&cli.BoolFlag{Name: flagFootprints, Aliases: []string{"f"}, Usage: "write search_footprints.geojson"},
		&cli.StringFlag{Name: flagPath, Usage: "output directory (default from config)"},
		&cli.StringFlag{Name: flagConfigEnv, Usage: "config environment: local, dev or prod (default $ENV or local)"},
		&cli.StringFlag{Name: flagStatusAddr, Usage: "serve /health, /metrics and /progress on this address"},
		&cli.StringFlag{Name: flagLogLevel, Usage: "log level: debug, info, warn or error"},
	}
}

// paramsFromCommand builds run parameters from flags, falling back to cfg for the
// connection settings and the output directory.
func paramsFromCommand(cmd *cli.Command, cfg config.Config) (sentinelsearch.Parameters, error) {
	constellation, err := query.ParseConstellation(cmd.String(flagSentinel))
	if err != nil {
		return sentinelsearch.Parameters{}, fmt.Errorf("--%s: %w", flagSentinel, err)
	}
	instrument, err := query.ParseInstrument(cmd.String(flagInstrument))
	if err != nil {
		return sentinelsearch.Parameters{}, fmt.Errorf("--%s: %w", flagInstrument, err)
	}
	productType, err := query.ParseProductType(cmd.String(flagProductType))
	if err != nil {
		return sentinelsearch.Parameters{}, fmt.Errorf("--%s: %w", flagProductType, err)
	}

	return sentinelsearch.Parameters{
		User:          stringOr(cmd.String(flagUser), cfg.Catalog.User),
		Password:      stringOr(cmd.String(flagPassword), cfg.Catalog.Password),
		URL:           stringOr(cmd.String(flagURL), cfg.Catalog.URL),
		Start:         cmd.String(flagStart),
		End:           cmd.String(flagEnd),
		Constellation: constellation,
		Instrument:    instrument,
		ProductType:   productType,
		Cloud:         int(cmd.Int(flagCloud)),
		Extent:        cmd.String(flagExtent),
		Shapefile:     cmd.String(flagShapefile),
		GeoJSON:       cmd.String(flagGeoJSON),
		UUID:          cmd.String(flagUUID),
		Name:          cmd.String(flagName),
		Query:         cmd.String(flagQuery),
		Limit:         int(cmd.Int(flagLimit)),
		OrderBy:       cmd.String(flagOrderBy),
		Download:      cmd.Bool(flagDownload),
		Footprints:    cmd.Bool(flagFootprints),
		Path:          stringOr(cmd.String(flagPath), cfg.Output.Path),
	}, nil
}

func stringOr(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
