package harvest

// Config holds configuration for the harvest feature.
type Config struct {
	// Endpoint is the SensorThings API base endpoint.
	Endpoint string `mapstructure:"endpoint" default:"http://localhost:8018/istsos4/v1.1"`
	// Token is an optional Bearer token for authenticated endpoints.
	Token string `mapstructure:"token" default:""`
	// Username is an optional username for the istSOS login exchange.
	Username string `mapstructure:"username" default:""`
	// Password is an optional password for the istSOS login exchange.
	Password string `mapstructure:"password" default:""`
	// TimeoutSeconds is the upstream HTTP timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// RecordsPath is the output path for the normalized records file.
	RecordsPath string `mapstructure:"records_path" default:"metadata.json"`
	// StacPath is the output path for the STAC item collection.
	StacPath string `mapstructure:"stac_path" default:"stac_items.json"`
	// DcatPath is the output path for the DCAT catalog.
	DcatPath string `mapstructure:"dcat_path" default:"dcat_catalog.json"`
	// StatePath is the path of the signature state file.
	StatePath string `mapstructure:"state_path" default:"metadata_state.json"`
	// StacCollectionID is embedded in every STAC item.
	StacCollectionID string `mapstructure:"stac_collection_id" default:"istsos-datastreams"`
	// StacRootHref is the base STAC root URL used to build item self/root links.
	StacRootHref string `mapstructure:"stac_root_href" default:"http://localhost:8020/stac"`
	// Incremental enables signature-based incremental harvesting.
	Incremental bool `mapstructure:"incremental" default:"true"`
	// IntervalSeconds is the refresh interval gating on-demand harvests.
	IntervalSeconds int `mapstructure:"interval_seconds" default:"300"`
}
