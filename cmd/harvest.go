package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"metadata-harvester/feature/catalog"
	"metadata-harvester/feature/harvest"
	"metadata-harvester/feature/harvest/sta"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var harvestFlags struct {
	endpoint       string
	token          string
	username       string
	password       string
	timeoutSeconds int
	output         string
	stacOutput     string
	dcatOutput     string
	stacCollection string
	stacRootHref   string
	incremental    bool
	stateFile      string
}

// harvestCmd runs a single harvest pass without starting the server.
var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Run a single harvest pass",
	Long:  `Fetches Things from the SensorThings endpoint, flattens them into metadata records, and writes the records plus STAC and DCAT catalogs to disk. Without --output the records are printed to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logg, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logg.Sync()

		if harvestFlags.incremental && harvestFlags.output == "" {
			return fmt.Errorf("--incremental requires --output")
		}

		rootHref := harvestFlags.stacRootHref
		if rootHref == "" {
			rootHref = harvestFlags.endpoint + "/stac"
		}

		client := sta.NewClient(sta.Options{
			Endpoint: harvestFlags.endpoint,
			Token:    harvestFlags.token,
			Username: harvestFlags.username,
			Password: harvestFlags.password,
			Timeout:  time.Duration(harvestFlags.timeoutSeconds) * time.Second,
		}, logg)

		things, err := client.FetchThings(cmd.Context())
		if err != nil {
			return fmt.Errorf("harvest failed: %w", err)
		}
		records := sta.Records(things)

		store := harvest.NewStore(harvest.Config{
			RecordsPath: harvestFlags.output,
			StatePath:   harvestFlags.stateFile,
			StacPath:    harvestFlags.stacOutput,
			DcatPath:    harvestFlags.dcatOutput,
		})

		if harvestFlags.incremental {
			previous := store.LoadRecords()
			previousSignatures := store.LoadSignatures()

			merged, signatures, stats := harvest.MergeRecords(records, previous, previousSignatures)
			records = merged

			if err := store.SaveSignatures(signatures); err != nil {
				return err
			}
			logg.Info("Incremental harvest",
				zap.Int("created", stats.Created),
				zap.Int("updated", stats.Updated),
				zap.Int("unchanged", stats.Unchanged),
				zap.Int("total", stats.Total),
			)
		}

		if harvestFlags.output != "" {
			if err := store.SaveRecords(records); err != nil {
				return err
			}
			logg.Info("Wrote records", zap.String("path", harvestFlags.output), zap.Int("count", len(records)))
		} else {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetEscapeHTML(false)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(records); err != nil {
				return err
			}
		}

		if harvestFlags.stacOutput != "" {
			stac := catalog.BuildStacItemCollection(records, harvestFlags.stacCollection, rootHref)
			if err := store.SaveStac(stac); err != nil {
				return err
			}
			logg.Info("Wrote STAC item collection", zap.String("path", harvestFlags.stacOutput))
		}

		if harvestFlags.dcatOutput != "" {
			dcat := catalog.BuildDcatCatalog(records)
			if err := store.SaveDcat(dcat); err != nil {
				return err
			}
			logg.Info("Wrote DCAT catalog", zap.String("path", harvestFlags.dcatOutput))
		}

		return nil
	},
}

func init() {
	harvestCmd.Flags().StringVar(&harvestFlags.endpoint, "endpoint", "http://localhost:8018/istsos4/v1.1", "SensorThings API base URL")
	harvestCmd.Flags().StringVar(&harvestFlags.token, "token", "", "Bearer token for the SensorThings API")
	harvestCmd.Flags().StringVar(&harvestFlags.username, "username", "", "Username for the token endpoint")
	harvestCmd.Flags().StringVar(&harvestFlags.password, "password", "", "Password for the token endpoint")
	harvestCmd.Flags().IntVar(&harvestFlags.timeoutSeconds, "timeout", 30, "HTTP timeout in seconds")
	harvestCmd.Flags().StringVar(&harvestFlags.output, "output", "", "Path for the metadata records file (stdout when empty)")
	harvestCmd.Flags().StringVar(&harvestFlags.stacOutput, "stac-output", "", "Path for the STAC item collection file")
	harvestCmd.Flags().StringVar(&harvestFlags.dcatOutput, "dcat-output", "", "Path for the DCAT catalog file")
	harvestCmd.Flags().StringVar(&harvestFlags.stacCollection, "stac-collection-id", "istsos-datastreams", "Collection id stamped on STAC items")
	harvestCmd.Flags().StringVar(&harvestFlags.stacRootHref, "stac-root-href", "", "Root href for STAC links (endpoint + /stac when empty)")
	harvestCmd.Flags().BoolVar(&harvestFlags.incremental, "incremental", false, "Reconcile against the previous run instead of rewriting everything")
	harvestCmd.Flags().StringVar(&harvestFlags.stateFile, "state-file", "metadata_state.json", "Path for the signature state file")
	RootCmd.AddCommand(harvestCmd)
}
