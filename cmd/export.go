package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hnquoc/tableserve/internal/cloudwriter"
	"github.com/hnquoc/tableserve/internal/models"
	"github.com/hnquoc/tableserve/internal/output"
	"github.com/hnquoc/tableserve/internal/syncer"
	"github.com/hnquoc/tableserve/pkg/logger"
)

var (
	exportDest   string
	exportSource string
	exportBucket string
	exportDir    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Snapshot the order collection to a JSON backup (local file or S3)",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		log, err := logger.New(cfg.Environment)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building logger: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()

		if err := runExport(cfg, log); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDest, "dest", "local", "Export destination: local or s3")
	exportCmd.Flags().StringVar(&exportSource, "source", "store", "Order source: store or archive (Postgres)")
	exportCmd.Flags().StringVar(&exportBucket, "bucket", "tableserve-backups", "S3 bucket for --dest s3")
	exportCmd.Flags().StringVar(&exportDir, "dir", "backups", "Base directory for local exports")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cfg *models.Config, log *zap.Logger) error {
	ctx := context.Background()

	orders, err := exportOrders(ctx, cfg, log)
	if err != nil {
		return err
	}

	var factory cloudwriter.Factory
	switch exportDest {
	case "s3":
		bucket := exportBucket
		if cfg.S3Bucket != "" {
			bucket = cfg.S3Bucket
		}
		factory, err = cloudwriter.NewS3Factory(ctx, cfg.S3Region, bucket)
		if err != nil {
			return err
		}
	case "local":
		factory = cloudwriter.NewLocalFactory(exportDir)
	default:
		return fmt.Errorf("unknown export destination %q", exportDest)
	}

	objectPath := fmt.Sprintf("orders/%s.json", time.Now().Format("2006-01-02T15-04-05"))
	writer, err := factory.NewWriter(ctx, objectPath)
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(len(orders)), "exporting orders")
	if _, err := writer.Write([]byte("[")); err != nil {
		return err
	}
	for i, o := range orders {
		raw, err := json.Marshal(o)
		if err != nil {
			return fmt.Errorf("failed to encode order %s: %w", o.ID, err)
		}
		if i > 0 {
			if _, err := writer.Write([]byte(",")); err != nil {
				return err
			}
		}
		if _, err := writer.Write(raw); err != nil {
			return err
		}
		bar.Add(1)
	}
	if _, err := writer.Write([]byte("]")); err != nil {
		return err
	}
	if err := writer.Close(ctx); err != nil {
		return err
	}

	fmt.Printf("Exported %d orders to %s\n", len(orders), objectPath)
	return nil
}

// exportOrders reads the collection from the live store or, with
// --source archive, from the durable Postgres archive.
func exportOrders(ctx context.Context, cfg *models.Config, log *zap.Logger) ([]models.Order, error) {
	switch exportSource {
	case "archive":
		archive, err := output.NewPostgresArchive(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		defer archive.Close()
		return archive.GetArchivedOrders(ctx)
	case "store":
		st, err := buildStore(cfg, log)
		if err != nil {
			return nil, err
		}
		doc, err := st.ReadAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read the store: %w", err)
		}
		return syncer.SanitizeOrders(doc[models.PathOrders]), nil
	default:
		return nil, fmt.Errorf("unknown export source %q", exportSource)
	}
}
