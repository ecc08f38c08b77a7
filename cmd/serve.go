package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hnquoc/tableserve/internal/factories"
	"github.com/hnquoc/tableserve/internal/models"
	"github.com/hnquoc/tableserve/internal/order"
	"github.com/hnquoc/tableserve/internal/output"
	"github.com/hnquoc/tableserve/internal/server"
	"github.com/hnquoc/tableserve/internal/session"
	"github.com/hnquoc/tableserve/internal/store"
	"github.com/hnquoc/tableserve/internal/syncer"
	"github.com/hnquoc/tableserve/pkg/logger"
)

var serveRole string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run one client session with its HTTP role surface",
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

		if err := runServe(cfg, log); err != nil {
			log.Fatal("serve failed", zap.Error(err))
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveRole, "role", models.RoleCustomer, "Client role: customer, kitchen or admin")
	serveCmd.Flags().String("http-addr", ":8080", "HTTP listen address")
	viper.BindPFlag("http_addr", serveCmd.Flags().Lookup("http-addr"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cfg *models.Config, log *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := buildStore(cfg, log)
	if err != nil {
		return err
	}

	// Seed check: an empty store gets a demo catalog. Failures here are
	// logged, never surfaced; the session continues against whatever the
	// store holds.
	if cfg.SeedOnEmpty {
		if doc, err := st.ReadAll(ctx); err != nil {
			log.Warn("seed check read failed", zap.Error(err))
		} else if factories.IsEmpty(doc) {
			if err := factories.Seed(ctx, st, cfg.SeedBranches); err != nil {
				log.Warn("seeding demo catalog failed", zap.Error(err))
			} else {
				log.Info("seeded demo catalog", zap.Int("branches", cfg.SeedBranches))
			}
		}
	}

	sink, archive, closeSinks, err := buildSinks(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSinks()

	var archiver syncer.Archiver
	if archive != nil {
		archiver = archive
	}
	reconciler := syncer.NewReconciler(st, syncer.NewLogNotifier(log), sink, archiver, log)
	go func() {
		if err := reconciler.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("reconciler stopped", zap.Error(err))
		}
	}()

	sess := session.New(serveRole)
	orders := order.NewService(st, log)
	srv := server.New(reconciler, orders, sess, cfg.GeolocationTimeout, log)
	return srv.Run(cfg.HTTPAddr)
}

func buildStore(cfg *models.Config, log *zap.Logger) (store.Store, error) {
	switch cfg.StoreBackend {
	case "firebase":
		return store.NewFirebaseStore(cfg.FirebaseURL, cfg.FirebaseToken, log), nil
	case "memory", "":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func buildSinks(ctx context.Context, cfg *models.Config, log *zap.Logger) (output.Destination, *output.PostgresArchive, func(), error) {
	destinations := []output.Destination{&output.ConsoleOutput{}}
	var closers []func()

	if cfg.EventLogPath != "" {
		fileOut := output.NewFileOutput(cfg.EventLogPath)
		destinations = append(destinations, fileOut)
		closers = append(closers, func() { fileOut.Close() })
	}

	if cfg.KafkaEnabled {
		kafkaOut, err := output.NewKafkaOutput(cfg.KafkaBrokerList, log)
		if err != nil {
			return nil, nil, nil, err
		}
		destinations = append(destinations, kafkaOut)
		closers = append(closers, func() { kafkaOut.Close() })
	}

	var archive *output.PostgresArchive
	if cfg.ArchiveEnabled {
		var err error
		archive, err = output.NewPostgresArchive(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		destinations = append(destinations, archive)
		closers = append(closers, archive.Close)
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	return output.NewMultiOutput(destinations...), archive, closeAll, nil
}
