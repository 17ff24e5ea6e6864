// Package cli is the presentation surface of the till: a cobra command tree
// mapping onto the register operations. Each invocation opens the register,
// which recovers any same-day session snapshot, so an open sale survives
// across commands and crashes.
package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rebeatle/sistema-ventas/internal/audit"
	"github.com/rebeatle/sistema-ventas/internal/catalog"
	"github.com/rebeatle/sistema-ventas/internal/config"
	"github.com/rebeatle/sistema-ventas/internal/daylog"
	"github.com/rebeatle/sistema-ventas/internal/logging"
	"github.com/rebeatle/sistema-ventas/internal/report"
	"github.com/rebeatle/sistema-ventas/internal/service"
	"github.com/rebeatle/sistema-ventas/internal/session"
)

var (
	cfgFile string
	dataDir string
)

var rootCmd = &cobra.Command{
	Use:           "bazar",
	Short:         "Single-till point of sale for a small retail shop",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "bazar.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "override the data directory")

	rootCmd.AddCommand(productCmd)
	rootCmd.AddCommand(sellCmd)
	rootCmd.AddCommand(closeCmd)
	rootCmd.AddCommand(discardCmd)
	rootCmd.AddCommand(stockCmd)
	rootCmd.AddCommand(reportCmd)
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

// env bundles everything a command needs.
type env struct {
	cfg      config.Config
	log      *logrus.Logger
	register *service.Register
	reports  *report.Aggregator
}

// openRegister wires the components and recovers any same-day snapshot,
// printing the recovery notice the UI used to show.
func openRegister(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)

	cat, err := catalog.Load(cfg.CatalogPath(), logger)
	if err != nil {
		return nil, err
	}
	stock := catalog.NewLedger(cat, cfg.StockFlagPath(), cfg.LowStockWarn, logger)
	sess := session.New(cfg.SnapshotPath(), logger)
	logs, err := daylog.New(cfg.SalesPath())
	if err != nil {
		return nil, err
	}
	trail := audit.New(cfg.AuditPath(), logger)

	register := service.New(cat, stock, sess, logs, trail, logger)
	summary, err := register.Open()
	if err != nil {
		return nil, err
	}
	if summary != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Recovered session from %s: %d items, total %s\n",
			summary.SavedAt, summary.ItemCount, formatMoney(summary.Totals.GeneralCents))
	}

	return &env{
		cfg:      cfg,
		log:      logger,
		register: register,
		reports:  report.New(logs),
	}, nil
}

func formatMoney(cents int64) string {
	return fmt.Sprintf("S/ %d.%02d", cents/100, cents%100)
}
