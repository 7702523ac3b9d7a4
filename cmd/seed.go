package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"rule-one/internal/dto"
	"rule-one/internal/repository"
	"rule-one/internal/service"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed [processor]",
	Short: "Insert placeholder stocks from the built-in ticker lists",
	Long:  "Runs one ticker list processor by name, or every processor when no name is given.",
	Args:  cobra.MaximumNArgs(1),
	Run:   Seed,
}

func Seed(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer appDep.Close()

	repo := repository.NewRepository(appDep.cfg, appDep.db.DB, appDep.log, appDep.cache, appDep.limiters)
	batch := service.NewService(appDep.cfg, appDep.log, repo, appDep.cache).BatchService

	if len(args) == 1 {
		result, err := batch.Run(ctx, args[0])
		if err != nil {
			log.Printf("Seed failed: %v", err)
			for _, p := range batch.List() {
				fmt.Printf("  %-22s %-8s %3d tickers\n", p.Name, p.Exchange, p.Tickers)
			}
			appDep.Close()
			os.Exit(1)
		}
		printBatchResult(result)
		return
	}

	summary := batch.RunAll(ctx)
	for _, result := range summary.Results {
		printBatchResult(result)
	}
	fmt.Printf("total added=%d failed=%d\n", summary.Added, summary.Failed)
}

func printBatchResult(r dto.BatchResult) {
	fmt.Printf("%-22s added=%d skipped=%d failed=%d", r.Processor, r.Added, r.Skipped, r.Failed)
	if r.Error != "" {
		fmt.Printf(" error=%q", r.Error)
	}
	fmt.Println()
}
