package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"bj-service/internal/config"
	"bj-service/internal/monitoring"
	"bj-service/internal/repo"
	"bj-service/internal/service"
	"bj-service/internal/service/game"
	"bj-service/internal/service/settlement"
	"bj-service/pkg/logger"

	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
)

func main() {
	var (
		configPath   string
		tableRoundID string
		file         string
		persist      bool
	)
	flag.StringVar(&configPath, "config", "config.yaml", "path to config file")
	flag.StringVar(&tableRoundID, "round", "", "table round id to settle")
	flag.StringVar(&file, "file", "", "settle a round document from a JSON file without a database")
	flag.BoolVar(&persist, "persist", false, "store the settlement instead of only printing it")
	flag.Parse()

	ctx := context.Background()
	monitoring.Init()

	if file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			pterm.Error.Printfln("Cannot read %s: %v", file, err)
			os.Exit(1)
		}
		report, err := settlement.NewService(nil, nil, nil).Calculate(ctx, raw)
		if err != nil {
			pterm.Error.Printfln("Cannot settle %s: %v", file, err)
			os.Exit(1)
		}
		printReports([]*settlement.Report{report})
		return
	}

	config.LoadConfig(configPath)
	logger.InitLogger(config.GlobalConfig.Server.Mode)
	defer logger.Log.Sync()

	if strings.TrimSpace(tableRoundID) == "" {
		input, err := pterm.DefaultInteractiveTextInput.Show("Enter the table round ID")
		if err != nil {
			pterm.Error.Println(err)
			os.Exit(1)
		}
		tableRoundID = strings.TrimSpace(input)
	}

	repo.InitDB()
	services := service.NewContainer(repo.DB, nil, settlement.Config{Workers: config.GlobalConfig.Settlement.Workers})

	reports, err := settle(ctx, services, tableRoundID, persist)
	if err != nil {
		pterm.Error.Printfln("Settlement of %s failed: %v", tableRoundID, err)
		os.Exit(1)
	}
	printReports(reports)
}

func settle(ctx context.Context, services *service.Container, tableRoundID string, persist bool) ([]*settlement.Report, error) {
	if persist {
		return services.Settlement.SettleTableRound(ctx, tableRoundID)
	}

	rows, err := services.Round.ListByTableRound(ctx, tableRoundID)
	if err != nil {
		return nil, err
	}
	reports := make([]*settlement.Report, 0, len(rows))
	for _, row := range rows {
		report, err := services.Settlement.Calculate(ctx, row.PlayerRoundData)
		if err != nil {
			pterm.Warning.Printfln("Skipping round data %d: %v", row.ID, err)
			continue
		}
		report.TableRoundID = row.TableRoundID
		report.RoundDataID = row.ID
		reports = append(reports, report)
	}
	return reports, nil
}

func printReports(reports []*settlement.Report) {
	total := decimal.Zero
	data := pterm.TableData{{"Seat", "Player", "Cards", "Value", "Outcome", "Main", "Side", "Total"}}

	for _, report := range reports {
		rs := report.Settlement
		total = total.Add(rs.TotalPayout)
		pterm.Info.Printfln("Dealer: %s (%d)", strings.Join(rs.DealerCards, " "), rs.DealerValue)

		for _, seat := range rs.Seats {
			data = append(data, []string{
				seat.SeatID,
				seat.PlayerID,
				strings.Join(seat.Cards, " "),
				fmt.Sprint(seat.Value),
				seat.Outcome.String(),
				seat.MainPayout.StringFixed(2),
				seat.SidePayout.StringFixed(2),
				seat.TotalPayout.StringFixed(2),
			})
		}
		warnings := make([]game.Warning, 0, len(report.DecodeWarnings)+len(rs.Warnings))
		warnings = append(warnings, report.DecodeWarnings...)
		for _, w := range append(warnings, rs.Warnings...) {
			pterm.Warning.Printfln("seat %q: %s %s", w.SeatID, w.Kind, w.Value)
		}
	}

	if len(data) > 1 {
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			pterm.Error.Println(err)
		}
	}
	pterm.Success.Printfln("Total Payout: €%s", total.StringFixed(2))
}
