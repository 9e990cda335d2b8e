package schedule

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1replay-go/log"
	"github.com/mpapenbr/f1replay-go/pkg/config"
	"github.com/mpapenbr/f1replay-go/pkg/model"
	"github.com/mpapenbr/f1replay-go/pkg/provider/f1api"
)

func NewScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "commands to inspect the season schedule",
	}
	cmd.PersistentFlags().IntVar(&config.Year, "year", 2024,
		"season year")
	cmd.AddCommand(newRoundsCmd())
	cmd.AddCommand(newSprintsCmd())
	return cmd
}

func newRoundsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rounds",
		Short: "lists all rounds of the season",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRounds(cmd.Context(), false)
		},
	}
}

func newSprintsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sprints",
		Short: "lists the sprint rounds of the season",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRounds(cmd.Context(), true)
		},
	}
}

func listRounds(ctx context.Context, sprintsOnly bool) error {
	setupLogger()
	client := f1api.NewClient(config.APIUrl)

	var rounds []model.RoundInfo
	var err error
	if sprintsOnly {
		rounds, err = client.ListSprints(ctx, config.Year)
	} else {
		rounds, err = client.ListRounds(ctx, config.Year)
	}
	if err != nil {
		return err
	}
	if sprintsOnly && len(rounds) == 0 {
		fmt.Printf("No sprint races found for %d.\n", config.Year)
		return nil
	}
	for _, r := range rounds {
		fmt.Printf("%d: %s\n", r.Round, r.Name)
	}
	return nil
}

func setupLogger() {
	level, err := log.ParseLevel(config.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	if config.LogFormat == "json" {
		log.ResetDefault(log.New(os.Stderr, level))
		return
	}
	log.ResetDefault(log.DevLogger(os.Stderr, level))
}
