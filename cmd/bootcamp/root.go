package main

import (
	"bootcamp-assistant/internal/repository"
	"bootcamp-assistant/internal/utils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	logger   *logrus.Entry
	dataFile string
	timezone string
}

func (a *app) clock() (utils.Clock, error) {
	return utils.NewClock(a.timezone)
}

func (a *app) repo() (utils.UserRecordRepository, utils.Clock, error) {
	clock, err := a.clock()
	if err != nil {
		return nil, nil, err
	}
	return repository.NewFileRepository(a.logger, a.dataFile, clock), clock, nil
}

// NewRootCmd builds the "bootcamp" command tree over the JSON file store.
func NewRootCmd(logger *logrus.Entry) *cobra.Command {
	a := &app{logger: logger}

	root := &cobra.Command{
		Use:          "bootcamp",
		Short:        "telc B2 boot camp assistant: local webhook server and record inspection",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&a.dataFile, "data", utils.EnvOrDefault("DATA_FILE", "user_data.json"), "Path to the JSON user data file")
	root.PersistentFlags().StringVar(&a.timezone, "timezone", utils.EnvOrDefault("TIMEZONE", utils.DefaultTimezone), "IANA timezone that defines a calendar day")

	root.AddCommand(
		newServeCmd(a),
		newUsersCmd(a),
		newDigestCmd(a),
	)

	return root
}
