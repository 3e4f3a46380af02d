package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fabric-ops/vrfctl/pkg/attachment"
	"github.com/fabric-ops/vrfctl/pkg/state"
)

var (
	attachmentsStateFlag string
	attachmentsFileFlag  string
)

var attachmentsCmd = &cobra.Command{
	Use:   "attachments",
	Short: "Reconcile VRF attachments against the desired configuration",
	RunE:  runAttachments,
}

func init() {
	attachmentsCmd.Flags().StringVar(&attachmentsStateFlag, "state", "merged", "One of merged, replaced, overridden, deleted, query")
	attachmentsCmd.Flags().StringVar(&attachmentsFileFlag, "file", "", "YAML file with the desired VRF attachment configuration list")
	attachmentsCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(attachmentsCmd)
}

func runAttachments(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	printVersion(log)

	s, err := state.Parse(attachmentsStateFlag)
	if err != nil {
		return err
	}

	var configs []attachment.Config
	if err := readConfigFile(attachmentsFileFlag, &configs); err != nil {
		return err
	}
	if err := attachment.ValidateConfigs(configs, s); err != nil {
		return err
	}

	sender, manager := newRun(log)
	handler, err := attachment.NewHandler(s, attachment.NewAPI(sender, manager, log), log)
	if err != nil {
		return err
	}

	result := handler.Execute(configs)
	return printResult(result)
}
