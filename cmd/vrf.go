package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/fabric-ops/vrfctl/pkg/state"
	"github.com/fabric-ops/vrfctl/pkg/vrf"
)

var (
	vrfStateFlag string
	vrfFileFlag  string
)

var vrfCmd = &cobra.Command{
	Use:   "vrf",
	Short: "Reconcile VRFs against the desired configuration",
	RunE:  runVRF,
}

func init() {
	vrfCmd.Flags().StringVar(&vrfStateFlag, "state", "merged", "One of merged, replaced, overridden, deleted, query")
	vrfCmd.Flags().StringVar(&vrfFileFlag, "file", "", "YAML file with the desired VRF configuration list")
	vrfCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(vrfCmd)
}

func runVRF(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	printVersion(log)

	s, err := state.Parse(vrfStateFlag)
	if err != nil {
		return err
	}

	var configs []vrf.Config
	if err := readConfigFile(vrfFileFlag, &configs); err != nil {
		return err
	}
	if err := vrf.ValidateConfigs(configs, s); err != nil {
		return err
	}

	sender, manager := newRun(log)
	handler, err := vrf.NewHandler(s, vrf.NewAPI(sender, manager, log), log)
	if err != nil {
		return err
	}

	result := handler.Execute(configs)
	return printResult(result)
}

// readConfigFile loads a YAML document into out, rejecting unknown fields
// so typos in the input surface as errors instead of silent defaults.
func readConfigFile(path string, out interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.UnmarshalStrict(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// printResult writes the result JSON to stdout. A failed run exits with
// status 1 after the result is printed.
func printResult(result *state.Result) error {
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))

	if result.Failed {
		os.Exit(1)
	}
	return nil
}
