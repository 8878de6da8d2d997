package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/solace-app/solace/internal/counsellor"
	"github.com/solace-app/solace/internal/printer"
)

var counselCmd = &cobra.Command{
	Use:   "counsel <message>",
	Short: "Talk to the Solace companion",
	Long: `Send one message to the Solace companion and print its reply. Each
invocation is a single stateless exchange.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCounsel,
}

func init() {
	rootCmd.AddCommand(counselCmd)
}

func runCounsel(cmd *cobra.Command, args []string) error {
	s, err := newSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	endpoint := s.cfg.Counsellor.Endpoint
	if endpoint == "" {
		return printer.Error("Companion not configured", "set counsellor.endpoint in solace.yml")
	}
	apiKey := s.cfg.CounsellorAPIKey()
	if apiKey == "" {
		return printer.Error("Companion not configured", "set the "+s.cfg.Counsellor.APIKeyEnv+" environment variable")
	}

	message := strings.Join(args, " ")
	client := counsellor.New(endpoint, apiKey)

	reply, err := client.Send(cmd.Context(), message)
	if err != nil {
		return printer.Error("Companion request failed", err.Error())
	}

	printer.Println(reply)
	return nil
}
