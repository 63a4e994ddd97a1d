package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/sunrised/pkg/client"
)

// ClientContextKey is used for storing the client in context for commands.
// The root command fills it in before any subcommand runs unless a client is
// already present (tests inject a mock this way).
var ClientContextKey = &struct{}{}

// clientFrom returns the client stored on the command context.
func clientFrom(cmd *cobra.Command) (client.ClientInterface, error) {
	c, ok := cmd.Context().Value(ClientContextKey).(client.ClientInterface)
	if !ok {
		return nil, fmt.Errorf("no device client configured")
	}
	return c, nil
}
