package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/brandworks/asset-qc/internal/client"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type ConfigureOptions struct {
	GlobalOptions

	Service client.Service
}

func DefaultConfigureOptions() *ConfigureOptions {
	return &ConfigureOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Service:       client.Service{Server: "http://localhost:3443"},
	}
}

func NewCmdConfigure() *cobra.Command {
	o := DefaultConfigureOptions()
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Write the client config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.Context(), cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ConfigureOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Service.Server, "server-url", "u", o.Service.Server, "Address of the server")
	fs.StringVar(&o.Service.Token, "token", o.Service.Token, "Bearer token, see qc-api token")
	fs.StringVar(&o.Service.Role, "role", o.Service.Role, "Role header sent to a server running without authentication")
	fs.UintVar(&o.Service.UserID, "user-id", o.Service.UserID, "User id header sent to a server running without authentication")
}

func (o *ConfigureOptions) Run(ctx context.Context, w io.Writer) error {
	if err := client.WriteConfig(o.ConfigFilePath, o.Service); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %s\n", o.ConfigFilePath)
	return nil
}
