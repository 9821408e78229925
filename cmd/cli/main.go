package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/rcptscan/rcptscan/cmd/cli/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Login         commands.LoginCmd         `cmd:"" help:"Sign in and store credentials"`
		Register      commands.RegisterCmd      `cmd:"" help:"Create a new account"`
		Whoami        commands.WhoamiCmd        `cmd:"" help:"Show the signed-in user"`
		Logout        commands.LogoutCmd        `cmd:"" help:"Sign out and remove stored credentials"`
		Receipts      commands.ReceiptsCmd      `cmd:"" help:"Manage receipts"`
		Spending      commands.SpendingCmd      `cmd:"" help:"Show spending grouped by category"`
		Notifications commands.NotificationsCmd `cmd:"" help:"Manage push notifications"`
		Token         commands.TokenCmd         `cmd:"" help:"Inspect the stored token"`
		Endpoint      string                    `help:"Backend base URL." env:"RCPTSCAN_ENDPOINT"`
		Config        string                    `help:"Path to config file." env:"RCPTSCAN_CONFIG"`
		Debug         bool                      `help:"Enable debug mode."`
		Version       kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{
		Debug:    cli.Debug,
		Endpoint: cli.Endpoint,
		Config:   cli.Config,
		Version:  version,
	})
	cmd.FatalIfErrorf(err)
}
