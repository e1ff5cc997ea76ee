package cli

import (
	"github.com/robinvdvleuten/accounts/storage"
	"github.com/robinvdvleuten/accounts/web"
)

// WebCmd serves the accounts over HTTP until interrupted.
type WebCmd struct {
	Port  int  `help:"Port to listen on (defaults to ACCOUNTS_WEB_PORT)." short:"p"`
	Watch bool `help:"Push reload events when the ledger files change." default:"true" negatable:""`
}

func (cmd *WebCmd) Run(app *App) error {
	port := cmd.Port
	if port == 0 {
		port = app.settings.Port()
	}

	opts := []web.Option{
		web.WithVersion(Version, CommitSHA),
		web.WithLogger(app.logger),
	}
	if fs, ok := app.store.(*storage.FileStore); ok && cmd.Watch {
		root, err := fs.RootDir(app.ctx)
		if err != nil {
			return err
		}
		opts = append(opts, web.WithWatch(fs.ConfigPath(), root))
	}

	server := web.New(app.store, port, opts...)
	printInfof(app.stdout, "Listening on http://%s", server.Addr())
	return server.Start(app.ctx)
}
