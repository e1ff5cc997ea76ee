package cli

import (
	"github.com/robinvdvleuten/accounts/storage"
)

type DumpMonthCmd struct{}

func (cmd *DumpMonthCmd) Run(app *App) error {
	_, month, err := app.load()
	if err != nil {
		return err
	}
	data, err := storage.MarshalMonth(month)
	if err != nil {
		return err
	}
	app.console.Print(string(data))
	return nil
}

type DumpConfigCmd struct{}

func (cmd *DumpConfigCmd) Run(app *App) error {
	cfg, err := app.readConfig()
	if err != nil {
		return err
	}
	data, err := storage.MarshalConfig(cfg)
	if err != nil {
		return err
	}
	app.console.Print(string(data))
	return nil
}
