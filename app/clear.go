package app

import (
	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/toolbox/store"
)

// confirm asks the user to approve a destructive operation.
var confirm = func(title string) (bool, error) {
	var ok bool

	err := huh.NewConfirm().
		Title(title).
		Description("Do you wish to proceed?").
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, errPromptFailed.Wrap(err)
	}

	return ok, nil
}

// clearRecords deletes the given records after confirmation. An empty kinds
// deletes everything.
func clearRecords(
	g *store.Gateway,
	title string,
	skipConfirm bool,
	kinds ...store.Kind,
) error {
	if !skipConfirm {
		ok, err := confirm(title)
		if err != nil {
			return err
		}

		if !ok {
			pterm.Info.Println("No changes made")
			return nil
		}
	}

	if len(kinds) == 0 {
		g.ClearAll()
	}

	for _, k := range kinds {
		g.Clear(k)
	}

	pterm.Success.Println("Records deleted")

	return nil
}

// clearAction deletes every persisted record.
func clearAction(ctx *cli.Context) error {
	e, err := openEnv(configFrom(ctx))
	if err != nil {
		return err
	}

	defer e.Close()

	return clearRecords(
		e.gateway,
		"The timer state, preferences, history and statistics will be deleted permanently",
		ctx.Bool("yes"),
	)
}
