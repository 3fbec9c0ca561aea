package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/authfront/internal/cli/config"
	"github.com/yndnr/authfront/internal/cli/output"
)

// ConfigCommand inspects and creates the CLI config file.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect or create the CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the resolved configuration",
				Action: configShow,
			},
			{
				Name:   "path",
				Usage:  "Print the config file path",
				Action: configPath,
			},
			{
				Name:  "init",
				Usage: "Write a config file with the defaults",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "overwrite an existing file",
					},
				},
				Action: configInit,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return printFormatted(c, cfg.Output, cfg)
	}
	// Nested sections read better as the file they came from.
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(data)
	return err
}

func configPath(c *cli.Context) error {
	fmt.Fprintln(c.App.Writer, config.ExpandHome(c.String("config")))
	return nil
}

func configInit(c *cli.Context) error {
	path := config.ExpandHome(c.String("config"))
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.Save(config.Default(), path); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
	return nil
}

// printLocal prints data for commands that need no session, honouring
// --output but not the config file.
func printLocal(c *cli.Context, data any) error {
	format := c.String("output")
	if format == "" {
		format = string(output.FormatTable)
	}
	return printFormatted(c, format, data)
}

func printFormatted(c *cli.Context, format string, data any) error {
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	return output.NewFormatter(f).Format(c.App.Writer, data)
}
