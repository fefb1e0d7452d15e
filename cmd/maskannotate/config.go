package main

import (
	"flag"
	"fmt"

	"github.com/example/maskannotate/internal/config"
)

type configCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *configCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *configCmd) Program() string { return c.subcommand("config") }

func (c *configCmd) Template() string { return "config.txt" }

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	c := &configCmd{root: r, fs: newFlagSet("config")}
	if err := parseFlags(c, args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) != 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		fmt.Fprint(c.out(), c.config.String())
		return nil
	case "save":
		path, err := config.NewLoader(version, c.configPath).Save(c.config)
		if err != nil {
			return err
		}
		c.logger.Info("configuration saved", "path", path)
		fmt.Fprintln(c.out(), path)
		return nil
	default:
		return &UsageError{of: c, msg: fmt.Sprintf("unknown config command: %s", args[0])}
	}
}
