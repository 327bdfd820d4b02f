package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"njscore/pkg/driver"
)

func complete(ctx *cli.Context) error {
	e, logger, err := newEngine(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	r, err := e.NewVM()
	if err != nil {
		return err
	}
	for _, s := range e.Completions(r, ctx.Args().First()) {
		fmt.Println(s)
	}
	return nil
}

func resolve(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("usage: njscore resolve <member chain>")
	}
	e, logger, err := newEngine(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	r, err := e.NewVM()
	if err != nil {
		return err
	}
	v, err := driver.Lookup(r, ctx.Args().First())
	if err != nil {
		return err
	}
	name := e.FunctionName(r, v)
	if name == "" {
		return fmt.Errorf("%s is not a builtin method", ctx.Args().First())
	}
	fmt.Println(name)
	return nil
}

func info(ctx *cli.Context) error {
	e, logger, err := newEngine(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	r, err := e.NewVM()
	if err != nil {
		return err
	}
	t := e.Template()
	fmt.Printf("template:   %s (%d namespaces, %d functions)\n",
		humanize.IBytes(e.TemplateSize()), t.NumNamespaces(), t.NumFunctions())
	fmt.Printf("instance:   %s\n", humanize.IBytes(r.Pool().Used()))
	fmt.Printf("globals:    %s\n", humanize.Comma(int64(len(r.Globals.Names()))))
	return nil
}
