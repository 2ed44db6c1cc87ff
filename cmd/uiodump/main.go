// Command uiodump inspects uio container files: it prints the header,
// lists the entry/box/dataset tree, and dumps single entries.
package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/scigolib/uio"
)

var cli struct {
	Header HeaderCmd `cmd:"" help:"Print the file header text."`
	List   ListCmd   `cmd:"" help:"List the entry tree."`
	Show   ShowCmd   `cmd:"" help:"Print one entry's metadata and data."`
}

// HeaderCmd prints the free text of the header descriptor.
type HeaderCmd struct {
	File string `arg:"" help:"uio file to read." type:"existingfile"`
}

// Run implements the header command.
func (c *HeaderCmd) Run() error {
	f, err := uio.Open(c.File)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	fmt.Printf("fileform uio %s\n", f.Header())
	return nil
}

// ListCmd walks the tree and prints one line per object.
type ListCmd struct {
	File string `arg:"" help:"uio file to read." type:"existingfile"`
}

// Run implements the list command.
func (c *ListCmd) Run() error {
	f, err := uio.Open(c.File)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	f.Walk(func(path string, obj uio.Object) {
		switch v := obj.(type) {
		case *uio.DataSet:
			fmt.Printf("%-40s %s\n", path, v)
		case *uio.Box:
			fmt.Printf("%-40s %s\n", path, v)
		case *uio.Entry:
			fmt.Printf("%-40s %s\n", path, v)
		}
	})
	return nil
}

// ShowCmd prints one entry, located anywhere in the tree, with its
// payload unless -m is given.
type ShowCmd struct {
	File     string `arg:"" help:"uio file to read." type:"existingfile"`
	Entry    string `arg:"" help:"Entry name to show."`
	MetaOnly bool   `short:"m" help:"Print metadata only, skip the payload."`
}

// Run implements the show command.
func (c *ShowCmd) Run() error {
	f, err := uio.Open(c.File)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	var found *uio.Entry
	f.Walk(func(path string, obj uio.Object) {
		if found != nil {
			return
		}
		if e, ok := obj.(*uio.Entry); ok && e.Name() == c.Entry {
			found = e
		}
	})
	if found == nil {
		return fmt.Errorf("%w: %q", uio.ErrNotFound, c.Entry)
	}

	fmt.Printf("%s\n", found)
	fmt.Printf("  position: %d\n", found.Position())
	if shape := found.Shape(); shape != nil {
		fmt.Printf("  shape:    %v (%d elements)\n", shape, found.Size())
	} else {
		fmt.Printf("  shape:    scalar\n")
	}
	for k, v := range found.Params() {
		fmt.Printf("  param %s=%q\n", k, v)
	}

	if c.MetaOnly || found.Kind() == "label" {
		return nil
	}
	data, err := found.Data()
	if err != nil {
		return err
	}
	fmt.Printf("  data:     %v\n", data)
	return nil
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("uiodump"),
		kong.Description("Inspect uio container files."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
