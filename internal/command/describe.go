package command

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/publisher/internal/console"
)

// Describe narrates what c is about to do.
func Describe(p *console.Printer, c Command) {
	switch c := c.(type) {
	case *ExecCommand:
		p.Step("ExecCommand")
		p.Printf(">   %s\n", p.Cyan(c.String()))
	case *ScriptCommand:
		p.Step("ScriptCommand")
		p.Printf(">   %s\n", p.Cyan(c.Exec().String()))
	case *CopyCommand:
		p.Step("CopyCommand")
		describeCopy(p, c.Src, c.Dest, c.File)
	case *BulkCopyCommand:
		p.Step(fmt.Sprintf("BulkCopyCommand (%s)", console.Count(len(c.Files), "file", "files")))
		for _, file := range c.Files {
			describeCopy(p, c.Src, c.Dest, file)
		}
	case *RemoveCommand:
		p.Step("RemoveCommand")
		p.Printf("   %s\n", p.Yellow(c.Dir))
	default:
		panic(fmt.Sprintf("command: unknown command type %T", c))
	}
}

// Label names c in a single line for logs and error messages.
func Label(c Command) string {
	switch c := c.(type) {
	case *ExecCommand:
		return c.String()
	case *ScriptCommand:
		return c.String()
	case *CopyCommand:
		return "copy " + c.File
	case *BulkCopyCommand:
		return "copy " + console.Count(len(c.Files), "file", "files")
	case *RemoveCommand:
		return "remove " + c.Dir
	default:
		return fmt.Sprintf("%T", c)
	}
}

func describeCopy(p *console.Printer, src, dest, file string) {
	rel := filepath.FromSlash(file)
	p.Printf("   %s\n", p.Cyan(filepath.Join(src, rel)))
	p.Printf("   -> %s\n", p.Green(filepath.Join(dest, rel)))
}

// String renders the invocation as a single command line.
func (c *ExecCommand) String() string {
	return strings.TrimSpace(c.Program + " " + strings.Join(c.Args, " "))
}

// String renders the package-manager invocation.
func (c *ScriptCommand) String() string {
	return c.Exec().String()
}
