package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const patternSyntaxHelp = `Pattern syntax:

  word tokens    match identical words in the document
  punctuation    matches identical punctuation
  $NAME          metavariable; binds on first use, checked for equality after
  ...            ellipsis; matches any run of document atoms spanning
                 at most 10 lines, chainable by repeating the line
  $END           ends the pattern: the match is accepted at that point,
                 whatever follows it in the document; must be the last
                 element of its block
  indentation    an indented pattern block must fully match an indented
                 document block
`

// fmtCmd: sgrep fmt
var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Print the pattern syntax reference",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(patternSyntaxHelp)
	},
}
