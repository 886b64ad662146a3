package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/contactmerge/contactmerge/internal/addressbook"
	"github.com/contactmerge/contactmerge/internal/contact"
)

var (
	fieldsInputFormat   string
	fieldsInputEncoding string
)

var fieldsCmd = &cobra.Command{
	Use:   "fields <input-file>",
	Short: "List the fields found in an address-book file",
	Long: `Print every field name in the order it is first seen, which is the
column order used when exporting. The match and certainty columns are not listed.

Examples:
  contactmerge fields contacts.vcf
  contactmerge fields export.csv --input-encoding windows-1251`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFields(os.Stdout, args[0], fieldsInputFormat, fieldsInputEncoding); err != nil {
			if errors.Is(err, addressbook.ErrEmptyInput) {
				fmt.Fprintln(os.Stderr, "No contacts found in the input file.")
			} else {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			os.Exit(1)
		}
	},
}

func init() {
	fieldsCmd.Flags().StringVar(&fieldsInputFormat, "input-format", "", "Format of the input file (default: from extension)")
	fieldsCmd.Flags().StringVar(&fieldsInputEncoding, "input-encoding", "", "Character set of text input (default: utf-8)")
	rootCmd.AddCommand(fieldsCmd)
}

func runFields(out io.Writer, path, format, encoding string) error {
	f, err := pickFormat(format, path)
	if err != nil {
		return err
	}
	records, err := addressbook.Import(path, f, addressbook.Options{Encoding: encoding})
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%d contacts in %s\n\n", len(records), path)
	for i, name := range contact.FieldOrder(records) {
		fmt.Fprintf(out, "  %2d. %s\n", i+1, cyan(name))
	}
	return nil
}
