package main

import (
	"fmt"

	"github.com/deppfellow/conference-central/internal/lib/email"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "email-preview [template]",
		Short: "Render an email template with sample data to stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := email.TemplateConferenceCreated
			if len(args) == 1 {
				name = email.Template(args[0])
			}
			if _, ok := email.PreviewData[name]; !ok {
				return fmt.Errorf("unknown email template %q", name)
			}

			body, err := email.Preview(name)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), body)
			return err
		},
	})
}
