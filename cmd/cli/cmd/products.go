package cmd

import (
	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the products available in the rate tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := loadRates()
		if err != nil {
			return err
		}

		t := newTable("Products", "CODE", "NAME")
		for _, p := range repo.Products() {
			t.addRow(p.Code, p.Name)
		}
		_, err = cmd.OutOrStdout().Write([]byte(t.render()))
		return err
	},
}
