package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var favCmd = &cobra.Command{
	Use:   "fav <id>",
	Short: "Toggle a favorite",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		set, err := a.gateway.Favorites(c.Context())
		if err != nil {
			return a.finish(err)
		}
		id := args[0]
		now, err := a.gateway.Toggle(c.Context(), id, set.Has(id))
		if err != nil {
			return a.finish(err)
		}
		if now {
			fmt.Println("Added to favorites.")
		} else {
			fmt.Println("Removed from favorites.")
		}
		return nil
	},
}

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorited product ids",
	RunE: func(c *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		set, err := a.gateway.Favorites(c.Context())
		if err != nil {
			return a.finish(err)
		}
		if len(set) == 0 {
			fmt.Println("No favorites yet.")
			return nil
		}
		for id := range set {
			fmt.Println(id)
		}
		return nil
	},
}

func init() {
	favCmd.AddCommand(favListCmd)
	rootCmd.AddCommand(favCmd)
}
