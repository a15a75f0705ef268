package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vlasovmk/marketctl/internal/errs"
	"github.com/vlasovmk/marketctl/internal/market"
)

func draftFlags(c *cobra.Command) {
	c.Flags().StringP("title", "t", "", "listing title")
	c.Flags().Float64P("price", "P", 0, "price")
	c.Flags().StringP("description", "d", "", "description")
	c.Flags().StringP("image", "m", "", "image URL")
}

func draftFromFlags(c *cobra.Command) market.Draft {
	title, _ := c.Flags().GetString("title")
	price, _ := c.Flags().GetFloat64("price")
	description, _ := c.Flags().GetString("description")
	image, _ := c.Flags().GetString("image")
	return market.Draft{Title: title, Price: price, Description: description, Image: image}
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a listing",
	RunE: func(c *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.gateway.Create(c.Context(), draftFromFlags(c)); err != nil {
			return a.finish(err)
		}
		fmt.Println("Listing created.")
		cliNavigator{}.ToListings()
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a listing you own",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.gateway.Update(c.Context(), args[0], draftFromFlags(c)); err != nil {
			return a.finish(err)
		}
		fmt.Println("Listing updated.")
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a listing you own (permanent)",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		yes, _ := c.Flags().GetBool("yes")

		a, err := newApp()
		if err != nil {
			return err
		}

		p, err := a.gateway.Get(c.Context(), args[0])
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				fmt.Println("Listing not found.")
				os.Exit(1)
			}
			return a.finish(err)
		}

		if !yes && !confirm(fmt.Sprintf("Delete %q? This cannot be undone.", p.Title)) {
			fmt.Println("Cancelled.")
			return nil
		}
		if err := a.gateway.Delete(c.Context(), args[0]); err != nil {
			return a.finish(err)
		}
		fmt.Println("Listing deleted.")
		return nil
	},
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(sc.Text()))
	return answer == "y" || answer == "yes"
}

func init() {
	draftFlags(createCmd)
	draftFlags(editCmd)
	rmCmd.Flags().BoolP("yes", "y", false, "skip confirmation")

	rootCmd.AddCommand(createCmd, editCmd, rmCmd)
}
