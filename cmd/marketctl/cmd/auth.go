package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session",
	RunE: func(c *cobra.Command, args []string) error {
		email, _ := c.Flags().GetString("email")
		password, _ := c.Flags().GetString("password")

		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.auth.Login(c.Context(), email, password); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s.\n", a.auth.Current().Name)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE: func(c *cobra.Command, args []string) error {
		name, _ := c.Flags().GetString("name")
		email, _ := c.Flags().GetString("email")
		password, _ := c.Flags().GetString("password")

		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.auth.Register(c.Context(), name, email, password); err != nil {
			return err
		}
		fmt.Printf("Welcome, %s.\n", a.auth.Current().Name)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session",
	RunE: func(c *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.auth.Logout()
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(c *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		u := a.auth.Current()
		if u == nil {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Printf("%s <%s> (id %s)\n", u.Name, u.Email, u.ID)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringP("email", "e", "", "account email")
	loginCmd.Flags().StringP("password", "p", "", "account password")
	registerCmd.Flags().StringP("name", "n", "", "display name")
	registerCmd.Flags().StringP("email", "e", "", "account email")
	registerCmd.Flags().StringP("password", "p", "", "account password")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}
