package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/royal-guard/royalguard/internal/app/family"
	"github.com/royal-guard/royalguard/internal/domain"
)

func init() {
	parentCreateCmd.Flags().StringVar(&parentUsername, "username", "", "Login name (required)")
	parentCreateCmd.Flags().StringVar(&parentPassword, "password", "", "Password (required)")
	parentCreateCmd.Flags().StringVar(&parentName, "name", "", "Display name")
	_ = parentCreateCmd.MarkFlagRequired("username")
	_ = parentCreateCmd.MarkFlagRequired("password")

	catalogCmd.AddCommand(catalogListCmd, catalogAddCmd, catalogRemoveCmd)
	parentCmd.AddCommand(parentCreateCmd, parentShowCmd, parentLinkCmd, catalogCmd)
	rootCmd.AddCommand(parentCmd)
}

var (
	parentUsername string
	parentPassword string
	parentName     string
)

var parentCmd = &cobra.Command{
	Use:   "parent",
	Short: "Manage parents, linked children and reward catalogs",
}

var parentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Sign up a parent",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *family.Service) error {
			p, err := svc.CreateParent(cmd.Context(), family.ParentSignup{
				Username: parentUsername,
				Password: parentPassword,
				Name:     parentName,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created parent %s (%s)\n", p.Username, p.ID)
			return nil
		})
	},
}

var parentShowCmd = &cobra.Command{
	Use:   "show PARENT_ID",
	Short: "List the children a parent oversees",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *family.Service) error {
			p, err := svc.Parent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			children, err := svc.ListChildren(cmd.Context(), p.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Parent: %s (%s)\n", p.Name, p.Username)
			if len(children) == 0 {
				fmt.Fprintln(out, "No linked children. Run 'royalguard parent link' to add one.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLEVEL\tXP\tSILVER")
			for _, c := range children {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n",
					c.Profile.ID, c.Profile.Name, c.Profile.Level, c.Profile.XP, c.Profile.Tickets.Silver)
			}
			return w.Flush()
		})
	},
}

var parentLinkCmd = &cobra.Command{
	Use:   "link PARENT_ID CHILD_ID",
	Short: "Link an existing child to a parent",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *family.Service) error {
			if _, err := svc.LinkChild(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Linked.")
			return nil
		})
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage a parent's reward catalog",
}

var catalogListCmd = &cobra.Command{
	Use:     "list PARENT_ID",
	Aliases: []string{"ls"},
	Short:   "List reward catalog items",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *family.Service) error {
			items, err := svc.Catalog(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No rewards defined. Children draw from the default catalog.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIER\tTITLE")
			for _, it := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\n", it.ID, it.Tier, it.Title)
			}
			return w.Flush()
		})
	},
}

var catalogAddCmd = &cobra.Command{
	Use:   "add PARENT_ID TITLE common|rare|legendary",
	Short: "Add a reward to the catalog",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		tier, err := domain.ParseRewardTier(strings.ToUpper(args[2]))
		if err != nil {
			return err
		}
		return withService(func(svc *family.Service) error {
			it, err := svc.AddRewardItem(cmd.Context(), args[0], args[1], tier)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", it.Title, it.ID)
			return nil
		})
	},
}

var catalogRemoveCmd = &cobra.Command{
	Use:     "rm PARENT_ID ITEM_ID",
	Aliases: []string{"remove"},
	Short:   "Remove a reward from the catalog",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *family.Service) error {
			if err := svc.DeleteRewardItem(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed.")
			return nil
		})
	},
}
