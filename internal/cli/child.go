package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/royal-guard/royalguard/internal/app/family"
	"github.com/royal-guard/royalguard/internal/domain"
)

func init() {
	childCreateCmd.Flags().StringVar(&childUsername, "username", "", "Login name (required)")
	childCreateCmd.Flags().StringVar(&childPassword, "password", "", "Password (required)")
	childCreateCmd.Flags().StringVar(&childName, "name", "", "Display name")
	childCreateCmd.Flags().IntVar(&childAge, "age", 0, "Age in years")
	childCreateCmd.Flags().StringVar(&childGender, "gender", "male", "male or female")
	childCreateCmd.Flags().StringVar(&childParent, "parent", "", "Link the new child to this parent")
	_ = childCreateCmd.MarkFlagRequired("username")
	_ = childCreateCmd.MarkFlagRequired("password")

	for _, c := range []*cobra.Command{childWaterCmd, childHabitCmd, childPoopCmd} {
		c.Flags().StringVar(&habitDate, "date", "", "Day as YYYY-MM-DD (default today)")
	}
	childPullCmd.Flags().StringVar(&pullTicket, "ticket", string(domain.TicketSilver), "Ticket to spend: silver or gold")
	childSummaryCmd.Flags().IntVar(&summaryDays, "days", 7, "Number of days, ending today")

	childCmd.AddCommand(childCreateCmd, childShowCmd, childWaterCmd, childHabitCmd,
		childPoopCmd, childPullCmd, childRedeemCmd, childSummaryCmd)
	rootCmd.AddCommand(childCmd)
}

var (
	childUsername string
	childPassword string
	childName     string
	childAge      int
	childGender   string
	childParent   string
	habitDate     string
	pullTicket    string
	summaryDays   int
)

var childCmd = &cobra.Command{
	Use:   "child",
	Short: "Manage children and log their habits",
}

var childCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Sign up a child",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := family.ChildSignup{
			Username: childUsername,
			Password: childPassword,
			Name:     childName,
			Age:      childAge,
			Gender:   domain.Gender(strings.ToUpper(childGender)),
		}
		return withService(func(svc *family.Service) error {
			var (
				c   domain.ChildData
				err error
			)
			if childParent != "" {
				c, err = svc.AddChildForParent(cmd.Context(), childParent, in)
			} else {
				c, err = svc.CreateChild(cmd.Context(), in)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created child %s (%s)\n", c.Profile.Username, c.Profile.ID)
			return nil
		})
	},
}

var childShowCmd = &cobra.Command{
	Use:   "show CHILD_ID",
	Short: "Show a child's level, tickets and rewards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *family.Service) error {
			c, err := svc.Child(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printChild(cmd.OutOrStdout(), c)
			return nil
		})
	},
}

var childWaterCmd = &cobra.Command{
	Use:   "water CHILD_ID COUNT",
	Short: "Set the number of glasses of water for a day (0-6)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("count must be a number: %w", err)
		}
		return withService(func(svc *family.Service) error {
			res, err := svc.SetWater(cmd.Context(), args[0], dayOrToday(svc), count)
			if err != nil {
				return err
			}
			printHabit(cmd.OutOrStdout(), res)
			return nil
		})
	},
}

var childHabitCmd = &cobra.Command{
	Use:   "habit CHILD_ID veggie|probiotics",
	Short: "Toggle a daily habit for a day",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := domain.ParseHabitKind(strings.ToUpper(args[1]))
		if err != nil {
			return err
		}
		return withService(func(svc *family.Service) error {
			res, err := svc.ToggleHabit(cmd.Context(), args[0], dayOrToday(svc), kind)
			if err != nil {
				return err
			}
			printHabit(cmd.OutOrStdout(), res)
			return nil
		})
	},
}

var childPoopCmd = &cobra.Command{
	Use:   "poop CHILD_ID hard|normal|soft|diarrhea",
	Short: "Record a bowel movement",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := domain.ParsePoopType(strings.ToUpper(args[1]))
		if err != nil {
			return err
		}
		return withService(func(svc *family.Service) error {
			res, err := svc.AddBowelMovement(cmd.Context(), args[0], dayOrToday(svc), typ)
			if err != nil {
				return err
			}
			printHabit(cmd.OutOrStdout(), res)
			return nil
		})
	},
}

var childPullCmd = &cobra.Command{
	Use:   "pull CHILD_ID",
	Short: "Spend a ticket on the reward gacha",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tier, err := domain.ParseTicketTier(strings.ToLower(pullTicket))
		if err != nil {
			return err
		}
		return withService(func(svc *family.Service) error {
			res, err := svc.Pull(cmd.Context(), args[0], tier)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Won: %s [%s]\n", res.Reward.Title, res.Reward.Tier)
			fmt.Fprintf(out, "Reward ID: %s\n", res.Reward.ID)
			return nil
		})
	},
}

var childRedeemCmd = &cobra.Command{
	Use:   "redeem CHILD_ID REWARD_ID",
	Short: "Mark a won reward as redeemed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *family.Service) error {
			_, redeemed, err := svc.Redeem(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !redeemed {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to redeem.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Redeemed.")
			return nil
		})
	},
}

var childSummaryCmd = &cobra.Command{
	Use:   "summary CHILD_ID",
	Short: "Show recent habit history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *family.Service) error {
			sum, err := svc.Summary(cmd.Context(), args[0], svc.Today(), summaryDays)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tWATER\tPOOP\tVEGGIE\tPROBIOTICS")
			for _, d := range sum.Days {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
					d.Date, d.Water, d.BowelMovements, check(d.Veggie), check(d.Probiotics))
			}
			w.Flush()
			fmt.Fprintf(cmd.OutOrStdout(), "\nWater goal met on %d of %d days.\n", sum.WaterGoalDays, len(sum.Days))
			return nil
		})
	},
}

func dayOrToday(svc *family.Service) string {
	if habitDate == "" {
		return svc.Today()
	}
	return habitDate
}

func check(done bool) string {
	if done {
		return "x"
	}
	return "-"
}
