package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Mastel22/boondocks-bn-backend/internal/dto"
	"github.com/Mastel22/boondocks-bn-backend/internal/validation"
)

func prompt(label string) (string, error) {
	fmt.Print(label)
	input, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

var signinEmail string

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in and save the access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cfg, err := apiClient()
		if err != nil {
			return err
		}

		email := signinEmail
		if email == "" {
			if email, err = prompt("Email: "); err != nil {
				return err
			}
		}
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		resp, err := c.Signin(email, password)
		if err != nil {
			return err
		}
		if resp.TwoFARequired {
			code, err := prompt(fmt.Sprintf("%s code: ", resp.TwoFAType))
			if err != nil {
				return err
			}
			if resp, err = c.CompleteTwoFA(resp.TwoFAToken, code); err != nil {
				return err
			}
		}

		if err := cfg.SaveSession(resp.Email, resp.Token); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		printSuccess("Signed in as %s %s (%s)", resp.FirstName, resp.LastName, resp.Role)
		if !resp.IsVerified {
			printInfo("Your email is not verified yet; bookings and trips stay locked until it is.")
		}
		return nil
	},
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Forget the saved access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := apiClient()
		if err != nil {
			return err
		}
		if err := cfg.ClearSession(); err != nil {
			return err
		}
		printSuccess("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := apiClient()
		if err != nil {
			return err
		}
		me, err := c.Me()
		if err != nil {
			return err
		}
		printTable([]string{"ID", "NAME", "EMAIL", "ROLE", "VERIFIED", "2FA"}, [][]string{{
			strconv.FormatUint(uint64(me.ID), 10),
			me.FirstName + " " + me.LastName,
			me.Email,
			me.Role,
			strconv.FormatBool(me.IsVerified),
			me.TwoFAType,
		}})
		return nil
	},
}

var bookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "List and create accommodation bookings",
}

var bookingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your bookings",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := apiClient()
		if err != nil {
			return err
		}
		bookings, err := c.ListBookings()
		if err != nil {
			return err
		}
		if len(bookings) == 0 {
			printInfo("No bookings yet")
			return nil
		}

		rows := make([][]string, 0, len(bookings))
		for _, b := range bookings {
			rows = append(rows, []string{
				strconv.FormatUint(uint64(b.ID), 10),
				strconv.FormatUint(uint64(b.HotelID), 10),
				strconv.FormatUint(uint64(b.RoomID), 10),
				b.ArrivalDate.Format(validation.DateLayout),
				b.LeavingDate.Format(validation.DateLayout),
			})
		}
		printTable([]string{"ID", "HOTEL", "ROOM", "ARRIVAL", "LEAVING"}, rows)
		return nil
	},
}

var bookingReq dto.BookingRequest

var bookingsCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Book rooms in a hotel",
	Example: `  nomadctl bookings create --hotel 3 --rooms 7,8 --arrival 2026-12-01 --leaving 2026-12-04`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := apiClient()
		if err != nil {
			return err
		}
		resp, err := c.CreateBooking(bookingReq)
		if err != nil {
			return err
		}
		printSuccess("Booked %d room(s) in hotel %d from %s to %s",
			len(resp.Bookings), resp.HotelID, resp.ArrivalDate, resp.LeavingDate)
		return nil
	},
}

var twofaCmd = &cobra.Command{
	Use:   "twofa",
	Short: "Two-factor authentication",
}

var twofaStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show your 2FA configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := apiClient()
		if err != nil {
			return err
		}
		status, err := c.TwoFAStatus()
		if err != nil {
			return err
		}

		switch {
		case status.TwoFAType == "" || status.TwoFAType == "none":
			printInfo("Two-factor authentication is off")
		case strings.HasSuffix(status.TwoFAType, "_temp"):
			printInfo("%s is set up but not confirmed yet", strings.TrimSuffix(status.TwoFAType, "_temp"))
		default:
			printSuccess("Two-factor authentication is on (%s)", status.TwoFAType)
		}
		if status.PhoneNumber != "" {
			printInfo("Phone: %s", status.PhoneNumber)
		}
		return nil
	},
}

func init() {
	signinCmd.Flags().StringVar(&signinEmail, "email", "", "Account email (prompted when empty)")

	bookingsCreateCmd.Flags().UintVar(&bookingReq.HotelID, "hotel", 0, "Hotel ID")
	bookingsCreateCmd.Flags().UintSliceVar(&bookingReq.Rooms, "rooms", nil, "Room IDs, comma separated")
	bookingsCreateCmd.Flags().StringVar(&bookingReq.ArrivalDate, "arrival", "", "Arrival date (YYYY-MM-DD)")
	bookingsCreateCmd.Flags().StringVar(&bookingReq.LeavingDate, "leaving", "", "Leaving date (YYYY-MM-DD)")
	for _, name := range []string{"hotel", "rooms", "arrival", "leaving"} {
		_ = bookingsCreateCmd.MarkFlagRequired(name)
	}

	bookingsCmd.AddCommand(bookingsListCmd, bookingsCreateCmd)
	twofaCmd.AddCommand(twofaStatusCmd)
}
