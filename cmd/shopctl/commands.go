package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"sunushop-backend/pkg/client"
	"sunushop-backend/pkg/utils"
)

const dateLayout = "2006-01-02"

func (a *app) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the token for later commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = a.v.GetString("password")
			}
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Mot de passe : ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && err != io.EOF {
					return err
				}
				password = strings.TrimSpace(line)
			}

			res, err := a.api.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := a.session.Save(); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Connecté en tant que %s (%s), valide jusqu'au %s\n",
				res.User.Email, res.User.Role, res.ExpiresAt.Local().Format("02/01/2006 15:04"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account e-mail")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (or SHOPCTL_PASSWORD, or prompt)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.session.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Déconnecté")
			return nil
		},
	}
}

func (a *app) quoteCmd() *cobra.Command {
	var country, tarif string
	cmd := &cobra.Command{
		Use:   "quote <city>",
		Short: "Compute the delivery fee for a destination",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.api.Quote(cmd.Context(), strings.Join(args, " "), country, tarif)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch q.Status {
			case "available":
				if q.RequiresCarrier && q.Selected == nil {
					fmt.Fprintf(out, "%s (%s) : choisissez un transporteur\n", q.Query, q.CountryName)
				} else {
					fmt.Fprintf(out, "%s (%s) : %s", q.Query, q.CountryName, utils.FormatFCFA(q.Fee))
					if q.DeliveryTime != "" {
						fmt.Fprintf(out, ", %s", q.DeliveryTime)
					}
					fmt.Fprintln(out)
				}
			default:
				fmt.Fprintf(out, "%s : %s\n", q.Status, q.Message)
			}
			if len(q.Options) == 0 {
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TARIF\tTRANSPORTEUR\tPRIX\tÉCONOMIE\tDÉLAI")
			for _, o := range q.Options {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d%%\t%s\n",
					o.ZoneTarifID, o.TransporteurName, utils.FormatFCFA(o.Price), o.SavingsPercent, o.DeliveryTime)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&country, "country", "c", "", "ISO country code (server default when empty)")
	cmd.Flags().StringVarP(&tarif, "tarif", "t", "", "zone tarif id of the chosen carrier")
	return cmd
}

func (a *app) zonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "zones",
		Short: "List international delivery zones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			zones, err := a.api.ListZones(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tZONE\tPAYS\tPRIX\tSTATUT")
			for _, z := range zones {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					z.ID, z.Name, strings.Join(z.Countries, ","), utils.FormatFCFA(z.Price), z.Status)
			}
			return tw.Flush()
		},
	}
}

func (a *app) countriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "countries [query]",
		Short: "Search the country list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) == 1 {
				query = args[0]
			}
			list, err := a.api.ListCountries(cmd.Context(), query)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Code, c.Name, c.NameEN)
			}
			return tw.Flush()
		},
	}
}

func (a *app) citiesCmd() *cobra.Command {
	var country string
	cmd := &cobra.Command{
		Use:   "cities <query>",
		Short: "Autocomplete city names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cities, err := a.api.SearchCities(cmd.Context(), strings.Join(args, " "), country)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range cities {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", c.Name, c.AdminName, c.CountryCode, c.Population)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&country, "country", "c", "", "restrict to an ISO country code")
	return cmd
}

func (a *app) checkoutCmd() *cobra.Command {
	var guest bool
	cmd := &cobra.Command{
		Use:   "checkout <order.json>",
		Short: "Place an order described by a JSON file (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			var req client.OrderRequest
			if err := json.NewDecoder(r).Decode(&req); err != nil {
				return fmt.Errorf("read order: %w", err)
			}

			place := a.api.PlaceOrder
			if guest {
				place = a.api.PlaceGuestOrder
			}
			res, err := place(cmd.Context(), req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Commande %s enregistrée : %s (livraison %s)\n",
				res.Order.OrderNumber, utils.FormatFCFA(res.Order.TotalAmount), utils.FormatFCFA(res.Order.DeliveryFee))
			if res.RedirectURL != "" {
				fmt.Fprintf(out, "Paiement : %s\n", res.RedirectURL)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&guest, "guest", false, "order without signing in")
	return cmd
}

func (a *app) revenueCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "revenue",
		Short: "Show the signed-in vendor's design sales",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := parseDay(from)
			if err != nil {
				return err
			}
			end, err := parseDay(to)
			if err != nil {
				return err
			}
			rev, err := a.api.VendorRevenue(cmd.Context(), start, end)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Du %s au %s\n", rev.Start.Format(dateLayout), rev.End.Format(dateLayout))
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DESIGN\tVENDUS\tVENTES\tCOMMISSION\tCOMMANDES")
			for _, d := range rev.Designs {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d\n",
					d.ProductName, d.UnitsSold, utils.FormatFCFA(d.GrossSales), utils.FormatFCFA(d.CommissionEarned), d.OrderCount)
			}
			fmt.Fprintf(tw, "TOTAL\t%d\t%s\t%s\t%d\n",
				rev.TotalUnits, utils.FormatFCFA(rev.TotalGrossSales), utils.FormatFCFA(rev.TotalCommission), rev.TotalOrders)
			if err := tw.Flush(); err != nil {
				return err
			}
			if rev.BestSellingTitle != "" {
				fmt.Fprintf(out, "Meilleure vente : %s\n", rev.BestSellingTitle)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	return cmd
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: format attendu AAAA-MM-JJ", s)
	}
	return t, nil
}
