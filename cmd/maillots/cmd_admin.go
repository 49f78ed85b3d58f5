package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kdiomande/maillots/client"
)

var apiURL string

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:4000", "URL de l'API commandes")
}

func newAPI() *client.API {
	return client.NewAPI(apiURL, client.NewFileStorage(client.DefaultStoragePath()))
}

// maillots login: authenticate and store the session token.
var loginCmd = &cobra.Command{
	Use:   "login <username> <password>",
	Short: "Se connecter au panneau admin",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		if err := newAPI().Login(ctx, args[0], args[1]); err != nil {
			if errors.Is(err, client.ErrInvalidCredentials) {
				return errors.New("identifiants invalides")
			}
			return err
		}
		fmt.Println("Connecté. Jeton valable 2 heures.")
		return nil
	},
}

// maillots logout: forget the stored token.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Oublier le jeton de session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newAPI().Logout(); err != nil {
			return err
		}
		fmt.Println("Déconnecté.")
		return nil
	},
}

var (
	searchFlag string
	statusFlag string
	yesFlag    bool
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Gérer les commandes (admin)",
}

func init() {
	ordersListCmd.Flags().StringVar(&searchFlag, "search", "", "recherche libre (nom, contact, lieu, article)")
	ordersListCmd.Flags().StringVar(&statusFlag, "status", "all", "filtre: all | livree | nonlivree")
	ordersDeleteCmd.Flags().BoolVar(&yesFlag, "yes", false, "confirmer la suppression sans second appel")

	ordersCmd.AddCommand(ordersListCmd)
	ordersCmd.AddCommand(ordersDeliverCmd)
	ordersCmd.AddCommand(ordersUndeliverCmd)
	ordersCmd.AddCommand(ordersDeleteCmd)
}

func loadDashboard(ctx context.Context) (*client.Dashboard, error) {
	d := client.NewDashboard(newAPI())
	if err := d.Load(ctx); err != nil {
		if errors.Is(err, client.ErrSessionExpired) {
			return nil, errors.New("session expirée — reconnectez-vous avec `maillots login`")
		}
		return nil, err
	}
	return d, nil
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lister les commandes reçues",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		d, err := loadDashboard(ctx)
		if err != nil {
			return err
		}

		d.Search = searchFlag
		switch statusFlag {
		case "livree":
			d.Filter = client.FilterDelivered
		case "nonlivree":
			d.Filter = client.FilterNotDelivered
		default:
			d.Filter = client.FilterAll
		}

		visible := d.Visible()
		if len(visible) == 0 {
			fmt.Println("Aucune commande reçue pour le moment.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNOM\tLIEU\tCONTACT\tDATE\tTOTAL\tLIVRÉE")
		for _, o := range visible {
			livree := "non"
			if o.Livree {
				livree = "oui"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.0f FCFA\t%s\n",
				o.ID.Hex(), o.Name, o.Location, o.Contact, o.Date, o.Total(), livree)
		}
		return w.Flush()
	},
}

var ordersDeliverCmd = &cobra.Command{
	Use:   "deliver <id>",
	Short: "Marquer une commande comme livrée",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setDelivered(cmd, args[0], true) },
}

var ordersUndeliverCmd = &cobra.Command{
	Use:   "undeliver <id>",
	Short: "Remettre une commande à non livrée",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setDelivered(cmd, args[0], false) },
}

func setDelivered(cmd *cobra.Command, id string, delivered bool) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	if err := newAPI().SetDelivered(ctx, id, delivered); err != nil {
		return err
	}
	if delivered {
		fmt.Println("Commande marquée comme livrée.")
	} else {
		fmt.Println("Commande repassée à non livrée.")
	}
	return nil
}

var ordersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Supprimer une commande (définitif)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !yesFlag {
			return errors.New("suppression définitive — relancez avec --yes pour confirmer")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		if err := newAPI().DeleteOrder(ctx, args[0]); err != nil {
			if errors.Is(err, client.ErrNotFound) {
				return errors.New("commande non trouvée")
			}
			return err
		}
		fmt.Println("Commande supprimée.")
		return nil
	},
}
