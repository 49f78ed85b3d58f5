package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kdiomande/maillots/app/routes"
	"github.com/kdiomande/maillots/app/services"
	"github.com/kdiomande/maillots/internal/server"
	"github.com/kdiomande/maillots/pkg/auth"
	"github.com/kdiomande/maillots/pkg/router"
)

// maillots serve: start the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Démarrer le serveur HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// maillots route:list: print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "Lister les routes nommées",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := router.New()
		routes.RegisterAPI(r, routes.Deps{
			Orders: services.NewOrderService(nil),
			Auth:   services.NewAuthService(),
		})

		infos := r.Routes()
		if len(infos) == 0 {
			fmt.Println("Aucune route nommée.")
			return nil
		}

		sort.Slice(infos, func(i, j int) bool {
			if infos[i].Path != infos[j].Path {
				return infos[i].Path < infos[j].Path
			}
			return infos[i].Method < infos[j].Method
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

// maillots hash-pass: bcrypt-hash a password for ADMIN_PASS_HASH.
var hashPassCmd = &cobra.Command{
	Use:   "hash-pass <password>",
	Short: "Hacher un mot de passe admin (pour ADMIN_PASS_HASH)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}
