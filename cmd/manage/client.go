package main

import (
	"fmt"
	"strings"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/auth"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	clientID     string
	clientSecret string
	clientName   string
	grantTypes   string
	ownerEmail   string
)

// createClientCmd gets or creates an OAuth client. The secret is printed only
// when the client is created.
var createClientCmd = &cobra.Command{
	Use:   "create-client",
	Short: "Get or create an OAuth2 client",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := models.OAuthClient{
			ID:         clientID,
			Name:       clientName,
			Scopes:     "read write",
			GrantTypes: grantTypes,
		}
		if strings.Contains(grantTypes, "client_credentials") {
			if ownerEmail == "" {
				return fmt.Errorf("--owner is required for client_credentials clients")
			}
			owner, err := repos.Users.GetByEmail(cmd.Context(), ownerEmail)
			if err != nil {
				return fmt.Errorf("owner %s: %w", ownerEmail, err)
			}
			client.UserID = owner.ID
		}
		if clientSecret == "" {
			clientSecret = uuid.New().String()
		}

		created, isNew, err := services.NewClientService(db).EnsureClient(cmd.Context(), client, clientSecret)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !isNew {
			fmt.Fprintf(out, "Client already exists\nClient ID: %s\n", created.ID)
			return nil
		}
		fmt.Fprintf(out, "Client created\nClient ID: %s\nClient Secret: %s\n", created.ID, clientSecret)
		return nil
	},
}

var purgeTokensCmd = &cobra.Command{
	Use:   "purge-tokens",
	Short: "Delete expired access tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := auth.NewGormTokenStore(db).PurgeExpired(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Expired tokens removed: %d\n", removed)
		return nil
	},
}

func init() {
	createClientCmd.Flags().StringVar(&clientID, "id", "foodgram-web", "Client ID")
	createClientCmd.Flags().StringVar(&clientSecret, "secret", "", "Client secret, generated when empty")
	createClientCmd.Flags().StringVar(&clientName, "name", "Foodgram web", "Display name")
	createClientCmd.Flags().StringVar(&grantTypes, "grant-types", "password", "Space-separated grant types")
	createClientCmd.Flags().StringVar(&ownerEmail, "owner", "", "Email of the user client_credentials tokens act as")
	rootCmd.AddCommand(createClientCmd, purgeTokensCmd)
}
