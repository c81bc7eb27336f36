package main

import (
	"fmt"
	"io"
	"time"

	"github.com/joeydtaylor/steeze-dispatch/pkg/auth"
	"github.com/spf13/cobra"
)

var (
	tokenKeyFlag  string
	tokenNameFlag string
	tokenRoleFlag uint8
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign a short-lived access token for local testing",
	Long: `Sign an access token with an RSA private key. Production tokens come from
the issuing service; this is for exercising protected functions by hand.

Examples:
  dispatchd token --key keys/token.pem --name ops --role 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueToken(cmd.OutOrStdout(), tokenKeyFlag, tokenNameFlag, tokenRoleFlag, time.Now())
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenKeyFlag, "key", "", "PEM encoded RSA private key")
	tokenCmd.Flags().StringVar(&tokenNameFlag, "name", "", "user name carried in the token")
	tokenCmd.Flags().Uint8Var(&tokenRoleFlag, "role", auth.RoleService, "role bitmask")
	_ = tokenCmd.MarkFlagRequired("key")
	_ = tokenCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(tokenCmd)
}

func issueToken(w io.Writer, keyPath, name string, role uint8, now time.Time) error {
	key, err := auth.LoadPrivateKeyFile(keyPath)
	if err != nil {
		return err
	}
	tok, err := auth.Issue(auth.NewClaims(name, role, now), key)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, tok)
	return err
}
