// Package main provides tokenctl, a CLI for issuing and debugging API tokens.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/codemastery/codemastery-api/application/port/outbound"
	domainerr "github.com/codemastery/codemastery-api/domain/error"
	"github.com/codemastery/codemastery-api/domain/valueobject"
	"github.com/codemastery/codemastery-api/infrastructure/config"
	"github.com/codemastery/codemastery-api/infrastructure/service/clock"
	"github.com/codemastery/codemastery-api/infrastructure/service/jwt"
)

var errNoSecret = errors.New("no signing secret: pass --secret or set JWT_SECRET")

func main() {
	if err := rootCmd(clock.NewUTC()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalOptions struct {
	secret string
	clock  outbound.Clock
}

func (o *globalOptions) signingSecret() ([]byte, error) {
	secret := o.secret
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		secret = os.Getenv("SECRET_KEY")
	}
	if secret == "" {
		return nil, errNoSecret
	}
	return []byte(secret), nil
}

func (o *globalOptions) codec() (*jwt.Codec, error) {
	secret, err := o.signingSecret()
	if err != nil {
		return nil, err
	}
	return jwt.NewCodec(secret)
}

func rootCmd(clk outbound.Clock) *cobra.Command {
	opts := &globalOptions{clock: clk}

	cmd := &cobra.Command{
		Use:   "tokenctl",
		Short: "Issue, verify and inspect CodeMastery API tokens",
		Long: `tokenctl works with the HS256 tokens the API issues.

Examples:
  tokenctl issue --subject ana@example.com          # Print a fresh token pair
  tokenctl issue --subject ana@example.com --type access
  tokenctl verify <token> --type refresh            # Check a token as the API would
  tokenctl inspect <token>                          # Show claims without the secret
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.secret, "secret", "", "Signing secret (defaults to $JWT_SECRET, then $SECRET_KEY)")

	cmd.AddCommand(issueCmd(opts), verifyCmd(opts), inspectCmd(opts))
	return cmd
}

func issueCmd(opts *globalOptions) *cobra.Command {
	var (
		subject    string
		tokenType  string
		accessTTL  time.Duration
		refreshTTL time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue an access token, a refresh token or a pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := opts.signingSecret()
			if err != nil {
				return err
			}
			cfg := config.TokenConfig{
				Secret:          secret,
				AccessTokenTTL:  accessTTL,
				RefreshTokenTTL: refreshTTL,
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			codec, err := jwt.NewCodec(cfg.Secret)
			if err != nil {
				return err
			}
			issuer := jwt.NewIssuer(codec, opts.clock, cfg)

			out := cmd.OutOrStdout()
			switch tokenType {
			case "pair":
				pair, err := issuer.IssuePair(subject)
				if err != nil {
					return err
				}
				return writeJSON(out, pair)
			case valueobject.TokenTypeAccess.String():
				token, err := issuer.IssueAccessToken(subject)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, token)
				return err
			case valueobject.TokenTypeRefresh.String():
				token, err := issuer.IssueRefreshToken(subject)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, token)
				return err
			}
			return fmt.Errorf("unknown token type %q (want access, refresh or pair)", tokenType)
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Token subject (the user's email)")
	cmd.Flags().StringVar(&tokenType, "type", "pair", "access, refresh or pair")
	cmd.Flags().DurationVar(&accessTTL, "access-ttl", config.DefaultAccessTokenTTL, "Access token lifetime")
	cmd.Flags().DurationVar(&refreshTTL, "refresh-ttl", config.DefaultRefreshTokenTTL, "Refresh token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func verifyCmd(opts *globalOptions) *cobra.Command {
	var tokenType string

	cmd := &cobra.Command{
		Use:   "verify <token>",
		Short: "Verify a token for one purpose and print its subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expected := valueobject.TokenType(tokenType)
			if !expected.Valid() {
				return fmt.Errorf("unknown token type %q (want access or refresh)", tokenType)
			}
			codec, err := opts.codec()
			if err != nil {
				return err
			}

			subject, err := jwt.NewVerifier(codec, opts.clock).Verify(args[0], expected)
			if err != nil {
				return fmt.Errorf("rejected (%s): %w", domainerr.Reason(err), err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "valid %s token for %s\n", expected, subject)
			return err
		},
	}

	cmd.Flags().StringVar(&tokenType, "type", valueobject.TokenTypeAccess.String(), "Expected token type: access or refresh")
	return cmd
}

type inspectOutput struct {
	Algorithm string    `json:"alg"`
	Subject   string    `json:"sub"`
	Type      string    `json:"type"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
	Expired   bool      `json:"expired"`
	Remaining string    `json:"remaining,omitempty"`
}

func inspectCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <token>",
		Short: "Print a token's header and claims without verifying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inspection, err := jwt.Inspect(args[0])
			if err != nil {
				return err
			}

			now := opts.clock.Now()
			claims := inspection.Claims
			out := inspectOutput{
				Algorithm: inspection.Algorithm,
				Subject:   claims.Subject,
				Type:      claims.Type.String(),
				IssuedAt:  claims.IssuedAt,
				ExpiresAt: claims.ExpiresAt,
				Expired:   now.After(claims.ExpiresAt),
			}
			if !out.Expired {
				out.Remaining = claims.ExpiresAt.Sub(now).Truncate(time.Second).String()
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
