package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-print"
	"github.com/spf13/cobra"

	client "github.com/africahr/go-leave-client"
	"github.com/africahr/go-leave-client/leave"
)

type app struct {
	cfg     Config
	store   *client.BunTokenStore
	session *client.SessionStore
	flow    *client.AuthFlow
	leave   *leave.Client
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, err
	}

	store, err := client.OpenSQLiteTokenStore(ctx, cfg.Token.DB)
	if err != nil {
		return nil, err
	}

	api := client.NewAPIClient(cfg.API.BaseURL + "/auth")
	session := client.NewSessionStore(api, store)
	flow := client.NewAuthFlow(api, session)

	return &app{
		cfg:     cfg,
		store:   store,
		session: session,
		flow:    flow,
		leave:   leave.New(cfg.API.BaseURL, session),
	}, nil
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}

// requireSession hydrates from the stored token and fails when no valid
// session exists.
func (a *app) requireSession(ctx context.Context) error {
	if err := a.session.Hydrate(ctx); err != nil {
		return err
	}
	if !a.session.Authenticated() {
		return fmt.Errorf("not logged in, run: leavectl login")
	}
	return nil
}

func main() {
	root := &cobra.Command{
		Use:           "leavectl",
		Short:         "AfricaHR leave-management client",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		loginCmd(),
		logoutCmd(),
		whoamiCmd(),
		registerCmd(),
		twoFactorCmd(),
		leaveCmd(),
		adminCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password (prompts for 2FA when required)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if password == "" {
				password = prompt("Password: ")
			}

			if err := a.flow.SubmitLogin(ctx, client.Credentials{Email: email, Password: password}); err != nil {
				return err
			}

			if a.session.Status() == client.StatusPendingTwoFactor {
				code := prompt("Two-factor code: ")
				if err := a.flow.SubmitTwoFactorCode(ctx, code); err != nil {
					return err
				}
			}

			snap := a.session.Snapshot()
			fmt.Printf("logged in as %s (%s)\n", snap.User.FullName(), snap.User.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.flow.Logout(ctx); err != nil {
				return err
			}
			fmt.Println("logged out")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.requireSession(ctx); err != nil {
				return err
			}

			snap := a.session.Snapshot()
			fmt.Println(print.MaybePrettyJSON(snap.User))

			if claims, err := a.session.TokenClaims(); err == nil && claims.ExpiresAt != nil {
				fmt.Printf("session expires at %s\n", claims.ExpiresAt)
			}
			return nil
		},
	}
}

func registerCmd() *cobra.Command {
	payload := client.RegisterPayload{Role: client.RoleUser}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if payload.Password == "" {
				payload.Password = prompt("Password: ")
			}
			if payload.ConfirmPassword == "" {
				payload.ConfirmPassword = prompt("Confirm password: ")
			}

			if err := a.flow.SubmitRegistration(ctx, payload); err != nil {
				return err
			}

			snap := a.session.Snapshot()
			fmt.Printf("registered and logged in as %s\n", snap.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&payload.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&payload.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&payload.Email, "email", "", "account email")
	cmd.Flags().StringVar(&payload.Password, "password", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&payload.Role, "role", client.RoleUser, "account role")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func twoFactorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "2fa",
		Short: "Two-factor authentication settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "setup",
		Short: "Provision a TOTP secret and print the otpauth URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.requireSession(ctx); err != nil {
				return err
			}

			secret, err := a.flow.GenerateTwoFactorSecret(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("secret: %s\n", secret.Secret)
			fmt.Printf("otpauth url: %s\n", secret.QRCodeURL)
			fmt.Println("scan the QR code, then run: leavectl 2fa enable")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "enable",
		Short: "Turn on two-factor authentication",
		RunE:  toggleTwoFactorRunE(true),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "disable",
		Short: "Turn off two-factor authentication",
		RunE:  toggleTwoFactorRunE(false),
	})

	return cmd
}

func toggleTwoFactorRunE(enable bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.requireSession(ctx); err != nil {
			return err
		}

		if err := a.flow.ToggleTwoFactor(ctx, enable); err != nil {
			return err
		}

		if enable {
			fmt.Println("two-factor authentication enabled")
		} else {
			fmt.Println("two-factor authentication disabled")
		}
		return nil
	}
}

func leaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leave",
		Short: "Leave requests and balances",
	}

	var payload leave.SubmitPayload
	submit := &cobra.Command{
		Use:   "submit",
		Short: "File a new leave request",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.requireSession(ctx); err != nil {
				return err
			}

			req, err := a.leave.SubmitRequest(ctx, payload)
			if err != nil {
				return err
			}
			fmt.Println(print.MaybePrettyJSON(req))
			return nil
		},
	}
	submit.Flags().StringVar(&payload.LeaveType, "type", "", "leave type code")
	submit.Flags().StringVar(&payload.StartDate, "from", "", "start date (YYYY-MM-DD)")
	submit.Flags().StringVar(&payload.EndDate, "to", "", "end date (YYYY-MM-DD)")
	submit.Flags().StringVar(&payload.Reason, "reason", "", "request reason")
	_ = submit.MarkFlagRequired("type")
	_ = submit.MarkFlagRequired("from")
	_ = submit.MarkFlagRequired("to")

	cmd.AddCommand(submit)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List visible leave requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.requireSession(ctx); err != nil {
				return err
			}

			reqs, err := a.leave.ListRequests(ctx)
			if err != nil {
				return err
			}
			fmt.Println(print.MaybePrettyJSON(reqs))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "balance",
		Short: "Show leave balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.requireSession(ctx); err != nil {
				return err
			}

			balances, err := a.leave.Balances(ctx)
			if err != nil {
				return err
			}
			fmt.Println(print.MaybePrettyJSON(balances))
			return nil
		},
	})

	return cmd
}

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Approval and leave-type administration",
	}

	cmd.AddCommand(decisionCmd("approve", "Approve a leave request", "approved", func(ctx context.Context, a *app, id int64) error {
		return a.leave.Approve(ctx, id)
	}))
	cmd.AddCommand(decisionCmd("reject", "Reject a leave request", "rejected", func(ctx context.Context, a *app, id int64) error {
		return a.leave.Reject(ctx, id)
	}))

	types := &cobra.Command{
		Use:   "types",
		Short: "Leave-type configuration",
	}

	types.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured leave types",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.requireSession(ctx); err != nil {
				return err
			}

			out, err := a.leave.ListTypes(ctx)
			if err != nil {
				return err
			}
			fmt.Println(print.MaybePrettyJSON(out))
			return nil
		},
	})

	var t leave.Type
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a leave type",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.requireSession(ctx); err != nil {
				return err
			}

			out, err := a.leave.CreateType(ctx, t)
			if err != nil {
				return err
			}
			fmt.Println(print.MaybePrettyJSON(out))
			return nil
		},
	}
	create.Flags().StringVar(&t.Name, "name", "", "display name")
	create.Flags().StringVar(&t.Code, "code", "", "unique code")
	create.Flags().StringVar(&t.Description, "description", "", "description")
	create.Flags().Float64Var(&t.DefaultBalance, "default-balance", 0, "starting balance in days")
	create.Flags().Float64Var(&t.MonthlyAccrual, "monthly-accrual", 0, "days accrued per month")
	create.Flags().IntVar(&t.MaxCarryForward, "max-carry-forward", 0, "max days carried into next year")
	create.Flags().BoolVar(&t.RequiresMedicalCertificate, "requires-medical-certificate", false, "require a medical certificate")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("code")

	types.AddCommand(create)

	var upd leave.Type
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Replace a leave type's configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid leave type id %q", args[0])
			}
			upd.ID = id

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.requireSession(ctx); err != nil {
				return err
			}

			out, err := a.leave.UpdateType(ctx, upd)
			if err != nil {
				return err
			}
			fmt.Println(print.MaybePrettyJSON(out))
			return nil
		},
	}
	update.Flags().StringVar(&upd.Name, "name", "", "display name")
	update.Flags().StringVar(&upd.Code, "code", "", "unique code")
	update.Flags().StringVar(&upd.Description, "description", "", "description")
	update.Flags().Float64Var(&upd.DefaultBalance, "default-balance", 0, "starting balance in days")
	update.Flags().Float64Var(&upd.MonthlyAccrual, "monthly-accrual", 0, "days accrued per month")
	update.Flags().IntVar(&upd.MaxCarryForward, "max-carry-forward", 0, "max days carried into next year")
	update.Flags().BoolVar(&upd.RequiresMedicalCertificate, "requires-medical-certificate", false, "require a medical certificate")
	_ = update.MarkFlagRequired("name")
	_ = update.MarkFlagRequired("code")

	types.AddCommand(update)

	types.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete a leave type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid leave type id %q", args[0])
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.requireSession(ctx); err != nil {
				return err
			}

			if err := a.leave.DeleteType(ctx, id); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	})

	cmd.AddCommand(types)

	return cmd
}

func decisionCmd(use, short, done string, run func(context.Context, *app, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid request id %q", args[0])
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.requireSession(ctx); err != nil {
				return err
			}

			if err := run(ctx, a, id); err != nil {
				return err
			}
			fmt.Println(done)
			return nil
		},
	}
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
