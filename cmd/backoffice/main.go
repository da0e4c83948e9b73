package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/splinxplanet/go-backoffice/components/gridview"
	"github.com/splinxplanet/go-backoffice/pkg/catalog"
	"github.com/splinxplanet/go-backoffice/pkg/client"
	"github.com/splinxplanet/go-backoffice/pkg/resource"
	"github.com/splinxplanet/go-backoffice/pkg/scene"
	"github.com/splinxplanet/go-backoffice/pkg/session"
	"github.com/splinxplanet/go-backoffice/pkg/store"
	"github.com/splinxplanet/go-backoffice/pkg/workflow"
)

const (
	envBaseURL = "SPLINX_API_URL"
	envToken   = "SPLINX_ADMIN_TOKEN"
)

var (
	flagBaseURL string
	flagCatalog string
	flagVerbose bool
)

func main() {
	// A missing .env is fine; flags and the environment still apply.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "backoffice",
		Short:         "Splinx Planet back-office admin tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagBaseURL, "base-url", os.Getenv(envBaseURL), "backend base URL")
	root.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "YAML catalog overriding the built-in resources")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newListCmd(), newViewCmd(), newCreateCmd(), newEditCmd(), newDeleteCmd(), newServeCmd(), newResourcesCmd())

	if err := root.Execute(); err != nil {
		color.Red("✖ %v", err)
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	if flagVerbose {
		log, err := zap.NewDevelopment()
		if err == nil {
			return log
		}
	}
	return zap.NewNop()
}

type colorNotifier struct{}

func (colorNotifier) Success(message string) { color.Green("✔ %s", message) }
func (colorNotifier) Error(message string)   { color.Red("✖ %s", message) }

func descriptors() ([]resource.Descriptor, error) {
	base := catalog.Builtin()
	if flagCatalog == "" {
		return base, nil
	}
	overlays, err := catalog.LoadFile(flagCatalog)
	if err != nil {
		return nil, err
	}
	return catalog.Merge(base, overlays), nil
}

func lookupDescriptor(name string) (resource.Descriptor, error) {
	all, err := descriptors()
	if err != nil {
		return resource.Descriptor{}, err
	}
	for _, desc := range all {
		if desc.Name == name {
			return desc, nil
		}
	}
	return resource.Descriptor{}, fmt.Errorf("unknown resource %q (see `backoffice resources`)", name)
}

func newSceneFor(name string) (*scene.Controller, error) {
	if flagBaseURL == "" {
		return nil, fmt.Errorf("backend base URL is required (--base-url or %s)", envBaseURL)
	}
	desc, err := lookupDescriptor(name)
	if err != nil {
		return nil, err
	}
	rc, err := client.New(flagBaseURL, desc, session.FromEnv(envToken), client.WithLogger(newLogger()))
	if err != nil {
		return nil, err
	}
	return scene.New(desc, rc,
		scene.WithLogger(newLogger()),
		scene.WithNotifier(colorNotifier{}))
}

func mountScene(ctx context.Context, name string) (*scene.Controller, error) {
	sc, err := newSceneFor(name)
	if err != nil {
		return nil, err
	}
	if err := sc.Mount(ctx); err != nil {
		sc.Unmount()
		return nil, err
	}
	return sc, nil
}

func findRecord(sc *scene.Controller, id string) (resource.Record, error) {
	pk := sc.Descriptor().PrimaryKey
	for _, item := range sc.Store().Items() {
		if existing, ok := item.ID(pk); ok && existing == id {
			return item, nil
		}
	}
	return nil, fmt.Errorf("no %s with %s %q", sc.Descriptor().Name, pk, id)
}

func newResourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List the manageable resource types",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := descriptors()
			if err != nil {
				return err
			}
			for _, desc := range all {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", desc.Name, desc.Title)
			}
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	var (
		search   string
		page     int
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "List records in a searchable, paginated grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := mountScene(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sc.Unmount()

			sc.Search(search)
			sc.SetPageSize(pageSize)
			sc.SetPage(page)
			printPage(cmd, sc.Descriptor(), sc.Rows())
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter text")
	cmd.Flags().IntVar(&page, "page", 0, "zero-based page index")
	cmd.Flags().IntVar(&pageSize, "page-size", 10, "rows per page")
	return cmd
}

func printPage(cmd *cobra.Command, desc resource.Descriptor, page store.Page) {
	out := cmd.OutOrStdout()
	header := color.New(color.Bold)
	columns := desc.SearchFields()

	_, _ = header.Fprintf(out, "%-26s", desc.PrimaryKey)
	for _, column := range columns {
		_, _ = header.Fprintf(out, " %-20s", column)
	}
	fmt.Fprintln(out)

	for _, row := range page.Items {
		id, _ := row.ID(desc.PrimaryKey)
		fmt.Fprintf(out, "%-26s", id)
		for _, column := range columns {
			fmt.Fprintf(out, " %-20s", truncate(row.StringValue(column), 20))
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "\npage %d (%d of %d records)\n", page.Page, len(page.Items), page.Total)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <resource> <id>",
		Short: "Show one record through its field schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := mountScene(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sc.Unmount()

			record, err := findRecord(sc, args[1])
			if err != nil {
				return err
			}
			printFields(cmd, sc.View(record), "")
			return nil
		},
	}
}

func printFields(cmd *cobra.Command, fields []workflow.FieldValue, indent string) {
	out := cmd.OutOrStdout()
	label := color.New(color.FgCyan)
	for _, field := range fields {
		if len(field.Children) > 0 {
			_, _ = label.Fprintf(out, "%s%s:\n", indent, field.Label)
			printFields(cmd, field.Children, indent+"  ")
			continue
		}
		_, _ = label.Fprintf(out, "%s%-18s", indent, field.Label)
		fmt.Fprintf(out, " %s\n", field.Value)
	}
}

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <resource>",
		Short: "Create a record through an interactive form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := mountScene(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sc.Unmount()

			form := sc.NewFormSession(nil)
			if err := promptForm(form, sc.Descriptor().Schema); err != nil {
				return err
			}
			return form.Submit(cmd.Context(), func(ctx context.Context, payload resource.Record) error {
				_, err := sc.Create(ctx, payload)
				return err
			})
		},
	}
}

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <resource> <id>",
		Short: "Edit a record; only changed fields are sent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := mountScene(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sc.Unmount()

			original, err := findRecord(sc, args[1])
			if err != nil {
				return err
			}
			form := sc.NewFormSession(original)
			if err := promptForm(form, sc.Descriptor().Schema); err != nil {
				return err
			}
			return form.Submit(cmd.Context(), func(ctx context.Context, payload resource.Record) error {
				_, err := sc.Edit(ctx, original, payload)
				return err
			})
		},
	}
}

func newDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete a record after explicit confirmation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := mountScene(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sc.Unmount()

			record, err := findRecord(sc, args[1])
			if err != nil {
				return err
			}

			confirm := func(target resource.Record) bool {
				if yes {
					return true
				}
				id, _ := target.ID(sc.Descriptor().PrimaryKey)
				answer := false
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("Delete %s %s? This cannot be undone.", sc.Descriptor().Name, id),
				}
				if err := survey.AskOne(prompt, &answer); err != nil {
					return false
				}
				return answer
			}

			err = sc.Delete(cmd.Context(), record, confirm)
			if errors.Is(err, workflow.ErrNotConfirmed) {
				fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard grid feeds for every catalog resource",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagBaseURL == "" {
				return fmt.Errorf("backend base URL is required (--base-url or %s)", envBaseURL)
			}
			all, err := descriptors()
			if err != nil {
				return err
			}

			log := newLogger()
			tokens := session.FromEnv(envToken)
			guard := bearerGuard(tokens.Token())

			router := chi.NewRouter()
			router.Use(middleware.RequestID, middleware.Recoverer)

			for _, desc := range all {
				rc, err := client.New(flagBaseURL, desc, tokens, client.WithLogger(log))
				if err != nil {
					return err
				}
				st := store.New(desc, rc, store.WithLogger(log))
				if err := st.Refresh(cmd.Context()); err != nil {
					log.Warn("initial refresh failed; serving stale-empty grid",
						zap.String("resource", desc.Name), zap.Error(err))
				}
				pattern, err := gridview.RegisterRoutes(router, "/api",
					gridview.WithRoutePath("/"+desc.Name),
					gridview.WithSource(st),
					gridview.WithGuard(guard),
				)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "mounted %s\n", pattern)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", addr)
			return http.ListenAndServe(addr, router)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8088", "listen address")
	return cmd
}

// bearerGuard requires the session's own token on incoming grid requests.
// With no token configured the feeds are open, which suits local development.
func bearerGuard(token string) gridview.GuardFunc {
	if token == "" {
		return nil
	}
	want := "Bearer " + token
	return func(r *http.Request) error {
		if strings.TrimSpace(r.Header.Get("Authorization")) != want {
			return gridview.StatusError{Code: http.StatusUnauthorized}
		}
		return nil
	}
}
